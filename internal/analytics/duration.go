package analytics

import (
	"strconv"
	"strings"
)

// ParseDurationSeconds converts a paper's declared duration into seconds.
// Accepted forms: plain minutes ("90"), clock time ("1:30:00", "45:00"),
// and free text like "1h 30m" or "2 hours 15 minutes". Returns 0 when
// nothing parseable is found.
func ParseDurationSeconds(s string) int {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n * 60
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	return parseFreeText(s)
}

// parseClock handles HH:MM:SS and MM:SS.
func parseClock(s string) int {
	fields := strings.Split(s, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return 0
		}
		nums[i] = n
	}
	if len(nums) == 2 {
		return nums[0]*60 + nums[1]
	}
	return nums[0]*3600 + nums[1]*60 + nums[2]
}

// parseFreeText handles "1h 30m", "90 min", "2 hours 15 minutes".
func parseFreeText(s string) int {
	total := 0
	value := -1
	for _, tok := range splitUnits(s) {
		if n, err := strconv.Atoi(tok); err == nil {
			if value >= 0 {
				// Two numbers in a row: the first had no unit, assume minutes.
				total += value * 60
			}
			value = n
			continue
		}
		if value < 0 {
			continue
		}
		switch {
		case strings.HasPrefix(tok, "h"):
			total += value * 3600
		case strings.HasPrefix(tok, "m"):
			total += value * 60
		case strings.HasPrefix(tok, "s"):
			total += value
		}
		value = -1
	}
	if value >= 0 {
		total += value * 60
	}
	return total
}

// splitUnits breaks "1h30m" or "1h 30m" into ["1" "h" "30" "m"].
func splitUnits(s string) []string {
	var toks []string
	var cur strings.Builder
	curDigit := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if !curDigit {
				flush()
			}
			curDigit = true
			cur.WriteRune(r)
		case r >= 'a' && r <= 'z':
			if curDigit {
				flush()
			}
			curDigit = false
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return toks
}

package scoring

import (
	"fmt"
	"strings"

	"review-service/internal/models"
)

// Normalize converts the three legacy answer representations into one
// list of mark-scheme entries:
//
//  1. an explicit correct_answers list (returned as a copy),
//  2. a single correct_answer string,
//  3. MCQ options flagged is_correct.
//
// An empty result is a valid "no mark scheme" state, not an error.
func Normalize(item models.Scoreable) []models.CorrectAnswer {
	if item == nil {
		return []models.CorrectAnswer{}
	}

	if entries := item.GetCorrectAnswers(); len(entries) > 0 {
		out := make([]models.CorrectAnswer, len(entries))
		copy(out, entries)
		return out
	}

	if legacy := strings.TrimSpace(item.GetCorrectAnswer()); legacy != "" {
		return []models.CorrectAnswer{{Answer: legacy}}
	}

	var out []models.CorrectAnswer
	seen := map[string]bool{}
	for i, opt := range item.GetOptions() {
		if !opt.IsCorrect {
			continue
		}
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			text = "Option " + OptionLabel(labelIndex(opt.Order, i))
		}
		formatted := fmt.Sprintf("%s. %s", OptionLabel(labelIndex(opt.Order, i)), text)
		if seen[formatted] {
			continue
		}
		seen[formatted] = true
		out = append(out, models.CorrectAnswer{Answer: formatted})
	}
	if out == nil {
		out = []models.CorrectAnswer{}
	}
	return out
}

// labelIndex picks the 0-based label position: the option's 1-based
// order when positive, its array index otherwise.
func labelIndex(order, index int) int {
	if order > 0 {
		return order - 1
	}
	return index
}

// OptionLabel encodes a 0-based position alphabetically: 0→A, 25→Z,
// 26→AA, 27→AB and so on.
func OptionLabel(n int) string {
	if n < 0 {
		n = 0
	}
	var b []byte
	for n >= 0 {
		b = append([]byte{byte('A' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

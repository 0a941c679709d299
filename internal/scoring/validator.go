package scoring

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"review-service/internal/models"
)

// Verdict is a fractional correctness judgment. Score is always in
// [0,1]; the caller converts it to marks with score × item marks so the
// same validator serves questions, parts and subparts of any weight.
type Verdict struct {
	IsCorrect     bool                  `json:"is_correct"`
	Score         float64               `json:"score"`
	PartialCredit []models.CreditDetail `json:"partial_credit"`
}

// Matcher is the pluggable equivalence strategy applied to entries
// flagged accepts_equivalent_phrasing. The required baseline is exact
// normalized matching; no fuzzy algorithm is guessed here.
type Matcher func(submitted, accepted string) bool

// Validate judges a submitted answer against an item's mark scheme
// using the baseline exact matcher.
func Validate(item models.Scoreable, submitted interface{}) Verdict {
	return ValidateWith(item, submitted, nil)
}

// ValidateWith is Validate with a caller-supplied equivalence matcher.
func ValidateWith(item models.Scoreable, submitted interface{}, equiv Matcher) Verdict {
	verdict := Verdict{PartialCredit: []models.CreditDetail{}}
	if item == nil || IsUnanswered(submitted) {
		return verdict
	}

	if models.IsChoiceType(item.GetType()) {
		return validateChoice(item, submitted)
	}

	entries := Normalize(item)
	if len(entries) == 0 {
		// No mark scheme: conservative zero, never an error.
		return verdict
	}

	values := submittedValues(submitted)
	if len(values) == 0 {
		return verdict
	}

	requirement := schemeRequirement(entries)
	required := requirement.RequiredCount(len(entries))

	// Entries of a scheme where every slot is required can carry their
	// own mark weights. Alternatives ("any N from") are interchangeable,
	// so they always split credit evenly.
	weighted := requirement.AllMustMatch() && required == len(entries)
	totalWeight := 0.0
	if weighted {
		for _, e := range entries {
			totalWeight += e.MarkWeight()
		}
	}

	matchedEntries, usedValues := matchEntries(values, entries, equiv)
	applyErrorCarriedForward(values, entries, matchedEntries, usedValues)

	matched := 0
	for i, entry := range entries {
		how, ok := matchedEntries[i]
		if !ok {
			continue
		}
		matched++
		if matched > required {
			continue
		}
		earned := 1 / float64(required)
		if weighted {
			earned = entry.MarkWeight() / totalWeight
		}
		verdict.PartialCredit = append(verdict.PartialCredit, models.CreditDetail{
			Earned: earned,
			Reason: creditReason(entry, how),
		})
	}
	if matched > required {
		matched = required
	}

	if weighted {
		score := 0.0
		for _, d := range verdict.PartialCredit {
			score += d.Earned
		}
		verdict.Score = score
	} else {
		verdict.Score = float64(matched) / float64(required)
	}
	if requirement.AllMustMatch() {
		verdict.IsCorrect = matched == required
	} else {
		verdict.IsCorrect = matched >= required
	}
	return verdict
}

// validateChoice scores MCQ/true-false items: binary, driven entirely
// by the selected option's is_correct flag.
func validateChoice(item models.Scoreable, submitted interface{}) Verdict {
	verdict := Verdict{PartialCredit: []models.CreditDetail{}}
	selected := ""
	if values := submittedValues(submitted); len(values) > 0 {
		selected = values[0]
	}
	if selected == "" {
		return verdict
	}

	norm := normalizeText(selected)
	for i, opt := range item.GetOptions() {
		label := opt.Label
		if label == "" {
			label = OptionLabel(labelIndex(opt.Order, i))
		}
		if norm != normalizeText(label) && norm != normalizeText(opt.Text) {
			continue
		}
		if opt.IsCorrect {
			verdict.IsCorrect = true
			verdict.Score = 1
			verdict.PartialCredit = append(verdict.PartialCredit, models.CreditDetail{
				Earned: 1,
				Reason: fmt.Sprintf("selected correct option %s", label),
			})
		}
		return verdict
	}
	return verdict
}

type matchKind int

const (
	matchExact matchKind = iota
	matchEquivalent
	matchCarriedForward
)

// matchEntries pairs submitted values with mark-scheme entries. Each
// value satisfies at most one entry and vice versa.
func matchEntries(values []string, entries []models.CorrectAnswer, equiv Matcher) (map[int]matchKind, map[int]bool) {
	matched := map[int]matchKind{}
	used := map[int]bool{}
	for vi, value := range values {
		for ei, entry := range entries {
			if _, done := matched[ei]; done {
				continue
			}
			if normalizeText(value) == normalizeText(entry.Answer) {
				matched[ei] = matchExact
				used[vi] = true
				break
			}
			if entry.AcceptsEquivalentPhrasing && equiv != nil && equiv(value, entry.Answer) {
				matched[ei] = matchEquivalent
				used[vi] = true
				break
			}
		}
	}
	return matched, used
}

// applyErrorCarriedForward grants credit for a dependent entry whose
// linked prerequisite was answered wrongly, when the candidate supplied
// a follow-through answer of their own. The dependency is a data edge
// (linked_alternatives), never a per-question special case.
func applyErrorCarriedForward(values []string, entries []models.CorrectAnswer, matched map[int]matchKind, used map[int]bool) {
	// A carry-forward needs a genuine follow-through attempt: the
	// candidate must have filled every slot of the scheme before a
	// leftover value can earn a dependent entry's credit. A lone
	// wrong prerequisite is just a wrong answer.
	if len(values) < len(entries) {
		return
	}
	byAlternative := map[int]int{}
	for i, entry := range entries {
		if entry.AlternativeID != 0 {
			byAlternative[entry.AlternativeID] = i
		}
	}

	for i, entry := range entries {
		if _, done := matched[i]; done {
			continue
		}
		if !entry.ErrorCarriedForward || len(entry.LinkedAlternatives) == 0 {
			continue
		}
		prerequisiteWrong := false
		for _, alt := range entry.LinkedAlternatives {
			pi, ok := byAlternative[alt]
			if !ok {
				continue
			}
			if _, ok := matched[pi]; !ok {
				prerequisiteWrong = true
				break
			}
		}
		if !prerequisiteWrong {
			continue
		}
		// Consume the candidate's unmatched follow-through value.
		for vi, value := range values {
			if used[vi] || strings.TrimSpace(value) == "" {
				continue
			}
			matched[i] = matchCarriedForward
			used[vi] = true
			break
		}
	}
}

func creditReason(entry models.CorrectAnswer, how matchKind) string {
	switch how {
	case matchEquivalent:
		return fmt.Sprintf("equivalent phrasing accepted for %q", entry.Answer)
	case matchCarriedForward:
		return "error carried forward from linked alternative"
	default:
		return fmt.Sprintf("matched %q", entry.Answer)
	}
}

// schemeRequirement reads the requirement off the first entry that
// declares one; entries within one scheme share a requirement.
func schemeRequirement(entries []models.CorrectAnswer) models.AnswerRequirement {
	for _, e := range entries {
		if e.AnswerRequirement != "" {
			return e.AnswerRequirement
		}
	}
	return ""
}

// IsUnanswered reports whether a submitted value carries no answer at
// all: nil, blank string, or an empty collection.
func IsUnanswered(submitted interface{}) bool {
	switch v := submitted.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	}
	rv := reflect.ValueOf(submitted)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// submittedValues flattens the supported answer shapes (plain string,
// list, structured map such as a table completion) into comparable
// strings.
func submittedValues(submitted interface{}) []string {
	var out []string
	appendValue := func(s string) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}

	switch v := submitted.(type) {
	case string:
		appendValue(v)
	case []string:
		for _, s := range v {
			appendValue(s)
		}
	case []interface{}:
		for _, e := range v {
			appendValue(fmt.Sprint(e))
		}
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			appendValue(fmt.Sprint(v[key]))
		}
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		for _, key := range sortedKeys(m) {
			appendValue(fmt.Sprint(m[key]))
		}
	default:
		appendValue(fmt.Sprint(v))
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeText lowercases and collapses internal whitespace so
// comparisons ignore case and spacing.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

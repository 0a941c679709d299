package scoring

import (
	"math"
	"strings"
	"testing"

	"review-service/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestValidateUnansweredAlwaysZero(t *testing.T) {
	item := &models.Question{
		Marks:         2,
		CorrectAnswer: "水",
	}
	unanswered := []interface{}{
		nil,
		"",
		"   ",
		[]string{},
		[]string{"", "  "},
		[]interface{}{},
		map[string]interface{}{},
	}
	for _, submitted := range unanswered {
		v := Validate(item, submitted)
		if v.IsCorrect || v.Score != 0 || len(v.PartialCredit) != 0 {
			t.Errorf("submitted %#v: expected zero verdict, got %+v", submitted, v)
		}
	}
}

func TestValidateExactMatching(t *testing.T) {
	item := &models.Question{Marks: 1, CorrectAnswer: "Carbon Dioxide"}

	tests := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"exact", "Carbon Dioxide", true},
		{"case insensitive", "carbon dioxide", true},
		{"whitespace normalized", "  carbon   DIOXIDE ", true},
		{"wrong", "oxygen", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Validate(item, tc.submitted)
			if v.IsCorrect != tc.correct {
				t.Errorf("expected correct=%v, got %+v", tc.correct, v)
			}
			if tc.correct && !almostEqual(v.Score, 1) {
				t.Errorf("expected full score, got %f", v.Score)
			}
		})
	}
}

func TestValidateAnyTwoFrom(t *testing.T) {
	item := &models.Part{
		ID:    "p1",
		Marks: 4,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "A", AnswerRequirement: models.RequireAnyTwoFrom},
			{Answer: "B"},
			{Answer: "C"},
		},
	}

	tests := []struct {
		name      string
		submitted interface{}
		score     float64
		correct   bool
	}{
		{"two of three", []string{"A", "B"}, 1.0, true},
		{"other two", []string{"C", "A"}, 1.0, true},
		{"one of three", []string{"A"}, 0.5, false},
		{"one plus wrong", []string{"A", "D"}, 0.5, false},
		{"all wrong", []string{"D"}, 0, false},
		{"three matches capped", []string{"A", "B", "C"}, 1.0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Validate(item, tc.submitted)
			if !almostEqual(v.Score, tc.score) {
				t.Errorf("expected score %.2f, got %.2f", tc.score, v.Score)
			}
			if v.IsCorrect != tc.correct {
				t.Errorf("expected correct=%v, got %v", tc.correct, v.IsCorrect)
			}
			// The caller owns mark conversion: 4-mark part, half credit = 2.
			if awarded := v.Score * item.Marks; tc.name == "one of three" && !almostEqual(awarded, 2) {
				t.Errorf("expected 2 marks awarded, got %.2f", awarded)
			}
		})
	}
}

func TestValidateAllRequired(t *testing.T) {
	item := &models.Subpart{
		ID:    "i",
		Marks: 3,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "sodium", AnswerRequirement: models.RequireAllRequired},
			{Answer: "chlorine"},
			{Answer: "ionic bond"},
		},
	}

	full := Validate(item, []string{"sodium", "chlorine", "ionic bond"})
	if !full.IsCorrect || !almostEqual(full.Score, 1) {
		t.Errorf("all satisfied: expected full credit, got %+v", full)
	}

	partial := Validate(item, []string{"sodium", "chlorine"})
	if partial.IsCorrect {
		t.Error("all_required with a missing entry must not be correct")
	}
	if !almostEqual(partial.Score, 2.0/3.0) {
		t.Errorf("expected fraction 2/3, got %f", partial.Score)
	}
}

func TestValidateBothRequired(t *testing.T) {
	item := &models.Part{
		ID:    "p",
		Marks: 2,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "force", AnswerRequirement: models.RequireBothRequired},
			{Answer: "acceleration"},
		},
	}
	if v := Validate(item, []string{"force"}); v.IsCorrect || !almostEqual(v.Score, 0.5) {
		t.Errorf("half satisfied: expected score 0.5 not correct, got %+v", v)
	}
	if v := Validate(item, []string{"acceleration", "force"}); !v.IsCorrect {
		t.Errorf("both satisfied: expected correct, got %+v", v)
	}
}

func TestValidateChoiceBinary(t *testing.T) {
	q := &models.Question{
		Marks: 2,
		Type:  models.TypeMCQ,
		Options: []models.Option{
			{Text: "Mercury", IsCorrect: false, Order: 1},
			{Text: "Venus", IsCorrect: true, Order: 2},
		},
	}

	right := Validate(q, "B")
	if !right.IsCorrect || !almostEqual(right.Score, 1) {
		t.Errorf("selecting correct option: got %+v", right)
	}
	if awarded := right.Score * q.Marks; !almostEqual(awarded, 2) {
		t.Errorf("expected 2 marks awarded, got %f", awarded)
	}

	wrong := Validate(q, "A")
	if wrong.IsCorrect || wrong.Score != 0 {
		t.Errorf("selecting wrong option: got %+v", wrong)
	}

	byText := Validate(q, "venus")
	if !byText.IsCorrect {
		t.Errorf("selection by option text: got %+v", byText)
	}

	// Binary only: no partial credit path for choice types.
	if len(wrong.PartialCredit) != 0 {
		t.Errorf("choice types must not emit partial credit, got %+v", wrong.PartialCredit)
	}
}

func TestValidateTrueFalse(t *testing.T) {
	q := &models.Question{
		Marks: 1,
		Type:  models.TypeTrueFalse,
		Options: []models.Option{
			{Text: "True", IsCorrect: true, Order: 1},
			{Text: "False", IsCorrect: false, Order: 2},
		},
	}
	if v := Validate(q, "true"); !v.IsCorrect {
		t.Errorf("expected true to be accepted, got %+v", v)
	}
	if v := Validate(q, "False"); v.IsCorrect || v.Score != 0 {
		t.Errorf("expected false to score zero, got %+v", v)
	}
}

func TestValidateErrorCarriedForward(t *testing.T) {
	// alt 2 depends on alt 1; a wrong alt-1 answer with a consistent
	// follow-through still earns alt 2's allocation.
	item := &models.Part{
		ID:    "p",
		Marks: 2,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "10", AlternativeID: 1, AnswerRequirement: models.RequireAllRequired},
			{Answer: "20", AlternativeID: 2, LinkedAlternatives: []int{1}, ErrorCarriedForward: true},
		},
	}

	v := Validate(item, []string{"7", "14"})
	if !almostEqual(v.Score, 0.5) {
		t.Errorf("expected half credit carried forward, got %+v", v)
	}
	found := false
	for _, detail := range v.PartialCredit {
		if strings.Contains(detail.Reason, "carried forward") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a carried-forward credit reason, got %+v", v.PartialCredit)
	}

	// Both answered per the scheme: no ECF involvement, full credit.
	if v := Validate(item, []string{"10", "20"}); !v.IsCorrect || !almostEqual(v.Score, 1) {
		t.Errorf("expected full credit without ECF, got %+v", v)
	}
}

func TestValidateErrorCarriedForwardNeedsFollowThrough(t *testing.T) {
	item := &models.Part{
		ID:    "p",
		Marks: 2,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "10", AlternativeID: 1, AnswerRequirement: models.RequireAllRequired},
			{Answer: "20", AlternativeID: 2, LinkedAlternatives: []int{1}, ErrorCarriedForward: true},
		},
	}

	// A lone wrong prerequisite is just a wrong answer: with no value
	// left for the dependent slot, nothing carries forward.
	v := Validate(item, []string{"7"})
	if v.Score != 0 || len(v.PartialCredit) != 0 {
		t.Errorf("single wrong value must not earn carried-forward credit, got %+v", v)
	}

	// Filling both slots restores the carry-forward path.
	if v := Validate(item, []string{"7", "14"}); !almostEqual(v.Score, 0.5) {
		t.Errorf("expected half credit with a follow-through value, got %+v", v)
	}
}

func TestValidateAllRequiredEntryWeights(t *testing.T) {
	item := &models.Part{
		ID:    "p",
		Marks: 3,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "enzyme", Marks: 2, AnswerRequirement: models.RequireAllRequired},
			{Answer: "substrate", Marks: 1},
		},
	}

	if v := Validate(item, []string{"enzyme"}); !almostEqual(v.Score, 2.0/3.0) {
		t.Errorf("heavier entry alone: expected 2/3, got %+v", v)
	}
	if v := Validate(item, []string{"substrate"}); !almostEqual(v.Score, 1.0/3.0) {
		t.Errorf("lighter entry alone: expected 1/3, got %+v", v)
	}
	if v := Validate(item, []string{"substrate", "enzyme"}); !v.IsCorrect || !almostEqual(v.Score, 1) {
		t.Errorf("both entries: expected full credit, got %+v", v)
	}

	// Alternatives are interchangeable, so "any N from" ignores entry
	// weights and splits credit evenly.
	alt := &models.Part{
		ID:    "q",
		Marks: 2,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "a", Marks: 3, AnswerRequirement: models.RequireAnyTwoFrom},
			{Answer: "b"},
			{Answer: "c"},
		},
	}
	if v := Validate(alt, []string{"a"}); !almostEqual(v.Score, 0.5) {
		t.Errorf("alternatives must split evenly regardless of weights, got %+v", v)
	}
}

func TestValidateEquivalentPhrasingIsPluggable(t *testing.T) {
	item := &models.Question{
		Marks: 1,
		CorrectAnswers: []models.CorrectAnswer{
			{Answer: "the rate increases", AcceptsEquivalentPhrasing: true},
		},
	}

	// Baseline matcher: exact only.
	if v := Validate(item, "it speeds up"); v.IsCorrect {
		t.Errorf("baseline must not fuzzy-match, got %+v", v)
	}

	loose := func(submitted, accepted string) bool { return true }
	if v := ValidateWith(item, "it speeds up", loose); !v.IsCorrect {
		t.Errorf("plugged matcher should accept, got %+v", v)
	}
}

func TestValidateScoreBounds(t *testing.T) {
	items := []models.Scoreable{
		&models.Question{Marks: 3, CorrectAnswer: "x"},
		&models.Part{Marks: 5, CorrectAnswers: []models.CorrectAnswer{
			{Answer: "a", AnswerRequirement: models.RequireAnyThreeFrom},
			{Answer: "b"}, {Answer: "c"}, {Answer: "d"},
		}},
		&models.Question{Marks: 2, Type: models.TypeMCQ, Options: []models.Option{
			{Text: "yes", IsCorrect: true, Order: 1},
			{Text: "no", IsCorrect: false, Order: 2},
		}},
		&models.Question{Marks: 0},
	}
	answers := []interface{}{
		"", "x", "a", []string{"a", "b"}, []string{"a", "b", "c", "d"},
		"yes", "no", "A", []string{"zzz"}, map[string]interface{}{"r1": "a"},
	}
	for _, item := range items {
		for _, submitted := range answers {
			v := Validate(item, submitted)
			if v.Score < 0 || v.Score > 1 {
				t.Errorf("score out of bounds: item %#v submitted %#v verdict %+v", item, submitted, v)
			}
		}
	}
}

func TestValidateNoMarkSchemeIsZeroNotError(t *testing.T) {
	v := Validate(&models.Question{Marks: 4}, "anything")
	if v.IsCorrect || v.Score != 0 {
		t.Errorf("missing mark scheme must degrade to zero, got %+v", v)
	}
}

package scoring

import (
	"reflect"
	"testing"

	"review-service/internal/models"
)

func TestNormalizeExplicitEntriesReturnedUnchanged(t *testing.T) {
	entries := []models.CorrectAnswer{
		{Answer: "photosynthesis", Marks: 2},
		{Answer: "chlorophyll", AnswerRequirement: models.RequireAnyOneFrom},
	}
	q := &models.Question{
		CorrectAnswers: entries,
		CorrectAnswer:  "ignored legacy",
		Options:        []models.Option{{Text: "ignored", IsCorrect: true}},
	}

	got := Normalize(q)
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("expected explicit entries unchanged, got %+v", got)
	}

	// Copy, not alias: mutating the result must not touch the source.
	got[0].Answer = "mutated"
	if q.CorrectAnswers[0].Answer != "photosynthesis" {
		t.Error("Normalize returned an aliased slice")
	}
}

func TestNormalizeLegacySingleAnswer(t *testing.T) {
	q := &models.Question{CorrectAnswer: "  42  "}
	got := Normalize(q)
	if len(got) != 1 || got[0].Answer != "42" {
		t.Errorf("expected single trimmed entry, got %+v", got)
	}
}

func TestNormalizeFromOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []models.Option
		want    []string
	}{
		{
			name: "labels from 1-based order",
			options: []models.Option{
				{Text: "Mitochondria", IsCorrect: true, Order: 2},
				{Text: "Nucleus", IsCorrect: false, Order: 1},
			},
			want: []string{"B. Mitochondria"},
		},
		{
			name: "index fallback when order absent",
			options: []models.Option{
				{Text: "Alpha", IsCorrect: true},
				{Text: "Beta", IsCorrect: true},
			},
			want: []string{"A. Alpha", "B. Beta"},
		},
		{
			name: "duplicate formatted strings suppressed",
			options: []models.Option{
				{Text: "Same", IsCorrect: true, Order: 1},
				{Text: "Same", IsCorrect: true, Order: 1},
			},
			want: []string{"A. Same"},
		},
		{
			name: "blank text gets a placeholder",
			options: []models.Option{
				{Text: "   ", IsCorrect: true, Order: 3},
			},
			want: []string{"C. Option C"},
		},
		{
			name:    "no scheme at all is a valid empty list",
			options: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(&models.Question{Options: tc.options})
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d entries, got %d: %+v", len(tc.want), len(got), got)
			}
			for i, want := range tc.want {
				if got[i].Answer != want {
					t.Errorf("entry %d: expected %q, got %q", i, want, got[i].Answer)
				}
			}
		})
	}
}

func TestNormalizeCountMatchesCorrectOptions(t *testing.T) {
	q := &models.Question{
		Type: models.TypeMCQ,
		Options: []models.Option{
			{Text: "a", IsCorrect: true, Order: 1},
			{Text: "b", IsCorrect: false, Order: 2},
			{Text: "c", IsCorrect: true, Order: 3},
			{Text: "d", IsCorrect: true, Order: 4},
		},
	}
	if got := Normalize(q); len(got) != 3 {
		t.Errorf("expected one entry per is_correct option, got %d", len(got))
	}
}

func TestOptionLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{-3, "A"},
	}
	for _, tc := range tests {
		if got := OptionLabel(tc.n); got != tc.want {
			t.Errorf("OptionLabel(%d): expected %q, got %q", tc.n, tc.want, got)
		}
	}
}

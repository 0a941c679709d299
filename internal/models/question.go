package models

import "strings"

// Question types recognised by the scoring engine. Anything else is
// treated as a descriptive/free-form item.
const (
	TypeMCQ         = "mcq"
	TypeTrueFalse   = "tf"
	TypeDescriptive = "descriptive"
)

// AnswerRequirement describes how many entries of a mark scheme must be
// satisfied for full credit.
type AnswerRequirement string

const (
	RequireAnyOneFrom           AnswerRequirement = "any_one_from"
	RequireAnyTwoFrom           AnswerRequirement = "any_two_from"
	RequireAnyThreeFrom         AnswerRequirement = "any_three_from"
	RequireBothRequired         AnswerRequirement = "both_required"
	RequireAllRequired          AnswerRequirement = "all_required"
	RequireAlternativeMethods   AnswerRequirement = "alternative_methods"
	RequireAcceptableVariations AnswerRequirement = "acceptable_variations"
)

// RequiredCount returns how many distinct entries must be matched for
// full credit, given the number of acceptable entries available.
func (r AnswerRequirement) RequiredCount(available int) int {
	required := 1
	switch r {
	case RequireAnyOneFrom:
		required = 1
	case RequireAnyTwoFrom, RequireBothRequired:
		required = 2
	case RequireAnyThreeFrom:
		required = 3
	case RequireAllRequired:
		required = available
	}
	if required > available {
		required = available
	}
	if required < 1 {
		required = 1
	}
	return required
}

// AllMustMatch reports whether every required entry has to be satisfied
// for the item to count as correct.
func (r AnswerRequirement) AllMustMatch() bool {
	return r == RequireBothRequired || r == RequireAllRequired
}

type Option struct {
	Label     string `bson:"label,omitempty" json:"label,omitempty"`
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
	Order     int    `bson:"order,omitempty" json:"order,omitempty"`
}

// CorrectAnswer is a single mark-scheme entry. Marks defaults to 1 when
// the stored document omits it.
type CorrectAnswer struct {
	Answer                    string            `bson:"answer" json:"answer"`
	Marks                     float64           `bson:"marks,omitempty" json:"marks,omitempty"`
	AlternativeID             int               `bson:"alternative_id,omitempty" json:"alternative_id,omitempty"`
	LinkedAlternatives        []int             `bson:"linked_alternatives,omitempty" json:"linked_alternatives,omitempty"`
	AcceptsEquivalentPhrasing bool              `bson:"accepts_equivalent_phrasing,omitempty" json:"accepts_equivalent_phrasing,omitempty"`
	ErrorCarriedForward       bool              `bson:"error_carried_forward,omitempty" json:"error_carried_forward,omitempty"`
	AnswerRequirement         AnswerRequirement `bson:"answer_requirement,omitempty" json:"answer_requirement,omitempty"`
	Unit                      string            `bson:"unit,omitempty" json:"unit,omitempty"`
	Context                   string            `bson:"context,omitempty" json:"context,omitempty"`
}

// MarkWeight returns the entry's mark contribution, defaulting to 1.
func (c CorrectAnswer) MarkWeight() float64 {
	if c.Marks <= 0 {
		return 1
	}
	return c.Marks
}

type Subpart struct {
	ID             string          `bson:"id" json:"id"`
	Label          string          `bson:"label,omitempty" json:"label,omitempty"`
	Text           string          `bson:"text" json:"text"`
	Marks          float64         `bson:"marks" json:"marks"`
	Type           string          `bson:"type,omitempty" json:"type,omitempty"`
	AnswerFormat   string          `bson:"answer_format,omitempty" json:"answer_format,omitempty"`
	Options        []Option        `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer  string          `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	CorrectAnswers []CorrectAnswer `bson:"correct_answers,omitempty" json:"correct_answers,omitempty"`
	Topic          string          `bson:"topic,omitempty" json:"topic,omitempty"`
	Unit           string          `bson:"unit,omitempty" json:"unit,omitempty"`
	Subtopic       string          `bson:"subtopic,omitempty" json:"subtopic,omitempty"`
	Difficulty     string          `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Hint           string          `bson:"hint,omitempty" json:"hint,omitempty"`
	Explanation    string          `bson:"explanation,omitempty" json:"explanation,omitempty"`
	RequiresManual bool            `bson:"requires_manual_marking,omitempty" json:"requires_manual_marking,omitempty"`
}

type Part struct {
	ID             string          `bson:"id" json:"id"`
	Label          string          `bson:"label,omitempty" json:"label,omitempty"`
	Text           string          `bson:"text" json:"text"`
	Marks          float64         `bson:"marks" json:"marks"`
	Type           string          `bson:"type,omitempty" json:"type,omitempty"`
	AnswerFormat   string          `bson:"answer_format,omitempty" json:"answer_format,omitempty"`
	Options        []Option        `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer  string          `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	CorrectAnswers []CorrectAnswer `bson:"correct_answers,omitempty" json:"correct_answers,omitempty"`
	Subparts       []Subpart       `bson:"subparts,omitempty" json:"subparts,omitempty"`
	Topic          string          `bson:"topic,omitempty" json:"topic,omitempty"`
	Unit           string          `bson:"unit,omitempty" json:"unit,omitempty"`
	Subtopic       string          `bson:"subtopic,omitempty" json:"subtopic,omitempty"`
	Difficulty     string          `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Hint           string          `bson:"hint,omitempty" json:"hint,omitempty"`
	Explanation    string          `bson:"explanation,omitempty" json:"explanation,omitempty"`
	RequiresManual bool            `bson:"requires_manual_marking,omitempty" json:"requires_manual_marking,omitempty"`
}

type Question struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	ImportBatchID  string          `bson:"import_batch_id" json:"import_batch_id"`
	Number         int             `bson:"number" json:"number"`
	Text           string          `bson:"text" json:"text"`
	Marks          float64         `bson:"marks" json:"marks"`
	Type           string          `bson:"type" json:"type"`
	Difficulty     string          `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Topic          string          `bson:"topic,omitempty" json:"topic,omitempty"`
	TopicID        string          `bson:"topic_id,omitempty" json:"topic_id,omitempty"`
	Unit           string          `bson:"unit,omitempty" json:"unit,omitempty"`
	UnitID         string          `bson:"unit_id,omitempty" json:"unit_id,omitempty"`
	Subtopic       string          `bson:"subtopic,omitempty" json:"subtopic,omitempty"`
	SubtopicID     string          `bson:"subtopic_id,omitempty" json:"subtopic_id,omitempty"`
	AnswerFormat   string          `bson:"answer_format,omitempty" json:"answer_format,omitempty"`
	Options        []Option        `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer  string          `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	CorrectAnswers []CorrectAnswer `bson:"correct_answers,omitempty" json:"correct_answers,omitempty"`
	Parts          []Part          `bson:"parts,omitempty" json:"parts,omitempty"`
	Attachments    []string        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Hint           string          `bson:"hint,omitempty" json:"hint,omitempty"`
	Explanation    string          `bson:"explanation,omitempty" json:"explanation,omitempty"`
	RequiresManual bool            `bson:"requires_manual_marking,omitempty" json:"requires_manual_marking,omitempty"`
}

// Scoreable is the shared shape of Question, Part and Subpart that the
// normalizer and validator operate on. Modelling the three levels as
// distinct structs keeps illegal states (a subpart with its own
// children) unrepresentable while the scoring code stays uniform.
type Scoreable interface {
	GetMarks() float64
	GetType() string
	GetOptions() []Option
	GetCorrectAnswer() string
	GetCorrectAnswers() []CorrectAnswer
}

func (q *Question) GetMarks() float64                  { return q.Marks }
func (q *Question) GetType() string                    { return q.Type }
func (q *Question) GetOptions() []Option               { return q.Options }
func (q *Question) GetCorrectAnswer() string           { return q.CorrectAnswer }
func (q *Question) GetCorrectAnswers() []CorrectAnswer { return q.CorrectAnswers }

func (p *Part) GetMarks() float64                  { return p.Marks }
func (p *Part) GetType() string                    { return p.Type }
func (p *Part) GetOptions() []Option               { return p.Options }
func (p *Part) GetCorrectAnswer() string           { return p.CorrectAnswer }
func (p *Part) GetCorrectAnswers() []CorrectAnswer { return p.CorrectAnswers }

func (sp *Subpart) GetMarks() float64                  { return sp.Marks }
func (sp *Subpart) GetType() string                    { return sp.Type }
func (sp *Subpart) GetOptions() []Option               { return sp.Options }
func (sp *Subpart) GetCorrectAnswer() string           { return sp.CorrectAnswer }
func (sp *Subpart) GetCorrectAnswers() []CorrectAnswer { return sp.CorrectAnswers }

// HasParts reports whether the question scores through its part tree.
// A question with parts ignores its own top-level mark scheme.
func (q *Question) HasParts() bool { return len(q.Parts) > 0 }

// IsChoiceType reports whether an item type scores as a binary
// option selection (no partial credit).
func IsChoiceType(t string) bool {
	switch strings.TrimSpace(strings.ToLower(t)) {
	case TypeMCQ, TypeTrueFalse, "true_false", "multiple_choice":
		return true
	}
	return false
}

// MissingFields lists the required fields a question lacks. A non-empty
// result blocks simulation start.
func (q *Question) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(q.ID) == "" {
		missing = append(missing, "id")
	}
	if q.Number <= 0 {
		missing = append(missing, "number")
	}
	if strings.TrimSpace(q.Text) == "" {
		missing = append(missing, "text")
	}
	if q.Marks <= 0 && !q.HasParts() {
		missing = append(missing, "marks")
	}
	return missing
}

package models

import "time"

// PartScore is the scored outcome of one leaf (a part without subparts,
// or a subpart). Tags are the leaf's own where present, otherwise
// inherited from the parent question, so analytics can group on them.
type PartScore struct {
	PartID           string         `bson:"part_id,omitempty" json:"part_id,omitempty"`
	SubpartID        string         `bson:"subpart_id,omitempty" json:"subpart_id,omitempty"`
	Label            string         `bson:"label,omitempty" json:"label,omitempty"`
	Earned           float64        `bson:"earned" json:"earned"`
	Total            float64        `bson:"total" json:"total"`
	Attempted        bool           `bson:"attempted" json:"attempted"`
	TimeSpentSeconds int            `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Topic            string         `bson:"topic,omitempty" json:"topic,omitempty"`
	Unit             string         `bson:"unit,omitempty" json:"unit,omitempty"`
	Subtopic         string         `bson:"subtopic,omitempty" json:"subtopic,omitempty"`
	Difficulty       string         `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Type             string         `bson:"type,omitempty" json:"type,omitempty"`
	PartialCredit    []CreditDetail `bson:"partial_credit,omitempty" json:"partial_credit,omitempty"`
}

// QuestionResult is one question's aggregated simulation outcome.
type QuestionResult struct {
	QuestionID       string      `bson:"question_id" json:"question_id"`
	Number           int         `bson:"number" json:"number"`
	Earned           float64     `bson:"earned" json:"earned"`
	Total            float64     `bson:"total" json:"total"`
	Attempted        bool        `bson:"attempted" json:"attempted"`
	IsCorrect        bool        `bson:"is_correct" json:"is_correct"`
	TimeSpentSeconds int         `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Topic            string      `bson:"topic,omitempty" json:"topic,omitempty"`
	Unit             string      `bson:"unit,omitempty" json:"unit,omitempty"`
	Subtopic         string      `bson:"subtopic,omitempty" json:"subtopic,omitempty"`
	Difficulty       string      `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Type             string      `bson:"type,omitempty" json:"type,omitempty"`
	Parts            []PartScore `bson:"parts,omitempty" json:"parts,omitempty"`
	Feedback         string      `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// IsPartial reports strictly-between-zero-and-full credit.
func (r QuestionResult) IsPartial() bool {
	return r.Attempted && !r.IsCorrect && r.Earned > 0
}

// SimulationResults is the derived outcome of one simulation run.
// Recomputed on every run; never the source of truth.
type SimulationResults struct {
	ID                 string           `bson:"_id,omitempty" json:"id"`
	SessionID          string           `bson:"session_id" json:"session_id"`
	TotalQuestions     int              `bson:"total_questions" json:"total_questions"`
	AnsweredQuestions  int              `bson:"answered_questions" json:"answered_questions"`
	CorrectQuestions   int              `bson:"correct_questions" json:"correct_questions"`
	PartialQuestions   int              `bson:"partial_questions" json:"partial_questions"`
	IncorrectQuestions int              `bson:"incorrect_questions" json:"incorrect_questions"`
	TotalMarks         float64          `bson:"total_marks" json:"total_marks"`
	EarnedMarks        float64          `bson:"earned_marks" json:"earned_marks"`
	Percentage         float64          `bson:"percentage" json:"percentage"`
	TimeTakenSeconds   int              `bson:"time_taken_seconds" json:"time_taken_seconds"`
	PaperDuration      string           `bson:"paper_duration,omitempty" json:"paper_duration,omitempty"`
	Questions          []QuestionResult `bson:"questions" json:"questions"`
	CreatedAt          time.Time        `bson:"created_at" json:"created_at"`
}

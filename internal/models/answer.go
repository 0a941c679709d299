package models

import (
	"strings"
	"time"
)

// CreditDetail records one partial-credit award and why it was given.
type CreditDetail struct {
	Earned float64 `bson:"earned" json:"earned"`
	Reason string  `bson:"reason" json:"reason"`
}

// UserAnswer is a single submitted response, keyed by
// questionId[-partId[-subpartId]].
type UserAnswer struct {
	Key              string         `bson:"key" json:"key"`
	Raw              interface{}    `bson:"raw" json:"raw"`
	IsCorrect        bool           `bson:"is_correct" json:"is_correct"`
	MarksAwarded     float64        `bson:"marks_awarded" json:"marks_awarded"`
	TimeSpentSeconds int            `bson:"time_spent_seconds" json:"time_spent_seconds"`
	PartialCredit    []CreditDetail `bson:"partial_credit,omitempty" json:"partial_credit,omitempty"`
	AnsweredAt       time.Time      `bson:"answered_at,omitempty" json:"answered_at,omitempty"`
}

// AnswerKey builds the composite lookup key for a question, part or
// subpart answer. Empty segments are omitted.
func AnswerKey(questionID, partID, subpartID string) string {
	parts := []string{questionID}
	if partID != "" {
		parts = append(parts, partID)
	}
	if subpartID != "" {
		parts = append(parts, subpartID)
	}
	return strings.Join(parts, "-")
}

package models

import "time"

// Review session lifecycle states.
const (
	SessionActive    = "active"
	SessionFinalized = "finalized"
	SessionAbandoned = "abandoned"
)

// ReviewSession scopes one import batch's review. Its identifier is
// distinct from the batch id, which is an external join key.
type ReviewSession struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	ImportBatchID       string    `bson:"import_batch_id" json:"import_batch_id"`
	UserID              string    `bson:"user_id" json:"user_id"`
	Status              string    `bson:"status" json:"status"`
	RequireSimulation   bool      `bson:"require_simulation" json:"require_simulation"`
	SimulationCompleted bool      `bson:"simulation_completed" json:"simulation_completed"`
	SimulationPassed    bool      `bson:"simulation_passed" json:"simulation_passed"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// ReviewStatus is the per-question review row. Created unreviewed when
// the session starts and only ever flipped by explicit reviewer action.
type ReviewStatus struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	SessionID      string     `bson:"session_id" json:"session_id"`
	QuestionKey    string     `bson:"question_key" json:"question_key"`
	IsReviewed     bool       `bson:"is_reviewed" json:"is_reviewed"`
	ReviewedAt     *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	HasIssues      bool       `bson:"has_issues" json:"has_issues"`
	IssueCount     int        `bson:"issue_count" json:"issue_count"`
	NeedsAttention bool       `bson:"needs_attention" json:"needs_attention"`
}

package review

import (
	"time"

	"review-service/internal/models"
)

// Phase is the session lifecycle of the state machine itself.
// Failed is distinct from New so callers can offer a retry.
type Phase string

const (
	PhaseNew          Phase = "new"
	PhaseInitializing Phase = "initializing"
	PhaseReady        Phase = "ready"
	PhaseFailed       Phase = "failed"
)

// QuestionStatus is the per-question review flag pair. IsReviewed is
// toggled by the reviewer; HasIssues is set externally by validation.
// NeedsAttention is derived, never set directly: open issues on a
// question nobody has reviewed yet.
type QuestionStatus struct {
	QuestionKey    string     `json:"question_key"`
	IsReviewed     bool       `json:"is_reviewed"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	HasIssues      bool       `json:"has_issues"`
	IssueCount     int        `json:"issue_count"`
	NeedsAttention bool       `json:"needs_attention"`
}

// Snapshot is the externally readable session state. Mutations go
// through the Manager's operations only.
type Snapshot struct {
	Phase             Phase                     `json:"phase"`
	RequireSimulation bool                      `json:"require_simulation"`
	TotalQuestions    int                       `json:"total_questions"`
	ReviewedCount     int                       `json:"reviewed_count"`
	AllReviewed       bool                      `json:"all_reviewed"`
	SimulationPassed  bool                      `json:"simulation_passed"`
	ImportReady       bool                      `json:"import_ready"`
	Statuses          map[string]QuestionStatus `json:"statuses"`
	LatestResults     *models.SimulationResults `json:"latest_results,omitempty"`
}

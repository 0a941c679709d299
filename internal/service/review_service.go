package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"review-service/internal/models"
	"review-service/internal/review"

	"go.mongodb.org/mongo-driver/bson"
)

// Store interfaces are the slice of the repositories the services
// need, so tests can substitute in-memory fakes.

type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.ReviewSession, error)
	FindActive(ctx context.Context, importBatchID, userID string) (*models.ReviewSession, error)
	Create(ctx context.Context, session *models.ReviewSession) error
	Update(ctx context.Context, id string, update bson.M) error
	SetSimulationOutcome(ctx context.Context, id string, passed bool) error
}

type StatusStore interface {
	BulkCreate(ctx context.Context, statuses []models.ReviewStatus) error
	FindBySession(ctx context.Context, sessionID string) ([]models.ReviewStatus, error)
	UpdateOne(ctx context.Context, sessionID, questionKey string, update bson.M) error
	MarkAll(ctx context.Context, sessionID string, questionKeys []string, update bson.M) error
}

type QuestionStore interface {
	FindByImportBatch(ctx context.Context, importBatchID string) ([]models.Question, error)
}

// ReadyNotifier receives the re-evaluated import readiness after
// every session state change.
type ReadyNotifier func(sessionID string, ready bool)

// sessionState pairs a session's state machine with the lock that
// serializes its persistence writes.
type sessionState struct {
	manager *review.Manager
	writeMu sync.Mutex
}

// ReviewService owns the per-session review state machines and keeps
// them in step with the store.
type ReviewService struct {
	sessions  SessionStore
	statuses  StatusStore
	questions QuestionStore
	notify    ReadyNotifier

	mu    sync.Mutex
	state map[string]*sessionState
}

func NewReviewService(sessions SessionStore, statuses StatusStore, questions QuestionStore, notify ReadyNotifier) *ReviewService {
	return &ReviewService{
		sessions:  sessions,
		statuses:  statuses,
		questions: questions,
		notify:    notify,
		state:     map[string]*sessionState{},
	}
}

// InitSession finds or creates the active session for an import batch
// and loads its review state. Safe to call again after a failure: the
// existing session row is reused, never duplicated. A concurrent call
// for the same session is a no-op returning the session found first.
func (s *ReviewService) InitSession(ctx context.Context, importBatchID, userID string, requireSimulation bool) (*models.ReviewSession, error) {
	session, err := s.sessions.FindActive(ctx, importBatchID, userID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	created := false
	if session == nil {
		session = &models.ReviewSession{
			ImportBatchID:     importBatchID,
			UserID:            userID,
			Status:            models.SessionActive,
			RequireSimulation: requireSimulation,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("session create failed: %w", err)
		}
		created = true
	}

	st := s.stateFor(session.ID, session.RequireSimulation)
	if !st.manager.BeginInit() {
		// Already initialized or an init is in flight.
		return session, nil
	}

	statuses, err := s.loadStatuses(ctx, session, created)
	if err != nil {
		st.manager.FailInit(err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Torn down mid-flight: do not install late results.
		st.manager.FailInit(err)
		return nil, err
	}
	st.manager.CompleteInit(statuses)
	return session, nil
}

func (s *ReviewService) loadStatuses(ctx context.Context, session *models.ReviewSession, created bool) ([]review.QuestionStatus, error) {
	if !created {
		rows, err := s.statuses.FindBySession(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("status load failed: %w", err)
		}
		if len(rows) > 0 {
			return toManagerStatuses(rows), nil
		}
	}

	questions, err := s.questions.FindByImportBatch(ctx, session.ImportBatchID)
	if err != nil {
		return nil, fmt.Errorf("question load failed: %w", err)
	}
	rows := make([]models.ReviewStatus, len(questions))
	for i, q := range questions {
		rows[i] = models.ReviewStatus{
			SessionID:   session.ID,
			QuestionKey: models.AnswerKey(q.ID, "", ""),
		}
	}
	if err := s.statuses.BulkCreate(ctx, rows); err != nil {
		return nil, fmt.Errorf("status create failed: %w", err)
	}
	return toManagerStatuses(rows), nil
}

func toManagerStatuses(rows []models.ReviewStatus) []review.QuestionStatus {
	out := make([]review.QuestionStatus, len(rows))
	for i, row := range rows {
		out[i] = review.QuestionStatus{
			QuestionKey:    row.QuestionKey,
			IsReviewed:     row.IsReviewed,
			ReviewedAt:     row.ReviewedAt,
			HasIssues:      row.HasIssues,
			IssueCount:     row.IssueCount,
			NeedsAttention: row.HasIssues && !row.IsReviewed,
		}
	}
	return out
}

func (s *ReviewService) stateFor(sessionID string, requireSimulation bool) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state[sessionID]
	if !ok {
		id := sessionID
		st = &sessionState{manager: review.NewManager(requireSimulation, func(ready bool) {
			if s.notify != nil {
				s.notify(id, ready)
			}
		})}
		s.state[sessionID] = st
	}
	return st
}

func (s *ReviewService) managerFor(sessionID string) (*sessionState, error) {
	s.mu.Lock()
	st, ok := s.state[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session %s not initialized", sessionID)
	}
	return st, nil
}

// ToggleReview flips one question's reviewed flag in memory, then
// persists. Writes for the same session are serialized so two rapid
// toggles cannot race on the store.
func (s *ReviewService) ToggleReview(ctx context.Context, sessionID, questionKey string) (bool, error) {
	st, err := s.managerFor(sessionID)
	if err != nil {
		return false, err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	now := time.Now().UTC()
	reviewed, err := st.manager.ToggleReview(questionKey, now)
	if err != nil {
		return false, err
	}

	update := bson.M{"is_reviewed": reviewed}
	if reviewed {
		update["reviewed_at"] = now
	} else {
		update["reviewed_at"] = nil
	}
	if status, ok := st.manager.QuestionStatusFor(questionKey); ok {
		update["needs_attention"] = status.NeedsAttention
	}
	if err := s.statuses.UpdateOne(ctx, sessionID, questionKey, update); err != nil {
		return reviewed, fmt.Errorf("status persist failed: %w", err)
	}
	return reviewed, nil
}

// MarkAllReviewed flips every unreviewed question and persists the
// batch in one write. Returns how many flipped; zero is a no-op.
func (s *ReviewService) MarkAllReviewed(ctx context.Context, sessionID string) (int, error) {
	st, err := s.managerFor(sessionID)
	if err != nil {
		return 0, err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	now := time.Now().UTC()
	changed, err := st.manager.MarkAllReviewed(now)
	if err != nil {
		return 0, err
	}
	if len(changed) == 0 {
		return 0, nil
	}

	update := bson.M{"is_reviewed": true, "reviewed_at": now, "needs_attention": false}
	if err := s.statuses.MarkAll(ctx, sessionID, changed, update); err != nil {
		return len(changed), fmt.Errorf("status persist failed: %w", err)
	}
	return len(changed), nil
}

// SetIssues records validation findings for one question and
// persists them.
func (s *ReviewService) SetIssues(ctx context.Context, sessionID, questionKey string, count int) error {
	st, err := s.managerFor(sessionID)
	if err != nil {
		return err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	if err := st.manager.SetIssues(questionKey, count); err != nil {
		return err
	}
	update := bson.M{"has_issues": count > 0, "issue_count": count}
	if status, ok := st.manager.QuestionStatusFor(questionKey); ok {
		update["needs_attention"] = status.NeedsAttention
	}
	if err := s.statuses.UpdateOne(ctx, sessionID, questionKey, update); err != nil {
		return fmt.Errorf("status persist failed: %w", err)
	}
	return nil
}

// RecordSimulation installs a finished run into the state machine and
// flags the session row.
func (s *ReviewService) RecordSimulation(ctx context.Context, sessionID string, results models.SimulationResults) error {
	st, err := s.managerFor(sessionID)
	if err != nil {
		return err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	if err := st.manager.RecordSimulationResult(results); err != nil {
		return err
	}
	passed := st.manager.SimulationGatePassed()
	if err := s.sessions.SetSimulationOutcome(ctx, sessionID, passed); err != nil {
		return fmt.Errorf("session persist failed: %w", err)
	}
	return nil
}

// SessionState returns the current snapshot for external reads.
func (s *ReviewService) SessionState(sessionID string) (review.Snapshot, error) {
	st, err := s.managerFor(sessionID)
	if err != nil {
		return review.Snapshot{}, err
	}
	return st.manager.State(), nil
}

// Session loads the stored session row.
func (s *ReviewService) Session(ctx context.Context, sessionID string) (*models.ReviewSession, error) {
	return s.sessions.FindByID(ctx, sessionID)
}

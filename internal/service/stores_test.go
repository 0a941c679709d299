package service

import (
	"context"
	"fmt"
	"sync"

	"review-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory stores standing in for the Mongo repositories.

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]*models.ReviewSession
	findErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.ReviewSession{}}
}

func (f *fakeSessionStore) FindByID(_ context.Context, id string) (*models.ReviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) FindActive(_ context.Context, importBatchID, userID string) (*models.ReviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, s := range f.sessions {
		if s.ImportBatchID == importBatchID && s.UserID == userID && s.Status == models.SessionActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Create(_ context.Context, session *models.ReviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	session.ID = fmt.Sprintf("sess-%d", f.nextID)
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) Update(_ context.Context, id string, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	if v, ok := update["simulation_completed"].(bool); ok {
		s.SimulationCompleted = v
	}
	if v, ok := update["simulation_passed"].(bool); ok {
		s.SimulationPassed = v
	}
	if v, ok := update["status"].(string); ok {
		s.Status = v
	}
	return nil
}

func (f *fakeSessionStore) SetSimulationOutcome(ctx context.Context, id string, passed bool) error {
	return f.Update(ctx, id, bson.M{"simulation_completed": true, "simulation_passed": passed})
}

type fakeStatusStore struct {
	mu      sync.Mutex
	rows    map[string]*models.ReviewStatus // sessionID+"|"+questionKey
	loadErr error
	saveErr error
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{rows: map[string]*models.ReviewStatus{}}
}

func statusKey(sessionID, questionKey string) string {
	return sessionID + "|" + questionKey
}

func (f *fakeStatusStore) BulkCreate(_ context.Context, statuses []models.ReviewStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, s := range statuses {
		copied := s
		f.rows[statusKey(s.SessionID, s.QuestionKey)] = &copied
	}
	return nil
}

func (f *fakeStatusStore) FindBySession(_ context.Context, sessionID string) ([]models.ReviewStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	var out []models.ReviewStatus
	for _, s := range f.rows {
		if s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStatusStore) UpdateOne(_ context.Context, sessionID, questionKey string, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	s, ok := f.rows[statusKey(sessionID, questionKey)]
	if !ok {
		return fmt.Errorf("status row %s/%s not found", sessionID, questionKey)
	}
	applyStatusUpdate(s, update)
	return nil
}

func (f *fakeStatusStore) MarkAll(_ context.Context, sessionID string, questionKeys []string, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, key := range questionKeys {
		if s, ok := f.rows[statusKey(sessionID, key)]; ok {
			applyStatusUpdate(s, update)
		}
	}
	return nil
}

func applyStatusUpdate(s *models.ReviewStatus, update bson.M) {
	if v, ok := update["is_reviewed"].(bool); ok {
		s.IsReviewed = v
	}
	if v, ok := update["has_issues"].(bool); ok {
		s.HasIssues = v
	}
	if v, ok := update["issue_count"].(int); ok {
		s.IssueCount = v
	}
	if v, ok := update["needs_attention"].(bool); ok {
		s.NeedsAttention = v
	}
}

type fakeQuestionStore struct {
	batches map[string][]models.Question
	loadErr error
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{batches: map[string][]models.Question{}}
}

func (f *fakeQuestionStore) FindByImportBatch(_ context.Context, importBatchID string) ([]models.Question, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.batches[importBatchID], nil
}

type fakeResultStore struct {
	mu      sync.Mutex
	nextID  int
	results []models.SimulationResults
}

func (f *fakeResultStore) Create(_ context.Context, results *models.SimulationResults) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	results.ID = fmt.Sprintf("res-%d", f.nextID)
	f.results = append(f.results, *results)
	return nil
}

func (f *fakeResultStore) FindLatestBySession(_ context.Context, sessionID string) (*models.SimulationResults, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.results) - 1; i >= 0; i-- {
		if f.results[i].SessionID == sessionID {
			copied := f.results[i]
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeCache struct {
	mu       sync.Mutex
	snaps    map[string]models.SimulationResults
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snaps: map[string]models.SimulationResults{}}
}

func (f *fakeCache) SetLatest(_ context.Context, results models.SimulationResults) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.snaps[results.SessionID] = results
	return nil
}

func (f *fakeCache) GetLatest(_ context.Context, sessionID string) (*models.SimulationResults, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if r, ok := f.snaps[sessionID]; ok {
		return &r, nil
	}
	return nil, nil
}

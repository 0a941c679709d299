package service

import (
	"context"
	"errors"
	"testing"

	"review-service/internal/models"
	"review-service/internal/simulation"
)

func newTestSimulationService(t *testing.T) (*SimulationService, *ReviewService, *fakeSessionStore, *fakeResultStore, *fakeCache, string) {
	t.Helper()
	reviews, sessions, _, questions := newTestReviewService(nil)
	results := &fakeResultStore{}
	cache := newFakeCache()
	svc := NewSimulationService(reviews, questions, results, cache, nil)

	session, err := reviews.InitSession(context.Background(), "batch1", "user1", true)
	if err != nil {
		t.Fatal(err)
	}
	return svc, reviews, sessions, results, cache, session.ID
}

func allCorrectSubmissions() map[string]simulation.Submission {
	return map[string]simulation.Submission{
		"a": {Raw: "yes", TimeSpentSeconds: 30},
		"b": {Raw: "yes", TimeSpentSeconds: 30},
		"c": {Raw: "yes", TimeSpentSeconds: 30},
	}
}

func TestSimulationRunPersistsAndGates(t *testing.T) {
	svc, reviews, sessions, store, cache, sessionID := newTestSimulationService(t)
	ctx := context.Background()

	results, err := svc.Run(ctx, sessionID, allCorrectSubmissions(), "90", 90)
	if err != nil {
		t.Fatal(err)
	}
	if results.Percentage != 100 || results.CorrectQuestions != 3 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(store.results) != 1 {
		t.Errorf("results not persisted: %d rows", len(store.results))
	}
	if cache.setCalls != 1 {
		t.Errorf("cache not primed: %d writes", cache.setCalls)
	}

	row := sessions.sessions[sessionID]
	if !row.SimulationCompleted || !row.SimulationPassed {
		t.Errorf("session flags not updated: %+v", row)
	}
	state, _ := reviews.SessionState(sessionID)
	if !state.SimulationPassed {
		t.Error("state machine did not record the passing run")
	}
}

func TestSimulationRunFailingScoreDoesNotPass(t *testing.T) {
	svc, reviews, _, _, _, sessionID := newTestSimulationService(t)

	subs := map[string]simulation.Submission{"a": {Raw: "no"}}
	results, err := svc.Run(context.Background(), sessionID, subs, "90", 90)
	if err != nil {
		t.Fatal(err)
	}
	if results.Percentage != 0 {
		t.Fatalf("expected 0%%, got %f", results.Percentage)
	}
	state, _ := reviews.SessionState(sessionID)
	if state.SimulationPassed {
		t.Error("failing run must not pass the gate")
	}
}

func TestSimulationRunRefusesMalformedQuestions(t *testing.T) {
	reviews, _, _, questions := newTestReviewService(nil)
	questions.batches["batch1"] = []models.Question{{ID: "a", ImportBatchID: "batch1"}}
	store := &fakeResultStore{}
	svc := NewSimulationService(reviews, questions, store, nil, nil)
	session, _ := reviews.InitSession(context.Background(), "batch1", "user1", false)

	_, err := svc.Run(context.Background(), session.ID, nil, "", 0)
	var vde *simulation.ValidationDataError
	if !errors.As(err, &vde) {
		t.Fatalf("expected ValidationDataError, got %v", err)
	}
	if len(store.results) != 0 {
		t.Error("refused run must not persist results")
	}
}

func TestLatestResultsCacheFirst(t *testing.T) {
	svc, _, _, store, cache, sessionID := newTestSimulationService(t)
	ctx := context.Background()

	if _, err := svc.LatestResults(ctx, sessionID); err != ErrNoResults {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}

	if _, err := svc.Run(ctx, sessionID, allCorrectSubmissions(), "90", 90); err != nil {
		t.Fatal(err)
	}

	// Cached by the run: the store is not consulted again.
	cache.getCalls = 0
	latest, err := svc.LatestResults(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Percentage != 100 || cache.getCalls != 1 {
		t.Errorf("expected a cache hit: %+v calls=%d", latest, cache.getCalls)
	}

	// Cold cache falls back to the store and re-primes.
	cache.snaps = map[string]models.SimulationResults{}
	cache.setCalls = 0
	latest, err = svc.LatestResults(ctx, sessionID)
	if err != nil || latest == nil {
		t.Fatalf("store fallback failed: %v", err)
	}
	if cache.setCalls != 1 {
		t.Error("miss should re-prime the cache")
	}
	if len(store.results) != 1 {
		t.Errorf("unexpected store state: %d rows", len(store.results))
	}
}

func TestAnalyticsFromLatestRun(t *testing.T) {
	svc, _, _, _, _, sessionID := newTestSimulationService(t)
	ctx := context.Background()

	if _, err := svc.Analytics(ctx, sessionID); err != ErrNoResults {
		t.Fatalf("expected ErrNoResults before any run, got %v", err)
	}

	if _, err := svc.Run(ctx, sessionID, allCorrectSubmissions(), "90", 90); err != nil {
		t.Fatal(err)
	}
	report, err := svc.Analytics(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if report.Grade.Grade != "A*" {
		t.Errorf("perfect run should grade A*, got %s", report.Grade.Grade)
	}
	if len(report.FastestRight) != 3 {
		t.Errorf("expected 3 fastest-correct entries, got %d", len(report.FastestRight))
	}
}

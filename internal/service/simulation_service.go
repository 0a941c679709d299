package service

import (
	"context"
	"fmt"
	"log"

	"review-service/internal/analytics"
	"review-service/internal/models"
	"review-service/internal/simulation"
)

type ResultStore interface {
	Create(ctx context.Context, results *models.SimulationResults) error
	FindLatestBySession(ctx context.Context, sessionID string) (*models.SimulationResults, error)
}

// ResultsCache is the optional hot copy of the latest snapshot.
type ResultsCache interface {
	SetLatest(ctx context.Context, results models.SimulationResults) error
	GetLatest(ctx context.Context, sessionID string) (*models.SimulationResults, error)
}

// ErrNoResults is returned when a session has never been simulated.
var ErrNoResults = fmt.Errorf("no simulation results for session")

// SimulationService runs the scoring pipeline against a session's
// question batch and records the outcome.
type SimulationService struct {
	reviews   *ReviewService
	questions QuestionStore
	results   ResultStore
	cache     ResultsCache
	clock     simulation.Clock
}

// NewSimulationService wires the pipeline. cache may be nil; clock
// nil means wall time.
func NewSimulationService(reviews *ReviewService, questions QuestionStore, results ResultStore, cache ResultsCache, clock simulation.Clock) *SimulationService {
	if clock == nil {
		clock = simulation.NewClock()
	}
	return &SimulationService{
		reviews:   reviews,
		questions: questions,
		results:   results,
		cache:     cache,
		clock:     clock,
	}
}

// Run scores a full attempt and persists it. A *ValidationDataError
// from malformed questions refuses the run before scoring; the caller
// surfaces the itemized list.
func (s *SimulationService) Run(ctx context.Context, sessionID string, submissions map[string]simulation.Submission, paperDuration string, elapsedSeconds int) (models.SimulationResults, error) {
	session, err := s.reviews.Session(ctx, sessionID)
	if err != nil {
		return models.SimulationResults{}, fmt.Errorf("session lookup failed: %w", err)
	}
	questions, err := s.questions.FindByImportBatch(ctx, session.ImportBatchID)
	if err != nil {
		return models.SimulationResults{}, fmt.Errorf("question load failed: %w", err)
	}

	runner := simulation.NewRunner(s.clock, nil, nil)
	results, err := runner.Run(sessionID, questions, submissions, paperDuration, elapsedSeconds)
	if err != nil {
		return models.SimulationResults{}, err
	}

	if err := s.results.Create(ctx, &results); err != nil {
		return models.SimulationResults{}, fmt.Errorf("result persist failed: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, results); err != nil {
			log.Printf("results cache write failed: %v", err)
		}
	}
	if err := s.reviews.RecordSimulation(ctx, sessionID, results); err != nil {
		return results, err
	}
	return results, nil
}

// LatestResults serves the newest snapshot, cache first, store on a
// miss.
func (s *SimulationService) LatestResults(ctx context.Context, sessionID string) (*models.SimulationResults, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLatest(ctx, sessionID)
		if err != nil {
			log.Printf("results cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	results, err := s.results.FindLatestBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		return nil, ErrNoResults
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, *results); err != nil {
			log.Printf("results cache write failed: %v", err)
		}
	}
	return results, nil
}

// Analytics derives the report from the latest run.
func (s *SimulationService) Analytics(ctx context.Context, sessionID string) (analytics.Analytics, error) {
	results, err := s.LatestResults(ctx, sessionID)
	if err != nil {
		return analytics.Analytics{}, err
	}
	return analytics.Build(*results), nil
}

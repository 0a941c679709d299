package review

import (
	"fmt"
	"sync"
	"time"

	"review-service/internal/models"
)

// PassThresholdPercent is the simulation score a session must reach
// before import is allowed. Fixed policy for now; promote to
// configuration if papers ever need their own threshold.
const PassThresholdPercent = 70.0

// ReadyFunc is notified synchronously after every state change with
// the re-evaluated import readiness.
type ReadyFunc func(ready bool)

// Manager owns the review flags and the latest simulation snapshot
// for one session. It is pure state: persistence and auth live with
// the caller, which drives the lifecycle through BeginInit,
// CompleteInit and FailInit. All methods are safe for concurrent use;
// the ReadyFunc is invoked outside the internal lock, so it may call
// back into the Manager.
type Manager struct {
	mu                sync.Mutex
	phase             Phase
	initErr           error
	requireSimulation bool
	statuses          map[string]*QuestionStatus
	latest            *models.SimulationResults
	onReady           ReadyFunc
}

// NewManager creates an uninitialized manager. notify may be nil.
func NewManager(requireSimulation bool, notify ReadyFunc) *Manager {
	return &Manager{
		phase:             PhaseNew,
		requireSimulation: requireSimulation,
		statuses:          map[string]*QuestionStatus{},
		onReady:           notify,
	}
}

// BeginInit marks initialization in flight. Returns false when a call
// is already in flight or the manager is already initialized, so a
// second concurrent trigger becomes a no-op.
func (m *Manager) BeginInit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseInitializing || m.phase == PhaseReady {
		return false
	}
	m.phase = PhaseInitializing
	m.initErr = nil
	return true
}

// CompleteInit installs the question set loaded from the store and
// makes the manager operational. Re-initialization replaces state
// wholesale, so a retry after failure starts clean.
func (m *Manager) CompleteInit(statuses []QuestionStatus) {
	m.mu.Lock()
	m.statuses = make(map[string]*QuestionStatus, len(statuses))
	for _, s := range statuses {
		s := s
		s.NeedsAttention = s.HasIssues && !s.IsReviewed
		m.statuses[s.QuestionKey] = &s
	}
	m.phase = PhaseReady
	m.initErr = nil
	ready := m.importReadyLocked()
	m.mu.Unlock()
	m.notify(ready)
}

// FailInit records a failed initialization. The manager stays
// unusable but distinguishable from one never started.
func (m *Manager) FailInit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = PhaseFailed
	m.initErr = err
}

// Phase returns the lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// InitError returns the failure from the last initialization attempt.
func (m *Manager) InitError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initErr
}

// ToggleReview flips one question's reviewed flag and returns the new
// value. The count is derived from the map, so repeated rapid calls
// can never double-count.
func (m *Manager) ToggleReview(questionKey string, now time.Time) (bool, error) {
	m.mu.Lock()
	if err := m.mustBeReadyLocked(); err != nil {
		m.mu.Unlock()
		return false, err
	}
	s, ok := m.statuses[questionKey]
	if !ok {
		m.mu.Unlock()
		return false, fmt.Errorf("unknown question %q", questionKey)
	}
	s.IsReviewed = !s.IsReviewed
	if s.IsReviewed {
		t := now
		s.ReviewedAt = &t
	} else {
		s.ReviewedAt = nil
	}
	s.NeedsAttention = s.HasIssues && !s.IsReviewed
	reviewed := s.IsReviewed
	ready := m.importReadyLocked()
	m.mu.Unlock()
	m.notify(ready)
	return reviewed, nil
}

// MarkAllReviewed flips every unreviewed question in one batch and
// returns the keys it changed. A fully reviewed session is a no-op,
// not an error.
func (m *Manager) MarkAllReviewed(now time.Time) ([]string, error) {
	m.mu.Lock()
	if err := m.mustBeReadyLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	var changed []string
	for key, s := range m.statuses {
		if s.IsReviewed {
			continue
		}
		s.IsReviewed = true
		t := now
		s.ReviewedAt = &t
		s.NeedsAttention = false
		changed = append(changed, key)
	}
	ready := m.importReadyLocked()
	m.mu.Unlock()
	if len(changed) > 0 {
		m.notify(ready)
	}
	return changed, nil
}

// SetIssues records validation findings against one question. Set by
// the validator, never by the reviewer. An unreviewed question with
// open issues is flagged as needing attention.
func (m *Manager) SetIssues(questionKey string, count int) error {
	m.mu.Lock()
	if err := m.mustBeReadyLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	s, ok := m.statuses[questionKey]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown question %q", questionKey)
	}
	s.IssueCount = count
	s.HasIssues = count > 0
	s.NeedsAttention = s.HasIssues && !s.IsReviewed
	ready := m.importReadyLocked()
	m.mu.Unlock()
	m.notify(ready)
	return nil
}

// RecordSimulationResult replaces the latest results snapshot and
// recomputes the simulation gate.
func (m *Manager) RecordSimulationResult(results models.SimulationResults) error {
	m.mu.Lock()
	if err := m.mustBeReadyLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	r := results
	m.latest = &r
	ready := m.importReadyLocked()
	m.mu.Unlock()
	m.notify(ready)
	return nil
}

// QuestionStatusFor returns a copy of one question's status.
func (m *Manager) QuestionStatusFor(questionKey string) (QuestionStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[questionKey]
	if !ok {
		return QuestionStatus{}, false
	}
	return *s, true
}

// ReviewedCount counts questions currently flagged reviewed.
func (m *Manager) ReviewedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewedCountLocked()
}

func (m *Manager) reviewedCountLocked() int {
	n := 0
	for _, s := range m.statuses {
		if s.IsReviewed {
			n++
		}
	}
	return n
}

// AllReviewed reports whether every question has been reviewed.
// An empty or uninitialized session is never all-reviewed.
func (m *Manager) AllReviewed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allReviewedLocked()
}

func (m *Manager) allReviewedLocked() bool {
	return m.phase == PhaseReady && len(m.statuses) > 0 && m.reviewedCountLocked() == len(m.statuses)
}

// SimulationGatePassed reports whether the simulation requirement is
// satisfied: either no simulation is required, or the latest run
// scored at or above the pass threshold.
func (m *Manager) SimulationGatePassed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gatePassedLocked()
}

func (m *Manager) gatePassedLocked() bool {
	if !m.requireSimulation {
		return true
	}
	return m.latest != nil && m.latest.Percentage >= PassThresholdPercent
}

// ImportReady reports whether the batch can be imported.
func (m *Manager) ImportReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importReadyLocked()
}

func (m *Manager) importReadyLocked() bool {
	return m.allReviewedLocked() && m.gatePassedLocked()
}

// LatestResults returns the latest simulation snapshot, nil before
// any run. The snapshot is replaced wholesale on each run, never
// mutated in place.
func (m *Manager) LatestResults() *models.SimulationResults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// State returns a copy of the full session state for external reads.
func (m *Manager) State() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := make(map[string]QuestionStatus, len(m.statuses))
	for k, s := range m.statuses {
		statuses[k] = *s
	}
	snap := Snapshot{
		Phase:             m.phase,
		RequireSimulation: m.requireSimulation,
		TotalQuestions:    len(m.statuses),
		ReviewedCount:     m.reviewedCountLocked(),
		AllReviewed:       m.allReviewedLocked(),
		SimulationPassed:  m.gatePassedLocked(),
		ImportReady:       m.importReadyLocked(),
		Statuses:          statuses,
	}
	if m.latest != nil {
		r := *m.latest
		snap.LatestResults = &r
	}
	return snap
}

func (m *Manager) mustBeReadyLocked() error {
	switch m.phase {
	case PhaseReady:
		return nil
	case PhaseFailed:
		return fmt.Errorf("session initialization failed: %w", m.initErr)
	default:
		return fmt.Errorf("session not initialized")
	}
}

func (m *Manager) notify(ready bool) {
	if m.onReady != nil {
		m.onReady(ready)
	}
}

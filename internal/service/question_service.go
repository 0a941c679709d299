package service

import (
	"context"
	"sync"

	"review-service/internal/simulation"

	"go.mongodb.org/mongo-driver/bson"
)

type QuestionEditor interface {
	Update(ctx context.Context, id string, update bson.M) error
}

// QuestionEditService coalesces rapid edits to one question into a
// single store write per quiescence window. Edits apply optimistically;
// a failed write stays pending and is retried on the next flush.
type QuestionEditService struct {
	editor  QuestionEditor
	clock   simulation.Clock
	onError func(error)

	mu      sync.Mutex
	pending map[string]*simulation.Autosave
}

func NewQuestionEditService(editor QuestionEditor, clock simulation.Clock, onError func(error)) *QuestionEditService {
	if clock == nil {
		clock = simulation.NewClock()
	}
	return &QuestionEditService{
		editor:  editor,
		clock:   clock,
		onError: onError,
		pending: map[string]*simulation.Autosave{},
	}
}

// Edit schedules a debounced write of one question's changed fields.
// Later edits within the window replace earlier ones.
func (s *QuestionEditService) Edit(questionID string, update bson.M) {
	s.saverFor(questionID).Schedule(update)
}

// SaveAll bypasses the debounce and writes every pending edit now.
// The first failure is returned; remaining questions still flush.
func (s *QuestionEditService) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	savers := make([]*simulation.Autosave, 0, len(s.pending))
	for _, a := range s.pending {
		savers = append(savers, a)
	}
	s.mu.Unlock()

	var firstErr error
	for _, a := range savers {
		if err := a.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *QuestionEditService) saverFor(questionID string) *simulation.Autosave {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.pending[questionID]
	if !ok {
		id := questionID
		a = simulation.NewAutosave(s.clock, simulation.DefaultAutosaveDelay, func(ctx context.Context, payload interface{}) error {
			update, _ := payload.(bson.M)
			return s.editor.Update(ctx, id, update)
		}, s.onError)
		s.pending[questionID] = a
	}
	return a
}

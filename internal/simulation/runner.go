package simulation

import (
	"fmt"
	"strings"

	"review-service/internal/models"
	"review-service/internal/scoring"
)

// Submission is one raw answer against a leaf, keyed externally by
// the leaf's answer key.
type Submission struct {
	Raw              interface{} `json:"raw"`
	TimeSpentSeconds int         `json:"time_spent_seconds"`
}

// DataIssue names the required fields one question is missing.
type DataIssue struct {
	QuestionID string   `json:"question_id"`
	Number     int      `json:"number"`
	Missing    []string `json:"missing"`
}

// ValidationDataError blocks a simulation from starting against
// malformed questions. Issues is the itemized list for the caller to
// surface.
type ValidationDataError struct {
	Issues []DataIssue
}

func (e *ValidationDataError) Error() string {
	names := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		names = append(names, fmt.Sprintf("question %d (%s): missing %s", i.Number, i.QuestionID, strings.Join(i.Missing, ", ")))
	}
	return "simulation blocked by invalid question data: " + strings.Join(names, "; ")
}

// CheckQuestions returns one issue per question missing required
// fields. An empty list means simulation may start.
func CheckQuestions(questions []models.Question) []DataIssue {
	var issues []DataIssue
	for i := range questions {
		q := &questions[i]
		if missing := q.MissingFields(); len(missing) > 0 {
			issues = append(issues, DataIssue{QuestionID: q.ID, Number: q.Number, Missing: missing})
		}
	}
	return issues
}

// Score validates every submitted answer against its leaf's mark
// scheme and converts the fraction into awarded marks. Leaves with no
// submission get no entry; the aggregator treats them as unattempted.
func Score(questions []models.Question, submissions map[string]Submission) map[string]models.UserAnswer {
	answers := make(map[string]models.UserAnswer, len(submissions))
	for i := range questions {
		forEachLeaf(&questions[i], func(key string, leaf models.Scoreable) {
			sub, ok := submissions[key]
			if !ok {
				return
			}
			verdict := scoring.Validate(leaf, sub.Raw)
			answers[key] = models.UserAnswer{
				Key:              key,
				Raw:              sub.Raw,
				IsCorrect:        verdict.IsCorrect,
				MarksAwarded:     verdict.Score * leaf.GetMarks(),
				PartialCredit:    verdict.PartialCredit,
				TimeSpentSeconds: sub.TimeSpentSeconds,
			}
		})
	}
	return answers
}

func forEachLeaf(q *models.Question, fn func(key string, leaf models.Scoreable)) {
	if !q.HasParts() {
		fn(models.AnswerKey(q.ID, "", ""), q)
		return
	}
	for pi := range q.Parts {
		p := &q.Parts[pi]
		if len(p.Subparts) == 0 {
			fn(models.AnswerKey(q.ID, p.ID, ""), p)
			continue
		}
		for si := range p.Subparts {
			s := &p.Subparts[si]
			fn(models.AnswerKey(q.ID, p.ID, s.ID), s)
		}
	}
}

// Runner drives one simulation attempt through the scoring pipeline.
// onComplete receives the results of a finished run; onExit fires
// when the attempt is abandoned without scoring.
type Runner struct {
	clock      Clock
	onComplete func(models.SimulationResults)
	onExit     func()
}

// NewRunner creates a runner. Both callbacks may be nil.
func NewRunner(clock Clock, onComplete func(models.SimulationResults), onExit func()) *Runner {
	if clock == nil {
		clock = NewClock()
	}
	return &Runner{clock: clock, onComplete: onComplete, onExit: onExit}
}

// Run checks the questions, scores the submissions and aggregates the
// results. A *ValidationDataError refuses the run before any scoring.
func (r *Runner) Run(sessionID string, questions []models.Question, submissions map[string]Submission, paperDuration string, elapsedSeconds int) (models.SimulationResults, error) {
	if issues := CheckQuestions(questions); len(issues) > 0 {
		return models.SimulationResults{}, &ValidationDataError{Issues: issues}
	}

	answers := Score(questions, submissions)
	results := scoring.BuildResults(sessionID, questions, answers, elapsedSeconds, paperDuration, r.clock.Now())
	if r.onComplete != nil {
		r.onComplete(results)
	}
	return results, nil
}

// Exit abandons the attempt without producing results.
func (r *Runner) Exit() {
	if r.onExit != nil {
		r.onExit()
	}
}

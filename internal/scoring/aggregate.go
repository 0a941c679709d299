package scoring

import (
	"fmt"
	"time"

	"review-service/internal/models"
)

// Aggregate folds a question's answers into a single scored result. The
// walk is bounded to the two levels the data model allows
// (question→part→subpart); there is deliberately no generic recursion.
//
// A question either scores through its part tree or as a single leaf,
// never both. Earned marks come straight off each leaf's UserAnswer;
// shape irregularities degrade to zero credit instead of erroring.
func Aggregate(q *models.Question, answers map[string]models.UserAnswer) models.QuestionResult {
	result := models.QuestionResult{
		QuestionID: q.ID,
		Number:     q.Number,
		Topic:      q.Topic,
		Unit:       q.Unit,
		Subtopic:   q.Subtopic,
		Difficulty: q.Difficulty,
		Type:       q.Type,
	}

	if !q.HasParts() {
		leaf := leafScore(models.AnswerKey(q.ID, "", ""), q.Marks, answers)
		leaf.Topic, leaf.Unit, leaf.Subtopic = q.Topic, q.Unit, q.Subtopic
		leaf.Difficulty, leaf.Type = q.Difficulty, q.Type
		result.Earned = leaf.Earned
		result.Total = q.Marks
		result.Attempted = leaf.Attempted
		result.TimeSpentSeconds = leaf.TimeSpentSeconds
		result.Parts = []models.PartScore{leaf}
	} else {
		for pi := range q.Parts {
			part := &q.Parts[pi]
			if len(part.Subparts) == 0 {
				leaf := leafScore(models.AnswerKey(q.ID, part.ID, ""), part.Marks, answers)
				leaf.PartID = part.ID
				leaf.Label = part.Label
				fillTags(&leaf, part.Topic, part.Unit, part.Subtopic, part.Difficulty, part.Type, q)
				accumulate(&result, leaf)
				continue
			}
			for si := range part.Subparts {
				sub := &part.Subparts[si]
				leaf := leafScore(models.AnswerKey(q.ID, part.ID, sub.ID), sub.Marks, answers)
				leaf.PartID = part.ID
				leaf.SubpartID = sub.ID
				leaf.Label = sub.Label
				fillTags(&leaf,
					firstNonEmpty(sub.Topic, part.Topic),
					firstNonEmpty(sub.Unit, part.Unit),
					firstNonEmpty(sub.Subtopic, part.Subtopic),
					firstNonEmpty(sub.Difficulty, part.Difficulty),
					firstNonEmpty(sub.Type, part.Type), q)
				accumulate(&result, leaf)
			}
		}
		if result.Total == 0 {
			// Misconfigured part marks: fall back to the question's own
			// total so percentages stay divide-by-zero free.
			result.Total = q.Marks
		}
	}

	result.IsCorrect = result.Total > 0 && result.Earned == result.Total
	result.Feedback = feedbackFor(result)
	return result
}

// BuildResults aggregates every question of a run into the
// session-level results snapshot. elapsed is injected rather than read
// from the wall clock.
func BuildResults(sessionID string, questions []models.Question, answers map[string]models.UserAnswer, elapsedSeconds int, paperDuration string, now time.Time) models.SimulationResults {
	results := models.SimulationResults{
		SessionID:        sessionID,
		TotalQuestions:   len(questions),
		TimeTakenSeconds: elapsedSeconds,
		PaperDuration:    paperDuration,
		CreatedAt:        now,
	}

	for i := range questions {
		qr := Aggregate(&questions[i], answers)
		results.Questions = append(results.Questions, qr)
		results.TotalMarks += qr.Total
		results.EarnedMarks += qr.Earned

		if qr.Attempted {
			results.AnsweredQuestions++
		}
		switch {
		case qr.IsCorrect:
			results.CorrectQuestions++
		case qr.IsPartial():
			results.PartialQuestions++
		case qr.Attempted:
			results.IncorrectQuestions++
		}
	}

	if results.TotalMarks > 0 {
		results.Percentage = results.EarnedMarks / results.TotalMarks * 100
	}
	return results
}

func leafScore(key string, marks float64, answers map[string]models.UserAnswer) models.PartScore {
	leaf := models.PartScore{Total: marks}
	ua, ok := answers[key]
	if !ok {
		return leaf
	}
	leaf.Attempted = !IsUnanswered(ua.Raw)
	leaf.TimeSpentSeconds = ua.TimeSpentSeconds
	if leaf.Attempted {
		leaf.Earned = ua.MarksAwarded
		leaf.PartialCredit = ua.PartialCredit
	}
	return leaf
}

func accumulate(result *models.QuestionResult, leaf models.PartScore) {
	result.Earned += leaf.Earned
	result.Total += leaf.Total
	result.TimeSpentSeconds += leaf.TimeSpentSeconds
	if leaf.Attempted {
		result.Attempted = true
	}
	result.Parts = append(result.Parts, leaf)
}

func fillTags(leaf *models.PartScore, topic, unit, subtopic, difficulty, itemType string, q *models.Question) {
	leaf.Topic = firstNonEmpty(topic, q.Topic)
	leaf.Unit = firstNonEmpty(unit, q.Unit)
	leaf.Subtopic = firstNonEmpty(subtopic, q.Subtopic)
	leaf.Difficulty = firstNonEmpty(difficulty, q.Difficulty)
	leaf.Type = firstNonEmpty(itemType, q.Type)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func feedbackFor(r models.QuestionResult) string {
	switch {
	case !r.Attempted:
		return "not attempted"
	case r.IsCorrect:
		return "correct"
	case r.Earned > 0:
		return fmt.Sprintf("partial credit: %.4g of %.4g marks", r.Earned, r.Total)
	default:
		return "incorrect"
	}
}

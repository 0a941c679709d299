package analytics

import (
	"fmt"
	"sort"

	"review-service/internal/models"
)

// Insight rule thresholds.
const (
	focusAccuracyBelow   = 75.0
	strengthAccuracyFrom = 85.0
	pacingDeltaFraction  = 0.10
	outlierListSize      = 5
)

// TagExtractor picks the grouping key off one scored leaf.
type TagExtractor func(models.PartScore) string

// Build derives the full analytics report from one simulation run.
// Pure: reads only the results object, never raw answers or the clock.
func Build(results models.SimulationResults) Analytics {
	byTopic := BuildGroups(results, func(p models.PartScore) string { return p.Topic })
	pacing := BuildPacing(results)

	return Analytics{
		ByTopic:      byTopic,
		ByUnit:       BuildGroups(results, func(p models.PartScore) string { return p.Unit }),
		BySubtopic:   BuildGroups(results, func(p models.PartScore) string { return p.Subtopic }),
		ByDifficulty: BuildGroups(results, func(p models.PartScore) string { return p.Difficulty }),
		ByType:       BuildGroups(results, func(p models.PartScore) string { return p.Type }),
		Grade:        ProjectGrade(results.Percentage, results.TotalMarks),
		Pacing:       pacing,
		Insights:     BuildInsights(results, byTopic, pacing),
		Slowest:      SlowestQuestions(results.Questions),
		FastestRight: FastestCorrectQuestions(results.Questions),
	}
}

// BuildGroups aggregates every scored leaf under the key the extractor
// returns. Leaves with an empty key are left out. Groups come back
// sorted by accuracy descending, name ascending on ties.
func BuildGroups(results models.SimulationResults, extract TagExtractor) []GroupStat {
	groups := make(map[string]*GroupStat)
	for _, q := range results.Questions {
		for _, leaf := range q.Parts {
			name := extract(leaf)
			if name == "" {
				continue
			}
			g, ok := groups[name]
			if !ok {
				g = &GroupStat{Name: name}
				groups[name] = g
			}
			addLeaf(g, leaf)
		}
	}

	out := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		if g.TotalMarks > 0 {
			g.Accuracy = g.EarnedMarks / g.TotalMarks * 100
		}
		if g.Attempted > 0 {
			g.AvgTimeSeconds = float64(g.TimeSpentSeconds) / float64(g.Attempted)
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func addLeaf(g *GroupStat, leaf models.PartScore) {
	g.EarnedMarks += leaf.Earned
	g.TotalMarks += leaf.Total
	if !leaf.Attempted {
		g.Unattempted++
		return
	}
	g.Attempted++
	g.TimeSpentSeconds += leaf.TimeSpentSeconds
	switch {
	case leaf.Total > 0 && leaf.Earned == leaf.Total:
		g.Correct++
	case leaf.Earned > 0:
		g.Partial++
	default:
		g.Incorrect++
	}
}

// BuildPacing compares elapsed time with the paper's declared duration.
func BuildPacing(results models.SimulationResults) Pacing {
	allocated := ParseDurationSeconds(results.PaperDuration)
	p := Pacing{
		AllocatedSeconds: allocated,
		ElapsedSeconds:   results.TimeTakenSeconds,
		HasAllocation:    allocated > 0,
	}
	if p.HasAllocation {
		p.DeltaSeconds = results.TimeTakenSeconds - allocated
	}
	return p
}

// BuildInsights runs the rule list over the aggregated breakdowns.
// Each rule reads groups and counts only, never raw answers.
func BuildInsights(results models.SimulationResults, byTopic []GroupStat, pacing Pacing) []Insight {
	var insights []Insight

	if unattempted := results.TotalQuestions - results.AnsweredQuestions; unattempted > 0 {
		insights = append(insights, Insight{
			Kind:    InsightCoverage,
			Message: fmt.Sprintf("%d question(s) left unattempted; complete full papers to build coverage", unattempted),
		})
	}

	for _, g := range byTopic {
		if g.Attempted == 0 {
			continue
		}
		if g.Accuracy < focusAccuracyBelow {
			insights = append(insights, Insight{
				Kind:    InsightFocusArea,
				Message: fmt.Sprintf("%s is a focus area (%.0f%% accuracy)", g.Name, g.Accuracy),
			})
		} else if g.Accuracy >= strengthAccuracyFrom {
			insights = append(insights, Insight{
				Kind:    InsightStrength,
				Message: fmt.Sprintf("%s is a strength (%.0f%% accuracy)", g.Name, g.Accuracy),
			})
		}
	}

	if pacing.HasAllocation {
		limit := int(float64(pacing.AllocatedSeconds) * pacingDeltaFraction)
		if pacing.DeltaSeconds > limit {
			insights = append(insights, Insight{
				Kind:    InsightTimeManagement,
				Message: fmt.Sprintf("finished %s over the allocated time; practice working under timed conditions", formatSeconds(pacing.DeltaSeconds)),
			})
		} else if -pacing.DeltaSeconds > limit {
			insights = append(insights, Insight{
				Kind:    InsightTimeManagement,
				Message: fmt.Sprintf("finished %s early; use spare time to check working", formatSeconds(-pacing.DeltaSeconds)),
			})
		}
	}

	return insights
}

// SlowestQuestions returns the attempted questions that took longest,
// time descending, at most five.
func SlowestQuestions(questions []models.QuestionResult) []TimeOutlier {
	attempted := filterOutliers(questions, func(q models.QuestionResult) bool {
		return q.Attempted
	})
	sort.Slice(attempted, func(i, j int) bool {
		return attempted[i].TimeSpentSeconds > attempted[j].TimeSpentSeconds
	})
	return truncateOutliers(attempted)
}

// FastestCorrectQuestions returns the quickest fully-correct questions,
// time ascending, at most five.
func FastestCorrectQuestions(questions []models.QuestionResult) []TimeOutlier {
	correct := filterOutliers(questions, func(q models.QuestionResult) bool {
		return q.Attempted && q.IsCorrect
	})
	sort.Slice(correct, func(i, j int) bool {
		return correct[i].TimeSpentSeconds < correct[j].TimeSpentSeconds
	})
	return truncateOutliers(correct)
}

func filterOutliers(questions []models.QuestionResult, keep func(models.QuestionResult) bool) []TimeOutlier {
	var out []TimeOutlier
	for _, q := range questions {
		if !keep(q) {
			continue
		}
		out = append(out, TimeOutlier{
			QuestionID:       q.QuestionID,
			Number:           q.Number,
			TimeSpentSeconds: q.TimeSpentSeconds,
			Earned:           q.Earned,
			Total:            q.Total,
			IsCorrect:        q.IsCorrect,
		})
	}
	return out
}

func truncateOutliers(list []TimeOutlier) []TimeOutlier {
	if len(list) > outlierListSize {
		return list[:outlierListSize]
	}
	return list
}

func formatSeconds(s int) string {
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

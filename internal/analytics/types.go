package analytics

// GroupStat is the aggregated performance of one tag group
// (one topic, one unit, one difficulty band, one question type).
type GroupStat struct {
	Name             string  `json:"name"`
	Attempted        int     `json:"attempted"`
	Unattempted      int     `json:"unattempted"`
	Correct          int     `json:"correct"`
	Partial          int     `json:"partial"`
	Incorrect        int     `json:"incorrect"`
	EarnedMarks      float64 `json:"earned_marks"`
	TotalMarks       float64 `json:"total_marks"`
	Accuracy         float64 `json:"accuracy"`
	AvgTimeSeconds   float64 `json:"avg_time_seconds"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
}

// GradeProjection places the overall percentage on the grade table.
type GradeProjection struct {
	Grade            string  `json:"grade"`
	Description      string  `json:"description"`
	Percentage       float64 `json:"percentage"`
	NextGrade        string  `json:"next_grade,omitempty"`
	NextThreshold    float64 `json:"next_threshold,omitempty"`
	MarksToNextGrade int     `json:"marks_to_next_grade,omitempty"`
}

// Pacing compares elapsed time against the paper's allocated time.
// DeltaSeconds is positive when the run took longer than allocated.
type Pacing struct {
	AllocatedSeconds int  `json:"allocated_seconds"`
	ElapsedSeconds   int  `json:"elapsed_seconds"`
	DeltaSeconds     int  `json:"delta_seconds"`
	HasAllocation    bool `json:"has_allocation"`
}

// Insight is one rule-generated recommendation.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	InsightCoverage       = "coverage"
	InsightFocusArea      = "focus_area"
	InsightStrength       = "strength"
	InsightTimeManagement = "time_management"
)

// TimeOutlier is one question flagged for its time spent.
type TimeOutlier struct {
	QuestionID       string  `json:"question_id"`
	Number           int     `json:"number"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
	Earned           float64 `json:"earned"`
	Total            float64 `json:"total"`
	IsCorrect        bool    `json:"is_correct"`
}

// Analytics is the full derived report for one simulation run.
type Analytics struct {
	ByTopic      []GroupStat     `json:"by_topic"`
	ByUnit       []GroupStat     `json:"by_unit"`
	BySubtopic   []GroupStat     `json:"by_subtopic"`
	ByDifficulty []GroupStat     `json:"by_difficulty"`
	ByType       []GroupStat     `json:"by_type"`
	Grade        GradeProjection `json:"grade"`
	Pacing       Pacing          `json:"pacing"`
	Insights     []Insight       `json:"insights"`
	Slowest      []TimeOutlier   `json:"slowest"`
	FastestRight []TimeOutlier   `json:"fastest_right"`
}

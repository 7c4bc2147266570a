package risk

import (
	"fmt"
	"math"

	"github.com/boardprep/backend/internal/models"
)

// maxTrendLength bounds the history window an assessment looks at.
const maxTrendLength = 20

// Thresholds are the fixed cut points of the risk heuristic.
type Thresholds struct {
	PassingScore   float64
	HighRisk       float64
	MediumRisk     float64
	CriticalRisk   float64
	CriticalWeeks  int
	MinHealthyRate float64 // percent per week
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PassingScore:   75.0,
		HighRisk:       0.7,
		MediumRisk:     0.4,
		CriticalRisk:   0.9,
		CriticalWeeks:  4,
		MinHealthyRate: 0.5,
	}
}

// Inputs are the aggregates derived from a student's attempt history.
type Inputs struct {
	SubjectAverages map[models.Subject]float64
	Trend           []float64 // overall percentages, oldest first
	Consistency     float64   // 1 − normalized stddev of the trend, in [0,1]
	ImprovementRate float64   // OLS slope of percentage vs attempt index
	WeeksUntilExam  int
}

// DeriveInputs reduces attempt history to the assessor's aggregates. Only the
// most recent maxTrendLength attempts feed the trend.
func DeriveInputs(history []models.TestAttempt, weeksUntilExam int) Inputs {
	if len(history) > maxTrendLength {
		history = history[len(history)-maxTrendLength:]
	}

	trend := make([]float64, 0, len(history))
	subjectTotals := make(map[models.Subject]float64)
	subjectCounts := make(map[models.Subject]int)

	for _, a := range history {
		trend = append(trend, a.Percentage())
		for subject, ss := range a.SubjectScores {
			subjectTotals[subject] += ss.Percentage
			subjectCounts[subject]++
		}
	}

	averages := make(map[models.Subject]float64, len(subjectTotals))
	for subject, total := range subjectTotals {
		averages[subject] = total / float64(subjectCounts[subject])
	}

	return Inputs{
		SubjectAverages: averages,
		Trend:           trend,
		Consistency:     consistency(trend),
		ImprovementRate: slope(trend),
		WeeksUntilExam:  weeksUntilExam,
	}
}

// Assess scores the inputs against the fixed rules. Factors are reported in
// the order evaluated; the score is clamped exactly once, here.
func (t Thresholds) Assess(in Inputs) models.RiskAssessment {
	// Cold start: no history is not an error. Neutral medium with an
	// explicit no-data reason.
	if len(in.Trend) == 0 {
		return models.RiskAssessment{
			RiskScore:      0.5,
			RiskLevel:      models.RiskMedium,
			WeeksUntilExam: in.WeeksUntilExam,
			RiskFactors: []models.RiskFactor{
				{Code: models.FactorNoData, Message: "No test history yet; take a test to get an assessment"},
			},
			Recommendations: tierRecommendations(models.RiskMedium),
		}
	}

	avg := mean(subjectValues(in))
	predicted := avg + in.ImprovementRate*float64(in.WeeksUntilExam)

	var score float64
	var factors []models.RiskFactor

	// Factor 1: current performance.
	if avg < 60 {
		score += 0.4
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorLowAverage,
			Message: "Current average score is below 60%",
		})
	} else if avg < 70 {
		score += 0.2
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorBelowAverage,
			Message: "Current average score is below 70%",
		})
	}

	// Factor 2: projected performance at exam time.
	if predicted < t.PassingScore {
		score += 0.3
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorPredictedFail,
			Message: fmt.Sprintf("Predicted score (%.1f%%) is below the %.0f%% passing threshold", predicted, t.PassingScore),
		})
	}

	// Factor 3: declining trend.
	if in.ImprovementRate < -1.0 {
		score += 0.2
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorDeclining,
			Message: "Performance is declining",
		})
	} else if in.ImprovementRate < 0 {
		score += 0.1
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorSlightlyDecline,
			Message: "Performance is slightly declining",
		})
	}

	// Factor 4: consistency.
	if in.Consistency < 0.6 {
		score += 0.1
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorInconsistent,
			Message: "Performance is inconsistent across recent tests",
		})
	}

	// Factor 5: improvement rate.
	if in.ImprovementRate < t.MinHealthyRate {
		score += 0.1
		factors = append(factors, models.RiskFactor{
			Code:    models.FactorSlowImprovement,
			Message: fmt.Sprintf("Improvement rate is below %.1f%% per week", t.MinHealthyRate),
		})
	}

	// The single clamp point for the additive score.
	score = math.Min(1.0, math.Max(0.0, score))

	level := t.classify(score, in.WeeksUntilExam)
	recs := tierRecommendations(level)
	recs = append(recs, conditionalRecommendations(level, avg, predicted, t.PassingScore)...)

	return models.RiskAssessment{
		RiskScore:           score,
		RiskLevel:           level,
		PredictedScore:      predicted,
		CurrentAverageScore: avg,
		ImprovementRate:     in.ImprovementRate,
		Consistency:         in.Consistency,
		WeeksUntilExam:      in.WeeksUntilExam,
		RiskFactors:         factors,
		Recommendations:     recs,
	}
}

func (t Thresholds) classify(score float64, weeksUntilExam int) models.RiskLevel {
	switch {
	case score >= t.CriticalRisk && weeksUntilExam < t.CriticalWeeks:
		return models.RiskCritical
	case score >= t.HighRisk:
		return models.RiskHigh
	case score >= t.MediumRisk:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// NeedsAlert reports whether an assessment must persist an AtRiskAlert row.
func NeedsAlert(level models.RiskLevel) bool {
	return level == models.RiskHigh || level == models.RiskCritical
}

func tierRecommendations(level models.RiskLevel) []models.Recommendation {
	switch level {
	case models.RiskHigh, models.RiskCritical:
		return []models.Recommendation{
			{Priority: models.PriorityUrgent, Text: "Schedule a meeting with your instructor this week"},
			{Priority: models.PriorityUrgent, Text: "Increase study time to at least 3-4 hours per day"},
			{Priority: models.PriorityUrgent, Text: "Focus on fundamental concepts before advanced topics"},
			{Priority: models.PriorityUrgent, Text: "Consider joining a study group or seeking tutoring"},
		}
	case models.RiskMedium:
		return []models.Recommendation{
			{Priority: models.PriorityModerate, Text: "Increase study time to 2-3 hours per day"},
			{Priority: models.PriorityModerate, Text: "Focus on your weakest subjects first"},
			{Priority: models.PriorityModerate, Text: "Review past tests and understand your mistakes"},
			{Priority: models.PriorityModerate, Text: "Set up a consistent study schedule"},
		}
	default:
		return []models.Recommendation{
			{Priority: models.PriorityMaintenance, Text: "Maintain your current study habits"},
			{Priority: models.PriorityMaintenance, Text: "Continue focusing on areas for improvement"},
			{Priority: models.PriorityMaintenance, Text: "Take practice tests regularly"},
		}
	}
}

func conditionalRecommendations(level models.RiskLevel, avg, predicted, passing float64) []models.Recommendation {
	priority := models.PriorityModerate
	if NeedsAlert(level) {
		priority = models.PriorityUrgent
	}

	var recs []models.Recommendation
	if avg < 70 {
		recs = append(recs, models.Recommendation{
			Priority: priority,
			Text:     "Prioritize review of basic concepts",
		})
	}
	if predicted < passing {
		recs = append(recs, models.Recommendation{
			Priority: priority,
			Text:     fmt.Sprintf("You need to improve by %.1f%% to reach the passing threshold", passing-predicted),
		})
	}
	return recs
}

func subjectValues(in Inputs) []float64 {
	if len(in.SubjectAverages) == 0 {
		// Fall back to the overall trend when no subject breakdown exists.
		return in.Trend
	}
	values := make([]float64, 0, len(in.SubjectAverages))
	for _, v := range in.SubjectAverages {
		values = append(values, v)
	}
	return values
}

// ── Statistics ───────────────────────────────────────────

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// consistency is 1 − the trend's coefficient of variation, clamped to [0,1].
// A flat trend scores 1; a wildly swinging one approaches 0.
func consistency(trend []float64) float64 {
	if len(trend) < 2 {
		return 1
	}
	m := mean(trend)
	if m <= 0 {
		return 0
	}
	c := 1 - stddev(trend)/m
	return math.Min(1, math.Max(0, c))
}

// slope is the ordinary-least-squares slope of value vs index.
func slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

package models

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type RiskFactorCode string

const (
	FactorLowAverage      RiskFactorCode = "low_average"
	FactorBelowAverage    RiskFactorCode = "below_average"
	FactorPredictedFail   RiskFactorCode = "predicted_below_passing"
	FactorDeclining       RiskFactorCode = "declining"
	FactorSlightlyDecline RiskFactorCode = "slightly_declining"
	FactorInconsistent    RiskFactorCode = "inconsistent"
	FactorSlowImprovement RiskFactorCode = "slow_improvement"
	FactorNoData          RiskFactorCode = "no_data"
)

// RiskFactor is one triggered scoring rule, in evaluation order.
type RiskFactor struct {
	Code    RiskFactorCode `json:"code"`
	Message string         `json:"message"`
}

type RecommendationPriority string

const (
	PriorityUrgent      RecommendationPriority = "urgent"
	PriorityModerate    RecommendationPriority = "moderate"
	PriorityMaintenance RecommendationPriority = "maintenance"
)

type Recommendation struct {
	Priority RecommendationPriority `json:"priority"`
	Text     string                 `json:"text"`
}

// RiskAssessment is the full output of one assessor run.
type RiskAssessment struct {
	RiskScore           float64          `json:"risk_score"`
	RiskLevel           RiskLevel        `json:"risk_level"`
	PredictedScore      float64          `json:"predicted_score"`
	CurrentAverageScore float64          `json:"current_average_score"`
	ImprovementRate     float64          `json:"improvement_rate"`
	Consistency         float64          `json:"consistency"`
	WeeksUntilExam      int              `json:"weeks_until_exam"`
	RiskFactors         []RiskFactor     `json:"risk_factors"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// AtRiskAlert is the persisted log row created by high/critical assessments.
// Append-only: each qualifying run creates a new row.
type AtRiskAlert struct {
	ID              int64            `json:"id"`
	StudentID       int64            `json:"student_id"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	RiskScore       float64          `json:"risk_score"`
	PredictedScore  float64          `json:"predicted_score"`
	WeeksUntilExam  int              `json:"weeks_until_exam"`
	Reasons         []RiskFactor     `json:"reasons"`
	Recommendations []Recommendation `json:"recommendations"`
	IsResolved      bool             `json:"is_resolved"`
	CreatedAt       time.Time        `json:"created_at"`
}

type AlertListResponse struct {
	Alerts []AtRiskAlert `json:"alerts"`
}

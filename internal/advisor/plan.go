package advisor

import (
	"fmt"

	"github.com/boardprep/backend/internal/models"
)

// Score bands for the weekly hour allocation.
const (
	weakBelow   = 70.0
	strongAbove = 85.0
)

// BuildPlan allocates weekly study hours per subject from average scores.
// Deterministic: subjects are walked in canonical order, and a subject with
// no recorded scores counts as 0 and lands in the weak band.
func BuildPlan(averages map[models.Subject]float64) models.StudyPlan {
	plan := models.StudyPlan{
		Plan:         make([]models.SubjectPlan, 0, len(models.AllSubjects)),
		WeakSubjects: []models.Subject{},
		Strengths:    []models.Subject{},
		TodayFocus:   []models.Subject{},
	}

	for _, subject := range models.AllSubjects {
		score := averages[subject]

		var sp models.SubjectPlan
		switch {
		case score < weakBelow:
			sp = models.SubjectPlan{
				Subject:  subject,
				Hours:    8,
				Priority: models.PriorityUrgent,
				Focus:    fmt.Sprintf("Review fundamental concepts and practice questions in %s", subject.DisplayName()),
			}
			plan.WeakSubjects = append(plan.WeakSubjects, subject)
		case score < strongAbove:
			sp = models.SubjectPlan{
				Subject:  subject,
				Hours:    4,
				Priority: models.PriorityModerate,
				Focus:    fmt.Sprintf("Strengthen understanding and practice advanced topics in %s", subject.DisplayName()),
			}
		default:
			sp = models.SubjectPlan{
				Subject:  subject,
				Hours:    2,
				Priority: models.PriorityMaintenance,
				Focus:    fmt.Sprintf("Maintain proficiency and review challenging areas in %s", subject.DisplayName()),
			}
			plan.Strengths = append(plan.Strengths, subject)
		}

		plan.Plan = append(plan.Plan, sp)
		plan.TotalStudyHours += sp.Hours
	}

	if len(plan.WeakSubjects) > 0 {
		plan.TodayFocus = plan.WeakSubjects
		if len(plan.TodayFocus) > 2 {
			plan.TodayFocus = plan.TodayFocus[:2]
		}
	}

	plan.NextSteps = nextSteps(plan.WeakSubjects)
	return plan
}

func nextSteps(weak []models.Subject) []string {
	first := "Continue maintaining strong performance"
	if len(weak) > 0 {
		first = fmt.Sprintf("Focus on %s", weak[0].DisplayName())
	}
	return []string{
		first,
		"Complete practice questions in weak areas",
		"Review lecture materials for identified topics",
		"Take practice tests to track improvement",
	}
}

package mastery

import (
	"sort"

	"github.com/boardprep/backend/internal/models"
)

// Params are the Bayesian Knowledge Tracing constants. Fixed empirically, not
// trained: Prior is P(L0), Learn is P(T), Guess is P(G), Slip is P(S).
type Params struct {
	Prior float64
	Learn float64
	Guess float64
	Slip  float64
}

// DefaultParams returns the tuned constants used across the review program.
func DefaultParams() Params {
	return Params{
		Prior: 0.1,
		Learn: 0.3,
		Guess: 0.2,
		Slip:  0.1,
	}
}

// Update applies one BKT step: Bayes posterior given the observed outcome,
// then the learning transition, clamped to [0,1].
func (p Params) Update(current float64, correct bool) float64 {
	var posterior float64
	if correct {
		// Either knew it and didn't slip, or guessed.
		known := current * (1 - p.Slip)
		guessed := (1 - current) * p.Guess
		if known+guessed > 0 {
			posterior = known / (known + guessed)
		} else {
			posterior = current
		}
	} else {
		// Either knew it but slipped, or didn't know and didn't guess.
		slipped := current * p.Slip
		missed := (1 - current) * (1 - p.Guess)
		if slipped+missed > 0 {
			posterior = slipped / (slipped + missed)
		} else {
			posterior = current
		}
	}

	// Every attempt is a learning opportunity.
	learned := posterior + (1-posterior)*p.Learn

	return clamp01(learned)
}

// Label converts a mastery probability to its display tier. The thresholds
// are contract points: the risk assessor and recommendation text rely on the
// same cut points.
func Label(mastery float64) models.MasteryLabel {
	switch {
	case mastery >= 0.9:
		return models.LabelMastered
	case mastery >= 0.7:
		return models.LabelProficient
	case mastery >= 0.5:
		return models.LabelDeveloping
	case mastery >= 0.3:
		return models.LabelBeginning
	default:
		return models.LabelNovice
	}
}

// Summarize buckets a student's mastery rows by label and averages the levels.
func Summarize(records []models.ConceptMastery) models.MasterySummary {
	summary := models.MasterySummary{Total: len(records)}
	if len(records) == 0 {
		return summary
	}

	var total float64
	for _, r := range records {
		total += r.MasteryLevel
		switch Label(r.MasteryLevel) {
		case models.LabelMastered:
			summary.Mastered++
		case models.LabelProficient:
			summary.Proficient++
		case models.LabelDeveloping:
			summary.Developing++
		case models.LabelBeginning:
			summary.Beginning++
		case models.LabelNovice:
			summary.Novice++
		}
	}
	summary.AverageMastery = total / float64(len(records))
	return summary
}

// WeakConcepts returns records below the proficiency threshold, weakest first.
func WeakConcepts(records []models.ConceptMastery, threshold float64) []models.ConceptMastery {
	var weak []models.ConceptMastery
	for _, r := range records {
		if r.MasteryLevel < threshold {
			weak = append(weak, r)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		return weak[i].MasteryLevel < weak[j].MasteryLevel
	})
	return weak
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Package scorer abstracts the numeric mastery update behind interchangeable
// strategies: a local analytic formula and an optional remote ML service.
// The request path never blocks on, or fails because of, the remote side.
package scorer

import (
	"context"
	"log"
)

// MasteryUpdater turns one question outcome into an updated mastery level.
type MasteryUpdater interface {
	Update(ctx context.Context, current float64, correct bool) (float64, error)
}

// UpdateFunc is the pure local formula (BKT).
type UpdateFunc func(current float64, correct bool) float64

// Local applies the formula in-process. It cannot fail.
type Local struct {
	fn UpdateFunc
}

var _ MasteryUpdater = Local{}

func NewLocal(fn UpdateFunc) Local {
	return Local{fn: fn}
}

func (l Local) Update(ctx context.Context, current float64, correct bool) (float64, error) {
	return l.fn(current, correct), nil
}

// Failover tries the primary updater and falls back to the local formula on
// any error. Remote unavailability is absorbed here, never surfaced.
type Failover struct {
	primary  MasteryUpdater
	fallback Local
}

var _ MasteryUpdater = Failover{}

func NewFailover(primary MasteryUpdater, fallback Local) Failover {
	return Failover{primary: primary, fallback: fallback}
}

func (f Failover) Update(ctx context.Context, current float64, correct bool) (float64, error) {
	updated, err := f.primary.Update(ctx, current, correct)
	if err != nil {
		log.Printf("[scorer] remote update failed, using local formula: %v", err)
		return f.fallback.Update(ctx, current, correct)
	}
	return updated, nil
}

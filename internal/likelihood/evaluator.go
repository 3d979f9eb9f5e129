// Package likelihood implements the negative log-likelihood objective for
// GEV germination-time models with per-treatment parameter offsets.
package likelihood

import (
	"math"

	"gevfit/domain/gev"
	"gevfit/domain/model"
)

// Evaluator computes the negative log-likelihood of candidate parameter
// vectors over a fixed dataset. The observations are copied at construction
// and never mutated, so one Evaluator is safe to share across concurrent
// model fits.
type Evaluator struct {
	obs        []model.Observation
	maxTime    float64
	treatments []model.Treatment // distinct treatment groups present
}

// New builds an evaluator bound to the given observations.
func New(obs []model.Observation) *Evaluator {
	e := &Evaluator{
		obs:     append([]model.Observation(nil), obs...),
		maxTime: math.Inf(-1),
	}
	seen := make(map[model.Treatment]bool, 2)
	for _, o := range e.obs {
		if o.Time > e.maxTime {
			e.maxTime = o.Time
		}
		if !seen[o.Treatment] {
			seen[o.Treatment] = true
			e.treatments = append(e.treatments, o.Treatment)
		}
	}
	return e
}

// NumObservations returns the dataset size.
func (e *Evaluator) NumObservations() int {
	return len(e.obs)
}

// MaxTime returns the largest observed germination time.
func (e *Evaluator) MaxTime() float64 {
	return e.maxTime
}

// Evaluate returns the negative total log-likelihood of pv, or +Inf when the
// parameter combination is infeasible. It never panics and never returns NaN:
// the optimizer only ever sees values it can rank.
func (e *Evaluator) Evaluate(pv model.ParameterVector) float64 {
	nll, ok := e.evaluate(pv)
	if !ok {
		return math.Inf(1)
	}
	return nll
}

// LogLik returns the total log-likelihood of pv; ok is false when infeasible.
func (e *Evaluator) LogLik(pv model.ParameterVector) (float64, bool) {
	nll, ok := e.evaluate(pv)
	if !ok {
		return 0, false
	}
	return -nll, true
}

// evaluate is the tagged form backing Evaluate. Gates run in order: a
// non-positive effective scale for any group, then a negative effective shape
// whose finite upper support bound lies below the observed maximum, then any
// non-finite density term or sum. All three map to infeasible.
func (e *Evaluator) evaluate(pv model.ParameterVector) (float64, bool) {
	for _, t := range e.treatments {
		p := pv.Effective(t)
		if p.Scale <= 0 {
			return 0, false
		}
		if e.maxTime > p.UpperBound() {
			return 0, false
		}
	}

	var sum float64
	for _, o := range e.obs {
		logf, ok := gev.LogPDF(o.Time, pv.Effective(o.Treatment))
		if !ok || math.IsNaN(logf) || math.IsInf(logf, 0) {
			return 0, false
		}
		sum += logf
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, false
	}
	return -sum, true
}

// Package fitter runs bounded maximum-likelihood fits of the five GEV model
// variants and ranks them by AIC and likelihood-ratio testing.
package fitter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"gevfit/domain/model"
	"gevfit/internal/dataset"
	"gevfit/internal/errors"
	"gevfit/internal/likelihood"
)

// infeasiblePenalty stands in for +Inf inside the optimizer objective.
// Nelder-Mead ranks it strictly worse than any feasible negative
// log-likelihood while keeping simplex arithmetic finite.
const infeasiblePenalty = 1e30

// minScale is the lower box bound on the scale parameter.
const minScale = 1e-6

// Config holds optimizer settings shared by all model fits.
type Config struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultConfig returns the optimizer settings used when none are supplied.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 3000,
		Tolerance:     1e-8,
	}
}

// Bounds holds component-wise box constraints for one model vector.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Contains reports whether x lies inside the box.
func (b Bounds) Contains(x []float64) bool {
	for i := range x {
		if x[i] < b.Lower[i] || x[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// Fitter fits GEV model variants against one dataset. Each call to Fit owns
// its own optimizer state; the evaluator and summary are read-only, so a
// single Fitter supports concurrent fits.
type Fitter struct {
	eval    *likelihood.Evaluator
	summary dataset.Summary
	cfg     Config
}

// New builds a fitter over the observations.
func New(obs []model.Observation, cfg Config) (*Fitter, error) {
	summary, err := dataset.Summarize(obs)
	if err != nil {
		return nil, err
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultConfig().Tolerance
	}
	return &Fitter{
		eval:    likelihood.New(obs),
		summary: summary,
		cfg:     cfg,
	}, nil
}

// Summary returns the dataset statistics the start and bounds policies use.
func (f *Fitter) Summary() dataset.Summary {
	return f.summary
}

// startingPoint seeds the optimizer: shape mildly positive, location at the
// sample median, scale at the sample standard deviation, offsets at zero.
func (f *Fitter) startingPoint(spec model.ModelSpec) []float64 {
	scale := f.summary.StdDev
	if scale < minScale {
		scale = 1 // degenerate sample; start inside the box and let the fit report failure
	}
	x := []float64{0.05, f.summary.Median, scale}
	for i := 3; i < spec.NumParams(); i++ {
		x = append(x, 0)
	}
	return x
}

// bounds builds the box constraints for one model variant: shape in
// [-0.5, 0.5], location spanning the observed range with margin, scale
// strictly positive and bounded above, offsets limited to a plausible
// perturbation range.
func (f *Fitter) bounds(spec model.ModelSpec) Bounds {
	span := f.summary.Max - f.summary.Min
	if span <= 0 {
		span = math.Max(math.Abs(f.summary.Max), 1)
	}
	scaleHi := math.Max(4*f.summary.StdDev, span)

	lower := []float64{-0.5, f.summary.Min - span, minScale}
	upper := []float64{0.5, f.summary.Max + span, scaleHi}

	if spec.FreeShape {
		lower = append(lower, -0.5)
		upper = append(upper, 0.5)
	}
	if spec.FreeLocation {
		lower = append(lower, -2*span)
		upper = append(upper, 2*span)
	}
	if spec.FreeScale {
		lower = append(lower, -scaleHi)
		upper = append(upper, scaleHi)
	}
	return Bounds{Lower: lower, Upper: upper}
}

// Fit runs one bounded Nelder-Mead fit for the given model variant. Optimizer
// failure is reported on the result, never as a panic or garbage coefficients.
func (f *Fitter) Fit(spec model.ModelSpec) model.FitResult {
	b := f.bounds(spec)
	x0 := f.startingPoint(spec)

	objective := func(x []float64) float64 {
		if !b.Contains(x) {
			return infeasiblePenalty
		}
		nll := f.eval.Evaluate(spec.FromVector(x))
		if math.IsInf(nll, 1) || math.IsNaN(nll) || nll > infeasiblePenalty {
			return infeasiblePenalty
		}
		return nll
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   f.cfg.Tolerance,
			Iterations: 100,
		},
		MajorIterations: f.cfg.MaxIterations,
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return model.FailedFit(spec, fmt.Sprintf("optimizer error: %v", err))
	}
	if result.Status == optimize.IterationLimit {
		return model.FailedFit(spec, fmt.Sprintf("iteration budget (%d) exhausted without convergence", f.cfg.MaxIterations))
	}
	if math.IsNaN(result.F) || result.F >= infeasiblePenalty/2 {
		return model.FailedFit(spec, "no feasible point found within bounds")
	}

	return model.NewFitResult(spec, spec.FromVector(result.X), -result.F)
}

// validate rejects degenerate datasets before any optimizer call.
func (f *Fitter) validate() error {
	if n, k := f.eval.NumObservations(), model.FullyAffected.NumParams(); n < k {
		return errors.DataIntegrityf("dataset has %d observations, fewer than the %d free parameters of the full model", n, k)
	}
	return nil
}

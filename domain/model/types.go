// Package model defines the data model for the germination-time analysis:
// observations, treatment groups, the five candidate model variants and
// their fitted results.
package model

import (
	"fmt"
	"strings"

	"gevfit/domain/gev"
)

// Treatment identifies the experimental group of an observation
type Treatment string

const (
	Control Treatment = "control"
	Infect  Treatment = "infect"
)

// ParseTreatment maps a raw label onto a Treatment. Labels outside the two
// known groups are rejected rather than coerced into a third category.
func ParseTreatment(label string) (Treatment, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case string(Control):
		return Control, nil
	case string(Infect):
		return Infect, nil
	default:
		return "", fmt.Errorf("unknown treatment label %q", label)
	}
}

// Observation is a single germination-time measurement
type Observation struct {
	Treatment Treatment `json:"treatment"`
	Time      float64   `json:"germination_time"`
}

// ParameterVector holds base GEV parameters plus the additive treatment
// offsets. Offsets fixed at zero by a ModelSpec simply stay zero.
type ParameterVector struct {
	Base          gev.Params `json:"base"`
	TreatShape    float64    `json:"treat_shape"`
	TreatLocation float64    `json:"treat_location"`
	TreatScale    float64    `json:"treat_scale"`
}

// Effective returns the GEV parameters governing one observation: infected
// rows get the treatment offsets added, control rows use the base parameters.
func (pv ParameterVector) Effective(t Treatment) gev.Params {
	if t != Infect {
		return pv.Base
	}
	return gev.Params{
		Shape:    pv.Base.Shape + pv.TreatShape,
		Location: pv.Base.Location + pv.TreatLocation,
		Scale:    pv.Base.Scale + pv.TreatScale,
	}
}

// ModelSpec identifies which treatment offsets are free parameters. The zero
// value (no free offsets) is the null model; all model variants share the
// three base parameters, so the null model is nested in every other variant
// and each single-effect variant is nested in the full model.
type ModelSpec struct {
	Name         string
	FreeShape    bool
	FreeLocation bool
	FreeScale    bool
}

// Canonical model variants, ordered null first.
var (
	Null             = ModelSpec{Name: "null"}
	ShapeAffected    = ModelSpec{Name: "shape-affected", FreeShape: true}
	LocationAffected = ModelSpec{Name: "location-affected", FreeLocation: true}
	ScaleAffected    = ModelSpec{Name: "scale-affected", FreeScale: true}
	FullyAffected    = ModelSpec{Name: "fully-affected", FreeShape: true, FreeLocation: true, FreeScale: true}
)

// AllSpecs returns the five candidate model variants.
func AllSpecs() []ModelSpec {
	return []ModelSpec{Null, ShapeAffected, LocationAffected, ScaleAffected, FullyAffected}
}

// NumParams returns the number of free parameters k (3 base plus free offsets).
func (s ModelSpec) NumParams() int {
	k := 3
	if s.FreeShape {
		k++
	}
	if s.FreeLocation {
		k++
	}
	if s.FreeScale {
		k++
	}
	return k
}

// FromVector maps an optimizer vector onto a ParameterVector. The layout is
// [shape, location, scale] followed by the free offsets in shape, location,
// scale order; fixed offsets stay zero.
func (s ModelSpec) FromVector(x []float64) ParameterVector {
	pv := ParameterVector{
		Base: gev.Params{Shape: x[0], Location: x[1], Scale: x[2]},
	}
	i := 3
	if s.FreeShape {
		pv.TreatShape = x[i]
		i++
	}
	if s.FreeLocation {
		pv.TreatLocation = x[i]
		i++
	}
	if s.FreeScale {
		pv.TreatScale = x[i]
	}
	return pv
}

// FitResult holds the outcome of fitting one model variant. Immutable once
// computed. Failed results carry no usable coefficients and must be excluded
// from ranking.
type FitResult struct {
	Spec          ModelSpec       `json:"spec"`
	Params        ParameterVector `json:"params"`
	LogLik        float64         `json:"log_lik"`
	NumParams     int             `json:"num_params"`
	AIC           float64         `json:"aic"`
	Failed        bool            `json:"failed"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

// NewFitResult builds a successful fit result, deriving k and AIC = 2k - 2*logLik.
func NewFitResult(spec ModelSpec, params ParameterVector, logLik float64) FitResult {
	k := spec.NumParams()
	return FitResult{
		Spec:      spec,
		Params:    params,
		LogLik:    logLik,
		NumParams: k,
		AIC:       2*float64(k) - 2*logLik,
	}
}

// FailedFit builds a fit result marked as failed.
func FailedFit(spec ModelSpec, reason string) FitResult {
	return FitResult{
		Spec:          spec,
		NumParams:     spec.NumParams(),
		Failed:        true,
		FailureReason: reason,
	}
}

// Comparison is one row of the AIC ranking table.
type Comparison struct {
	Model     string  `json:"model"`
	NumParams int     `json:"num_params"`
	LogLik    float64 `json:"log_lik"`
	AIC       float64 `json:"aic"`
	DeltaAIC  float64 `json:"delta_aic"`
	Weight    float64 `json:"weight"`
}

// LikelihoodRatioTest compares one extended model against the null model.
// Valid only because the null model is nested in every other variant.
type LikelihoodRatioTest struct {
	Model     string  `json:"model"`
	Statistic float64 `json:"statistic"`
	DF        int     `json:"df"`
	PValue    float64 `json:"p_value"`
}

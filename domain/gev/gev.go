// Package gev implements the density of the generalized extreme value
// distribution, the three-parameter family used to model germination timing.
package gev

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// shapeEps is the threshold below which the shape parameter is treated as
// zero and the density degenerates to the Gumbel form.
const shapeEps = 1e-8

// Params holds the three parameters of a generalized extreme value distribution.
type Params struct {
	Shape    float64 `json:"shape"`
	Location float64 `json:"location"`
	Scale    float64 `json:"scale"`
}

// Valid reports whether the parameters describe a proper distribution.
// Shape may be any real; only the scale is constrained.
func (p Params) Valid() bool {
	return p.Scale > 0
}

// UpperBound returns the upper edge of the support. For negative shape the
// support is bounded above at location + scale/|shape|; otherwise +Inf.
func (p Params) UpperBound() float64 {
	if p.Shape < -shapeEps {
		return p.Location - p.Scale/p.Shape
	}
	return math.Inf(1)
}

// LogPDF evaluates the log-density at x. ok is false when the scale is
// non-positive or x lies outside the support (zero density). Callers must
// still check the returned value for -Inf from extreme underflow.
func LogPDF(x float64, p Params) (logf float64, ok bool) {
	if p.Scale <= 0 {
		return 0, false
	}
	if math.Abs(p.Shape) < shapeEps {
		g := distuv.GumbelRight{Mu: p.Location, Beta: p.Scale}
		return g.LogProb(x), true
	}
	z := (x - p.Location) / p.Scale
	t := 1 + p.Shape*z
	if t <= 0 {
		return 0, false
	}
	logf = -(1+1/p.Shape)*math.Log(t) - math.Pow(t, -1/p.Shape) - math.Log(p.Scale)
	return logf, true
}

// PDF evaluates the density at x, returning 0 outside the support.
func PDF(x float64, p Params) float64 {
	logf, ok := LogPDF(x, p)
	if !ok {
		return 0
	}
	return math.Exp(logf)
}

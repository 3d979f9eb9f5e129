// Package render draws the histogram-plus-density figure for a fitted model.
package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gevfit/domain/gev"
	"gevfit/domain/model"
	"gevfit/internal/dataset"
	"gevfit/internal/errors"
)

var (
	controlColor = color.NRGBA{R: 70, G: 130, B: 180, A: 120}
	infectColor  = color.NRGBA{R: 205, G: 92, B: 92, A: 120}
)

// Figure renders normalized per-group histograms of germination times
// overlaid with the GEV density curves of the fitted model. The curves are
// computed from the actual fitted coefficients, with the infect curve using
// the treatment-adjusted parameters.
func Figure(obs []model.Observation, fit model.FitResult, bins int, outPath string) error {
	if fit.Failed {
		return errors.RenderError("cannot render a failed fit", nil)
	}
	if bins < 2 {
		bins = 16
	}

	p := plot.New()
	p.Title.Text = "Germination time: GEV fit (" + fit.Spec.Name + " model)"
	p.X.Label.Text = "Germination time"
	p.Y.Label.Text = "Density"

	groups := []struct {
		treatment model.Treatment
		color     color.NRGBA
	}{
		{model.Control, controlColor},
		{model.Infect, infectColor},
	}

	for _, grp := range groups {
		times := dataset.Times(obs, grp.treatment)
		if len(times) == 0 {
			continue
		}

		hist, err := plotter.NewHist(plotter.Values(times), bins)
		if err != nil {
			return errors.RenderError("failed to build histogram", err)
		}
		hist.Normalize(1)
		hist.FillColor = grp.color
		p.Add(hist)

		params := fit.Params.Effective(grp.treatment)
		curve := plotter.NewFunction(func(x float64) float64 {
			return gev.PDF(x, params)
		})
		curve.Samples = 400
		curve.Color = color.NRGBA{R: grp.color.R, G: grp.color.G, B: grp.color.B, A: 255}
		curve.Width = vg.Points(1.5)
		p.Add(curve)
		p.Legend.Add(string(grp.treatment), curve)
	}

	if err := p.Save(7*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return errors.RenderError("failed to save figure", err)
	}
	return nil
}

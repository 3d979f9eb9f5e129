package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gevfit/domain/gev"
	"gevfit/domain/model"
	"gevfit/internal/dataset"
	"gevfit/internal/fitter"
)

func sampleReport() *Report {
	results := []model.FitResult{
		model.NewFitResult(model.Null, model.ParameterVector{
			Base: gev.Params{Shape: 0.02, Location: 50, Scale: 10},
		}, -210),
		model.NewFitResult(model.LocationAffected, model.ParameterVector{
			Base:          gev.Params{Shape: 0.02, Location: 50, Scale: 10},
			TreatLocation: 19.4,
		}, -200),
		model.FailedFit(model.ScaleAffected, "no feasible point found within bounds"),
	}
	summary := dataset.Summary{N: 120, ControlN: 60, InfectN: 60, Min: 22, Max: 98, Mean: 58, Median: 56, StdDev: 13}
	return New("trial.csv", summary, results, fitter.Compare(results), fitter.LikelihoodRatioTests(results))
}

func TestReport_BestPicksLowestAIC(t *testing.T) {
	r := sampleReport()
	best := r.Best()
	require.NotNil(t, best)
	assert.Equal(t, model.LocationAffected.Name, best.Spec.Name)
	assert.InDelta(t, 19.4, best.Params.TreatLocation, 1e-12)
}

func TestReport_Markdown(t *testing.T) {
	r := sampleReport()
	md := r.Markdown()

	assert.Contains(t, md, "Model ranking")
	assert.Contains(t, md, "Likelihood-ratio tests")
	assert.Contains(t, md, "location-affected")
	assert.Contains(t, md, "treat_location: 19.4")
	assert.Contains(t, md, "fit failed")
	assert.Contains(t, md, "Fit failed for scale-affected")
	assert.Contains(t, md, r.RunID)
}

func TestReport_BestNilWhenAllFailed(t *testing.T) {
	results := []model.FitResult{model.FailedFit(model.Null, "x")}
	r := New("", dataset.Summary{N: 1}, results, fitter.Compare(results), nil)
	assert.Nil(t, r.Best())
}

func TestReport_WriteFiles(t *testing.T) {
	r := sampleReport()
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, r.WriteFiles(dir, true))

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.NotEmpty(t, md)

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1")
}

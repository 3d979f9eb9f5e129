package fitter

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gevfit/domain/model"
	"gevfit/internal/errors"
	"gevfit/internal/testkit"
)

func TestFitAll_DegenerateDatasetRejectedBeforeFitting(t *testing.T) {
	obs := testkit.ConstantObservations(4, model.Control, 10) // fewer than 6 free params

	f, err := New(obs, DefaultConfig())
	require.NoError(t, err)

	_, err = f.FitAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDataIntegrity))
}

func TestFitAll_NestingProperty(t *testing.T) {
	// More free parameters cannot decrease the achievable likelihood. Allow a
	// small slack for optimizer convergence noise.
	for _, seed := range []int64{1, 17, 99} {
		gen := testkit.NewGenerator(seed)
		obs := append(
			gen.GumbelObservations(50, model.Control, 50, 10),
			gen.GumbelObservations(50, model.Infect, 58, 11)...,
		)

		f, err := New(obs, DefaultConfig())
		require.NoError(t, err)

		results, err := f.FitAll(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 5)

		byName := make(map[string]model.FitResult, len(results))
		for _, r := range results {
			byName[r.Spec.Name] = r
		}

		null, full := byName[model.Null.Name], byName[model.FullyAffected.Name]
		require.False(t, null.Failed, "seed %d: %s", seed, null.FailureReason)
		if full.Failed {
			continue
		}
		assert.GreaterOrEqual(t, full.LogLik+0.1, null.LogLik, "seed %d", seed)
	}
}

func TestFitAll_DetectsLocationShift(t *testing.T) {
	// Infect group shifted +20 in location: the location-affected model must
	// beat the null on AIC and recover the offset.
	gen := testkit.NewGenerator(1234)
	obs := append(
		gen.GumbelObservations(60, model.Control, 50, 10),
		gen.GumbelObservations(60, model.Infect, 70, 10)...,
	)

	f, err := New(obs, DefaultConfig())
	require.NoError(t, err)

	results, err := f.FitAll(context.Background())
	require.NoError(t, err)

	var null, loc model.FitResult
	for _, r := range results {
		switch r.Spec.Name {
		case model.Null.Name:
			null = r
		case model.LocationAffected.Name:
			loc = r
		}
	}
	require.False(t, null.Failed, null.FailureReason)
	require.False(t, loc.Failed, loc.FailureReason)

	assert.Less(t, loc.AIC, null.AIC)
	assert.InDelta(t, 20, loc.Params.TreatLocation, 5)
}

func TestCompare_SortsAndWeights(t *testing.T) {
	results := []model.FitResult{
		model.NewFitResult(model.Null, model.ParameterVector{}, -210),
		model.NewFitResult(model.LocationAffected, model.ParameterVector{}, -200),
		model.NewFitResult(model.FullyAffected, model.ParameterVector{}, -199),
		model.FailedFit(model.ScaleAffected, "no feasible point"),
	}

	comparisons := Compare(results)
	require.Len(t, comparisons, 3, "failed fits are excluded from ranking")

	assert.Equal(t, model.LocationAffected.Name, comparisons[0].Model)
	assert.Equal(t, 0.0, comparisons[0].DeltaAIC)
	for i := 1; i < len(comparisons); i++ {
		assert.GreaterOrEqual(t, comparisons[i].AIC, comparisons[i-1].AIC)
		assert.GreaterOrEqual(t, comparisons[i].DeltaAIC, 0.0)
	}

	var sum float64
	for _, c := range comparisons {
		assert.Greater(t, c.Weight, 0.0)
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCompare_AllFailed(t *testing.T) {
	results := []model.FitResult{
		model.FailedFit(model.Null, "x"),
		model.FailedFit(model.FullyAffected, "y"),
	}
	assert.Nil(t, Compare(results))
}

func TestLikelihoodRatioTests(t *testing.T) {
	results := []model.FitResult{
		model.NewFitResult(model.Null, model.ParameterVector{}, -100),
		model.NewFitResult(model.LocationAffected, model.ParameterVector{}, -95),
		model.NewFitResult(model.FullyAffected, model.ParameterVector{}, -94),
		model.FailedFit(model.ShapeAffected, "no feasible point"),
	}

	tests := LikelihoodRatioTests(results)
	require.Len(t, tests, 2)

	byModel := make(map[string]model.LikelihoodRatioTest)
	for _, lrt := range tests {
		byModel[lrt.Model] = lrt
	}

	loc := byModel[model.LocationAffected.Name]
	assert.InDelta(t, 10, loc.Statistic, 1e-12)
	assert.Equal(t, 1, loc.DF)
	// 1 - ChiSquared(1).CDF(10) ~= 0.001565
	assert.InDelta(t, 0.001565, loc.PValue, 2e-4)

	full := byModel[model.FullyAffected.Name]
	assert.InDelta(t, 12, full.Statistic, 1e-12)
	assert.Equal(t, 3, full.DF)
	assert.Greater(t, full.PValue, 0.0)
	assert.Less(t, full.PValue, 0.05)
}

func TestLikelihoodRatioTests_NoNullFit(t *testing.T) {
	results := []model.FitResult{
		model.FailedFit(model.Null, "no feasible point"),
		model.NewFitResult(model.FullyAffected, model.ParameterVector{}, -94),
	}
	assert.Nil(t, LikelihoodRatioTests(results))
}

func TestChiSquarePValue_Monotone(t *testing.T) {
	prev := 1.0
	for _, lr := range []float64{0, 1, 3.84, 10, 30} {
		p := chiSquarePValue(lr, 1)
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
	assert.InDelta(t, 0.05, chiSquarePValue(3.841, 1), 1e-3)
	assert.False(t, math.IsNaN(chiSquarePValue(0, 0)))
	assert.Equal(t, 1.0, chiSquarePValue(5, 0))
}

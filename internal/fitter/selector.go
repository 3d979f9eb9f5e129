package fitter

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"gevfit/domain/model"
)

// FitAll fits the five model variants. The fits are independent, so they run
// concurrently; each owns its optimizer state and results are aggregated only
// after all complete. A per-model optimizer failure is reported on that
// model's FitResult and does not abort the batch.
func (f *Fitter) FitAll(ctx context.Context) ([]model.FitResult, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	specs := model.AllSpecs()
	results := make([]model.FitResult, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = f.Fit(spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compare ranks non-failed fits by AIC ascending and attaches delta-AIC and
// Akaike weights exp(-0.5*dAIC_i) / sum_j exp(-0.5*dAIC_j).
func Compare(results []model.FitResult) []model.Comparison {
	var ok []model.FitResult
	for _, r := range results {
		if !r.Failed {
			ok = append(ok, r)
		}
	}
	if len(ok) == 0 {
		return nil
	}

	sort.Slice(ok, func(i, j int) bool { return ok[i].AIC < ok[j].AIC })
	minAIC := ok[0].AIC

	comparisons := make([]model.Comparison, len(ok))
	var weightSum float64
	for i, r := range ok {
		delta := r.AIC - minAIC
		w := math.Exp(-0.5 * delta)
		weightSum += w
		comparisons[i] = model.Comparison{
			Model:     r.Spec.Name,
			NumParams: r.NumParams,
			LogLik:    r.LogLik,
			AIC:       r.AIC,
			DeltaAIC:  delta,
			Weight:    w,
		}
	}
	for i := range comparisons {
		comparisons[i].Weight /= weightSum
	}
	return comparisons
}

// LikelihoodRatioTests compares each non-failed extended model against the
// null model: LR = 2*(logLik_model - logLik_null) against chi-squared with
// df equal to the difference in free-parameter counts. Returns nil when the
// null fit itself failed, since no nested comparison is then valid.
func LikelihoodRatioTests(results []model.FitResult) []model.LikelihoodRatioTest {
	var null *model.FitResult
	for i := range results {
		if results[i].Spec.Name == model.Null.Name && !results[i].Failed {
			null = &results[i]
			break
		}
	}
	if null == nil {
		return nil
	}

	var tests []model.LikelihoodRatioTest
	for _, r := range results {
		if r.Failed || r.Spec.Name == model.Null.Name {
			continue
		}
		lr := 2 * (r.LogLik - null.LogLik)
		if lr < 0 {
			lr = 0 // numerical noise; a nested model cannot beat its extension
		}
		df := r.NumParams - null.NumParams
		tests = append(tests, model.LikelihoodRatioTest{
			Model:     r.Spec.Name,
			Statistic: lr,
			DF:        df,
			PValue:    chiSquarePValue(lr, df),
		})
	}
	return tests
}

// chiSquarePValue computes the upper-tail p-value for a chi-squared statistic.
func chiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(chiSquare)
}

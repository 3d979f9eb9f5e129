// Package app wires the loading, fitting, selection and reporting stages
// into one batch analysis run.
package app

import (
	"context"
	"path/filepath"

	"gevfit/domain/model"
	"gevfit/internal"
	"gevfit/internal/config"
	"gevfit/internal/dataset"
	"gevfit/internal/errors"
	"gevfit/internal/fitter"
	"gevfit/internal/render"
	"gevfit/internal/report"
)

// AnalysisService runs the full germination-time analysis: load and validate
// the dataset, fit the five model variants, rank them, then write the report
// and figure artifacts.
type AnalysisService struct {
	cfg *config.Config
	log *internal.Logger
}

// NewAnalysisService creates the service.
func NewAnalysisService(cfg *config.Config, log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{cfg: cfg, log: log}
}

// Run executes one analysis over the given input file. Data-integrity
// problems abort the run with a descriptive cause; per-model fit failures are
// logged and reported but do not abort.
func (s *AnalysisService) Run(ctx context.Context, inputPath string) (*report.Report, error) {
	if inputPath == "" {
		return nil, errors.ConfigInvalid("no input file given (flag --input or INPUT_FILE)")
	}

	obs, err := dataset.NewLoader(inputPath).Load()
	if err != nil {
		return nil, errors.Wrap(err, "data loading failed")
	}
	s.log.Info("loaded %d observations from %s", len(obs), inputPath)

	f, err := fitter.New(obs, fitter.Config{
		MaxIterations: s.cfg.Fit.MaxIterations,
		Tolerance:     s.cfg.Fit.Tolerance,
	})
	if err != nil {
		return nil, err
	}

	results, err := f.FitAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Failed {
			s.log.Warn("fit failed for %s model: %s", r.Spec.Name, r.FailureReason)
		} else {
			s.log.Info("fitted %s model: logLik=%.4f AIC=%.4f", r.Spec.Name, r.LogLik, r.AIC)
		}
	}

	comparisons := fitter.Compare(results)
	tests := fitter.LikelihoodRatioTests(results)
	rep := report.New(inputPath, f.Summary(), results, comparisons, tests)

	if err := rep.WriteFiles(s.cfg.Output.Dir, s.cfg.Output.HTMLReport); err != nil {
		return nil, err
	}

	if best := rep.Best(); best != nil {
		figPath := filepath.Join(s.cfg.Output.Dir, s.cfg.Output.FigureFile)
		if err := s.renderFigure(obs, *best, figPath); err != nil {
			// The comparison table is the primary artifact; a figure failure
			// should not discard it.
			s.log.Error("figure rendering failed: %v", err)
		} else {
			s.log.Info("wrote figure to %s", figPath)
		}
	} else {
		s.log.Warn("all model fits failed; no figure rendered")
	}

	return rep, nil
}

func (s *AnalysisService) renderFigure(obs []model.Observation, best model.FitResult, path string) error {
	return render.Figure(obs, best, s.cfg.Fit.HistogramBins, path)
}

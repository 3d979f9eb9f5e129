// Package report renders the model-comparison results as Markdown and HTML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/google/uuid"

	"gevfit/domain/model"
	"gevfit/internal/dataset"
	"gevfit/internal/errors"
)

// Report aggregates everything the reporting collaborator consumes: the
// dataset summary, the AIC ranking, the likelihood-ratio tests and the raw
// fit results including failures.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Source      string
	Summary     dataset.Summary
	Comparisons []model.Comparison
	Tests       []model.LikelihoodRatioTest
	Results     []model.FitResult
}

// New builds a report stamped with a fresh run ID.
func New(source string, summary dataset.Summary, results []model.FitResult, comparisons []model.Comparison, tests []model.LikelihoodRatioTest) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Summary:     summary,
		Comparisons: comparisons,
		Tests:       tests,
		Results:     results,
	}
}

// Best returns the top-ranked fit result, or nil when every fit failed.
func (r *Report) Best() *model.FitResult {
	if len(r.Comparisons) == 0 {
		return nil
	}
	for i := range r.Results {
		if r.Results[i].Spec.Name == r.Comparisons[0].Model {
			return &r.Results[i]
		}
	}
	return nil
}

// Markdown renders the full report.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Germination-time GEV model comparison\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	if r.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", r.Source)
	}
	fmt.Fprintf(&b, "- Observations: %d (control %d, infect %d)\n", r.Summary.N, r.Summary.ControlN, r.Summary.InfectN)
	fmt.Fprintf(&b, "- Germination time: min %.3f, median %.3f, max %.3f, sd %.3f\n\n",
		r.Summary.Min, r.Summary.Median, r.Summary.Max, r.Summary.StdDev)

	b.WriteString("## Model ranking (AIC ascending)\n\n")
	b.WriteString("| Model | k | logLik | AIC | dAIC | Weight |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range r.Comparisons {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f | %.4f | %.4f |\n",
			c.Model, c.NumParams, c.LogLik, c.AIC, c.DeltaAIC, c.Weight)
	}
	for _, res := range r.Results {
		if res.Failed {
			fmt.Fprintf(&b, "| %s | %d | fit failed | - | - | - |\n", res.Spec.Name, res.NumParams)
		}
	}
	b.WriteString("\n")

	if len(r.Tests) > 0 {
		b.WriteString("## Likelihood-ratio tests against the null model\n\n")
		b.WriteString("| Model | LR statistic | df | p-value |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, t := range r.Tests {
			fmt.Fprintf(&b, "| %s | %.4f | %d | %.4g |\n", t.Model, t.Statistic, t.DF, t.PValue)
		}
		b.WriteString("\n")
	}

	if best := r.Best(); best != nil {
		fmt.Fprintf(&b, "## Best model: %s\n\n", best.Spec.Name)
		fmt.Fprintf(&b, "- shape: %.4f\n", best.Params.Base.Shape)
		fmt.Fprintf(&b, "- location: %.4f\n", best.Params.Base.Location)
		fmt.Fprintf(&b, "- scale: %.4f\n", best.Params.Base.Scale)
		if best.Spec.FreeShape {
			fmt.Fprintf(&b, "- treat_shape: %.4f\n", best.Params.TreatShape)
		}
		if best.Spec.FreeLocation {
			fmt.Fprintf(&b, "- treat_location: %.4f\n", best.Params.TreatLocation)
		}
		if best.Spec.FreeScale {
			fmt.Fprintf(&b, "- treat_scale: %.4f\n", best.Params.TreatScale)
		}
	}

	for _, res := range r.Results {
		if res.Failed {
			fmt.Fprintf(&b, "\n> Fit failed for %s: %s\n", res.Spec.Name, res.FailureReason)
		}
	}

	return b.String()
}

// HTML renders the Markdown report as HTML.
func (r *Report) HTML() []byte {
	return markdown.ToHTML([]byte(r.Markdown()), nil, nil)
}

// WriteFiles writes report.md and, when requested, report.html into dir.
func (r *Report) WriteFiles(dir string, includeHTML bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output dir %s", dir)
	}
	mdPath := filepath.Join(dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(r.Markdown()), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", mdPath)
	}
	if includeHTML {
		htmlPath := filepath.Join(dir, "report.html")
		if err := os.WriteFile(htmlPath, r.HTML(), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", htmlPath)
		}
	}
	return nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gevfit/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "germination_fit.png", cfg.Output.FigureFile)
	assert.Equal(t, 3000, cfg.Fit.MaxIterations)
	assert.Equal(t, 1e-8, cfg.Fit.Tolerance)
	assert.Equal(t, 16, cfg.Fit.HistogramBins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INPUT_FILE", "trial.csv")
	t.Setenv("FIT_MAX_ITERATIONS", "500")
	t.Setenv("HTML_REPORT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "trial.csv", cfg.Input.File)
	assert.Equal(t, 500, cfg.Fit.MaxIterations)
	assert.True(t, cfg.Output.HTMLReport)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("FIT_MAX_ITERATIONS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

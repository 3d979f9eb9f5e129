package dataset

import (
	"github.com/montanaflynn/stats"

	"gevfit/domain/model"
	"gevfit/internal/errors"
)

// Summary holds descriptive statistics of the loaded observations. The fitter
// seeds its starting point and bounds from these, and the report echoes them.
type Summary struct {
	N        int     `json:"n"`
	ControlN int     `json:"control_n"`
	InfectN  int     `json:"infect_n"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
}

// Summarize computes descriptive statistics over all germination times.
func Summarize(obs []model.Observation) (Summary, error) {
	if len(obs) == 0 {
		return Summary{}, errors.DataIntegrity("cannot summarize an empty dataset")
	}

	times := make([]float64, len(obs))
	s := Summary{N: len(obs)}
	for i, o := range obs {
		times[i] = o.Time
		switch o.Treatment {
		case model.Control:
			s.ControlN++
		case model.Infect:
			s.InfectN++
		}
	}

	s.Mean, _ = stats.Mean(times)
	s.StdDev, _ = stats.StandardDeviation(times)
	s.Min, _ = stats.Min(times)
	s.Max, _ = stats.Max(times)
	s.Median, _ = stats.Median(times)

	return s, nil
}

// Times extracts the germination times for one treatment group.
func Times(obs []model.Observation, t model.Treatment) []float64 {
	var out []float64
	for _, o := range obs {
		if o.Treatment == t {
			out = append(out, o.Time)
		}
	}
	return out
}

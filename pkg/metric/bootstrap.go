// Package metric estimates statistics of plotted values.
package metric

import (
	"math/rand"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap confidence interval of a statistic
type Interval struct {
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
}

// Bootstrap resamples values with replacement, applies measure to each of
// the resamples and returns the central confidence interval of the results.
// rng makes the estimate reproducible.
func Bootstrap(values []float64, measure func([]float64) float64, resamples int, confidence float64, rng *rand.Rand) Interval {
	if len(values) == 0 || resamples <= 0 {
		return Interval{}
	}

	estimates := lo.Times(resamples, func(_ int) float64 {
		sample := lo.Times(len(values), func(_ int) float64 {
			return values[rng.Intn(len(values))]
		})
		return measure(sample)
	})
	sort.Float64s(estimates)

	tail := (1 - confidence) / 2
	mean, stdDev := stat.MeanStdDev(estimates, nil)

	return Interval{
		Lower:  stat.Quantile(tail, stat.LinInterp, estimates, nil),
		Upper:  stat.Quantile(1-tail, stat.LinInterp, estimates, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}

// MeanOf is the sample mean, usable as a Bootstrap measure
func MeanOf(values []float64) float64 {
	return stat.Mean(values, nil)
}

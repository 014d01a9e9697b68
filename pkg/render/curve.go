package render

import (
	"gonum.org/v1/gonum/interp"
)

// CurvePoint is a sample of a drawn line, X in point positions
type CurvePoint struct {
	X float64
	Y float64
}

// Curve returns the drawable runs of the line. Invalid points split the line
// into separate runs. Runs of three or more points are sampled from a monotone
// cubic interpolation so the curve never overshoots its data.
func (c *LineChart) Curve(samplesPerSegment int) [][]CurvePoint {
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}

	runs := make([][]CurvePoint, 0)
	for _, run := range validRuns(c.Points) {
		if !c.Smooth || len(run) < 3 {
			runs = append(runs, run)
			continue
		}
		runs = append(runs, smooth(run, samplesPerSegment))
	}

	return runs
}

func validRuns(points []Point) [][]CurvePoint {
	runs := make([][]CurvePoint, 0)
	current := make([]CurvePoint, 0)

	for i, point := range points {
		if !point.Valid {
			if len(current) > 0 {
				runs = append(runs, current)
				current = make([]CurvePoint, 0)
			}
			continue
		}
		current = append(current, CurvePoint{X: float64(i), Y: point.Value})
	}

	if len(current) > 0 {
		runs = append(runs, current)
	}

	return runs
}

func smooth(run []CurvePoint, samples int) []CurvePoint {
	xs := make([]float64, len(run))
	ys := make([]float64, len(run))
	for i, p := range run {
		xs[i], ys[i] = p.X, p.Y
	}

	var fb interp.FritschButland
	if err := fb.Fit(xs, ys); err != nil {
		return run
	}

	curve := make([]CurvePoint, 0, (len(run)-1)*samples+1)
	for i := 0; i < len(run)-1; i++ {
		step := (xs[i+1] - xs[i]) / float64(samples)
		for k := 0; k < samples; k++ {
			x := xs[i] + step*float64(k)
			curve = append(curve, CurvePoint{X: x, Y: fb.Predict(x)})
		}
	}
	last := run[len(run)-1]
	curve = append(curve, CurvePoint{X: last.X, Y: last.Y})

	return curve
}

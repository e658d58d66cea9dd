package domain

import "math"

// MeanAbsError returns the mean absolute error between two equal-length
// series. Positions where either side is NaN are excluded from the
// reduction; if every position is excluded the result is NaN, signalling
// "no valid data" rather than an error.
func MeanAbsError(pred, target []float64) float64 {
	sum := 0.0
	n := 0
	for i, p := range pred {
		t := target[i]
		if math.IsNaN(p) || math.IsNaN(t) {
			continue
		}
		sum += math.Abs(p - t)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// RootMeanSquareError returns the RMSE between two equal-length series
// under the same NaN mask as MeanAbsError.
func RootMeanSquareError(pred, target []float64) float64 {
	sum := 0.0
	n := 0
	for i, p := range pred {
		t := target[i]
		if math.IsNaN(p) || math.IsNaN(t) {
			continue
		}
		d := p - t
		sum += d * d
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(n))
}

// Bias returns the mean offset pred - target under the same NaN mask as
// MeanAbsError.
func Bias(pred, target []float64) float64 {
	sum := 0.0
	n := 0
	for i, p := range pred {
		t := target[i]
		if math.IsNaN(p) || math.IsNaN(t) {
			continue
		}
		sum += p - t
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// MeanAbsErrorGrid returns the MAE over a [timestep][station] grid pair,
// flattening both axes into a single NaN-aware reduction.
func MeanAbsErrorGrid(pred, target [][]float64) float64 {
	sum := 0.0
	n := 0
	for i := range pred {
		for j, p := range pred[i] {
			t := target[i][j]
			if math.IsNaN(p) || math.IsNaN(t) {
				continue
			}
			sum += math.Abs(p - t)
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// MeanAbsErrorPerStation reduces the time axis of a [timestep][station]
// grid pair, returning one MAE per station slot. Stations with no valid
// samples yield NaN.
func MeanAbsErrorPerStation(pred, target [][]float64) []float64 {
	if len(pred) == 0 {
		return nil
	}
	nStations := len(pred[0])
	sums := make([]float64, nStations)
	counts := make([]int, nStations)

	for i := range pred {
		for j, p := range pred[i] {
			t := target[i][j]
			if math.IsNaN(p) || math.IsNaN(t) {
				continue
			}
			sums[j] += math.Abs(p - t)
			counts[j]++
		}
	}

	out := make([]float64, nStations)
	for j := range out {
		if counts[j] == 0 {
			out[j] = math.NaN()
		} else {
			out[j] = sums[j] / float64(counts[j])
		}
	}
	return out
}

// HorizontalMagnitude computes the horizontal perturbation magnitude
// sqrt(north^2 + east^2) elementwise. NaN in either component yields NaN
// at that position.
func HorizontalMagnitude(north, east []float64) []float64 {
	out := make([]float64, len(north))
	for i, n := range north {
		out[i] = math.Hypot(n, east[i])
	}
	return out
}

// HorizontalMagnitudeGrid applies HorizontalMagnitude row by row over
// [timestep][station] grids.
func HorizontalMagnitudeGrid(north, east [][]float64) [][]float64 {
	out := make([][]float64, len(north))
	for i := range north {
		out[i] = HorizontalMagnitude(north[i], east[i])
	}
	return out
}

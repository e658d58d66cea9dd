package domain

import (
	"math"
	"time"
)

// Peak is a local maximum of a station perturbation series.
type Peak struct {
	Time  time.Time
	Value float64
}

// FindPeaks identifies local maxima of a time series using first
// derivative sign changes. Timesteps where the value is NaN (missing
// station data) are skipped, so a peak is only reported where three
// consecutive valid samples bracket it. minValue filters out quiet-time
// wiggles; pass 0 to keep everything.
func FindPeaks(times []time.Time, values []float64, minValue float64) []Peak {
	peaks := make([]Peak, 0)
	if len(values) < 3 {
		return peaks
	}

	for i := 1; i < len(values)-1; i++ {
		prev, curr, next := values[i-1], values[i], values[i+1]
		if math.IsNaN(prev) || math.IsNaN(curr) || math.IsNaN(next) {
			continue
		}
		if curr > prev && curr > next && curr >= minValue {
			t, v := refinePeak(times[i-1], times[i], times[i+1], prev, curr, next)
			peaks = append(peaks, Peak{Time: t, Value: v})
		}
	}
	return peaks
}

// refinePeak fits a parabola through the three samples around a discrete
// maximum and returns the interpolated vertex. Falls back to the discrete
// sample for non-uniform spacing or a near-linear fit.
func refinePeak(t0, t1, t2 time.Time, h0, h1, h2 float64) (time.Time, float64) {
	dt1 := t1.Sub(t0).Hours()
	dt2 := t2.Sub(t1).Hours()
	if dt1 <= 0 || math.Abs(dt1-dt2) > 1e-6 {
		return t1, h1
	}

	// y = a*x^2 + b*x + c with the vertex at x = -b/(2a).
	a := (h2 - 2*h1 + h0) / (2 * dt1 * dt1)
	b := (h2 - h0) / (2 * dt1)
	if math.Abs(a) < 1e-10 {
		return t1, h1
	}

	dtVertex := -b / (2 * a)
	if math.Abs(dtVertex) > dt1 {
		return t1, h1
	}

	refinedTime := t1.Add(time.Duration(dtVertex * float64(time.Hour)))
	refinedValue := h1 + b*dtVertex + a*dtVertex*dtVertex
	return refinedTime, refinedValue
}

// MaxPeak returns the largest peak of a series, or false when the series
// has no valid peak.
func MaxPeak(times []time.Time, values []float64) (Peak, bool) {
	peaks := FindPeaks(times, values, 0)
	if len(peaks) == 0 {
		return Peak{}, false
	}
	best := peaks[0]
	for _, p := range peaks[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, true
}

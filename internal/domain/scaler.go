package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scaler holds the standardization parameters of one target component.
// The parameters are computed by the training pipeline and supplied once
// at the start of a forecast run; this core only ever inverts them.
type Scaler struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Destandardize maps a normalized model output back to physical units
// (nT): x*std + mean. The map is linear with no clamping; NaN maps to
// NaN.
func (s Scaler) Destandardize(x float64) float64 {
	return x*s.Std + s.Mean
}

// DestandardizeSlice applies the inverse transform elementwise, returning
// a new slice.
func (s Scaler) DestandardizeSlice(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.Scale(s.Std, out)
	floats.AddConst(s.Mean, out)
	return out
}

// Valid reports whether the scaler carries usable parameters. A zero or
// non-finite std cannot be inverted meaningfully.
func (s Scaler) Valid() bool {
	return s.Std != 0 && !math.IsNaN(s.Std) && !math.IsInf(s.Std, 0) && !math.IsNaN(s.Mean)
}

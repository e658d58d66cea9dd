// Package grid builds regular MLT x colatitude evaluation grids for
// basis synthesis and interpolates evaluated field grids at arbitrary
// points on the polar cap.
package grid

import (
	"fmt"
	"math"
)

// Grid is a regular evaluation grid over the polar cap. The MLT axis is
// periodic and spans [0, 2*pi) in equal steps; the colatitude axis spans
// (0, MaxColat] so the exact pole, where every non-zonal basis function
// vanishes, is not a grid node.
type Grid struct {
	MLT   []float64 // Radians, ascending.
	Colat []float64 // Radians, ascending.
}

// New builds a grid with the given axis resolutions. maxColat is in
// radians and bounds the equatorward edge of the cap.
func New(mltSteps, colatSteps int, maxColat float64) (*Grid, error) {
	if mltSteps < 2 {
		return nil, fmt.Errorf("mlt axis needs at least 2 steps, got %d", mltSteps)
	}
	if colatSteps < 2 {
		return nil, fmt.Errorf("colatitude axis needs at least 2 steps, got %d", colatSteps)
	}
	if maxColat <= 0 || maxColat > math.Pi {
		return nil, fmt.Errorf("max colatitude must be in (0, pi], got %v", maxColat)
	}

	mlt := make([]float64, mltSteps)
	for j := range mlt {
		mlt[j] = 2 * math.Pi * float64(j) / float64(mltSteps)
	}
	colat := make([]float64, colatSteps)
	for i := range colat {
		colat[i] = maxColat * float64(i+1) / float64(colatSteps)
	}
	return &Grid{MLT: mlt, Colat: colat}, nil
}

// Size returns the number of grid nodes.
func (g *Grid) Size() int {
	return len(g.MLT) * len(g.Colat)
}

// Flatten returns the grid nodes as flat coordinate slices in row-major
// order (colatitude outer, MLT inner), matching the layout FieldGrid
// expects back.
func (g *Grid) Flatten() (azimuth, polar []float64) {
	azimuth = make([]float64, 0, g.Size())
	polar = make([]float64, 0, g.Size())
	for _, c := range g.Colat {
		for _, m := range g.MLT {
			azimuth = append(azimuth, m)
			polar = append(polar, c)
		}
	}
	return azimuth, polar
}

// FieldGrid is a scalar field evaluated on a Grid.
type FieldGrid struct {
	Grid   *Grid
	Values [][]float64 // [colatitude][mlt].
}

// NewFieldGrid unflattens row-major field values produced from
// Grid.Flatten coordinates.
func NewFieldGrid(g *Grid, flat []float64) (*FieldGrid, error) {
	if len(flat) != g.Size() {
		return nil, fmt.Errorf("expected %d values for a %dx%d grid, got %d",
			g.Size(), len(g.Colat), len(g.MLT), len(flat))
	}
	values := make([][]float64, len(g.Colat))
	for i := range values {
		values[i] = flat[i*len(g.MLT) : (i+1)*len(g.MLT)]
	}
	return &FieldGrid{Grid: g, Values: values}, nil
}

// InterpolateAt bilinearly interpolates the field at (mlt, colat) in
// radians. The MLT axis wraps around midnight; colatitude outside the
// grid span is an error. A NaN at any surrounding node propagates NaN,
// matching the missing-data convention everywhere else in the pipeline.
func (f *FieldGrid) InterpolateAt(mltRad, colatRad float64) (float64, error) {
	g := f.Grid

	// Wrap MLT into [0, 2*pi).
	mltRad = math.Mod(mltRad, 2*math.Pi)
	if mltRad < 0 {
		mltRad += 2 * math.Pi
	}

	if colatRad < g.Colat[0] || colatRad > g.Colat[len(g.Colat)-1] {
		return 0, fmt.Errorf("colatitude %.4f rad is outside grid span [%.4f, %.4f]",
			colatRad, g.Colat[0], g.Colat[len(g.Colat)-1])
	}

	// Locate the colatitude cell.
	ci := len(g.Colat) - 2
	for i := 0; i < len(g.Colat)-1; i++ {
		if colatRad <= g.Colat[i+1] {
			ci = i
			break
		}
	}

	// Locate the MLT cell, with the final cell wrapping back to column 0.
	step := 2 * math.Pi / float64(len(g.MLT))
	mi := int(mltRad / step)
	if mi >= len(g.MLT) {
		mi = len(g.MLT) - 1
	}
	mj := (mi + 1) % len(g.MLT)

	t := (mltRad - g.MLT[mi]) / step
	u := (colatRad - g.Colat[ci]) / (g.Colat[ci+1] - g.Colat[ci])

	v00 := f.Values[ci][mi]
	v10 := f.Values[ci][mj]
	v01 := f.Values[ci+1][mi]
	v11 := f.Values[ci+1][mj]

	return (1-t)*(1-u)*v00 + t*(1-u)*v10 + (1-t)*u*v01 + t*u*v11, nil
}

// Package domain implements the spherical-harmonic synthesis core:
// basis generation, coefficient contraction, inverse scaling, and the
// NaN-aware metrics used to evaluate assembled forecast runs.
package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Family selects the azimuthal factor of a basis function.
type Family int

const (
	// FamilyCos multiplies the Legendre term by cos(m * azimuth).
	FamilyCos Family = iota
	// FamilySin multiplies the Legendre term by sin(m * azimuth).
	FamilySin
)

// String returns "cos" or "sin".
func (f Family) String() string {
	if f == FamilySin {
		return "sin"
	}
	return "cos"
}

// BasisFunction identifies a single spherical-harmonic basis function by
// its degree, order and azimuthal family.
type BasisFunction struct {
	Degree int    `json:"degree"`
	Order  int    `json:"order"`
	Family Family `json:"family"`
}

// BasisSize returns the number of basis functions for a maximum degree.
// Each degree l contributes one zonal term plus a cos/sin pair for each
// order m = 1..l, so the total is sum_{l=0}^{nmax} (2l+1) = (nmax+1)^2.
func BasisSize(nmax int) int {
	return (nmax + 1) * (nmax + 1)
}

// BasisFunctions enumerates the basis functions for a maximum degree in
// the canonical order: ascending degree, ascending order within a degree,
// cosine before sine. The m = 0 zonal term appears once per degree; its
// sine partner is identically zero and is excluded. Coefficient vectors
// consumed by Contract are interpreted in this exact order.
func BasisFunctions(nmax int) []BasisFunction {
	funcs := make([]BasisFunction, 0, BasisSize(nmax))
	for l := 0; l <= nmax; l++ {
		funcs = append(funcs, BasisFunction{Degree: l, Order: 0, Family: FamilyCos})
		for m := 1; m <= l; m++ {
			funcs = append(funcs,
				BasisFunction{Degree: l, Order: m, Family: FamilyCos},
				BasisFunction{Degree: l, Order: m, Family: FamilySin},
			)
		}
	}
	return funcs
}

// BasisIndex returns the position of a basis function in the canonical
// enumeration. Degree l starts at offset l*l; within a degree the zonal
// term comes first, followed by cos/sin pairs per order.
func BasisIndex(degree, order int, family Family) int {
	if order == 0 {
		return degree * degree
	}
	idx := degree*degree + 2*order - 1
	if family == FamilySin {
		idx++
	}
	return idx
}

// schmidtLegendre evaluates the Schmidt semi-normalized associated
// Legendre functions at cos(polar) for all degrees and orders up to nmax.
// The returned table is indexed as [degree][order].
//
// Recurrences (x = cos(polar), s = sin(polar)):
//
//	P(0,0) = 1
//	P(1,1) = s
//	P(n,n) = sqrt((2n-1)/(2n)) * s * P(n-1,n-1)          for n >= 2
//	P(n,m) = ((2n-1)*x*P(n-1,m) - sqrt((n-1+m)(n-1-m))*P(n-2,m))
//	         / sqrt((n+m)(n-m))                          otherwise
//
// The n = 1 diagonal is special because the Schmidt (2 - delta_m0)
// factor cancels the general diagonal coefficient there.
func schmidtLegendre(nmax int, polar float64) [][]float64 {
	x := math.Cos(polar)
	s := math.Sin(polar)

	p := make([][]float64, nmax+1)
	for n := range p {
		p[n] = make([]float64, n+1)
	}
	p[0][0] = 1
	if nmax == 0 {
		return p
	}
	p[1][0] = x
	p[1][1] = s

	for n := 2; n <= nmax; n++ {
		p[n][n] = math.Sqrt(float64(2*n-1)/float64(2*n)) * s * p[n-1][n-1]
		for m := 0; m < n; m++ {
			num := float64(2*n-1) * x * p[n-1][m]
			if m < n-1 {
				num -= math.Sqrt(float64((n-1+m)*(n-1-m))) * p[n-2][m]
			}
			p[n][m] = num / math.Sqrt(float64((n+m)*(n-m)))
		}
	}
	return p
}

// BasisMatrix evaluates the spherical-harmonic basis at a set of query
// points and returns a (points x basis functions) matrix. The azimuth and
// polar slices must have equal length and are in radians; callers holding
// MLT hours or colatitude degrees convert with MLTToRadians / Deg2Rad
// first. Columns follow the canonical BasisFunctions order.
//
// NaN coordinates (missing stations) produce NaN rows; polar angles at
// the poles pass through the recursion unmodified. All arithmetic is
// float64 - the Legendre recursion accumulates visible error in single
// precision at higher degrees.
func BasisMatrix(nmax int, azimuth, polar []float64) (*mat.Dense, error) {
	if nmax < 1 {
		return nil, fmt.Errorf("nmax must be >= 1, got %d", nmax)
	}
	if len(azimuth) != len(polar) {
		return nil, fmt.Errorf("coordinate length mismatch: %d azimuth vs %d polar values", len(azimuth), len(polar))
	}
	if len(azimuth) == 0 {
		return nil, fmt.Errorf("no query points provided")
	}

	nb := BasisSize(nmax)
	basis := mat.NewDense(len(azimuth), nb, nil)

	for q, az := range azimuth {
		p := schmidtLegendre(nmax, polar[q])
		col := 0
		for l := 0; l <= nmax; l++ {
			basis.Set(q, col, p[l][0])
			col++
			for m := 1; m <= l; m++ {
				mAz := float64(m) * az
				basis.Set(q, col, p[l][m]*math.Cos(mAz))
				basis.Set(q, col+1, p[l][m]*math.Sin(mAz))
				col += 2
			}
		}
	}
	return basis, nil
}

// MLTToRadians converts magnetic local time in hours to an azimuthal
// angle in radians (24 h = 2*pi).
func MLTToRadians(hours float64) float64 {
	return hours * math.Pi / 12.0
}

// RadiansToMLT converts an azimuthal angle in radians to magnetic local
// time in hours.
func RadiansToMLT(rad float64) float64 {
	return rad * 12.0 / math.Pi
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

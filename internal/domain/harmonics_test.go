package domain

import (
	"math"
	"testing"
)

// TestBasisSize verifies the basis-function count formula (nmax+1)^2.
func TestBasisSize(t *testing.T) {
	tests := []struct {
		nmax     int
		expected int
	}{
		{1, 4},
		{2, 9},
		{3, 16},
		{5, 36},
		{10, 121},
	}

	for _, tt := range tests {
		if got := BasisSize(tt.nmax); got != tt.expected {
			t.Errorf("BasisSize(%d): expected %d, got %d", tt.nmax, tt.expected, got)
		}
		if got := len(BasisFunctions(tt.nmax)); got != tt.expected {
			t.Errorf("len(BasisFunctions(%d)): expected %d, got %d", tt.nmax, tt.expected, got)
		}
	}
}

// TestBasisSize_IndependentOfCoordinates checks that the basis-function
// axis depends on nmax only, not on the query points.
func TestBasisSize_IndependentOfCoordinates(t *testing.T) {
	for _, nPoints := range []int{1, 3, 17} {
		az := make([]float64, nPoints)
		pol := make([]float64, nPoints)
		for i := range az {
			az[i] = float64(i) * 0.3
			pol[i] = 0.1 + float64(i)*0.05
		}

		basis, err := BasisMatrix(3, az, pol)
		if err != nil {
			t.Fatalf("BasisMatrix failed for %d points: %v", nPoints, err)
		}
		rows, cols := basis.Dims()
		if rows != nPoints {
			t.Errorf("expected %d rows, got %d", nPoints, rows)
		}
		if cols != BasisSize(3) {
			t.Errorf("expected %d columns, got %d", BasisSize(3), cols)
		}
	}
}

// TestBasisFunctions_CanonicalOrder pins the enumeration order that
// coefficient vectors are interpreted in.
func TestBasisFunctions_CanonicalOrder(t *testing.T) {
	expected := []BasisFunction{
		{0, 0, FamilyCos},
		{1, 0, FamilyCos},
		{1, 1, FamilyCos},
		{1, 1, FamilySin},
		{2, 0, FamilyCos},
		{2, 1, FamilyCos},
		{2, 1, FamilySin},
		{2, 2, FamilyCos},
		{2, 2, FamilySin},
	}

	funcs := BasisFunctions(2)
	if len(funcs) != len(expected) {
		t.Fatalf("expected %d basis functions, got %d", len(expected), len(funcs))
	}
	for i, want := range expected {
		if funcs[i] != want {
			t.Errorf("position %d: expected %+v, got %+v", i, want, funcs[i])
		}
		if idx := BasisIndex(want.Degree, want.Order, want.Family); idx != i {
			t.Errorf("BasisIndex(%d,%d,%v): expected %d, got %d", want.Degree, want.Order, want.Family, i, idx)
		}
	}
}

// TestBasisMatrix_KnownValues checks Schmidt semi-normalized values at
// the equator against closed forms.
func TestBasisMatrix_KnownValues(t *testing.T) {
	// Single point at the equator, azimuth 0.
	basis, err := BasisMatrix(2, []float64{0}, []float64{math.Pi / 2})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	// At the equator x = cos(polar) = 0, s = 1:
	//   P(0,0) = 1
	//   P(1,0) = x = 0
	//   P(1,1) = s = 1
	//   P(2,0) = (3x^2-1)/2 = -0.5
	//   P(2,1) = sqrt(3)*x*s = 0
	//   P(2,2) = (sqrt(3)/2)*s^2 = 0.8660254
	tests := []struct {
		degree, order int
		family        Family
		expected      float64
	}{
		{0, 0, FamilyCos, 1.0},
		{1, 0, FamilyCos, 0.0},
		{1, 1, FamilyCos, 1.0}, // cos(0) = 1
		{1, 1, FamilySin, 0.0}, // sin(0) = 0
		{2, 0, FamilyCos, -0.5},
		{2, 1, FamilyCos, 0.0},
		{2, 2, FamilyCos, math.Sqrt(3) / 2},
		{2, 2, FamilySin, 0.0},
	}

	for _, tt := range tests {
		got := basis.At(0, BasisIndex(tt.degree, tt.order, tt.family))
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("basis(l=%d, m=%d, %v): expected %.10f, got %.10f",
				tt.degree, tt.order, tt.family, tt.expected, got)
		}
	}
}

// TestBasisMatrix_AzimuthFamilies checks the cos/sin azimuthal factors
// at a nonzero azimuth.
func TestBasisMatrix_AzimuthFamilies(t *testing.T) {
	az := 0.7
	basis, err := BasisMatrix(1, []float64{az}, []float64{math.Pi / 2})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	// P(1,1) = 1 at the equator, so the basis values are cos(az), sin(az).
	if got := basis.At(0, BasisIndex(1, 1, FamilyCos)); math.Abs(got-math.Cos(az)) > 1e-12 {
		t.Errorf("cos family: expected %.10f, got %.10f", math.Cos(az), got)
	}
	if got := basis.At(0, BasisIndex(1, 1, FamilySin)); math.Abs(got-math.Sin(az)) > 1e-12 {
		t.Errorf("sin family: expected %.10f, got %.10f", math.Sin(az), got)
	}
}

// TestBasisMatrix_Determinism requires bit-identical output for
// identical inputs.
func TestBasisMatrix_Determinism(t *testing.T) {
	az := []float64{0.1, 1.7, 3.9, 5.5}
	pol := []float64{0.2, 0.9, 1.6, 2.8}

	a, err := BasisMatrix(6, az, pol)
	if err != nil {
		t.Fatalf("first BasisMatrix failed: %v", err)
	}
	b, err := BasisMatrix(6, az, pol)
	if err != nil {
		t.Fatalf("second BasisMatrix failed: %v", err)
	}

	ra, rb := a.RawMatrix().Data, b.RawMatrix().Data
	for i := range ra {
		if ra[i] != rb[i] {
			t.Fatalf("output differs at flat index %d: %v vs %v", i, ra[i], rb[i])
		}
	}
}

// TestBasisMatrix_Poles verifies that the recursion stays finite at the
// poles (polar angle exactly 0 or pi).
func TestBasisMatrix_Poles(t *testing.T) {
	basis, err := BasisMatrix(4, []float64{0, 0}, []float64{0, math.Pi})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}
	rows, cols := basis.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := basis.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("non-finite basis value %v at (%d, %d)", v, i, j)
			}
		}
	}
	// At the north pole only zonal terms survive, and P(l,0)(1) = 1.
	for l := 0; l <= 4; l++ {
		if got := basis.At(0, BasisIndex(l, 0, FamilyCos)); math.Abs(got-1.0) > 1e-12 {
			t.Errorf("north pole P(%d,0): expected 1.0, got %.10f", l, got)
		}
	}
}

// TestBasisMatrix_NaNCoordinate checks that a missing station (NaN
// coordinate) yields a NaN row rather than an error.
func TestBasisMatrix_NaNCoordinate(t *testing.T) {
	basis, err := BasisMatrix(2, []float64{0.5, math.NaN()}, []float64{1.0, math.NaN()})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}
	if v := basis.At(0, 0); math.IsNaN(v) {
		t.Errorf("valid row contaminated with NaN")
	}
	// Every non-zonal-degree-0 entry of the NaN row should be NaN; the
	// (0,0) basis function is the constant 1 regardless.
	for j := 1; j < BasisSize(2); j++ {
		if v := basis.At(1, j); !math.IsNaN(v) {
			t.Errorf("expected NaN at column %d of missing row, got %v", j, v)
		}
	}
}

// TestBasisMatrix_Errors covers invalid inputs.
func TestBasisMatrix_Errors(t *testing.T) {
	if _, err := BasisMatrix(0, []float64{0}, []float64{0}); err == nil {
		t.Errorf("expected error for nmax < 1")
	}
	if _, err := BasisMatrix(2, []float64{0, 1}, []float64{0}); err == nil {
		t.Errorf("expected error for coordinate length mismatch")
	}
	if _, err := BasisMatrix(2, nil, nil); err == nil {
		t.Errorf("expected error for empty coordinates")
	}
}

// TestMLTConversions tests MLT hour <-> radian conversion.
func TestMLTConversions(t *testing.T) {
	tests := []struct {
		hours    float64
		expected float64
	}{
		{0, 0},
		{6, math.Pi / 2},
		{12, math.Pi},
		{18, 3 * math.Pi / 2},
		{24, 2 * math.Pi},
	}

	for _, tt := range tests {
		if got := MLTToRadians(tt.hours); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("MLTToRadians(%.1f): expected %.10f, got %.10f", tt.hours, tt.expected, got)
		}
		if got := RadiansToMLT(tt.expected); math.Abs(got-tt.hours) > 1e-12 {
			t.Errorf("RadiansToMLT(%.10f): expected %.1f, got %.10f", tt.expected, tt.hours, got)
		}
	}
}

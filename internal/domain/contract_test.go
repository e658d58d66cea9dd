package domain

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestContract_ZeroCoefficients checks that all-zero coefficients yield
// an all-zero field of the correct shape.
func TestContract_ZeroCoefficients(t *testing.T) {
	az := []float64{0.1, 0.9, 2.3}
	pol := []float64{0.4, 1.2, 2.0}
	basis, err := BasisMatrix(2, az, pol)
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	nT := 5
	coeffs := mat.NewDense(nT, BasisSize(2), nil)

	field, err := Contract(basis, coeffs)
	if err != nil {
		t.Fatalf("Contract failed: %v", err)
	}

	rows, cols := field.Dims()
	if rows != len(az) || cols != nT {
		t.Fatalf("expected %dx%d field, got %dx%d", len(az), nT, rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := field.At(i, j); v != 0 {
				t.Errorf("expected 0 at (%d, %d), got %v", i, j, v)
			}
		}
	}
}

// TestContract_ShapeMismatch requires a descriptive error, not silent
// broadcasting, when the basis-function axes disagree.
func TestContract_ShapeMismatch(t *testing.T) {
	basis, err := BasisMatrix(2, []float64{0.5}, []float64{1.0})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	coeffs := mat.NewDense(3, BasisSize(3), nil)
	if _, err := Contract(basis, coeffs); err == nil {
		t.Fatalf("expected basis function count mismatch error")
	}

	if _, err := ContractVector(basis, make([]float64, BasisSize(2)+1)); err == nil {
		t.Fatalf("expected mismatch error from ContractVector")
	}
}

// TestContractVector_ZonalIdentity is the end-to-end check: at any point
// the degree-0 zonal basis function is the constant 1, so a coefficient
// vector selecting only that term with value v contracts to exactly v.
func TestContractVector_ZonalIdentity(t *testing.T) {
	basis, err := BasisMatrix(1, []float64{0}, []float64{math.Pi / 2})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	// Verify the zonal basis value itself first.
	if got := basis.At(0, BasisIndex(0, 0, FamilyCos)); got != 1.0 {
		t.Fatalf("degree-0 zonal basis value: expected 1.0, got %v", got)
	}

	v := 42.5
	coeff := make([]float64, BasisSize(1))
	coeff[BasisIndex(0, 0, FamilyCos)] = v

	values, err := ContractVector(basis, coeff)
	if err != nil {
		t.Fatalf("ContractVector failed: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0] != v {
		t.Errorf("expected exactly %v, got %v", v, values[0])
	}
}

// TestContract_MatchesContractVector cross-checks the batched and
// single-timestep paths.
func TestContract_MatchesContractVector(t *testing.T) {
	az := []float64{0.3, 1.1, 2.9, 4.4}
	pol := []float64{0.6, 1.0, 1.9, 2.5}
	basis, err := BasisMatrix(3, az, pol)
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	nb := BasisSize(3)
	coeff := make([]float64, nb)
	for i := range coeff {
		coeff[i] = math.Sin(float64(i) * 0.37)
	}

	coeffs := mat.NewDense(1, nb, coeff)
	field, err := Contract(basis, coeffs)
	if err != nil {
		t.Fatalf("Contract failed: %v", err)
	}

	values, err := ContractVector(basis, coeff)
	if err != nil {
		t.Fatalf("ContractVector failed: %v", err)
	}

	for q := range az {
		if diff := math.Abs(field.At(q, 0) - values[q]); diff > 1e-12 {
			t.Errorf("point %d: batched %v vs vector %v", q, field.At(q, 0), values[q])
		}
	}
}

// TestContract_NaNPropagation checks that missing-station NaNs flow
// through the contraction without special-casing.
func TestContract_NaNPropagation(t *testing.T) {
	basis, err := BasisMatrix(1, []float64{0.5, math.NaN()}, []float64{1.0, math.NaN()})
	if err != nil {
		t.Fatalf("BasisMatrix failed: %v", err)
	}

	coeff := []float64{1, 0.5, -0.2, 0.1}
	values, err := ContractVector(basis, coeff)
	if err != nil {
		t.Fatalf("ContractVector failed: %v", err)
	}

	if math.IsNaN(values[0]) {
		t.Errorf("valid station produced NaN")
	}
	if !math.IsNaN(values[1]) {
		t.Errorf("missing station should produce NaN, got %v", values[1])
	}
}

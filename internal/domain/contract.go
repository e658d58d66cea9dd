package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Contract computes field values from a basis matrix and per-timestep
// coefficient vectors. basis is (points x basis functions), coeffs is
// (timesteps x basis functions); the result is (points x timesteps) where
// result[q][t] is the dot product of basis row q with coefficient row t.
//
// A basis-function count mismatch is a programming error upstream and is
// reported before any arithmetic; no broadcasting is attempted. NaN
// entries (missing stations, pole singularities) propagate through the
// products unchanged.
func Contract(basis, coeffs *mat.Dense) (*mat.Dense, error) {
	_, nb := basis.Dims()
	nt, cb := coeffs.Dims()
	if nb != cb {
		return nil, fmt.Errorf("basis function count mismatch: basis has %d columns, coefficients have %d", nb, cb)
	}
	if nt == 0 {
		return nil, fmt.Errorf("no coefficient vectors provided")
	}

	var field mat.Dense
	field.Mul(basis, coeffs.T())
	return &field, nil
}

// ContractVector computes field values at each query point for a single
// coefficient vector. This is the per-timestep path used by the forecast
// assembler, where station coordinates (and hence the basis) change every
// timestep.
func ContractVector(basis *mat.Dense, coeff []float64) ([]float64, error) {
	nq, nb := basis.Dims()
	if nb != len(coeff) {
		return nil, fmt.Errorf("basis function count mismatch: basis has %d columns, coefficient vector has %d", nb, len(coeff))
	}

	var out mat.VecDense
	out.MulVec(basis, mat.NewVecDense(len(coeff), coeff))

	values := make([]float64, nq)
	copy(values, out.RawVector().Data)
	return values, nil
}

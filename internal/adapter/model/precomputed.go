package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/stormlab/geomag-api/internal/domain"
)

// PrecomputedName is the registry name of the stored-coefficient model.
const PrecomputedName = "precomputed"

func init() {
	Register(PrecomputedName, newPrecomputed)
}

// precomputed serves coefficient vectors that were produced by an
// offline inference pass and stored in the run file, looked up by
// timestamp. It is the evaluation-path stand-in for live checkpoint
// inference.
type precomputed struct {
	nmax   int
	coeffs map[string]*mat.Dense
	rowFor map[int64]int
}

func newPrecomputed(cfg Config) (Model, error) {
	if cfg.Nmax < 1 {
		return nil, fmt.Errorf("precomputed model requires nmax >= 1, got %d", cfg.Nmax)
	}
	if len(cfg.Coefficients) == 0 {
		return nil, fmt.Errorf("precomputed model requires stored coefficients")
	}

	nb := domain.BasisSize(cfg.Nmax)
	for comp, m := range cfg.Coefficients {
		rows, cols := m.Dims()
		if cols != nb {
			return nil, fmt.Errorf("component %s: coefficient width %d does not match basis size %d for nmax=%d",
				comp, cols, nb, cfg.Nmax)
		}
		if rows != len(cfg.Times) {
			return nil, fmt.Errorf("component %s: %d coefficient rows for %d timestamps", comp, rows, len(cfg.Times))
		}
	}

	rowFor := make(map[int64]int, len(cfg.Times))
	for i, ts := range cfg.Times {
		rowFor[ts] = i
	}

	return &precomputed{nmax: cfg.Nmax, coeffs: cfg.Coefficients, rowFor: rowFor}, nil
}

func (p *precomputed) Name() string {
	return PrecomputedName
}

// Predict assembles the stored coefficient rows matching the batch
// timestamps. A batch timestamp absent from the run file is a
// programming error upstream (batches are cut from the same file).
func (p *precomputed) Predict(batch *domain.Batch) (map[string]*mat.Dense, error) {
	nb := domain.BasisSize(p.nmax)
	out := make(map[string]*mat.Dense, len(p.coeffs))

	for comp, stored := range p.coeffs {
		coeffs := mat.NewDense(batch.Len(), nb, nil)
		for i, ts := range batch.Times {
			row, ok := p.rowFor[ts.Unix()]
			if !ok {
				return nil, fmt.Errorf("no stored coefficients for timestamp %s", ts.UTC())
			}
			coeffs.SetRow(i, stored.RawRowView(row))
		}
		out[comp] = coeffs
	}
	return out, nil
}

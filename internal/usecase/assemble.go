// Package usecase orchestrates forecast runs: it drives the batch
// source, the inference model, and the domain numerics, and owns the
// accumulated result arrays until evaluation completes.
package usecase

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/stormlab/geomag-api/internal/adapter/model"
	"github.com/stormlab/geomag-api/internal/domain"
)

// RunConfig holds the fixed parameters of one forecast run.
type RunConfig struct {
	Nmax       int
	Components []string

	// Scalers maps component name to its standardization parameters,
	// supplied once at run start and used for inverse transforms only.
	Scalers map[string]domain.Scaler

	// StationCapacity is the fixed station-axis length results are
	// padded to. Zero means adopt the first batch's station count.
	StationCapacity int
}

// ComponentSeries holds the assembled, time-aligned arrays of one target
// component. All [timestep][station] arrays are NaN-padded to the run's
// station capacity so batches stack consistently; a station keeps its
// index across the whole run.
type ComponentSeries struct {
	Times  []time.Time
	Pred   [][]float64 // Destandardized forecast, nT.
	Target [][]float64 // Destandardized ground truth, nT.
	MLT    [][]float64 // Station azimuth, radians.
	Colat  [][]float64 // Station colatitude, radians.

	// Coefficients is the raw (timesteps x basis functions) model
	// output, kept for inspection.
	Coefficients *mat.Dense
}

// StationSeries extracts the time series of one station slot from a
// [timestep][station] array.
func StationSeries(grid [][]float64, station int) []float64 {
	out := make([]float64, len(grid))
	for i, row := range grid {
		if station < len(row) {
			out[i] = row[station]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// RunResult is the output of one assembled forecast run.
type RunResult struct {
	Nmax            int
	StationCapacity int
	Components      map[string]*ComponentSeries
}

// Assembler runs batches through the model and the harmonic synthesis
// chain, accumulating aligned series per component. It is single-
// threaded and batch-sequential; batches are consumed in the source's
// native order because results must remain chronologically comparable.
type Assembler struct {
	cfg RunConfig
	mdl model.Model
}

// NewAssembler validates the run configuration against the model.
func NewAssembler(cfg RunConfig, mdl model.Model) (*Assembler, error) {
	if cfg.Nmax < 1 {
		return nil, fmt.Errorf("nmax must be >= 1, got %d", cfg.Nmax)
	}
	if len(cfg.Components) == 0 {
		return nil, fmt.Errorf("no target components configured")
	}
	if mdl == nil {
		return nil, fmt.Errorf("no model provided")
	}
	for _, comp := range cfg.Components {
		scaler, ok := cfg.Scalers[comp]
		if !ok {
			return nil, fmt.Errorf("no scaler for component %s", comp)
		}
		if !scaler.Valid() {
			return nil, fmt.Errorf("invalid scaler for component %s: %+v", comp, scaler)
		}
	}
	return &Assembler{cfg: cfg, mdl: mdl}, nil
}

// Run consumes the batch source to exhaustion and returns the assembled
// run result.
func (a *Assembler) Run(source domain.BatchSource) (*RunResult, error) {
	capacity := a.cfg.StationCapacity
	nb := domain.BasisSize(a.cfg.Nmax)

	series := make(map[string]*ComponentSeries, len(a.cfg.Components))
	coeffRows := make(map[string][]float64, len(a.cfg.Components))
	for _, comp := range a.cfg.Components {
		series[comp] = &ComponentSeries{}
	}

	for {
		batch, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch source failed: %w", err)
		}
		if batch.Len() == 0 {
			continue
		}
		if capacity == 0 {
			capacity = batch.Stations()
		}
		if batch.Stations() > capacity {
			return nil, fmt.Errorf("batch has %d stations, exceeding run capacity %d", batch.Stations(), capacity)
		}

		coeffs, err := a.mdl.Predict(batch)
		if err != nil {
			return nil, fmt.Errorf("model predict failed: %w", err)
		}

		for _, comp := range a.cfg.Components {
			compCoeffs, ok := coeffs[comp]
			if !ok {
				return nil, fmt.Errorf("model returned no coefficients for component %s", comp)
			}
			rows, cols := compCoeffs.Dims()
			if rows != batch.Len() {
				return nil, fmt.Errorf("component %s: %d coefficient rows for %d batch timesteps", comp, rows, batch.Len())
			}
			if cols != nb {
				return nil, fmt.Errorf("component %s: coefficient width %d does not match basis size %d", comp, cols, nb)
			}

			if err := a.appendBatch(series[comp], comp, batch, compCoeffs, capacity); err != nil {
				return nil, err
			}
			coeffRows[comp] = append(coeffRows[comp], compCoeffs.RawMatrix().Data...)
		}
	}

	for _, comp := range a.cfg.Components {
		s := series[comp]
		if len(s.Times) > 0 {
			s.Coefficients = mat.NewDense(len(s.Times), nb, coeffRows[comp])
		}
	}

	return &RunResult{
		Nmax:            a.cfg.Nmax,
		StationCapacity: capacity,
		Components:      series,
	}, nil
}

// appendBatch synthesizes and appends one batch of one component.
// Station coordinates can differ per timestep, so the basis matrix is
// rebuilt every timestep.
func (a *Assembler) appendBatch(s *ComponentSeries, comp string, batch *domain.Batch, coeffs *mat.Dense, capacity int) error {
	scaler := a.cfg.Scalers[comp]
	targets := batch.Targets[comp]
	if targets == nil {
		return fmt.Errorf("batch carries no targets for component %s", comp)
	}

	for i := range batch.Times {
		basis, err := domain.BasisMatrix(a.cfg.Nmax, batch.MLT[i], batch.Colat[i])
		if err != nil {
			return fmt.Errorf("basis for timestep %s: %w", batch.Times[i].UTC(), err)
		}
		raw, err := domain.ContractVector(basis, coeffs.RawRowView(i))
		if err != nil {
			return fmt.Errorf("contract for timestep %s: %w", batch.Times[i].UTC(), err)
		}

		s.Times = append(s.Times, batch.Times[i])
		s.Pred = append(s.Pred, padToCapacity(scaler.DestandardizeSlice(raw), capacity))
		s.Target = append(s.Target, padToCapacity(scaler.DestandardizeSlice(targets[i]), capacity))
		s.MLT = append(s.MLT, padToCapacity(batch.MLT[i], capacity))
		s.Colat = append(s.Colat, padToCapacity(batch.Colat[i], capacity))
	}
	return nil
}

// padToCapacity right-pads a station row with NaN so rows from batches
// with fewer stations still stack into one array.
func padToCapacity(row []float64, capacity int) []float64 {
	out := make([]float64, capacity)
	copy(out, row)
	for i := len(row); i < capacity; i++ {
		out[i] = math.NaN()
	}
	return out
}

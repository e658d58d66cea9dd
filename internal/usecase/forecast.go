package usecase

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/stormlab/geomag-api/internal/adapter/grid"
	"github.com/stormlab/geomag-api/internal/domain"
)

// ForecastUseCase serves field forecasts synthesized on demand from a
// loaded run's coefficient time series.
type ForecastUseCase struct {
	nmax         int
	times        []time.Time
	coefficients map[string]*mat.Dense
	scalers      map[string]domain.Scaler
}

// NewForecastUseCase validates the run data and builds the use case.
func NewForecastUseCase(nmax int, times []time.Time, coefficients map[string]*mat.Dense, scalers map[string]domain.Scaler) (*ForecastUseCase, error) {
	if nmax < 1 {
		return nil, fmt.Errorf("nmax must be >= 1, got %d", nmax)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("run has no timesteps")
	}
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("run has no coefficient series")
	}
	nb := domain.BasisSize(nmax)
	for comp, c := range coefficients {
		rows, cols := c.Dims()
		if rows != len(times) {
			return nil, fmt.Errorf("component %s: %d coefficient rows for %d timesteps", comp, rows, len(times))
		}
		if cols != nb {
			return nil, fmt.Errorf("component %s: coefficient width %d does not match basis size %d", comp, cols, nb)
		}
		scaler, ok := scalers[comp]
		if !ok {
			return nil, fmt.Errorf("no scaler for component %s", comp)
		}
		if !scaler.Valid() {
			return nil, fmt.Errorf("invalid scaler for component %s: %+v", comp, scaler)
		}
	}
	return &ForecastUseCase{
		nmax:         nmax,
		times:        times,
		coefficients: coefficients,
		scalers:      scalers,
	}, nil
}

// Nmax returns the truncation degree of the served run.
func (u *ForecastUseCase) Nmax() int {
	return u.nmax
}

// Components returns the served component names in sorted order.
func (u *ForecastUseCase) Components() []string {
	names := make([]string, 0, len(u.coefficients))
	for comp := range u.coefficients {
		names = append(names, comp)
	}
	sort.Strings(names)
	return names
}

// Scalers returns the per-component standardization parameters.
func (u *ForecastUseCase) Scalers() map[string]domain.Scaler {
	return u.scalers
}

// TimeRange returns the first and last served timesteps.
func (u *ForecastUseCase) TimeRange() (time.Time, time.Time) {
	return u.times[0], u.times[len(u.times)-1]
}

// nearestTimestep returns the index of the timestep closest to at.
func (u *ForecastUseCase) nearestTimestep(at time.Time) int {
	best := 0
	bestDiff := absDuration(u.times[0].Sub(at))
	for i := 1; i < len(u.times); i++ {
		if d := absDuration(u.times[i].Sub(at)); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// GridForecast is a field forecast evaluated on a regular grid.
type GridForecast struct {
	Component string      `json:"component"`
	Time      time.Time   `json:"time"`
	MLT       []float64   `json:"mlt_rad"`
	Colat     []float64   `json:"colat_rad"`
	Values    [][]float64 `json:"values_nt"` // [colatitude][mlt], nT.
}

// Grid synthesizes the field of one component on a regular polar-cap
// grid at the timestep nearest to at.
func (u *ForecastUseCase) Grid(component string, at time.Time, mltSteps, colatSteps int, maxColat float64) (*GridForecast, error) {
	coeffs, ok := u.coefficients[component]
	if !ok {
		return nil, fmt.Errorf("unknown component %s", component)
	}

	g, err := grid.New(mltSteps, colatSteps, maxColat)
	if err != nil {
		return nil, err
	}

	idx := u.nearestTimestep(at)
	azimuth, polar := g.Flatten()
	basis, err := domain.BasisMatrix(u.nmax, azimuth, polar)
	if err != nil {
		return nil, fmt.Errorf("basis for grid: %w", err)
	}
	raw, err := domain.ContractVector(basis, coeffs.RawRowView(idx))
	if err != nil {
		return nil, fmt.Errorf("contract for grid: %w", err)
	}

	field, err := grid.NewFieldGrid(g, u.scalers[component].DestandardizeSlice(raw))
	if err != nil {
		return nil, err
	}
	return &GridForecast{
		Component: component,
		Time:      u.times[idx],
		MLT:       g.MLT,
		Colat:     g.Colat,
		Values:    field.Values,
	}, nil
}

// PointForecast is a field forecast at a single point.
type PointForecast struct {
	Component string    `json:"component"`
	Time      time.Time `json:"time"`
	MLTRad    float64   `json:"mlt_rad"`
	ColatRad  float64   `json:"colat_rad"`
	ValueNT   float64   `json:"value_nt"`
}

// Point interpolates the field of one component at (mlt, colat). It
// samples the same gridded product Grid serves so both endpoints agree
// at shared coordinates.
func (u *ForecastUseCase) Point(component string, at time.Time, mltRad, colatRad float64, mltSteps, colatSteps int, maxColat float64) (*PointForecast, error) {
	gf, err := u.Grid(component, at, mltSteps, colatSteps, maxColat)
	if err != nil {
		return nil, err
	}
	field := &grid.FieldGrid{
		Grid:   &grid.Grid{MLT: gf.MLT, Colat: gf.Colat},
		Values: gf.Values,
	}
	value, err := field.InterpolateAt(mltRad, colatRad)
	if err != nil {
		return nil, err
	}
	return &PointForecast{
		Component: component,
		Time:      gf.Time,
		MLTRad:    mltRad,
		ColatRad:  colatRad,
		ValueNT:   value,
	}, nil
}

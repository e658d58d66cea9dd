// Package netcdf loads forecast-run files: timestamps, per-timestep
// station coordinates, standardized targets, precomputed coefficient
// vectors, and scaler parameters.
//
// Expected file layout:
//
//	dimensions: time, station, coeff
//	variables:
//	  time(time)                  seconds since the Unix epoch, UTC
//	  mlt(time, station)          magnetic local time, hours
//	  colat(time, station)        magnetic colatitude, degrees
//	  dbn(time, station)          standardized northward perturbation
//	  dbe(time, station)          standardized eastward perturbation
//	  coeff_dbn(time, coeff)      coefficient vectors, canonical order
//	  coeff_dbe(time, coeff)
//	global attributes: nmax, dbn_mean, dbn_std, dbe_mean, dbe_std
//
// Coordinates are converted to radians on load; fill values become NaN,
// the routine representation of missing station data downstream.
package netcdf

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"gonum.org/v1/gonum/mat"

	"github.com/stormlab/geomag-api/internal/domain"
)

// Run holds one loaded forecast run.
type Run struct {
	Nmax  int
	Times []time.Time

	// MLT and Colat are [timestep][station] in radians; NaN marks a
	// station with no data at that timestep.
	MLT   [][]float64
	Colat [][]float64

	// Targets holds standardized ground truth per component.
	Targets map[string][][]float64

	// Coefficients holds precomputed (timesteps x basis functions)
	// model output per component, in the canonical basis order.
	Coefficients map[string]*mat.Dense

	// Scalers holds the per-component standardization parameters read
	// from the file attributes (may be overridden by a CSV loader).
	Scalers map[string]domain.Scaler
}

// Stations returns the station capacity of the run.
func (r *Run) Stations() int {
	if len(r.MLT) == 0 {
		return 0
	}
	return len(r.MLT[0])
}

// Load reads a forecast-run NetCDF file.
func Load(path string) (*Run, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open run file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	nmax, err := readIntAttr(nc, "nmax")
	if err != nil {
		return nil, err
	}
	if nmax < 1 {
		return nil, fmt.Errorf("run file declares nmax=%d, expected >= 1", nmax)
	}

	seconds, err := read1D(nc, "time")
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(seconds))
	for i, s := range seconds {
		times[i] = time.Unix(int64(s), 0).UTC()
	}

	mltHours, err := read2D(nc, "mlt", len(times))
	if err != nil {
		return nil, err
	}
	colatDeg, err := read2D(nc, "colat", len(times))
	if err != nil {
		return nil, err
	}
	mlt := convert2D(mltHours, domain.MLTToRadians)
	colat := convert2D(colatDeg, domain.Deg2Rad)

	run := &Run{
		Nmax:         nmax,
		Times:        times,
		MLT:          mlt,
		Colat:        colat,
		Targets:      make(map[string][][]float64, len(domain.Components)),
		Coefficients: make(map[string]*mat.Dense, len(domain.Components)),
		Scalers:      make(map[string]domain.Scaler, len(domain.Components)),
	}

	nb := domain.BasisSize(nmax)
	for _, comp := range domain.Components {
		targets, err := read2D(nc, comp, len(times))
		if err != nil {
			return nil, err
		}
		run.Targets[comp] = targets

		coeffs, err := read2D(nc, "coeff_"+comp, len(times))
		if err != nil {
			return nil, err
		}
		if len(coeffs) > 0 && len(coeffs[0]) != nb {
			return nil, fmt.Errorf("coeff_%s width %d does not match basis size %d for nmax=%d",
				comp, len(coeffs[0]), nb, nmax)
		}
		flat := make([]float64, 0, len(coeffs)*nb)
		for _, row := range coeffs {
			flat = append(flat, row...)
		}
		run.Coefficients[comp] = mat.NewDense(len(times), nb, flat)

		mean, err := readFloatAttr(nc, comp+"_mean")
		if err != nil {
			return nil, err
		}
		std, err := readFloatAttr(nc, comp+"_std")
		if err != nil {
			return nil, err
		}
		run.Scalers[comp] = domain.Scaler{Mean: mean, Std: std}
	}

	return run, nil
}

// Batches cuts the run into fixed-size chronological batches.
func (r *Run) Batches(size int) (domain.BatchSource, error) {
	if size < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", size)
	}
	return &batchSource{run: r, size: size}, nil
}

type batchSource struct {
	run  *Run
	size int
	next int
}

// Next returns the following batch slice, or io.EOF after the last one.
// Slices alias the run's arrays; callers treat batches as read-only.
func (s *batchSource) Next() (*domain.Batch, error) {
	if s.next >= len(s.run.Times) {
		return nil, io.EOF
	}
	end := s.next + s.size
	if end > len(s.run.Times) {
		end = len(s.run.Times)
	}

	batch := &domain.Batch{
		Times:   s.run.Times[s.next:end],
		MLT:     s.run.MLT[s.next:end],
		Colat:   s.run.Colat[s.next:end],
		Targets: make(map[string][][]float64, len(s.run.Targets)),
	}
	for comp, targets := range s.run.Targets {
		batch.Targets[comp] = targets[s.next:end]
	}
	s.next = end
	return batch, nil
}

// read1D reads a 1D float64 variable, widening float32/int types.
func read1D(nc netcdf.Dataset, name string) ([]float64, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s dimensions: %w", name, err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D %s, got %dD", name, len(dims))
	}
	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	data, err := readFloats(v, int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// read2D reads a [time][inner] variable, replacing fill values with NaN.
func read2D(nc netcdf.Dataset, name string, nTimes int) ([][]float64, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s dimensions: %w", name, err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D %s, got %dD", name, len(dims))
	}
	d0, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	d1, err := dims[1].Len()
	if err != nil {
		return nil, err
	}
	if int(d0) != nTimes {
		return nil, fmt.Errorf("%s has %d time rows, expected %d", name, d0, nTimes)
	}

	flat, err := readFloats(v, int(d0*d1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if fv, ok := getFillValue(v); ok {
		replaceWithNaN(flat, fv)
	}

	inner := int(d1)
	rows := make([][]float64, nTimes)
	for i := range rows {
		rows[i] = flat[i*inner : (i+1)*inner]
	}
	return rows, nil
}

// readFloats reads a variable as float64, widening narrower types.
func readFloats(v netcdf.Var, total int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.INT64:
		tmp := make([]int64, total)
		if err := v.ReadInt64s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// getFillValue returns the _FillValue or missing_value attribute if present.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		a := v.Attr(name)
		if a == (netcdf.Attr{}) {
			continue
		}
		if n, err := a.Len(); err == nil && n > 0 {
			buf64 := make([]float64, 1)
			if err := a.ReadFloat64s(buf64); err == nil {
				return buf64[0], true
			}
			buf32 := make([]float32, 1)
			if err := a.ReadFloat32s(buf32); err == nil {
				return float64(buf32[0]), true
			}
		}
	}
	return 0, false
}

// replaceWithNaN maps every occurrence of the fill value to NaN.
func replaceWithNaN(data []float64, fill float64) {
	for i, v := range data {
		if v == fill {
			data[i] = math.NaN()
		}
	}
}

// convert2D applies a unit conversion elementwise, preserving NaN.
func convert2D(rows [][]float64, f func(float64) float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = f(v)
		}
	}
	return out
}

// readFloatAttr reads a float64 global attribute.
func readFloatAttr(nc netcdf.Dataset, name string) (float64, error) {
	a := nc.Attr(name)
	if n, err := a.Len(); err == nil && n > 0 {
		buf64 := make([]float64, 1)
		if err := a.ReadFloat64s(buf64); err == nil {
			return buf64[0], nil
		}
		buf32 := make([]float32, 1)
		if err := a.ReadFloat32s(buf32); err == nil {
			return float64(buf32[0]), nil
		}
	}
	return 0, fmt.Errorf("global attribute %s not found or not numeric", name)
}

// readIntAttr reads an integer global attribute.
func readIntAttr(nc netcdf.Dataset, name string) (int, error) {
	a := nc.Attr(name)
	if n, err := a.Len(); err == nil && n > 0 {
		bufi := make([]int32, 1)
		if err := a.ReadInt32s(bufi); err == nil {
			return int(bufi[0]), nil
		}
		bufl := make([]int64, 1)
		if err := a.ReadInt64s(bufl); err == nil {
			return int(bufl[0]), nil
		}
		buf64 := make([]float64, 1)
		if err := a.ReadFloat64s(buf64); err == nil {
			return int(buf64[0]), nil
		}
	}
	return 0, fmt.Errorf("global attribute %s not found or not numeric", name)
}

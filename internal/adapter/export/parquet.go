// Package export writes assembled forecast runs to columnar files for
// downstream analysis tools.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/stormlab/geomag-api/internal/usecase"
)

// ForecastRow is one station sample in the flattened output schema.
// Missing values are carried as NaN, matching the in-memory arrays.
type ForecastRow struct {
	Timestamp   int64   `parquet:"timestamp"`
	Station     int32   `parquet:"station"`
	Component   string  `parquet:"component"`
	MLTRad      float64 `parquet:"mlt_rad"`
	ColatRad    float64 `parquet:"colat_rad"`
	PredictedNT float64 `parquet:"predicted_nt"`
	ObservedNT  float64 `parquet:"observed_nt"`
}

// Flatten expands a run result into one row per timestep, station and
// component. Row order is component, then time, then station.
func Flatten(result *usecase.RunResult, components []string) ([]ForecastRow, error) {
	if result == nil {
		return nil, fmt.Errorf("no run result to flatten")
	}

	var rows []ForecastRow
	for _, comp := range components {
		s, ok := result.Components[comp]
		if !ok {
			return nil, fmt.Errorf("run result has no component %s", comp)
		}
		for i, t := range s.Times {
			ts := t.Unix()
			for j := 0; j < result.StationCapacity; j++ {
				rows = append(rows, ForecastRow{
					Timestamp:   ts,
					Station:     int32(j),
					Component:   comp,
					MLTRad:      s.MLT[i][j],
					ColatRad:    s.Colat[i][j],
					PredictedNT: s.Pred[i][j],
					ObservedNT:  s.Target[i][j],
				})
			}
		}
	}
	return rows, nil
}

// WriteRun flattens the run result and writes it to a Parquet file.
func WriteRun(path string, result *usecase.RunResult, components []string) error {
	rows, err := Flatten(result, components)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run result is empty, nothing to export")
	}

	f, err := os.Create(path) //nolint:gosec // path comes from operator flags
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[ForecastRow](f)
	if _, err := writer.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return f.Close()
}

// Package csv provides CSV-based scaler parameter loading, used to
// override the scaler attributes embedded in a run file.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stormlab/geomag-api/internal/domain"
)

// LoadScalers reads per-component standardization parameters from a CSV
// file with the header "component,mean,std".
func LoadScalers(path string) (map[string]domain.Scaler, error) {
	//nolint:gosec // G304: path comes from operator configuration.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scaler CSV: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	expected := []string{"component", "mean", "std"}
	if len(header) != len(expected) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", expected, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expected[i] {
			return nil, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expected[i], h)
		}
	}

	scalers := make(map[string]domain.Scaler)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("invalid CSV record: expected 3 columns, got %d", len(record))
		}

		component := strings.TrimSpace(record[0])
		mean, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid mean for component %s: %w", component, err)
		}
		std, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid std for component %s: %w", component, err)
		}

		scaler := domain.Scaler{Mean: mean, Std: std}
		if !scaler.Valid() {
			return nil, fmt.Errorf("degenerate scaler for component %s: %+v", component, scaler)
		}
		if _, dup := scalers[component]; dup {
			return nil, fmt.Errorf("duplicate scaler entry for component %s", component)
		}
		scalers[component] = scaler
	}

	if len(scalers) == 0 {
		return nil, fmt.Errorf("no scalers found in %s", path)
	}
	return scalers, nil
}

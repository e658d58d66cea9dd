package usecase

import (
	"fmt"

	"github.com/stormlab/geomag-api/internal/domain"
)

// ComponentSummary holds evaluation metrics of one target component.
type ComponentSummary struct {
	Component     string    `json:"component"`
	MAE           float64   `json:"mae_nt"`
	RMSE          float64   `json:"rmse_nt"`
	Bias          float64   `json:"bias_nt"`
	PerStationMAE []float64 `json:"per_station_mae_nt"`
}

// RunSummary is the full evaluation of an assembled run. Horizontal is
// present only when both the northward and eastward components were
// assembled.
type RunSummary struct {
	Components []ComponentSummary `json:"components"`
	Horizontal *ComponentSummary  `json:"horizontal,omitempty"`
}

// Evaluate computes NaN-aware error metrics over an assembled run. NaN
// positions (missing stations, pole artifacts) are excluded from every
// reduction; an all-NaN reduction reports NaN, which callers render as
// "no valid data".
func Evaluate(result *RunResult) (*RunSummary, error) {
	if result == nil || len(result.Components) == 0 {
		return nil, fmt.Errorf("no assembled components to evaluate")
	}

	summary := &RunSummary{}
	for _, comp := range domain.Components {
		s, ok := result.Components[comp]
		if !ok {
			continue
		}
		summary.Components = append(summary.Components, summarize(comp, s.Pred, s.Target))
	}
	// Components outside the standard pair still get summarized.
	for comp, s := range result.Components {
		if comp == domain.ComponentNorth || comp == domain.ComponentEast {
			continue
		}
		summary.Components = append(summary.Components, summarize(comp, s.Pred, s.Target))
	}

	north, hasNorth := result.Components[domain.ComponentNorth]
	east, hasEast := result.Components[domain.ComponentEast]
	if hasNorth && hasEast && len(north.Pred) == len(east.Pred) {
		h := summarize("db_h",
			domain.HorizontalMagnitudeGrid(north.Pred, east.Pred),
			domain.HorizontalMagnitudeGrid(north.Target, east.Target))
		summary.Horizontal = &h
	}

	return summary, nil
}

func summarize(comp string, pred, target [][]float64) ComponentSummary {
	flatPred := flatten(pred)
	flatTarget := flatten(target)
	return ComponentSummary{
		Component:     comp,
		MAE:           domain.MeanAbsError(flatPred, flatTarget),
		RMSE:          domain.RootMeanSquareError(flatPred, flatTarget),
		Bias:          domain.Bias(flatPred, flatTarget),
		PerStationMAE: domain.MeanAbsErrorPerStation(pred, target),
	}
}

func flatten(grid [][]float64) []float64 {
	n := 0
	for _, row := range grid {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

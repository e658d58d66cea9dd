package domain

import "time"

// Target field component names: northward and eastward ground
// magnetic-field perturbation.
const (
	ComponentNorth = "dbn"
	ComponentEast  = "dbe"
)

// Components lists the target field components in their fixed reporting
// order.
var Components = []string{ComponentNorth, ComponentEast}

// Batch is one fixed-size chronological slice of a forecast run. Station
// coordinates are per timestep because station availability varies over
// time; NaN marks a station slot with no data at that timestep. The
// station axis has identical length across all batches of a run, so a
// station keeps its index for the whole run.
type Batch struct {
	Times []time.Time

	// MLT and Colat are [timestep][station] in radians.
	MLT   [][]float64
	Colat [][]float64

	// Targets maps component name to standardized [timestep][station]
	// ground-truth values.
	Targets map[string][][]float64
}

// Len returns the number of timesteps in the batch.
func (b *Batch) Len() int {
	return len(b.Times)
}

// Stations returns the station capacity of the batch, zero when empty.
func (b *Batch) Stations() int {
	if len(b.MLT) == 0 {
		return 0
	}
	return len(b.MLT[0])
}

// BatchSource yields the batches of a run in stable chronological order.
// Next returns io.EOF after the final batch. This is an evaluation path:
// sources never shuffle.
type BatchSource interface {
	Next() (*Batch, error)
}

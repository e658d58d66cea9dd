package grid

import (
	"math"
	"testing"
)

// TestNew_Axes checks axis construction and pole exclusion.
func TestNew_Axes(t *testing.T) {
	g, err := New(24, 10, math.Pi/4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(g.MLT) != 24 || len(g.Colat) != 10 {
		t.Fatalf("expected 24x10 axes, got %dx%d", len(g.MLT), len(g.Colat))
	}
	if g.MLT[0] != 0 {
		t.Errorf("MLT axis should start at 0, got %v", g.MLT[0])
	}
	if g.MLT[23] >= 2*math.Pi {
		t.Errorf("MLT axis must exclude the periodic endpoint, got %v", g.MLT[23])
	}
	if g.Colat[0] <= 0 {
		t.Errorf("colatitude axis must exclude the pole, got %v", g.Colat[0])
	}
	if math.Abs(g.Colat[9]-math.Pi/4) > 1e-12 {
		t.Errorf("colatitude axis should end at max colat, got %v", g.Colat[9])
	}
}

// TestNew_Errors covers invalid resolutions.
func TestNew_Errors(t *testing.T) {
	if _, err := New(1, 10, 1); err == nil {
		t.Errorf("expected error for 1 MLT step")
	}
	if _, err := New(10, 1, 1); err == nil {
		t.Errorf("expected error for 1 colatitude step")
	}
	if _, err := New(10, 10, 0); err == nil {
		t.Errorf("expected error for zero max colatitude")
	}
	if _, err := New(10, 10, 4); err == nil {
		t.Errorf("expected error for max colatitude beyond pi")
	}
}

// TestFlatten_RoundTrip: flattened coordinates unflatten back into the
// same layout.
func TestFlatten_RoundTrip(t *testing.T) {
	g, err := New(4, 3, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	az, pol := g.Flatten()
	if len(az) != g.Size() || len(pol) != g.Size() {
		t.Fatalf("expected %d flat coordinates, got %d/%d", g.Size(), len(az), len(pol))
	}

	// Encode each node's position so the round trip is checkable.
	flat := make([]float64, g.Size())
	for k := range flat {
		flat[k] = az[k]*100 + pol[k]
	}

	field, err := NewFieldGrid(g, flat)
	if err != nil {
		t.Fatalf("NewFieldGrid failed: %v", err)
	}
	for i, c := range g.Colat {
		for j, m := range g.MLT {
			want := m*100 + c
			if got := field.Values[i][j]; math.Abs(got-want) > 1e-12 {
				t.Errorf("node (%d,%d): expected %v, got %v", i, j, want, got)
			}
		}
	}

	if _, err := NewFieldGrid(g, flat[:len(flat)-1]); err == nil {
		t.Errorf("expected error for short value slice")
	}
}

// TestInterpolateAt_Constant: a constant field interpolates to the
// constant everywhere in range.
func TestInterpolateAt_Constant(t *testing.T) {
	g, err := New(8, 5, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	flat := make([]float64, g.Size())
	for i := range flat {
		flat[i] = 7.5
	}
	field, err := NewFieldGrid(g, flat)
	if err != nil {
		t.Fatalf("NewFieldGrid failed: %v", err)
	}

	for _, mlt := range []float64{0, 1.1, 3.9, 6.2} {
		got, err := field.InterpolateAt(mlt, 0.5)
		if err != nil {
			t.Fatalf("InterpolateAt(%v) failed: %v", mlt, err)
		}
		if math.Abs(got-7.5) > 1e-12 {
			t.Errorf("InterpolateAt(%v): expected 7.5, got %v", mlt, got)
		}
	}
}

// TestInterpolateAt_MidnightWrap: queries between the last MLT column
// and midnight blend across the periodic seam.
func TestInterpolateAt_MidnightWrap(t *testing.T) {
	g, err := New(4, 2, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Column 0 holds 10, the last column holds 2, all rows alike.
	flat := make([]float64, g.Size())
	for i := 0; i < len(g.Colat); i++ {
		flat[i*len(g.MLT)] = 10
		flat[i*len(g.MLT)+3] = 2
	}
	field, err := NewFieldGrid(g, flat)
	if err != nil {
		t.Fatalf("NewFieldGrid failed: %v", err)
	}

	// Halfway between the last column (3*pi/2 -> 2) and midnight (0 -> 10).
	seam := g.MLT[3] + (2*math.Pi-g.MLT[3])/2
	got, err := field.InterpolateAt(seam, 0.75)
	if err != nil {
		t.Fatalf("InterpolateAt failed: %v", err)
	}
	if math.Abs(got-6.0) > 1e-12 {
		t.Errorf("seam interpolation: expected 6.0, got %v", got)
	}
}

// TestInterpolateAt_NaNCorner: missing data propagates NaN instead of
// erroring.
func TestInterpolateAt_NaNCorner(t *testing.T) {
	g, err := New(4, 2, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	flat := make([]float64, g.Size())
	flat[0] = math.NaN()
	field, err := NewFieldGrid(g, flat)
	if err != nil {
		t.Fatalf("NewFieldGrid failed: %v", err)
	}

	got, err := field.InterpolateAt(0.1, 0.75)
	if err != nil {
		t.Fatalf("InterpolateAt failed: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("expected NaN near missing node, got %v", got)
	}
}

// TestInterpolateAt_ColatOutOfRange is an error, unlike the periodic
// MLT axis.
func TestInterpolateAt_ColatOutOfRange(t *testing.T) {
	g, err := New(4, 2, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	field, err := NewFieldGrid(g, make([]float64, g.Size()))
	if err != nil {
		t.Fatalf("NewFieldGrid failed: %v", err)
	}

	if _, err := field.InterpolateAt(0, 0.01); err == nil {
		t.Errorf("expected error poleward of the grid")
	}
	if _, err := field.InterpolateAt(0, 2.0); err == nil {
		t.Errorf("expected error equatorward of the grid")
	}
}

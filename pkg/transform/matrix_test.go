package transform

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMatrixInverse(t *testing.T) {
	m := Rotation(0.6).Multiply(Scaling(2.5)).Multiply(Translation(40, -7))
	inv := m.Inverse()

	for _, p := range []Point{{0, 0}, {10, 20}, {-300, 5.5}} {
		back := inv.ApplyPoint(m.ApplyPoint(p))
		if diff := cmp.Diff(p, back, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
			t.Errorf("inverse round trip at %v (-want +got):\n%s", p, diff)
		}
	}
}

func TestMatrixInverseSingular(t *testing.T) {
	m := Scaling(0)
	if got := m.Inverse(); got != IdentityMatrix() {
		t.Errorf("Inverse of singular matrix = %v, want identity", got)
	}
}

func TestMultiplyOrder(t *testing.T) {
	// m.Multiply(other) applies m first, then other.
	m := Scaling(2).Multiply(Translation(10, 0))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 2 {
		t.Errorf("Apply(1,1) = (%v, %v), want (12, 2)", x, y)
	}
}

func TestRectTransform(t *testing.T) {
	r := Rect{Width: 4, Height: 2}

	// A quarter turn swaps the extents about the origin.
	got := r.Transform(Rotation(math.Pi / 2))
	want := Rect{X: -2, Y: 0, Width: 2, Height: 4}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
		t.Errorf("rotated rect (-want +got):\n%s", diff)
	}

	got = r.Transform(Translation(5, 7))
	want = Rect{X: 5, Y: 7, Width: 4, Height: 2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
		t.Errorf("translated rect (-want +got):\n%s", diff)
	}
}

func TestAff3MatchesApply(t *testing.T) {
	m := Rotation(-1.2).Multiply(Scaling(0.75)).Multiply(Translation(3, 4))
	a := m.Aff3()
	x, y := m.Apply(17, -8)
	ax := a[0]*17 + a[1]*(-8) + a[2]
	ay := a[3]*17 + a[4]*(-8) + a[5]
	if math.Abs(ax-x) > 1e-12 || math.Abs(ay-y) > 1e-12 {
		t.Errorf("Aff3 form maps (17,-8) to (%v, %v), want (%v, %v)", ax, ay, x, y)
	}
}

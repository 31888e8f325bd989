package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(1e-9, 1e-9)

func TestFitContent(t *testing.T) {
	tests := []struct {
		name     string
		viewport Size
		content  Size
		want     Transform
	}{
		{
			name:     "half size content",
			viewport: Size{800, 600},
			content:  Size{400, 300},
			want:     Transform{Scale: 2},
		},
		{
			name:     "tall content letterboxed",
			viewport: Size{800, 600},
			content:  Size{800, 800},
			want:     Transform{Tx: 100, Scale: 0.75},
		},
		{
			name:     "wide content letterboxed",
			viewport: Size{800, 600},
			content:  Size{1600, 600},
			want:     Transform{Ty: 150, Scale: 0.5},
		},
		{
			name:     "exact fit",
			viewport: Size{640, 480},
			content:  Size{640, 480},
			want:     Transform{Scale: 1},
		},
		{
			name:     "degenerate content falls back to identity",
			viewport: Size{800, 600},
			content:  Size{0, 300},
			want:     Transform{Scale: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitContent(tt.viewport, tt.content)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("FitContent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity(),
		{Tx: 100, Ty: -50, Scale: 2},
		{Tx: -3.5, Ty: 7.25, Scale: 0.125, Theta: math.Pi / 3},
		{Tx: 400, Ty: 300, Scale: 13.7, Theta: -2.9},
	}
	points := []Point{
		{0, 0}, {1, 0}, {0, 1}, {-17.5, 42.25}, {1e4, -1e4},
	}

	for _, tr := range transforms {
		for _, p := range points {
			back, err := tr.ToImage(tr.ToScreen(p))
			if err != nil {
				t.Fatalf("ToImage(%v): %v", p, err)
			}
			if diff := cmp.Diff(p, back, cmpopts.EquateApprox(1e-6, 1e-6)); diff != "" {
				t.Errorf("round trip through %+v (-want +got):\n%s", tr, diff)
			}
		}
	}
}

func TestToImageSingular(t *testing.T) {
	var tr Transform // zero scale
	_, err := tr.ToImage(Point{1, 2})
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("ToImage on zero scale: got %v, want ErrSingular", err)
	}
}

func TestScaledAboutKeepsAnchor(t *testing.T) {
	tr := Transform{Tx: 30, Ty: -20, Scale: 1.5, Theta: 0.4}
	anchor := Point{213, 87}

	before, err := tr.ToImage(anchor)
	if err != nil {
		t.Fatal(err)
	}
	scaled := tr.ScaledAbout(1.6, anchor)
	after := scaled.ToScreen(before)

	if diff := cmp.Diff(anchor, after, cmpopts.EquateApprox(1e-6, 1e-6)); diff != "" {
		t.Errorf("anchor moved under scaling (-want +got):\n%s", diff)
	}
	if got, want := scaled.Scale, tr.Scale*1.6; math.Abs(got-want) > 1e-9 {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if scaled.Theta != tr.Theta {
		t.Errorf("Theta changed: %v -> %v", tr.Theta, scaled.Theta)
	}
}

func TestRotatedAboutKeepsPivot(t *testing.T) {
	tr := Transform{Tx: 12, Ty: 200, Scale: 0.8, Theta: -1.1}
	pivot := Point{400, 300}

	before, err := tr.ToImage(pivot)
	if err != nil {
		t.Fatal(err)
	}
	rotated := tr.RotatedAbout(math.Pi/5, pivot)
	after := rotated.ToScreen(before)

	if diff := cmp.Diff(pivot, after, cmpopts.EquateApprox(1e-6, 1e-6)); diff != "" {
		t.Errorf("pivot moved under rotation (-want +got):\n%s", diff)
	}
	if rotated.Scale != tr.Scale {
		t.Errorf("Scale changed: %v -> %v", tr.Scale, rotated.Scale)
	}
}

func TestThetaStaysNormalized(t *testing.T) {
	tr := Identity()
	for i := 0; i < 10; i++ {
		tr = tr.RotatedAbout(3*math.Pi/4, Point{100, 100})
		if tr.Theta < -math.Pi || tr.Theta >= math.Pi {
			t.Fatalf("Theta %v escaped [-pi, pi) after %d rotations", tr.Theta, i+1)
		}
	}
}

func TestCompose(t *testing.T) {
	a := Transform{Tx: 10, Ty: 20, Scale: 2, Theta: 0.3}
	b := Transform{Tx: -5, Ty: 8, Scale: 0.5, Theta: -0.7}

	// Composition must agree with applying a then b pointwise.
	composed := a.Compose(b)
	for _, p := range []Point{{0, 0}, {13, -7}, {1e3, 1e3}} {
		want := b.ToScreen(a.ToScreen(p))
		got := composed.ToScreen(p)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
			t.Errorf("Compose disagrees with pointwise application at %v (-want +got):\n%s", p, diff)
		}
	}

	if diff := cmp.Diff(a, a.Compose(Identity()), approx); diff != "" {
		t.Errorf("composing with identity changed the transform (-want +got):\n%s", diff)
	}
}

func TestMatrixAgreesWithToScreen(t *testing.T) {
	tr := Transform{Tx: 42, Ty: -13, Scale: 3.25, Theta: 2.1}
	m := tr.Matrix()
	for _, p := range []Point{{0, 0}, {100, 50}, {-20, 33.5}} {
		want := tr.ToScreen(p)
		got := m.ApplyPoint(p)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
			t.Errorf("matrix form disagrees at %v (-want +got):\n%s", p, diff)
		}
	}
}

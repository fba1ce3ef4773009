package core

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/epoch"
)

func TestFrame_TransformToSelf(t *testing.T) {
	root := NewRootFrame("ICRF")
	tf, err := root.TransformTo(root, epoch.J2000)
	if err != nil {
		t.Fatalf("TransformTo: %v", err)
	}
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	if got := tf.TransformPosition(v); !vecsClose(got, v, 0) {
		t.Errorf("self transform moved %v to %v", v, got)
	}
}

func TestFrame_TranslationChain(t *testing.T) {
	root := NewRootFrame("root")
	a, err := NewFrame("a", root, FixedTransformProvider{T: Transform{
		Rotation:    IdentityRotation,
		Translation: r3.Vector{X: 10},
	}})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	b, err := NewFrame("b", a, FixedTransformProvider{T: Transform{
		Rotation:    IdentityRotation,
		Translation: r3.Vector{Y: 5},
	}})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	tf, err := root.TransformTo(b, epoch.J2000)
	if err != nil {
		t.Fatalf("TransformTo: %v", err)
	}
	got := tf.TransformPosition(r3.Vector{})
	want := r3.Vector{X: 10, Y: 5}
	if !vecsClose(got, want, 1e-12) {
		t.Errorf("root origin in b = %v, want %v", got, want)
	}

	// And back.
	back, err := b.TransformTo(root, epoch.J2000)
	if err != nil {
		t.Fatalf("TransformTo: %v", err)
	}
	if got := back.TransformPosition(want); !vecsClose(got, r3.Vector{}, 1e-12) {
		t.Errorf("round trip = %v, want origin", got)
	}
}

func TestFrame_RotationBetweenSiblings(t *testing.T) {
	root := NewRootFrame("root")
	rot := newFrameRotation(r3.Vector{Z: 1}, math.Pi/2)
	a, _ := NewFrame("a", root, FixedTransformProvider{T: Transform{Rotation: rot}})
	b, _ := NewFrame("b", root, FixedTransformProvider{T: Transform{Rotation: IdentityRotation}})

	// A physical vector with coordinates +X in the rotated frame a has
	// coordinates +Y in b.
	tf, err := a.TransformTo(b, epoch.J2000)
	if err != nil {
		t.Fatalf("TransformTo: %v", err)
	}
	got := tf.TransformVector(r3.Vector{X: 1})
	if !vecsClose(got, r3.Vector{Y: 1}, 1e-12) {
		t.Errorf("sibling transform gives %v, want +Y", got)
	}
}

func TestFrame_UnlinkedTreesFail(t *testing.T) {
	a := NewRootFrame("tree-a")
	b := NewRootFrame("tree-b")

	_, err := a.TransformTo(b, epoch.J2000)
	if err == nil {
		t.Fatalf("expected error between unlinked trees")
	}
	if !strings.Contains(err.Error(), "not linked") {
		t.Errorf("error = %v, want mention of unlinked frames", err)
	}
}

func TestLinkSubtree_GraftMakesFramesReachable(t *testing.T) {
	main := NewRootFrame("main")
	sub := NewRootFrame("sub")
	leaf, _ := NewFrame("leaf", sub, FixedTransformProvider{T: Transform{
		Rotation:    IdentityRotation,
		Translation: r3.Vector{Z: 7},
	}})

	if err := LinkSubtree(main, sub, nil); err != nil {
		t.Fatalf("LinkSubtree: %v", err)
	}

	tf, err := main.TransformTo(leaf, epoch.J2000)
	if err != nil {
		t.Fatalf("TransformTo after graft: %v", err)
	}
	got := tf.TransformPosition(r3.Vector{})
	if !vecsClose(got, r3.Vector{Z: 7}, 1e-12) {
		t.Errorf("grafted transform = %v, want +7Z", got)
	}
}

func TestLinkSubtree_RejectsRelinkAndCycle(t *testing.T) {
	main := NewRootFrame("main")
	sub := NewRootFrame("sub")

	if err := LinkSubtree(main, sub, nil); err != nil {
		t.Fatalf("LinkSubtree: %v", err)
	}
	if err := LinkSubtree(main, sub, nil); err == nil {
		t.Errorf("expected error on relink")
	}
	if err := LinkSubtree(sub, main, nil); err == nil {
		t.Errorf("expected error on cycle")
	}
}

func TestNewFrame_NeedsParent(t *testing.T) {
	if _, err := NewFrame("orphan", nil, nil); err == nil {
		t.Errorf("expected error for nil parent")
	}
}

func TestTransform_ComposeAgainstManualApplication(t *testing.T) {
	outer := Transform{
		Rotation:    NewAxisAngleRotation(r3.Vector{Z: 1}, 0.4),
		Translation: r3.Vector{X: 1},
	}
	inner := Transform{
		Rotation:    NewAxisAngleRotation(r3.Vector{X: 1}, -0.9),
		Translation: r3.Vector{Y: 2},
	}
	v := r3.Vector{X: 3, Y: -1, Z: 0.5}

	want := outer.TransformPosition(inner.TransformPosition(v))
	got := outer.Compose(inner).TransformPosition(v)
	if !vecsClose(got, want, 1e-12) {
		t.Errorf("Compose = %v, manual = %v", got, want)
	}
}

func TestTransform_InverseRoundTrip(t *testing.T) {
	tf := Transform{
		Rotation:    NewAxisAngleRotation(r3.Vector{X: 1, Y: 1, Z: 1}, 1.1),
		Translation: r3.Vector{X: -4, Y: 2, Z: 9},
	}
	v := r3.Vector{X: 0.3, Y: 0.7, Z: -5}
	back := tf.Inverse().TransformPosition(tf.TransformPosition(v))
	if !vecsClose(back, v, 1e-12) {
		t.Errorf("inverse round trip %v -> %v", v, back)
	}
}

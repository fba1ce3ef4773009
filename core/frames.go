package core

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/epoch"
	"github.com/signalsfoundry/bodygeom/model"
)

// Transform maps coordinates from a source frame to a target frame:
// p_target = Rotation(p_source) + Translation.
type Transform struct {
	Rotation    Rotation
	Translation r3.Vector
}

// IdentityTransform maps every entity to itself.
var IdentityTransform = Transform{Rotation: IdentityRotation}

// TransformPosition maps a position.
func (t Transform) TransformPosition(p r3.Vector) r3.Vector {
	return t.Rotation.Apply(p).Add(t.Translation)
}

// TransformVector maps a free vector (rotation only).
func (t Transform) TransformVector(v r3.Vector) r3.Vector {
	return t.Rotation.Apply(v)
}

// TransformLine maps a line, preserving the unit direction.
func (t Transform) TransformLine(l model.Line) model.Line {
	return model.Line{
		Origin:    t.TransformPosition(l.Origin),
		Direction: t.Rotation.Apply(l.Direction),
	}
}

// Compose returns the transform applying inner first, then t.
func (t Transform) Compose(inner Transform) Transform {
	return Transform{
		Rotation:    t.Rotation.Compose(inner.Rotation),
		Translation: t.Rotation.Apply(inner.Translation).Add(t.Translation),
	}
}

// Inverse returns the reverse mapping.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Rotation:    inv,
		Translation: inv.Apply(t.Translation).Mul(-1),
	}
}

// TransformProvider evaluates the date-dependent transform from a frame's
// parent into the frame itself.
type TransformProvider interface {
	TransformAt(e epoch.Epoch) (Transform, error)
}

// FixedTransformProvider returns the same transform for every date.
type FixedTransformProvider struct {
	T Transform
}

func (p FixedTransformProvider) TransformAt(epoch.Epoch) (Transform, error) {
	return p.T, nil
}

// Frame is a node of an explicit frame tree. Parent references are resolved
// once, at construction or subtree-link time, and never mutated while queries
// run; concurrent TransformTo calls are safe.
type Frame struct {
	name     string
	parent   *Frame
	provider TransformProvider
}

// NewRootFrame creates a tree root (typically ICRF).
func NewRootFrame(name string) *Frame {
	return &Frame{name: name}
}

// NewFrame creates a frame below parent; provider evaluates the
// parent-to-frame transform.
func NewFrame(name string, parent *Frame, provider TransformProvider) (*Frame, error) {
	if parent == nil {
		return nil, fmt.Errorf("NewFrame: frame %q needs a parent; use NewRootFrame for roots", name)
	}
	if provider == nil {
		provider = FixedTransformProvider{T: IdentityTransform}
	}
	return &Frame{name: name, parent: parent, provider: provider}, nil
}

// Name returns the frame name.
func (f *Frame) Name() string { return f.name }

// Parent returns the parent frame, nil for roots.
func (f *Frame) Parent() *Frame { return f.parent }

// Root walks up to the tree root.
func (f *Frame) Root() *Frame {
	r := f
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// transformFromRoot composes the root-to-f transform at the given date.
func (f *Frame) transformFromRoot(e epoch.Epoch) (Transform, error) {
	if f.parent == nil {
		return IdentityTransform, nil
	}
	up, err := f.parent.transformFromRoot(e)
	if err != nil {
		return Transform{}, err
	}
	own, err := f.provider.TransformAt(e)
	if err != nil {
		return Transform{}, fmt.Errorf("frame %q: %w", f.name, err)
	}
	return own.Compose(up), nil
}

// TransformTo returns the transform mapping coordinates expressed in f into
// coordinates expressed in target at the given date. The two frames must
// belong to the same tree, i.e. share a root; kernel-derived subtrees become
// reachable once grafted with LinkSubtree.
func (f *Frame) TransformTo(target *Frame, e epoch.Epoch) (Transform, error) {
	if f == target {
		return IdentityTransform, nil
	}
	if f.Root() != target.Root() {
		return Transform{}, fmt.Errorf("frames %q and %q are not linked", f.name, target.name)
	}
	fromRoot, err := f.transformFromRoot(e)
	if err != nil {
		return Transform{}, err
	}
	toTarget, err := target.transformFromRoot(e)
	if err != nil {
		return Transform{}, err
	}
	return toTarget.Compose(fromRoot.Inverse()), nil
}

// LinkSubtree grafts a detached frame subtree onto the tree containing pivot,
// making subRoot a child of pivot with the given transform provider. The
// graft resolves the parent reference exactly once; relinking is an error.
// This is how a binary-kernel frame tree is attached to the polynomial
// ephemeris tree at a named pivot body.
func LinkSubtree(pivot, subRoot *Frame, provider TransformProvider) error {
	if pivot == nil || subRoot == nil {
		return fmt.Errorf("LinkSubtree: nil frame")
	}
	if subRoot.parent != nil {
		return fmt.Errorf("LinkSubtree: frame %q is already linked below %q", subRoot.name, subRoot.parent.name)
	}
	if pivot.Root() == subRoot {
		return fmt.Errorf("LinkSubtree: linking %q below %q would create a cycle", subRoot.name, pivot.name)
	}
	if provider == nil {
		provider = FixedTransformProvider{T: IdentityTransform}
	}
	subRoot.parent = pivot
	subRoot.provider = provider
	return nil
}

// Package ephem supplies the position/velocity collaborators of the geometry
// engines: a JPL DE binary-kernel reader, an analytic sun model, and an SGP4
// viewpoint-state sampler.
package ephem

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/mshafiee/jpleph"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/epoch"
)

// Kernel wraps an open JPL DE binary ephemeris file together with the root
// frame its state vectors are expressed in. The kernel frame tree starts
// detached; grafting it onto an existing tree at a pivot body is done once
// with LinkAt, before queries begin.
type Kernel struct {
	eph  *jpleph.Ephemeris
	root *core.Frame
	auKm float64
}

// OpenKernel opens a DE kernel file (e.g. de405.bin) and reads its constants.
// Malformed or unreadable files fail here, at load time.
func OpenKernel(path string) (*Kernel, error) {
	eph, err := jpleph.NewEphemeris(path, true)
	if err != nil {
		return nil, fmt.Errorf("OpenKernel %q: %w", path, err)
	}
	auKm := eph.GetEphemerisDouble(jpleph.AUinKM)
	if auKm <= 0 {
		return nil, fmt.Errorf("OpenKernel %q: kernel has no AU constant", path)
	}
	return &Kernel{
		eph:  eph,
		root: core.NewRootFrame("DE-ICRF"),
		auKm: auKm,
	}, nil
}

// Close releases the underlying kernel file.
func (k *Kernel) Close() error {
	return k.eph.Close()
}

// Root returns the root frame of the kernel's detached frame subtree.
func (k *Kernel) Root() *core.Frame {
	return k.root
}

// StartJD and EndJD bound the kernel's usable date range.
func (k *Kernel) StartJD() float64 { return k.eph.GetEphemerisDouble(jpleph.EphemerisStartJD) }
func (k *Kernel) EndJD() float64   { return k.eph.GetEphemerisDouble(jpleph.EphemerisEndJD) }

// LinkAt grafts the kernel frame subtree below the given pivot frame. Both
// trees are ICRF-aligned, so the graft transform is the identity.
func (k *Kernel) LinkAt(pivot *core.Frame) error {
	return core.LinkSubtree(pivot, k.root, nil)
}

// Provider returns a PVProvider serving the motion of target relative to
// center from this kernel.
func (k *Kernel) Provider(target jpleph.Planet, center jpleph.CenterBody) *JPLProvider {
	return &JPLProvider{kernel: k, target: target, center: center}
}

// JPLProvider interpolates one body's state from a DE kernel. Dates outside
// the kernel range surface jpleph.ErrOutsideRange to the caller unmodified
// (wrapped for context only); the geometry engines never originate or mask
// that failure.
type JPLProvider struct {
	kernel *Kernel
	target jpleph.Planet
	center jpleph.CenterBody
}

// PVCoordinates returns position (km) and velocity (km/s) in the requested
// frame.
func (p *JPLProvider) PVCoordinates(e epoch.Epoch, frame *core.Frame) (r3.Vector, r3.Vector, error) {
	pos, vel, err := p.kernel.eph.CalculatePV(e.JulianDate(), p.target, p.center, true)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("kernel state of body %d at %s: %w", p.target, e, err)
	}

	au := p.kernel.auKm
	rKm := r3.Vector{X: pos.X, Y: pos.Y, Z: pos.Z}.Mul(au)
	vKmS := r3.Vector{X: vel.DX, Y: vel.DY, Z: vel.DZ}.Mul(au / epoch.SecondsPerDay)

	if frame == nil || frame == p.kernel.root {
		return rKm, vKmS, nil
	}
	tf, err := p.kernel.root.TransformTo(frame, e)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	return tf.TransformPosition(rKm), tf.TransformVector(vKmS), nil
}

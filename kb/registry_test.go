package kb

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/epoch"
	"github.com/signalsfoundry/bodygeom/model"
)

func TestRegistry_BuildFreezeQuery(t *testing.T) {
	r := NewRegistry()

	def := &BodyDefinition{
		Name:        "Ceres",
		Orientation: core.NewUserDefinedIAUOrientation(model.IAUPoleCoefficients{}),
	}
	if err := r.AddBody(def); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if r.Frozen() {
		t.Fatalf("registry frozen before Freeze")
	}

	r.Freeze()
	if !r.Frozen() {
		t.Fatalf("registry not frozen after Freeze")
	}

	got, err := r.Body("Ceres")
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if got.Name != def.Name || got.Orientation != def.Orientation {
		t.Errorf("Body returned a different definition")
	}
	if _, err := r.Orientation("Ceres"); err != nil {
		t.Errorf("Orientation: %v", err)
	}
}

func TestRegistry_AddAfterFreezeFails(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	err := r.AddBody(&BodyDefinition{Name: "Vesta"})
	if err == nil {
		t.Fatalf("expected error adding to a frozen registry")
	}
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("error = %v, want ErrFrozen", err)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.AddBody(&BodyDefinition{Name: "Pallas"}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := r.AddBody(&BodyDefinition{Name: "Pallas"}); err == nil {
		t.Fatalf("expected error for a duplicate name")
	}
}

func TestRegistry_MissingBody(t *testing.T) {
	r := NewRegistry()
	_, err := r.Body("Nemesis")
	if err == nil {
		t.Fatalf("expected error for an unknown body")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_MissingOrientation(t *testing.T) {
	r := NewRegistry()
	if err := r.AddBody(&BodyDefinition{Name: "Hygiea"}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if _, err := r.Orientation("Hygiea"); err == nil {
		t.Errorf("expected error for a body without an orientation model")
	}
}

func TestRegistry_AddShapeAndProviderLifecycle(t *testing.T) {
	r := NewRegistry()
	if err := r.AddBody(&BodyDefinition{Name: "Io"}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := r.AddProvider("Io", nil); err != nil {
		t.Fatalf("AddProvider: %v", err)
	}
	if err := r.AddShape("Europa", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddShape on unknown body = %v, want ErrNotFound", err)
	}

	r.Freeze()
	if err := r.AddShape("Io", nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddShape after freeze = %v, want ErrFrozen", err)
	}
	if err := r.AddProvider("Io", nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddProvider after freeze = %v, want ErrFrozen", err)
	}
}

func TestRegistry_BodyReturnsDetachedCopy(t *testing.T) {
	r := NewRegistry()
	if err := r.AddBody(&BodyDefinition{Name: "Ganymede"}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	r.Freeze()

	got, err := r.Body("Ganymede")
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	got.Orientation = core.NewUserDefinedIAUOrientation(model.IAUPoleCoefficients{})

	if _, err := r.Orientation("Ganymede"); err == nil {
		t.Errorf("mutating the returned definition reached the frozen registry")
	}
}

func TestRegistry_InvalidDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.AddBody(nil); err == nil {
		t.Errorf("expected error for a nil definition")
	}
	if err := r.AddBody(&BodyDefinition{}); err == nil {
		t.Errorf("expected error for an empty name")
	}
}

func TestWithIAU2009Bodies(t *testing.T) {
	r := NewRegistry()
	if err := WithIAU2009Bodies(r); err != nil {
		t.Fatalf("WithIAU2009Bodies: %v", err)
	}
	r.Freeze()

	want := []string{"Earth", "Mars", "Mercury", "Moon", "Venus"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	// Earth spins ~360.986 deg/day; check the evaluator wiring end to end.
	earth, err := r.Orientation("Earth")
	if err != nil {
		t.Fatalf("Orientation: %v", err)
	}
	rate := earth.PrimeMeridianRate(epoch.J2000)
	wantRate := 360.9856235 * math.Pi / 180 / epoch.SecondsPerDay
	if math.Abs(rate-wantRate) > 1e-15 {
		t.Errorf("Earth spin rate = %v, want %v", rate, wantRate)
	}
}

func TestIAU2009_MercuryLibrationTermsPresent(t *testing.T) {
	c := MercuryCoefficients()
	if len(c.W) != 6 {
		t.Fatalf("Mercury W has %d terms, want polynomial + 5 librational", len(c.W))
	}
	for i, f := range c.W[1:] {
		if f.Form != model.FormSine {
			t.Errorf("W term %d form = %d, want sine", i+1, f.Form)
		}
		if f.Dependency != model.DependencyDays {
			t.Errorf("W term %d dependency = %d, want days", i+1, f.Dependency)
		}
	}
}

func TestIAU2009_MoonSeriesShape(t *testing.T) {
	c := MoonCoefficients()
	if len(c.Alpha0) != 8 { // polynomial + 7 sine terms
		t.Errorf("Moon alpha0 has %d terms, want 8", len(c.Alpha0))
	}
	if len(c.Delta0) != 9 { // polynomial + 8 cosine terms
		t.Errorf("Moon delta0 has %d terms, want 9", len(c.Delta0))
	}
	if len(c.W) != 14 { // polynomial + 13 sine terms
		t.Errorf("Moon W has %d terms, want 14", len(c.W))
	}
	// The W polynomial carries the small quadratic term.
	if got := len(c.W[0].Poly); got != 3 {
		t.Errorf("Moon W polynomial degree+1 = %d, want 3", got)
	}
}

func TestIAU2009_VenusRetrograde(t *testing.T) {
	venus := core.NewIAUOrientation("Venus", VenusCoefficients())
	if rate := venus.PrimeMeridianRate(epoch.J2000); rate >= 0 {
		t.Errorf("Venus spin rate = %v, want negative (retrograde)", rate)
	}
}

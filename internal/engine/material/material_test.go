package material

import (
	"testing"

	"github.com/kilnworks/kiln/internal/engine/effect"
)

func TestCreateAndGet(t *testing.T) {
	lib := NewLibrary(nil)

	m := lib.Create("Wood", "BaseSurface", effect.Params{"DiffuseMap": "wood.png"})
	if m.Effect == nil || m.Effect.Name != "BaseSurface" {
		t.Fatalf("created material effect = %v", m.Effect)
	}

	if got := lib.Get("Wood"); got != m {
		t.Error("Get returned a different material")
	}
	if !lib.Has("Wood") {
		t.Error("Has(\"Wood\") = false")
	}
}

func TestUnknownMaterialFallsBack(t *testing.T) {
	lib := NewLibrary(nil)

	got := lib.Get("DoesNotExist")
	if got != lib.Fallback() {
		t.Error("unknown material did not resolve to the fallback")
	}
	if got.Effect == nil {
		t.Error("fallback material has no effect")
	}
}

func TestUnknownEffectFallsBack(t *testing.T) {
	lib := NewLibrary(nil)

	m := lib.Create("Broken", "NoSuchEffect", nil)
	if m.Effect != lib.Fallback().Effect {
		t.Error("material with unknown effect did not use the fallback effect")
	}
	// The material itself is still registered under its own name.
	if !lib.Has("Broken") {
		t.Error("material with unknown effect was not registered")
	}
}

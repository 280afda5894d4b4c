package effect

import (
	"testing"

	"github.com/kilnworks/kiln/internal/engine/geometry"
)

func TestParamsNilReads(t *testing.T) {
	var p Params

	if got := p.Get("missing"); got != nil {
		t.Errorf("Get on nil Params = %v, want nil", got)
	}
	if _, ok := p.Lookup("missing"); ok {
		t.Error("Lookup on nil Params reported present")
	}
}

func TestParamsClone(t *testing.T) {
	p := Params{"DiffuseColor": "white", "Glow": 0.5}
	c := p.Clone()

	c["DiffuseColor"] = "red"
	if p.Get("DiffuseColor") != "white" {
		t.Error("mutating clone changed the original")
	}
	if c.Get("Glow") != 0.5 {
		t.Errorf("clone Glow = %v, want 0.5", c.Get("Glow"))
	}
}

func TestCanRender(t *testing.T) {
	c := geometry.NewChunk()
	if err := c.SetVertexStreams([]geometry.VertexStream{
		geometry.NewVertexStream(geometry.PositionStream, 3, geometry.TypeFloat32),
	}); err != nil {
		t.Fatalf("SetVertexStreams: %v", err)
	}

	base := DefaultRegistry.Lookup("BaseSurface")
	if base == nil {
		t.Fatal("BaseSurface not registered")
	}
	if !base.CanRender(c) {
		t.Error("BaseSurface cannot render a position-only chunk")
	}

	fontFx := DefaultRegistry.Lookup("InternalFont")
	if fontFx.CanRender(c) {
		t.Error("InternalFont renders a chunk without texture coordinates")
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(&Effect{Name: "Custom"})
	replacement := &Effect{Name: "Custom", RequiredStreams: []geometry.StreamType{geometry.PositionStream}}
	r.Register(replacement)

	if got := r.Lookup("Custom"); got != replacement {
		t.Error("Register did not replace the existing effect")
	}
	if r.Lookup("Unknown") != nil {
		t.Error("Lookup of unknown effect is not nil")
	}
}

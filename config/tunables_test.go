package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTunablesDefaultsInRange(t *testing.T) {
	cfg := Defaults()
	seen := make(map[string]bool)
	for _, tn := range Tunables() {
		if seen[tn.Path] {
			t.Errorf("duplicate tunable %s", tn.Path)
		}
		seen[tn.Path] = true
		if tn.Min >= tn.Max {
			t.Errorf("%s: min %v >= max %v", tn.Path, tn.Min, tn.Max)
		}
		if v := tn.Get(cfg); v < tn.Min || v > tn.Max {
			t.Errorf("%s default %v outside [%v, %v]", tn.Path, v, tn.Min, tn.Max)
		}
	}
}

func TestTunableSetClamps(t *testing.T) {
	cfg := Defaults()
	tn, ok := LookupTunable("surface.sphere_blend")
	if !ok {
		t.Fatal("surface.sphere_blend not found")
	}
	tn.Set(cfg, 3)
	if cfg.Surface.SphereBlend != 1 {
		t.Errorf("SphereBlend = %v, want clamped to 1", cfg.Surface.SphereBlend)
	}
	tn.Set(cfg, 0.25)
	if cfg.Surface.SphereBlend != 0.25 {
		t.Errorf("SphereBlend = %v, want 0.25", cfg.Surface.SphereBlend)
	}
	if _, ok := LookupTunable("surface.nope"); ok {
		t.Error("unknown path found")
	}
}

func TestTunablesStayValid(t *testing.T) {
	// Every tunable at either bound keeps the config valid.
	for _, tn := range Tunables() {
		for _, v := range []float64{tn.Min, tn.Max} {
			cfg := Defaults()
			tn.Set(cfg, v)
			if err := cfg.Recompute(); err != nil {
				t.Errorf("%s = %v: %v", tn.Path, v, err)
			}
		}
	}
}

func TestTunablesYAMLMergesIntoConfig(t *testing.T) {
	cfg := Defaults()
	rot, _ := LookupTunable("surface.rotation_speed")
	jump, _ := LookupTunable("jump.height")
	rot.Set(cfg, 17)
	jump.Set(cfg, 2)

	data, err := cfg.TunablesYAML([]Tunable{rot, jump})
	if err != nil {
		t.Fatalf("TunablesYAML: %v", err)
	}

	merged := Defaults()
	if err := yaml.Unmarshal(data, merged); err != nil {
		t.Fatalf("fragment does not parse: %v\n%s", err, data)
	}
	if merged.Surface.RotationSpeed != 17 || merged.Jump.Height != 2 {
		t.Errorf("merged rotation_speed = %v, jump.height = %v\n%s",
			merged.Surface.RotationSpeed, merged.Jump.Height, data)
	}
	if merged.Surface.StickForce != cfg.Surface.StickForce {
		t.Error("fragment overwrote a key it does not name")
	}

	if _, err := cfg.TunablesYAML([]Tunable{{Path: "flat", Field: rot.Field}}); err == nil {
		t.Error("expected error for path without section")
	}
}

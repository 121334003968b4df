package palette_test

import (
	"regexp"
	"testing"

	"go.uber.org/zap"

	"dsg/config"
	"dsg/palette"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// line from black to white: control point at the midpoint keeps the
// quadratic linear in t.
func grayRamp(divisions int) config.RampConfig {
	return config.RampConfig{
		Name:      "gray",
		Space:     config.ColorSpaceRgb,
		Divisions: divisions,
		Curves: []config.CurveConfig{
			{{0, 0, 0}, {127.5, 127.5, 127.5}, {255, 255, 255}},
		},
	}
}

func TestBuild_RgbEndpoints(t *testing.T) {
	ramp := palette.Build(&config.RampConfig{
		Name:      "gray",
		Space:     config.ColorSpaceRgb,
		Divisions: 4,
		Curves: []config.CurveConfig{
			{{0, 0, 0}, {127.5, 127.5, 127.5}, {255, 255, 255}},
		},
	})

	if len(ramp.Colors) != 5 {
		t.Fatalf("colors = %d, want 5", len(ramp.Colors))
	}
	if ramp.Colors[0] != "#000000" {
		t.Errorf("first color = %s, want #000000", ramp.Colors[0])
	}
	if ramp.Colors[4] != "#ffffff" {
		t.Errorf("last color = %s, want #ffffff", ramp.Colors[4])
	}
}

func TestBuild_HslPrimary(t *testing.T) {
	// constant point: every sample is pure red, consecutive duplicates
	// collapse to a single color
	ramp := palette.Build(&config.RampConfig{
		Name:      "red",
		Space:     config.ColorSpaceHsl,
		Divisions: 8,
		Curves: []config.CurveConfig{
			{{0, 100, 50}, {0, 100, 50}, {0, 100, 50}},
		},
	})

	if len(ramp.Colors) != 1 {
		t.Fatalf("colors = %d, want 1 after duplicate suppression", len(ramp.Colors))
	}
	if ramp.Colors[0] != "#ff0000" {
		t.Errorf("color = %s, want #ff0000", ramp.Colors[0])
	}
}

func TestBuild_LabClampsToGamut(t *testing.T) {
	// sweep through strongly saturated Lab coordinates, some outside sRGB
	ramp := palette.Build(&config.RampConfig{
		Name:      "vivid",
		Space:     config.ColorSpaceLab,
		Divisions: 16,
		Curves: []config.CurveConfig{
			{{20, 80, -80}, {60, 120, 0}, {95, 80, 80}},
		},
	})

	if len(ramp.Colors) == 0 {
		t.Fatal("no colors produced")
	}
	for i, hex := range ramp.Colors {
		if !hexRe.MatchString(hex) {
			t.Errorf("color %d = %q is not a clamped hex color", i, hex)
		}
	}
}

func TestBuild_LchMonotoneLightness(t *testing.T) {
	// a chroma-free lch ramp is a grayscale ramp with increasing lightness
	ramp := palette.Build(&config.RampConfig{
		Name:      "tone",
		Space:     config.ColorSpaceLch,
		Divisions: 8,
		Curves: []config.CurveConfig{
			{{10, 0, 0}, {50, 0, 0}, {90, 0, 0}},
		},
	})

	if len(ramp.Colors) != 9 {
		t.Fatalf("colors = %d, want 9", len(ramp.Colors))
	}
	prev := ""
	for i, hex := range ramp.Colors {
		if !hexRe.MatchString(hex) {
			t.Fatalf("color %d = %q is not a hex color", i, hex)
		}
		// grayscale hex sorts lexicographically with lightness
		if hex < prev {
			t.Errorf("lightness not monotone: %s after %s", hex, prev)
		}
		prev = hex
	}
}

func TestBuild_MultiCurveSeam(t *testing.T) {
	// two segments sharing an endpoint: seam point appears once
	ramp := palette.Build(&config.RampConfig{
		Name:      "split",
		Space:     config.ColorSpaceRgb,
		Divisions: 2,
		Curves: []config.CurveConfig{
			{{0, 0, 0}, {63.75, 63.75, 63.75}, {127.5, 127.5, 127.5}},
			{{127.5, 127.5, 127.5}, {191.25, 191.25, 191.25}, {255, 255, 255}},
		},
	})

	// 3 points per curve with the seam deduplicated
	if len(ramp.Colors) != 5 {
		t.Fatalf("colors = %d, want 5", len(ramp.Colors))
	}
}

func TestRamps(t *testing.T) {
	cfg := &config.PaletteConfig{
		Ramps: []config.RampConfig{grayRamp(2)},
	}

	props, err := palette.Ramps(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Ramps() error = %v", err)
	}

	if len(props) != 3 {
		t.Fatalf("props = %d, want 3", len(props))
	}
	if props["gray-1"] != "#000000" {
		t.Errorf("gray-1 = %s, want #000000", props["gray-1"])
	}
	if props["gray-3"] != "#ffffff" {
		t.Errorf("gray-3 = %s, want #ffffff", props["gray-3"])
	}
	if _, ok := props["gray-0"]; ok {
		t.Error("ramp positions must be 1-based")
	}
}

func TestRamps_DuplicateName(t *testing.T) {
	cfg := &config.PaletteConfig{
		Ramps: []config.RampConfig{grayRamp(2), grayRamp(4)},
	}

	_, err := palette.Ramps(cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for duplicate ramp names")
	}
}

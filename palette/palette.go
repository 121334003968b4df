// Package palette turns arc constellations into color ramps.
//
// Ramp control points live in the coordinate system of the configured color
// space: rgb channels 0-255, hsl as (hue degrees, saturation 0-100,
// lightness 0-100), lab as (L 0-100, a, b) and lch as (L 0-100, C, hue
// degrees). Sampled points are clamped to sRGB before hex encoding, so ramps
// may pass through out-of-gamut regions without failing.
package palette

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"dsg/config"
	"dsg/geom"
)

// Ramp is an ordered list of sRGB hex colors.
type Ramp struct {
	Name   string
	Colors []string
}

// buildArc assembles an arc from configured control point triples.
func buildArc(curves []config.CurveConfig) *geom.Arc {
	arc := geom.NewArc()
	for _, c := range curves {
		arc.Append(geom.NewCurve(
			geom.Point{X: c[0][0], Y: c[0][1], Z: c[0][2]},
			geom.Point{X: c[1][0], Y: c[1][1], Z: c[1][2]},
			geom.Point{X: c[2][0], Y: c[2][1], Z: c[2][2]},
		))
	}
	return arc
}

// toColor interprets a constellation point in the given color space.
func toColor(space config.ColorSpace, p geom.Point) colorful.Color {
	switch space {
	case config.ColorSpaceHsl:
		return colorful.Hsl(p.X, p.Y/100, p.Z/100)
	case config.ColorSpaceLab:
		return colorful.Lab(p.X/100, p.Y/100, p.Z/100)
	case config.ColorSpaceLch:
		return colorful.Hcl(p.Z, p.Y/100, p.X/100)
	default:
		return colorful.Color{R: p.X / 255, G: p.Y / 255, B: p.Z / 255}
	}
}

// Build renders a single ramp into hex colors, evenly spaced along the arc.
func Build(ramp *config.RampConfig) Ramp {
	arc := buildArc(ramp.Curves)
	points := arc.Constellation(ramp.Divisions)

	colors := make([]string, 0, len(points))
	for _, p := range points {
		colors = append(colors, toColor(ramp.Space, p).Clamped().Hex())
	}
	return Ramp{Name: ramp.Name, Colors: colors}
}

// Ramps renders all configured ramps as custom property name/value pairs
// keyed "<ramp>-<n>" with 1-based positions.
func Ramps(cfg *config.PaletteConfig, log *zap.Logger) (map[string]string, error) {
	props := make(map[string]string)
	for i := range cfg.Ramps {
		ramp := Build(&cfg.Ramps[i])
		if len(ramp.Colors) == 0 {
			log.Warn("Ramp produced no colors", zap.String("ramp", ramp.Name))
			continue
		}
		for n, hex := range ramp.Colors {
			key := fmt.Sprintf("%s-%d", ramp.Name, n+1)
			if _, dup := props[key]; dup {
				return nil, fmt.Errorf("duplicate ramp name %q", ramp.Name)
			}
			props[key] = hex
		}
		log.Debug("Ramp rendered", zap.String("ramp", ramp.Name), zap.Int("colors", len(ramp.Colors)))
	}
	return props, nil
}

package config

// Specification of the color space ramp control points are expressed in.
// ENUM(rgb, hsl, lab, lch)
type ColorSpace string

// Specification of requested icon preview rendering.
// ENUM(none, png)
type PreviewFmt string

func (p PreviewFmt) Enabled() bool {
	return p == PreviewFmtPng
}

func (p PreviewFmt) Ext() string {
	switch p {
	case PreviewFmtPng:
		return ".png"
	default:
		// this should never happen
		panic("unsupported preview format requested")
	}
}

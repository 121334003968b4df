// Package tokens renders declarative design token configuration into CSS
// custom properties.
package tokens

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"dsg/config"
	"dsg/css"
)

// formatNumber renders a scale value with enough precision for CSS and no
// trailing zeros.
func formatNumber(v float64) string {
	v = math.Round(v*10000) / 10000
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// propName joins slugified parts into a prefixed custom property name,
// without the leading dashes.
func propName(prefix string, parts ...string) string {
	name := prefix
	for _, p := range parts {
		name += "-" + slug.Make(p)
	}
	return name
}

func typographyTokens(cfg *config.TokensConfig, root *css.Rule) error {
	t := cfg.Typography
	base := slices.Index(t.Steps, t.BaseStep)
	if base < 0 {
		return fmt.Errorf("typography base step %q is not among declared steps", t.BaseStep)
	}
	for i, step := range t.Steps {
		size := t.BaseSize * math.Pow(t.ScaleRatio, float64(i-base))
		root.SetCustom(propName(cfg.Prefix, "font-size", step), formatNumber(size)+t.Unit)
	}
	return nil
}

func spacingTokens(cfg *config.TokensConfig, root *css.Rule) {
	s := cfg.Spacing
	for i := 1; i <= s.Steps; i++ {
		root.SetCustom(propName(cfg.Prefix, "space", strconv.Itoa(i)), formatNumber(s.Base*float64(i))+s.Unit)
	}
}

// Generate renders token configuration into a stylesheet. extra holds
// additional custom properties merged into the :root rule without the
// configured prefix applied yet - palette ramps typically.
func Generate(cfg *config.TokensConfig, extra map[string]string, log *zap.Logger) (*css.Stylesheet, error) {
	sheet := &css.Stylesheet{}

	for _, f := range cfg.Fonts {
		sheet.AddFontFace(css.FontFace{Family: f.Family, Src: f.Src, Style: f.Style, Weight: f.Weight})
	}

	root := css.Rule{Selector: css.RootSelector()}

	if err := typographyTokens(cfg, &root); err != nil {
		return nil, err
	}
	spacingTokens(cfg, &root)

	// theme name -> attribute rule, created on first themed value
	themed := make(map[string]*css.Rule)
	themeRule := func(theme string) *css.Rule {
		r, ok := themed[theme]
		if !ok {
			r = &css.Rule{Selector: css.AttrSelector(cfg.Themes.Attribute, theme)}
			themed[theme] = r
		}
		return r
	}

	for _, layer := range cfg.Layers {
		for token, values := range layer.Tokens {
			name := propName(cfg.Prefix, layer.Name, token)
			for theme, value := range values {
				switch theme {
				case "", cfg.Themes.Default:
					root.SetCustom(name, value)
				default:
					if !slices.Contains(cfg.Themes.Names, theme) {
						log.Warn("Token value for undeclared theme",
							zap.String("layer", layer.Name), zap.String("token", token), zap.String("theme", theme))
						continue
					}
					themeRule(theme).SetCustom(name, value)
				}
			}
		}
	}

	for _, group := range cfg.Custom {
		for token, field := range group.Tokens {
			value, err := expandValue(cfg, config.CustomTemplatesFieldName, field)
			if err != nil {
				return nil, fmt.Errorf("unable to expand token %s/%s: %w", group.Name, token, err)
			}
			root.SetCustom(propName(cfg.Prefix, group.Name, token), value)
		}
	}

	for name, value := range extra {
		root.SetCustom(propName(cfg.Prefix, name), value)
	}

	sheet.AddRule(root)

	// themed rules in declared order, default theme values are already on :root
	for _, theme := range cfg.Themes.Names {
		if theme == cfg.Themes.Default {
			continue
		}
		r, ok := themed[theme]
		if !ok {
			continue
		}
		sheet.AddRule(*r)
		if cfg.Themes.PreferColorScheme && (theme == "light" || theme == "dark") {
			mr := *r
			mr.Selector = css.RootSelector()
			sheet.AddMediaBlock(css.MediaBlock{Query: css.SchemeQuery(theme), Rules: []css.Rule{mr}})
		}
	}

	return sheet, nil
}

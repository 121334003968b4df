package tokens

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"dsg/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Prefix     string
	Typography config.TypographyConfig
	Spacing    config.SpacingConfig
	Themes     []string
}

// expandValue expands a single custom token value. On top of slim-sprig
// functions templates get "ref" which renders a var() reference to another
// token of the same set, for example {{ ref "color" "bg" }}.
func expandValue(cfg *config.TokensConfig, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()
	funcMap["ref"] = func(parts ...string) string {
		return fmt.Sprintf("var(--%s)", propName(cfg.Prefix, parts...))
	}

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Prefix:     cfg.Prefix,
		Typography: cfg.Typography,
		Spacing:    cfg.Spacing,
		Themes:     cfg.Themes.Names,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

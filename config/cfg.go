package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	TypographyConfig struct {
		BaseSize   float64  `yaml:"base_size" validate:"gt=0"`
		ScaleRatio float64  `yaml:"scale_ratio" validate:"gt=1"`
		Steps      []string `yaml:"steps" validate:"dive,required"`
		BaseStep   string   `yaml:"base_step" validate:"required"`
		Unit       string   `yaml:"unit" validate:"oneof=rem em px"`
	}

	SpacingConfig struct {
		Base  float64 `yaml:"base" validate:"gt=0"`
		Steps int     `yaml:"steps" validate:"min=1,max=64"`
		Unit  string  `yaml:"unit" validate:"oneof=rem em px"`
	}

	FontConfig struct {
		Family string `yaml:"family" validate:"required"`
		Src    string `yaml:"src" validate:"required"`
		Style  string `yaml:"style" validate:"omitempty,oneof=normal italic"`
		Weight string `yaml:"weight"`
	}

	ThemesConfig struct {
		Attribute         string   `yaml:"attribute" validate:"required_with=Names"`
		Default           string   `yaml:"default" validate:"required_with=Names"`
		Names             []string `yaml:"names" validate:"dive,required"`
		PreferColorScheme bool     `yaml:"prefer_color_scheme"`
	}

	// LayerConfig describes one semantic token layer: token name to
	// per-theme value.
	LayerConfig struct {
		Name   string                       `yaml:"name" validate:"required"`
		Tokens map[string]map[string]string `yaml:"tokens" validate:"required"`
	}

	// GroupConfig describes a free-form token group. Values are Go text
	// templates expanded during generation, not during configuration load.
	GroupConfig struct {
		Name   string            `yaml:"name" validate:"required"`
		Tokens map[string]string `yaml:"templates" validate:"required"`
	}

	TokensConfig struct {
		Prefix     string           `yaml:"prefix" validate:"required,alphanum"`
		Typography TypographyConfig `yaml:"typography"`
		Spacing    SpacingConfig    `yaml:"spacing"`
		Fonts      []FontConfig     `yaml:"fonts"`
		Themes     ThemesConfig     `yaml:"themes"`
		Layers     []LayerConfig    `yaml:"layers"`
		Custom     []GroupConfig    `yaml:"custom"`
	}

	// CurveConfig holds a single quadratic Bezier segment as three control
	// points (start, control, end) in color space coordinates.
	CurveConfig [3][3]float64

	RampConfig struct {
		Name      string        `yaml:"name" validate:"required"`
		Space     ColorSpace    `yaml:"space" validate:"required,oneof=rgb hsl lab lch"`
		Divisions int           `yaml:"divisions" validate:"min=1,max=1024"`
		Curves    []CurveConfig `yaml:"curves" validate:"required,min=1"`
	}

	PaletteConfig struct {
		Ramps []RampConfig `yaml:"ramps" validate:"dive"`
	}

	PreviewConfig struct {
		Format      PreviewFmt `yaml:"format" validate:"omitempty,oneof=none png"`
		Size        int        `yaml:"size" validate:"min=16,max=1024"`
		StrokeScale float64    `yaml:"stroke_scale" validate:"omitempty,gt=0"`
	}

	RecolorConfig struct {
		Enable bool   `yaml:"enable"`
		Fill   string `yaml:"fill" validate:"required_unless=Enable false"`
	}

	BundleConfig struct {
		Sources        []string      `yaml:"sources" validate:"dive,required"`
		TokenPrefix    string        `yaml:"token_prefix" validate:"required"`
		StylesheetPath string        `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		IconsPath      string        `yaml:"icons_path" sanitize:"assure_file_access"`
		Preview        PreviewConfig `yaml:"preview"`
		Recolor        RecolorConfig `yaml:"recolor"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Tokens    TokensConfig   `yaml:"tokens"`
		Palette   PaletteConfig  `yaml:"palette"`
		Bundle    BundleConfig   `yaml:"bundle"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	CustomTemplatesFieldName TemplateFieldName = "templates"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(CustomTemplatesFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

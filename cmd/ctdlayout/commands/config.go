package commands

import (
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/agiangrant/ctdlayout/retained"
	"github.com/agiangrant/ctdlayout/tw"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ConfigFileName is the project configuration file looked up by every command.
const ConfigFileName = "ctdlayout.toml"

// ProjectConfig represents the ctdlayout.toml configuration file
type ProjectConfig struct {
	Layout LayoutConfig `toml:"layout"`
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
	Theme  ThemeConfig  `toml:"theme"`
}

// LayoutConfig holds the defaults every layout in a scene starts from.
type LayoutConfig struct {
	Margin    float32 `toml:"margin"`
	Spacing   float32 `toml:"spacing"`
	Tolerance float32 `toml:"tolerance"`
	// Share extra space by stretch factor instead of evenly
	StretchWeighted bool `toml:"stretch_weighted"`
}

// WindowConfig is the window size used when a scene does not set one.
type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type RenderConfig struct {
	// Preview width in terminal cells; 0 uses the terminal width
	Columns int `toml:"columns"`
	// Draw hidden widgets too
	ShowHidden bool `toml:"show_hidden"`
}

type LogConfig struct {
	// debug, info, warn or error
	Level string `toml:"level"`
	// auto, always or never
	Color string `toml:"color"`
}

// ThemeConfig customizes the size classes accepted in scene files.
type ThemeConfig struct {
	// Pixels per scale step (w-1, p-1, ...)
	SpacingUnit float32 `toml:"spacing_unit"`
	// Responsive breakpoint overrides: sm, md, lg, xl, 2xl
	Breakpoints map[string]float32 `toml:"breakpoints"`
	// Named class bundles, e.g. sidebar = ["w-60", "expand-y"]
	Utilities map[string][]string `toml:"utilities"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Layout: LayoutConfig{
			Margin:    retained.DefaultMargin,
			Spacing:   retained.DefaultSpacing,
			Tolerance: retained.DefaultTolerance,
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
		},
		Log: LogConfig{
			Level: "info",
			Color: "auto",
		},
	}
}

// Retained converts the layout section to a retained.Config.
func (c LayoutConfig) Retained() retained.Config {
	return retained.Config{
		Margin:          c.Margin,
		Spacing:         c.Spacing,
		Tolerance:       c.Tolerance,
		StretchWeighted: c.StretchWeighted,
	}
}

// Apply registers the theme with the class parser. Utilities are parsed
// with the theme's spacing unit.
func (t ThemeConfig) Apply() error {
	bp := tw.DefaultBreakpoints()
	for name, px := range t.Breakpoints {
		switch strings.ToLower(name) {
		case "sm":
			bp.SM = px
		case "md":
			bp.MD = px
		case "lg":
			bp.LG = px
		case "xl":
			bp.XL = px
		case "2xl":
			bp.XXL = px
		default:
			return errors.Errorf("unknown breakpoint %q", name)
		}
	}
	if !(bp.SM <= bp.MD && bp.MD <= bp.LG && bp.LG <= bp.XL && bp.XL <= bp.XXL) {
		return errors.Errorf("breakpoints %+v must not decrease", bp)
	}

	cfg := tw.ThemeConfig{Breakpoints: bp, SpacingUnit: t.SpacingUnit}
	tw.SetConfig(cfg)
	if len(t.Utilities) == 0 {
		return nil
	}

	classes := maps.Clone(tw.ClassMap)
	for name, bundle := range t.Utilities {
		if strings.ContainsAny(name, " :[]") {
			return errors.Errorf("utility name %q", name)
		}
		classes[name] = tw.Parse(strings.Join(bundle, " "))
	}
	cfg.ClassMap = classes
	tw.SetConfig(cfg)
	return nil
}

// LoadConfig loads the project configuration from ctdlayout.toml in the
// project root. If there is no such file, it returns the default config.
func LoadConfig() (ProjectConfig, error) {
	root, err := FindProjectRoot()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(filepath.Join(root, ConfigFileName))
}

// LoadConfigFile loads the configuration at path over the defaults. A
// missing file is not an error.
func LoadConfigFile(path string) (ProjectConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, errors.Wrapf(err, "failed to read %s", path)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "failed to parse %s", path)
	}

	// Apply defaults for empty values
	if config.Window.Width <= 0 {
		config.Window.Width = DefaultConfig().Window.Width
	}
	if config.Window.Height <= 0 {
		config.Window.Height = DefaultConfig().Window.Height
	}
	if config.Layout.Tolerance <= 0 {
		config.Layout.Tolerance = retained.DefaultTolerance
	}

	return config, nil
}

// SaveConfig saves the configuration to ctdlayout.toml in dir
func SaveConfig(dir string, config ProjectConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

// FindProjectRoot finds the project root by looking for ctdlayout.toml or go.mod
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}
		// Check for go.mod as fallback
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not in a ctdlayout project (no ctdlayout.toml or go.mod found)")
		}
		dir = parent
	}
}

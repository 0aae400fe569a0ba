package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/relgraph/internal/layout"
	"github.com/msalah0e/relgraph/internal/network"
)

// Config holds relgraph configuration.
type Config struct {
	Data      DataConfig      `toml:"data"`
	Years     YearsConfig     `toml:"years"`
	Center    CenterConfig    `toml:"center"`
	Person    PersonConfig    `toml:"person"`
	Relations RelationsConfig `toml:"relations"`
	Broken    BrokenConfig    `toml:"broken"`
	Layout    LayoutConfig    `toml:"layout"`
	Render    RenderConfig    `toml:"render"`
}

// DataConfig controls where records come from.
type DataConfig struct {
	Source           string `toml:"source"`
	FallbackRelation string `toml:"fallback_relation"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	// CacheRemote keeps the last good copy of a URL source for offline use.
	CacheRemote      bool   `toml:"cache_remote"`
}

// YearsConfig is the time horizon of the year slider.
type YearsConfig struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// CenterConfig styles the fixed center node.
type CenterConfig struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Radius float64 `toml:"radius"`
	Color  string  `toml:"color"`
}

// PersonConfig styles person nodes.
type PersonConfig struct {
	Radius        float64 `toml:"radius"`
	FallbackColor string  `toml:"fallback_color"`
}

// RelationsConfig maps categories to colors and names the close ones.
type RelationsConfig struct {
	Colors map[string]string `toml:"colors"`
	Close  []string          `toml:"close"`
}

// BrokenConfig lists the description fragments that mark a severed relation.
type BrokenConfig struct {
	Markers []string `toml:"markers"`
}

// LayoutConfig holds the simulation constants.
type LayoutConfig struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	LinkDistance    float64 `toml:"link_distance"`
	CloseDistance   float64 `toml:"close_distance"`
	ChargeStrength  float64 `toml:"charge_strength"`
	CollidePadding  float64 `toml:"collide_padding"`
	VelocityDecay   float64 `toml:"velocity_decay"`
	AlphaDecay      float64 `toml:"alpha_decay"`
	AlphaMin        float64 `toml:"alpha_min"`
	Warmup          int     `toml:"warmup"`
	DragAlphaTarget float64 `toml:"drag_alpha_target"`
}

// RenderConfig controls static output.
type RenderConfig struct {
	Format      string `toml:"format"` // "svg", "png", "dot", "json", "html"
	Background  string `toml:"background"`
	BrokenColor string `toml:"broken_color"`
	Labels      bool   `toml:"labels"`
	Concurrency int    `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	n := network.DefaultOptions()
	l := layout.DefaultOptions()
	return &Config{
		Data: DataConfig{
			Source:           "network-data.json",
			FallbackRelation: "其他",
			TimeoutSeconds:   10,
		},
		Years:  YearsConfig{Min: n.MinYear, Max: n.MaxYear},
		Center: CenterConfig{ID: n.CenterID, Name: "鲁迅", Radius: n.CenterRadius, Color: n.CenterColor},
		Person: PersonConfig{Radius: n.PersonRadius, FallbackColor: n.FallbackColor},
		Relations: RelationsConfig{
			Colors: map[string]string{
				"亲属": "#B44C43",
				"同乡": "#4A5D75",
				"友人": "#5F7156",
				"同事": "#D9A033",
				"学生": "#9B5F90",
				"其他": "#8B7D6B",
			},
			Close: l.CloseRelations,
		},
		Broken: BrokenConfig{Markers: n.BrokenMarkers},
		Layout: LayoutConfig{
			Width:           l.Width,
			Height:          l.Height,
			LinkDistance:    l.LinkDistance,
			CloseDistance:   l.CloseDistance,
			ChargeStrength:  l.ChargeStrength,
			CollidePadding:  l.CollidePadding,
			VelocityDecay:   l.VelocityDecay,
			AlphaDecay:      l.AlphaDecay,
			AlphaMin:        l.AlphaMin,
			Warmup:          l.Warmup,
			DragAlphaTarget: l.DragAlphaTarget,
		},
		Render: RenderConfig{
			Format:      "svg",
			Background:  "#F5F1E8",
			BrokenColor: "#CCCCCC",
			Labels:      true,
			Concurrency: 4,
		},
	}
}

// NetworkOptions converts the config into normalizer options.
func (c *Config) NetworkOptions() network.Options {
	return network.Options{
		MinYear:       c.Years.Min,
		MaxYear:       c.Years.Max,
		CenterID:      c.Center.ID,
		CenterName:    c.Center.Name,
		CenterRadius:  c.Center.Radius,
		CenterColor:   c.Center.Color,
		PersonRadius:  c.Person.Radius,
		Colors:        network.Palette(c.Relations.Colors),
		FallbackColor: c.Person.FallbackColor,
		BrokenMarkers: c.Broken.Markers,
	}
}

// LayoutOptions converts the config into simulation options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Width:           c.Layout.Width,
		Height:          c.Layout.Height,
		LinkDistance:    c.Layout.LinkDistance,
		CloseDistance:   c.Layout.CloseDistance,
		CloseRelations:  c.Relations.Close,
		ChargeStrength:  c.Layout.ChargeStrength,
		CollidePadding:  c.Layout.CollidePadding,
		VelocityDecay:   c.Layout.VelocityDecay,
		AlphaDecay:      c.Layout.AlphaDecay,
		AlphaMin:        c.Layout.AlphaMin,
		Warmup:          c.Layout.Warmup,
		DragAlphaTarget: c.Layout.DragAlphaTarget,
	}
}

// ConfigDir returns the relgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "relgraph")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config file, falling back to defaults if it doesn't
// exist or can't be parsed.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads path over the defaults. Keys missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes the config to the user config path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}

// Package config holds the YAML configuration schema and its loader.
package config

import (
	"image/color"
	"strconv"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"
)

// File is the whole configuration document.
type File struct {
	App AppConfig `yaml:"app"`
	UI  UIConfig  `yaml:"ui"`
}

// AppConfig is application metadata shown by the version command.
type AppConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// UIConfig holds theme selection, palettes and viewer defaults.
type UIConfig struct {
	Theme  ThemeSelection         `yaml:"theme"`
	Viewer ViewerConfig           `yaml:"viewer"`
	Themes map[string]ThemeConfig `yaml:"themes,omitempty"`
}

// ThemeSelection names the theme used when --theme is not given.
type ThemeSelection struct {
	Default string `yaml:"default,omitempty"`
}

// ViewerConfig sets defaults for flags. Nil means unset, so a user file
// only overrides what it names.
type ViewerConfig struct {
	Filter        *string `yaml:"filter,omitempty"`
	Wrappers      *bool   `yaml:"wrappers,omitempty"`
	TreeDepth     *int    `yaml:"tree_depth,omitempty"`
	TreeMaxString *int    `yaml:"tree_max_string,omitempty"`
	PanelPercent  *int    `yaml:"panel_percent,omitempty"`
}

// ColorValue stores a color token: an ANSI number or a hex string.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// Color converts the token for lipgloss. An empty token is nil.
func (c ColorValue) Color() color.Color {
	if c == "" {
		return nil
	}
	return lipgloss.Color(string(c))
}

// ThemeConfig is the YAML form of a UI theme.
type ThemeConfig struct {
	KeyColor    ColorValue `yaml:"key_color,omitempty"`
	ValueColor  ColorValue `yaml:"value_color,omitempty"`
	LinkColor   ColorValue `yaml:"link_color,omitempty"`
	MutedColor  ColorValue `yaml:"muted_color,omitempty"`
	HeaderFG    ColorValue `yaml:"header_fg,omitempty"`
	HeaderBG    ColorValue `yaml:"header_bg,omitempty"`
	SelectedFG  ColorValue `yaml:"selected_fg,omitempty"`
	SelectedBG  ColorValue `yaml:"selected_bg,omitempty"`
	BorderColor ColorValue `yaml:"border_color,omitempty"`
	PanelTitle  ColorValue `yaml:"panel_title,omitempty"`
	BorderStyle string     `yaml:"border_style,omitempty"`
}

// Over returns t with every unset field taken from base.
func (t ThemeConfig) Over(base ThemeConfig) ThemeConfig {
	pick := func(v, fallback ColorValue) ColorValue {
		if v != "" {
			return v
		}
		return fallback
	}
	out := ThemeConfig{
		KeyColor:    pick(t.KeyColor, base.KeyColor),
		ValueColor:  pick(t.ValueColor, base.ValueColor),
		LinkColor:   pick(t.LinkColor, base.LinkColor),
		MutedColor:  pick(t.MutedColor, base.MutedColor),
		HeaderFG:    pick(t.HeaderFG, base.HeaderFG),
		HeaderBG:    pick(t.HeaderBG, base.HeaderBG),
		SelectedFG:  pick(t.SelectedFG, base.SelectedFG),
		SelectedBG:  pick(t.SelectedBG, base.SelectedBG),
		BorderColor: pick(t.BorderColor, base.BorderColor),
		PanelTitle:  pick(t.PanelTitle, base.PanelTitle),
		BorderStyle: t.BorderStyle,
	}
	if out.BorderStyle == "" {
		out.BorderStyle = base.BorderStyle
	}
	return out
}

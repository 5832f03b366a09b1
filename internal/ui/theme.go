package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jtx/internal/config"
	"github.com/oakwood-commons/jtx/internal/jsontree"
)

// Theme defines the colors used across the UI.
type Theme struct {
	KeyColor    color.Color // Tree keys
	ValueColor  color.Color // Scalar values
	LinkColor   color.Color // Clickable access counts
	MutedColor  color.Color // Zero counts, hints, summaries
	HeaderFG    color.Color
	HeaderBG    color.Color
	SelectedFG  color.Color
	SelectedBG  color.Color
	BorderColor color.Color // Trace panel border
	PanelTitle  color.Color
	BorderStyle string // normal|rounded
}

// fallbackTheme is used for any color a config leaves unset.
func fallbackTheme() Theme {
	return Theme{
		KeyColor:    lipgloss.Color("81"),
		ValueColor:  lipgloss.Color("246"),
		LinkColor:   lipgloss.Color("114"),
		MutedColor:  lipgloss.Color("244"),
		HeaderFG:    lipgloss.Color("81"),
		HeaderBG:    lipgloss.Color("236"),
		SelectedFG:  lipgloss.Color("250"),
		SelectedBG:  lipgloss.Color("24"),
		BorderColor: lipgloss.Color("238"),
		PanelTitle:  lipgloss.Color("81"),
		BorderStyle: "normal",
	}
}

// ThemeFromConfig converts a YAML theme, filling gaps from the fallback
// palette.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	t := fallbackTheme()
	set := func(dst *color.Color, v config.ColorValue) {
		if c := v.Color(); c != nil {
			*dst = c
		}
	}
	set(&t.KeyColor, cfg.KeyColor)
	set(&t.ValueColor, cfg.ValueColor)
	set(&t.LinkColor, cfg.LinkColor)
	set(&t.MutedColor, cfg.MutedColor)
	set(&t.HeaderFG, cfg.HeaderFG)
	set(&t.HeaderBG, cfg.HeaderBG)
	set(&t.SelectedFG, cfg.SelectedFG)
	set(&t.SelectedBG, cfg.SelectedBG)
	set(&t.BorderColor, cfg.BorderColor)
	set(&t.PanelTitle, cfg.PanelTitle)
	if s := strings.TrimSpace(cfg.BorderStyle); s != "" {
		t.BorderStyle = s
	}
	t.BorderStyle = normalizeBorderStyle(t.BorderStyle)
	return t
}

// DefaultTheme returns the default theme of the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return fallbackTheme()
	}
	tc, err := cfg.Theme("")
	if err != nil {
		return fallbackTheme()
	}
	return ThemeFromConfig(tc)
}

func normalizeBorderStyle(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "rounded") {
		return "rounded"
	}
	return "normal"
}

func (t Theme) border() lipgloss.Border {
	if t.BorderStyle == "rounded" {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}

// TreeStyles converts the theme for jsontree.Render.
func (t Theme) TreeStyles(noColor bool) jsontree.Styles {
	if noColor {
		return jsontree.PlainStyles()
	}
	return jsontree.Styles{
		Key:     lipgloss.NewStyle().Foreground(t.KeyColor),
		Value:   lipgloss.NewStyle().Foreground(t.ValueColor),
		Link:    lipgloss.NewStyle().Foreground(t.LinkColor).Underline(true),
		Muted:   lipgloss.NewStyle().Foreground(t.MutedColor),
		Summary: lipgloss.NewStyle().Foreground(t.MutedColor),
	}
}

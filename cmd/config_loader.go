package cmd

import (
	"os"
	"path/filepath"

	"github.com/oakwood-commons/jtx/internal/config"
	"github.com/oakwood-commons/jtx/pkg/settings"
)

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/jtx/config.yaml) or ~/.config/jtx/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadConfig merges the user file at path, if any, over the embedded defaults.
func loadConfig(path string) (config.File, error) {
	return config.Load(path)
}

// selectTheme picks the theme named on the command line, else the
// configured default.
func selectTheme(cfg config.File, name string) (config.ThemeConfig, error) {
	return cfg.Theme(name)
}

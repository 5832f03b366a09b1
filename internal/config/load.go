package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefault []byte

var (
	defaultOnce sync.Once
	defaultFile File
	defaultErr  error
)

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefault...)
}

// Default parses the embedded default configuration once.
func Default() (File, error) {
	defaultOnce.Do(func() {
		if len(embeddedDefault) == 0 {
			defaultErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefault, &defaultFile); err != nil {
			defaultErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if defaultFile.UI.Theme.Default == "" || len(defaultFile.UI.Themes) == 0 {
			defaultErr = fmt.Errorf("default config is missing required theme defaults")
		}
	})
	return defaultFile.clone(), defaultErr
}

// Load returns the defaults merged with the file at path. An empty path
// returns the defaults alone.
func Load(path string) (File, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var user File
	if err := yaml.Unmarshal(data, &user); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return Merge(cfg, user), nil
}

// Merge lays over on top of base. Themes are merged field by field; a theme
// only present in over is completed from base's default theme.
func Merge(base, over File) File {
	out := base.clone()
	if over.App.Name != "" {
		out.App.Name = over.App.Name
	}
	if over.App.Description != "" {
		out.App.Description = over.App.Description
	}
	if over.UI.Theme.Default != "" {
		out.UI.Theme.Default = over.UI.Theme.Default
	}

	v := over.UI.Viewer
	if v.Filter != nil {
		out.UI.Viewer.Filter = v.Filter
	}
	if v.Wrappers != nil {
		out.UI.Viewer.Wrappers = v.Wrappers
	}
	if v.TreeDepth != nil {
		out.UI.Viewer.TreeDepth = v.TreeDepth
	}
	if v.TreeMaxString != nil {
		out.UI.Viewer.TreeMaxString = v.TreeMaxString
	}
	if v.PanelPercent != nil {
		out.UI.Viewer.PanelPercent = v.PanelPercent
	}

	var added []string
	for name, theme := range over.UI.Themes {
		under, ok := out.UI.Themes[name]
		if !ok {
			added = append(added, name)
			continue
		}
		out.UI.Themes[name] = theme.Over(under)
	}
	// New themes build on the already merged default theme, or on base's
	// default when the new default is itself a new theme.
	parent, ok := out.UI.Themes[out.UI.Theme.Default]
	if !ok {
		parent = out.UI.Themes[base.UI.Theme.Default]
	}
	for _, name := range added {
		out.UI.Themes[name] = over.UI.Themes[name].Over(parent)
	}
	return out
}

// ThemeNames lists the configured themes in sorted order.
func (f File) ThemeNames() []string {
	names := make([]string, 0, len(f.UI.Themes))
	for name := range f.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme returns the named theme, or the default theme for an empty name.
func (f File) Theme(name string) (ThemeConfig, error) {
	if name == "" {
		name = f.UI.Theme.Default
	}
	if t, ok := f.UI.Themes[name]; ok {
		return t, nil
	}
	return ThemeConfig{}, fmt.Errorf("unknown theme %q (available: %v)", name, f.ThemeNames())
}

func (f File) clone() File {
	out := f
	out.UI.Themes = make(map[string]ThemeConfig, len(f.UI.Themes))
	for k, v := range f.UI.Themes {
		out.UI.Themes[k] = v
	}
	return out
}

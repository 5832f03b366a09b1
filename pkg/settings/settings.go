// Package settings provides build metadata, run configuration, and
// context helpers shared by the jtx CLI and its packages.
package settings

import "fmt"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jtx"

// AppTitle is the heading shown above the tree.
const AppTitle = "JSON Trace Explorer"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// String renders the version line printed by `jtx version`.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

// Run holds the settings of a single CLI invocation.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	Interactive bool
	InputPath   string
	ConfigPath  string
}

// NewCliParams returns the defaults for a CLI run.
func NewCliParams() *Run {
	return &Run{}
}

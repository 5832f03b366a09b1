package ui

import (
	"github.com/oakwood-commons/jtx/internal/viewer"
)

// SnapshotConfig configures a one-frame render.
type SnapshotConfig struct {
	Options
	StartKeys []string
}

// RenderSnapshot replays StartKeys against a fresh model and returns the
// resulting frame. v is modified by the replayed keys.
func RenderSnapshot(v *viewer.Viewer, cfg SnapshotConfig) string {
	m := NewModel(v, cfg.Options)
	ApplyStartupKeys(m, cfg.StartKeys)
	return m.Render()
}

package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/jtx/internal/viewer"
)

// Run starts the interactive explorer and blocks until it quits. A zero
// Width or Height is taken from the terminal; ProgramOptions such as
// custom IO are passed through to tea.NewProgram.
func Run(ctx context.Context, v *viewer.Viewer, opts Options, startKeys []string, progOpts ...tea.ProgramOption) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if opts.Width <= 0 {
				opts.Width = w
			}
			if opts.Height <= 0 {
				opts.Height = h
			}
		}
	}
	m := NewModel(v, opts)
	ApplyStartupKeys(m, startKeys)
	if m.Quitting() {
		return nil
	}

	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	prog := tea.NewProgram(m, progOpts...)
	_, err := prog.Run()
	return err
}

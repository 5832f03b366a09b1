package cmd

import (
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/jtx/pkg/tree"
)

// modeFlag is a pflag.Value that only accepts filter mode names.
type modeFlag struct {
	mode tree.Mode
}

var _ pflag.Value = (*modeFlag)(nil)

func (f *modeFlag) String() string { return string(f.mode) }

func (f *modeFlag) Set(s string) error {
	mode, err := tree.ParseMode(s)
	if err != nil {
		return err
	}
	f.mode = mode
	return nil
}

func (f *modeFlag) Type() string { return "mode" }

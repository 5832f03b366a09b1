package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jtx/internal/cel"
	"github.com/oakwood-commons/jtx/internal/config"
	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/internal/limiter"
	"github.com/oakwood-commons/jtx/internal/ui"
	"github.com/oakwood-commons/jtx/internal/viewer"
	"github.com/oakwood-commons/jtx/pkg/logger"
	"github.com/oakwood-commons/jtx/pkg/settings"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

// rootOptions holds the flags of the root command.
type rootOptions struct {
	interactive   bool
	output        string
	filter        modeFlag
	logFile       string
	expression    string
	wrappers      bool
	treeDepth     int
	treeMaxString int
	themeName     string
	configFile    string
	noColor       bool
	debug         bool
	snapshot      bool
	startKeys     []string
	width         int
	height        int
	limit         limiter.Config
}

// NewRootCmd builds the jtx command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{filter: modeFlag{mode: tree.ModeAll}}

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Explore a JSON value together with the access log recorded against it",
		Long: `jtx shows a JSON value as a tree in which every node carries the number of
times its path was accessed during an instrumented run. Counts above zero
are links: opening one shows the stack traces recorded for that path.

The input is a JSON or YAML document with a "value" key (the inspected
value) and an optional "log" key (path -> count, trace list, or
{count, traces}). With no file argument the document is read from stdin.`,
		Example: "\n  jtx trace.json\n  jtx trace.json -i\n  jtx trace.json --filter accessed -o yaml\n" +
			"  jtx trace.json -e '_.value.items.accessed'\n  jtx traces trace.json items.0.name\n",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			lgr := logger.Get(logger.LevelFor(o.debug))
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			run := settings.NewCliParams()
			run.MinLogLevel = logger.LevelFor(o.debug)
			run.NoColor = o.noColor
			run.ConfigPath = resolveConfigPath(o.configFile)
			ctx := logger.WithLogger(commandContext(cmd), lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, o)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file (themes, viewer defaults)")
	pf.BoolVar(&o.debug, "debug", false, "write debug logs to stderr")
	pf.BoolVar(&o.noColor, "no-color", false, "disable color output")

	f := cmd.Flags()
	f.BoolVarP(&o.interactive, "interactive", "i", false, "start the interactive explorer")
	f.StringVarP(&o.output, "output", "o", outputTree, "output format: tree|json|yaml|markdown|html|mermaid")
	f.Var(&o.filter, "filter", "filter mode: all|accessed (default from config, else all)")
	f.StringVar(&o.logFile, "log", "", "access log file; replaces the document's log")
	f.StringVarP(&o.expression, "expression", "e", "", "CEL expression over the displayed tree in {value, accessed} form, '_' is the root. Example: '_.value.items.accessed'")
	f.BoolVar(&o.wrappers, "wrappers", false, "show the literal value/accessed wrapper structure")
	f.IntVar(&o.treeDepth, "tree-depth", 0, "limit tree depth (0 = unlimited)")
	f.IntVar(&o.treeMaxString, "tree-max-string", 0, "truncate string values to this many characters (0 = unlimited)")
	f.StringVar(&o.themeName, "theme", "", "theme name (default from config; see 'jtx themes')")
	f.BoolVar(&o.snapshot, "snapshot", false, "render a single explorer frame and exit; honors --width/--height and --press")
	f.StringArrayVar(&o.startKeys, "press", nil, "simulate keys on startup, e.g. --press \"<Down><Down><CR>\"")
	f.IntVar(&o.width, "width", 0, "output width in columns (snapshot and interactive layout)")
	f.IntVar(&o.height, "height", 0, "output height in rows (snapshot and interactive layout)")
	addLimitFlags(cmd, &o.limit, "expression result records")

	cmd.Version = settings.VersionInformation.String()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newVersionCmd(), newThemesCmd(o), newTracesCmd(), newPathsCmd(), newFunctionsCmd())
	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// usageError marks invalid flag values and bad arguments.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func addLimitFlags(cmd *cobra.Command, c *limiter.Config, what string) {
	cmd.Flags().IntVar(&c.Limit, "limit", 0, "show only this many "+what)
	cmd.Flags().IntVar(&c.Offset, "offset", 0, "skip the first N "+what)
	cmd.Flags().IntVar(&c.Tail, "tail", 0, "show the last N "+what+" (mutually exclusive with --limit; ignores --offset)")
}

func runRoot(cmd *cobra.Command, args []string, o *rootOptions) error {
	ctx := commandContext(cmd)
	lgr := logger.FromContext(ctx)

	if err := o.limit.Validate(); err != nil {
		return usageError{err: err}
	}
	if !validOutput(o.output) {
		return usageError{err: fmt.Errorf("invalid --output %q: valid values are %s", o.output, outputNames())}
	}

	cfgPath := resolveConfigPath(o.configFile)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	lgr.V(1).Info("configuration loaded", "path", cfgPath)

	if err := applyViewerDefaults(cmd, o, cfg.UI.Viewer); err != nil {
		return usageError{err: err}
	}
	themeCfg, err := selectTheme(cfg, o.themeName)
	if err != nil {
		return usageError{err: err}
	}

	in, err := openInput(cmd, args)
	if errors.Is(err, errShowHelp) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	doc, err := loadDocument(in, o.logFile, *lgr)
	if err != nil {
		return err
	}
	v := viewer.New(doc, o.filter.mode)
	lgr.V(1).Info("document loaded", "input", in.name, "logged_paths", len(v.Log()), "mode", string(v.Mode()))

	out := cmd.OutOrStdout()
	noColor := o.noColor || os.Getenv("NO_COLOR") != "" || !isTerminal(out)
	treeOpts := jsontree.Options{Wrappers: o.wrappers, MaxDepth: o.treeDepth, MaxStringLen: o.treeMaxString}

	if o.expression != "" {
		return printExpression(out, v, o.expression, o.output, o.limit)
	}

	uiOpts := ui.Options{
		AppName:      settings.AppTitle,
		Theme:        ui.ThemeFromConfig(themeCfg),
		NoColor:      noColor,
		Tree:         treeOpts,
		PanelPercent: intValue(cfg.UI.Viewer.PanelPercent),
		Width:        o.width,
		Height:       o.height,
		Logger:       *lgr,
	}
	switch {
	case o.snapshot:
		if uiOpts.Width <= 0 || uiOpts.Height <= 0 {
			w, h := detectTerminalSize()
			uiOpts.Width = firstPositive(uiOpts.Width, w)
			uiOpts.Height = firstPositive(uiOpts.Height, h)
		}
		fmt.Fprintln(out, ui.RenderSnapshot(v, ui.SnapshotConfig{Options: uiOpts, StartKeys: o.startKeys}))
		return nil
	case o.interactive:
		progOpts, cleanup := programOptions(in.fromStdin)
		defer cleanup()
		return ui.Run(ctx, v, uiOpts, o.startKeys, progOpts...)
	default:
		return writeOutput(out, v, outputOptions{
			format:  o.output,
			tree:    treeOpts,
			theme:   ui.ThemeFromConfig(themeCfg),
			noColor: noColor,
		})
	}
}

func printExpression(w io.Writer, v *viewer.Viewer, expr, format string, limit limiter.Config) error {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	result, err := eval.EvaluateNode(expr, v.Displayed())
	if err != nil {
		return usageError{err: fmt.Errorf("expression error: %w", err)}
	}
	return writeData(w, limit.ApplyValue(result), format)
}

func applyViewerDefaults(cmd *cobra.Command, o *rootOptions, vc config.ViewerConfig) error {
	flags := cmd.Flags()
	if !flags.Changed("filter") && vc.Filter != nil {
		mode, err := tree.ParseMode(*vc.Filter)
		if err != nil {
			return fmt.Errorf("config viewer.filter: %w", err)
		}
		o.filter.mode = mode
	}
	if !flags.Changed("wrappers") && vc.Wrappers != nil {
		o.wrappers = *vc.Wrappers
	}
	if !flags.Changed("tree-depth") && vc.TreeDepth != nil {
		o.treeDepth = *vc.TreeDepth
	}
	if !flags.Changed("tree-max-string") && vc.TreeMaxString != nil {
		o.treeMaxString = *vc.TreeMaxString
	}
	if o.treeDepth < 0 {
		return fmt.Errorf("--tree-depth must be non-negative, got %d", o.treeDepth)
	}
	return nil
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

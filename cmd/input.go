package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/jtx/pkg/loader"
)

// errShowHelp is returned by openInput when there is no file argument and
// stdin is a terminal.
var errShowHelp = errors.New("no input provided")

type input struct {
	name      string
	data      []byte
	fromStdin bool
}

// openInput reads the file named by args, or stdin when there is none or
// it is "-".
func openInput(cmd *cobra.Command, args []string) (input, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return input{}, fmt.Errorf("read input: %w", err)
		}
		return input{name: args[0], data: data}, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && len(args) == 0 && term.IsTerminal(int(f.Fd())) {
		return input{}, errShowHelp
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return input{}, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return input{name: "stdin", data: data, fromStdin: true}, nil
}

// loadDocument parses in and, when logFile is set, replaces the document's
// log with the one stored there.
func loadDocument(in input, logFile string, lgr logr.Logger) (*loader.Document, error) {
	doc, err := loader.ParseDocumentWithLogger(in.data, lgr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.name, err)
	}
	if logFile != "" {
		log, err := loader.LoadLog(logFile)
		if err != nil {
			return nil, err
		}
		lgr.V(1).Info("access log replaced", "path", logFile, "entries", len(log))
		doc.Log = log
	}
	return doc, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// detectTerminalSize returns the best-effort terminal width/height by probing
// stdout, stderr, and stdin, then falling back to $COLUMNS and $LINES.
func detectTerminalSize() (int, int) {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	w, _ := strconv.Atoi(os.Getenv("COLUMNS"))
	h, _ := strconv.Atoi(os.Getenv("LINES"))
	return max(w, 0), max(h, 0)
}

// programOptions attaches the program to the real terminal when the
// document was piped in on stdin.
func programOptions(fromStdin bool) ([]tea.ProgramOption, func()) {
	if !fromStdin {
		return nil, func() {}
	}
	ttyIn, ttyOut, err := openTerminalIO()
	if err != nil {
		// No controlling terminal (CI); run on the piped streams.
		return nil, func() {}
	}
	cleanup := func() {
		_ = ttyIn.Close()
		if ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}
	return []tea.ProgramOption{tea.WithInput(ttyIn), tea.WithOutput(ttyOut)}, cleanup
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	inFile, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == in {
		return inFile, inFile, nil
	}
	outFile, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		_ = inFile.Close()
		return nil, nil, err
	}
	return inFile, outFile, nil
}

func terminalDeviceNames(goos string) (in, out string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

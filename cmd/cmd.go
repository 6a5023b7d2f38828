package cmd

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/hashicorp/go-multierror"
	"github.com/rami3l/tallow/debug"
	e "github.com/rami3l/tallow/errors"
	"github.com/rami3l/tallow/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// ExitError carries the process exit status a driver-level failure
// should produce, per §6: 65 compile error, 70 runtime error, 74 file
// I/O failure (64 CLI misuse is handled by cobra's own Args check).
type ExitError struct{ Code int }

func (err *ExitError) Error() string { return fmt.Sprintf("exit status %d", err.Code) }

func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:   "tallow [script]",
		Short: "Launch the `tallow` expression interpreter",
	}
	// Args validation happens before RunE and, with SilenceUsage set below,
	// cobra would otherwise swallow its usage line on a misuse error — print
	// it ourselves so §6's "print a usage line and exit with status 64" holds.
	app.Args = func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			fmt.Fprintln(os.Stderr, cmd.UsageString())
			return err
		}
		return nil
	}

	app.Flags().SortFlags = true
	defaultVerbosityStr := "INFO"
	verbosity := app.Flags().StringP("verbosity", "v", defaultVerbosityStr, "Logging verbosity")

	app.SilenceUsage = true
	app.SilenceErrors = true
	app.RunE = func(_ *cobra.Command, args []string) error {
		verbosityLvl, err := logrus.ParseLevel(*verbosity)
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosityStr)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "//DBG// %msg%\n"})
		debug.DEBUG = verbosityLvl == logrus.DebugLevel

		if len(args) == 1 {
			return runFile(args[0])
		}
		return runPrompt()
	}
	return
}

// runFile reads a whole file, interprets it once, and maps the result
// onto the §6 exit codes.
func runFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		logrus.Error(err)
		return &ExitError{Code: 74}
	}

	_, ierr := vm.NewVM().Interpret(string(src))
	switch ierr := ierr.(type) {
	case nil:
		return nil
	case *multierror.Error:
		for _, sub := range ierr.Errors {
			fmt.Fprintln(os.Stderr, sub)
		}
		return &ExitError{Code: 65}
	case *e.RuntimeError:
		fmt.Fprintln(os.Stderr, ierr)
		return &ExitError{Code: 70}
	default:
		fmt.Fprintln(os.Stderr, ierr)
		return &ExitError{Code: 65}
	}
}

// runPrompt reads one line at a time from an interactive readline
// prompt, interpreting each independently. Per §6, interpret status is
// never propagated to the exit code; only the readline session's own
// termination (EOF / interrupt) ends the loop.
func runPrompt() error {
	rl, err := readline.New(">> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	vm_ := vm.NewVM()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		if _, ierr := vm_.Interpret(line); ierr != nil {
			fmt.Fprintln(os.Stderr, ierr)
		}
	}
}

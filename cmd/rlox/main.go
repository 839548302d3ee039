// Command rlox is the executable front end for the Language: a thin
// adapter that wires file/stdin reading, REPL line editing, process exit
// codes, and diagnostic colorization around the internal/lox library.
// It owns no interpreter logic of its own.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/suryamajhi/rlox/internal/lox"
)

var (
	log     = logrus.New()
	verbose bool
)

// errUsage is returned by the root command when it was given more than
// one positional argument; main maps it to exit 64 without printing a
// Go error (the usage line has already been written to stderr).
var errUsage = errors.New("usage")

func main() {
	log.SetFormatter(&easy.Formatter{LogFormat: "%lvl%: %msg%\n"})
	log.SetLevel(logrus.WarnLevel)
	log.SetOutput(os.Stderr)

	root := newRootCmd()
	err := root.Execute()

	switch {
	case err == nil:
		os.Exit(0)
	case errors.Is(err, errUsage):
		os.Exit(64)
	default:
		printError(err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rlox [script]",
		Short:         "rlox runs or interactively evaluates Language source",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				fmt.Fprintln(os.Stderr, "Usage: rlox [script]")
				return errUsage
			}
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if len(args) == 1 {
				return runFile(args[0])
			}
			return runREPL()
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace scan/parse/resolve phases and REPL lifecycle")
	root.AddCommand(newPrintASTCmd(), newPrintRPNCmd())
	return root
}

// runFile executes a whole source file and returns its first error, if
// any: a *multierror.Error of *lox.ParseError for a scan/parse/resolve
// failure, or a *lox.RuntimeError for a failure during evaluation.
func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	log.Debugf("scanning %s", path)
	tokens, err := lox.NewScanner(string(source)).Scan()
	if err != nil {
		return err
	}

	log.Debug("parsing")
	stmts, err := lox.NewParser(tokens).Parse()
	if err != nil {
		return err
	}

	log.Debug("resolving")
	locals, err := lox.NewResolver().Resolve(stmts)
	if err != nil {
		return err
	}

	log.Debug("interpreting")
	interp := lox.NewInterpreter(os.Stdout)
	interp.Resolve(locals)
	return interp.Interpret(stmts)
}

// runREPL drives an interactive prompt: one line is one complete program.
// A parse or runtime error is reported but never ends the session; only
// the literal line "exit", or EOF (Ctrl-D), does.
func runREPL() error {
	prompt := "> "
	if !color.NoColor {
		prompt = color.New(color.FgHiBlack).Sprint("> ")
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return err
	}
	defer rl.Close()

	interp := lox.NewInterpreter(os.Stdout)
	log.Debug("repl: starting")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl-D) or readline.ErrInterrupt (Ctrl-C)
			if errors.Is(err, io.EOF) {
				log.Debug("repl: eof")
				return nil
			}
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return err
		}

		if line == "exit" {
			log.Debug("repl: exit command")
			return nil
		}
		if line == "" {
			continue
		}

		log.Debugf("repl: executing %q", line)
		if err := lox.RunREPL(interp, line); err != nil {
			printError(err)
		}
	}
}

// printError renders err to stderr in the exact line format spec.md
// requires: one "[line N] Error at '...': ..." line per accumulated
// parse/resolve error, or one "<message>\n[line N]" for a runtime error.
func printError(err error) {
	var me *multierror.Error
	if errors.As(err, &me) {
		for _, e := range me.Errors {
			printErrorLine(e.Error())
		}
		return
	}
	printErrorLine(err.Error())
}

func printErrorLine(line string) {
	if color.NoColor {
		fmt.Fprintln(os.Stderr, line)
		return
	}
	color.New(color.FgRed).Fprintln(os.Stderr, line)
}

// exitCodeFor maps a runFile error to the exit code spec.md's §6/§7
// assign it: 70 for a runtime error, 64 for anything else (scan, parse,
// or static resolution failures, and file-read errors).
func exitCodeFor(err error) int {
	var rt *lox.RuntimeError
	if errors.As(err, &rt) {
		return 70
	}
	return 64
}

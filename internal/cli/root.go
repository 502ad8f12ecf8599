// Package cli wires the compiler's command-line surface (spec §6.1) on
// top of cobra, adapted from the teacher's single-shot flag-parsing
// main.go into a root command with the same switches.
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/checker"
	"github.com/gbasic-lang/gbc/codegen"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/lexer"
	"github.com/gbasic-lang/gbc/parser"
	"github.com/spf13/cobra"
)

// errDiagnosed is returned by run once it has already rendered every
// diagnostic for this compilation (possibly more than one, from the
// parser's error-recovery pass); main checks for it with errors.Is so
// it never prints a diagnostic twice.
var errDiagnosed = errors.New("gbc: diagnostics reported")

// IsDiagnosed reports whether err is the sentinel run returns after it
// has already rendered every diagnostic for the failed compilation, so
// main knows not to print anything further before exiting non-zero.
func IsDiagnosed(err error) bool { return errors.Is(err, errDiagnosed) }

type options struct {
	output        string
	dumpTokens    bool
	dumpAST       bool
	dumpIR        bool
	check         bool
	skipTypecheck bool
	run           bool
	runtimeSearch []string
}

// NewRootCmd builds the `gbc` root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "gbc [source file]",
		Short:         "Compile a G-Basic program to a native executable",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil // no positional source path: exit 0 with no output (§6.1)
			}
			return run(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "output", "output executable path")
	flags.BoolVar(&opts.dumpTokens, "dump-tokens", false, "print tokens and exit")
	flags.BoolVar(&opts.dumpAST, "dump-ast", false, "pretty-print the AST and exit")
	flags.BoolVar(&opts.dumpIR, "dump-ir", false, "emit IR to stderr and exit after codegen")
	flags.BoolVar(&opts.check, "check", false, "run the type checker only")
	flags.BoolVar(&opts.skipTypecheck, "skip-typecheck", false, "skip the type checker stage")
	flags.BoolVar(&opts.run, "run", false, "run the output binary after a successful compile")
	flags.StringSliceVar(&opts.runtimeSearch, "runtime-root", nil, "additional runtime archive search root")

	return cmd
}

// run drives one compilation end to end. It renders every diagnostic
// itself and then returns errDiagnosed, or nil on success; with --run,
// a non-zero exit of the compiled binary exits the process with that
// binary's status.
func run(path string, opts *options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		renderDiagnostics(path, "", []*diag.Error{diag.NewCodegen(nil, "reading %q: %v", path, err)})
		return errDiagnosed
	}
	source := string(src)

	if opts.dumpTokens {
		dumpTokens(source)
		return nil
	}

	prog, parseErrs := parser.Parse(source)
	if len(parseErrs) > 0 {
		renderDiagnostics(path, source, parseErrs)
		return errDiagnosed
	}

	if opts.dumpAST {
		dumpAST(prog)
		return nil
	}

	if !opts.skipTypecheck {
		if cerr := checker.Check(prog); cerr != nil {
			renderDiagnostics(path, source, []*diag.Error{cerr})
			return errDiagnosed
		}
	}

	if opts.check {
		fmt.Printf("ok: %s type-checked (%d statements)\n", path, len(prog.Statements))
		return nil
	}

	mod, cgErr := codegen.Generate(prog)
	if cgErr != nil {
		renderDiagnostics(path, source, []*diag.Error{cgErr})
		return errDiagnosed
	}

	if opts.dumpIR {
		fmt.Fprint(os.Stderr, mod.String())
		return nil
	}

	roots := opts.runtimeSearch
	if len(roots) == 0 {
		if exe, exeErr := os.Executable(); exeErr == nil {
			roots = []string{filepath.Dir(exe)}
		}
	}
	if emitErr := codegen.Emit(mod, codegen.EmitOptions{
		OutputPath:         opts.output,
		RuntimeSearchRoots: roots,
	}); emitErr != nil {
		renderDiagnostics(path, source, []*diag.Error{emitErr})
		return errDiagnosed
	}

	if opts.run {
		binary, err := resolveExecutable(opts.output)
		if err != nil {
			renderDiagnostics(path, source, []*diag.Error{diag.WrapCodegen(err, "locating %q", opts.output)})
			return errDiagnosed
		}
		proc := exec.Command(binary)
		proc.Stdin = os.Stdin
		proc.Stdout = os.Stdout
		proc.Stderr = os.Stderr
		if runErr := proc.Run(); runErr != nil {
			if exitErr, ok := runErr.(*exec.ExitError); ok {
				os.Exit(exitErr.ExitCode())
			}
			renderDiagnostics(path, source, []*diag.Error{diag.WrapCodegen(runErr, "running %q", opts.output)})
			return errDiagnosed
		}
	}

	return nil
}

// renderDiagnostics prints every diagnostic with a labeled source
// excerpt (spec §4.5, §7), colorized only when stderr is a real
// terminal.
func renderDiagnostics(path, source string, errs []*diag.Error) {
	diag.Render(os.Stderr, path, source, errs, diag.ColorEnabled(os.Stderr.Fd()))
}

func resolveExecutable(output string) (string, error) {
	if _, err := os.Stat(output); err != nil {
		return "", err
	}
	return "./" + output, nil
}

func dumpTokens(source string) {
	for _, tok := range lexer.Tokenize(source) {
		fmt.Printf("%s @ %s\n", tok.Type, tok.Span)
		if tok.Type == "EOF" {
			break
		}
	}
}

func dumpAST(prog *ast.Program) {
	fmt.Print(Dump(prog))
}

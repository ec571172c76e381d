// Command oran is the CLI entry point for the Oran toolchain.
//
// Usage:
//
//	oran tokens <file> [--json]          Print tokens
//	oran parse  <file> [--yaml]          Print AST as JSON (or YAML)
//	oran run    <file> [--trace]         Run a source file
//	oran exec   <ast-file> [--trace]     Run a JSON or YAML AST document
//	oran repl   [--trace]                Start interactive REPL
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"oran-lang/internal/ast"
	"oran-lang/internal/diag"
	"oran-lang/internal/lexer"
	"oran-lang/internal/parser"
	"oran-lang/internal/runtime"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "tokens":
		filename := fileArg()
		cmdTokens(readFile(filename), filename, hasFlag("--json"))
	case "parse":
		filename := fileArg()
		cmdParse(readFile(filename), filename, hasFlag("--yaml"))
	case "run":
		filename := fileArg()
		cmdRun(readFile(filename), filename)
	case "exec":
		cmdExec(fileArg())
	case "repl":
		cmdRepl()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  oran tokens <file> [--json]        Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  oran parse  <file> [--yaml]        Parse and print AST (JSON, or YAML)")
	fmt.Fprintln(os.Stderr, "  oran run    <file> [--trace]       Run a source file")
	fmt.Fprintln(os.Stderr, "  oran exec   <ast-file> [--trace]   Run a JSON or YAML AST document")
	fmt.Fprintln(os.Stderr, "  oran repl   [--trace]              Start interactive REPL")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  ORAN_HISTORY   REPL history file (default ~/.oran_history)")
}

func fileArg() string {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "error: missing file argument")
		os.Exit(1)
	}
	return os.Args[2]
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args[2:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// newInterpreter builds an interpreter writing to w. With --trace, call frames
// are logged to stderr.
func newInterpreter(w io.Writer) *runtime.Interpreter {
	var opts []runtime.Option
	if hasFlag("--trace") {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, runtime.WithLogger(slog.New(handler)))
	}
	return runtime.NewInterpreter(w, opts...)
}

// compile runs the lexer and parser over source.
func compile(source, filename string) (*ast.Program, []diag.Diagnostic) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if diag.HasErrors(lexDiags) {
		return nil, lexDiags
	}
	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	return prog, append(lexDiags, parseDiags...)
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string, yamlMode bool) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()

	allDiags := append(lexDiags, parseDiags...)

	if yamlMode {
		// a YAML document is read back by exec, so it carries the AST only
		printDiagsText(allDiags)
		printYAML(ast.NodeToMap(prog))
	} else {
		printJSON(map[string]interface{}{
			"ast":         ast.NodeToMap(prog),
			"diagnostics": diagsToSlice(allDiags),
		})
	}

	if len(allDiags) > 0 {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(source, filename string) {
	prog, diags := compile(source, filename)
	if diag.HasErrors(diags) {
		printDiagsText(diags)
		os.Exit(1)
	}
	execute(prog)
}

// ---- exec command ----

func cmdExec(filename string) {
	prog, err := loadDocument(filename)
	if err != nil {
		var docErr *documentError
		if errors.As(err, &docErr) {
			printDiagsText(docErr.diags)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	execute(prog)
}

// documentError reports the diagnostics of an AST document that failed to
// decode.
type documentError struct {
	filename string
	diags    []diag.Diagnostic
}

func (e *documentError) Error() string {
	return fmt.Sprintf("%s: invalid AST document (%d problem(s))", e.filename, len(e.diags))
}

func loadDocument(filename string) (*ast.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading AST document: %w", err)
	}
	prog, diags := ast.Decode(data)
	if diag.HasErrors(diags) {
		return nil, &documentError{filename: filename, diags: diags}
	}
	return prog, nil
}

// execute evaluates prog against buffered stdout and exits non-zero on the
// first runtime error.
func execute(prog *ast.Program) {
	out := bufio.NewWriter(os.Stdout)
	interp := newInterpreter(out)
	_, err := interp.Run(prog)
	if flushErr := out.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

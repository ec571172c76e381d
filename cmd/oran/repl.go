package main

import (
	"errors"
	"fmt"
	"io"
	"oran-lang/internal/ast"
	"oran-lang/internal/diag"
	"oran-lang/internal/runtime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

const (
	promptMain = colorGreen + "oran> " + colorReset
	promptMore = colorGray + "...   " + colorReset
)

// historyPath returns $ORAN_HISTORY, falling back to ~/.oran_history.
func historyPath() string {
	if p := os.Getenv("ORAN_HISTORY"); p != "" {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".oran_history")
	}
	return ""
}

// ---- repl command ----

func cmdRepl() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptMain,
		HistoryFile:       historyPath(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%soran REPL%s %s(type 'exit' or Ctrl+D to quit, ':env' to list bindings)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	// one interpreter for the session, so top-level bindings persist
	interp := newInterpreter(rl.Stdout())
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(promptMore)
		} else {
			rl.SetPrompt(promptMain)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return
			case ":env":
				printEnv(rl.Stdout(), interp.Store())
				continue
			}
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		prog, diags := compile(source, "<repl>")
		if diag.HasErrors(diags) {
			printDiagsColored(rl.Stderr(), diags)
			continue
		}

		result, err := interp.Run(prog)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, err, colorReset)
			continue
		}
		if shouldEcho(prog, result) {
			fmt.Fprintf(rl.Stdout(), "%s%s%s\n", colorGray, echoText(result), colorReset)
		}
	}
}

// shouldEcho hides null results and the true returned by print and println.
func shouldEcho(prog *ast.Program, result runtime.Value) bool {
	if _, ok := runtime.Unwrap(result).(runtime.NullVal); ok {
		return false
	}
	if n := len(prog.Body); n > 0 {
		if call, ok := prog.Body[n-1].(*ast.Call); ok && call.Builtin != ast.UserFunc {
			return false
		}
	}
	return true
}

func echoText(v runtime.Value) string {
	if s, ok := runtime.Unwrap(v).(runtime.StringVal); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// printEnv lists the top-level bindings, values first.
func printEnv(w io.Writer, store *runtime.Store) {
	values := store.Names(0, runtime.ValueBinding)
	funcs := store.Names(0, runtime.FunctionBinding)
	if len(values) == 0 && len(funcs) == 0 {
		fmt.Fprintf(w, "%s(no bindings)%s\n", colorGray, colorReset)
		return
	}
	for _, name := range values {
		v, _ := store.Get(0, runtime.ValueBinding, name)
		decl := ""
		if b, ok := v.(*runtime.BoundVal); ok && b.Decl == ast.Constant {
			decl = colorYellow + "const " + colorReset
		}
		fmt.Fprintf(w, "%s%s = %s\n", decl, name, echoText(v))
	}
	for _, name := range funcs {
		fmt.Fprintf(w, "%sfn%s %s\n", colorCyan, colorReset, name)
	}
}

// printDiagsColored prints diagnostics with red color for REPL display.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}

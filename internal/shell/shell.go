// Package shell is the interactive keyword console: it drives a dispatch
// bridge from a line-based prompt, with rendered documentation and colored
// run results.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
	"github.com/MrSteve2/robotframework-tools/pkg/remote"
)

const prompt = "robot> "

// Shell reads commands from in and writes results to out.
type Shell struct {
	bridge  *remote.Bridge
	in      io.Reader
	out     io.Writer
	colored bool
	render  func(string) (string, error)
}

// Option configures a Shell.
type Option func(*Shell)

// WithIO redirects the shell's input and output, used by tests and piped
// invocations. Color is disabled for non-terminal output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Shell) {
		s.in = in
		s.out = out
		s.colored = false
	}
}

// New builds a shell on the standard streams. Colors and markdown
// rendering are enabled only when stdout is a terminal.
func New(bridge *remote.Bridge, opts ...Option) *Shell {
	s := &Shell{
		bridge:  bridge,
		in:      os.Stdin,
		out:     os.Stdout,
		colored: term.IsTerminal(int(os.Stdout.Fd())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.colored {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			s.render = r.Render
		}
	}
	return s
}

// Run reads and executes commands until EOF, the exit command, or context
// cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Interactive keyword shell. Type 'help' for commands.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := s.execute(ctx, line); done {
			return nil
		}
	}
}

// execute handles one input line; true ends the session.
func (s *Shell) execute(ctx context.Context, line string) bool {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "exit", "quit":
		return true
	case "help":
		s.printHelp()
	case "keywords":
		s.printKeywords()
	case "doc":
		s.printDoc(rest)
	case "import":
		s.importLibrary(rest)
	default:
		s.runKeyword(ctx, command, rest)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  keywords              list all keywords
  doc <keyword>         show a keyword's arguments and documentation
  import <library>      import a remote library
  <keyword> [args]      run a keyword, e.g. greet_user World
                        arguments split on whitespace, or on | when the
                        text starts with [ or |
  exit                  leave the shell
`)
}

func (s *Shell) printKeywords() {
	for _, name := range s.bridge.GetKeywordNames() {
		fmt.Fprintf(s.out, "  %-30s %s\n", naming.Encode(name), name)
	}
}

func (s *Shell) printDoc(name string) {
	if name == "" {
		fmt.Fprintln(s.out, "usage: doc <keyword>")
		return
	}
	args, err := s.bridge.GetKeywordArguments(name)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	doc, err := s.bridge.GetKeywordDocumentation(name)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	text := fmt.Sprintf("# %s\n\nArguments: `[ %s ]`\n\n%s\n",
		naming.Decode(name), strings.Join(args, " | "), doc)
	if s.render != nil {
		if rendered, err := s.render(text); err == nil {
			fmt.Fprint(s.out, rendered)
			return
		}
	}
	fmt.Fprint(s.out, text)
}

func (s *Shell) importLibrary(name string) {
	if name == "" {
		fmt.Fprintln(s.out, "usage: import <library>")
		return
	}
	names, err := s.bridge.ImportLibrary(name)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "imported %s, %d keywords available\n", name, len(names))
}

func (s *Shell) runKeyword(ctx context.Context, name, argsText string) {
	args := keyword.SplitDebugArgs(argsText)
	positional := make([]any, len(args))
	for i, a := range args {
		positional[i] = a
	}

	result := s.bridge.RunKeyword(ctx, name, positional, nil)
	if result.Status == domain.StatusFail {
		fmt.Fprintf(s.out, "%s  %s\n", s.status(result.Status), result.Error)
		return
	}
	if result.Return != nil {
		fmt.Fprintf(s.out, "%s  %v\n", s.status(result.Status), result.Return)
		return
	}
	fmt.Fprintf(s.out, "%s\n", s.status(result.Status))
}

func (s *Shell) status(status string) string {
	if !s.colored {
		return status
	}
	p := termenv.ColorProfile()
	if status == domain.StatusPass {
		return termenv.String(status).Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String(status).Foreground(p.Color("#ef4444")).String()
}

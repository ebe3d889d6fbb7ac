// Package repl reads AST dump forms interactively and analyzes each one as
// soon as its parentheses balance.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cxxlint/internal/config"
	"cxxlint/internal/driver"
	"cxxlint/internal/errors"
	"cxxlint/internal/parser"
)

const (
	PROMPT       = ">> "
	CONTINUE     = ".. "
	replDumpPath = "<repl>"
)

// Session holds the state of one interactive session.
type Session struct {
	out     io.Writer
	cfg     *config.Config
	showAST bool
}

func NewSession(out io.Writer, cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{out: out, cfg: cfg}
}

// Start runs a session until in is exhausted or :quit is entered.
func Start(in io.Reader, out io.Writer, cfg *config.Config) {
	NewSession(out, cfg).Run(in)
}

func (s *Session) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Fprint(s.out, PROMPT)
		} else {
			fmt.Fprint(s.out, CONTINUE)
		}
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		line := scanner.Text()

		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if !s.command(strings.TrimSpace(line)) {
				return
			}
			continue
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		text := pending.String()
		if depth(text) > 0 {
			continue
		}
		pending.Reset()
		if strings.TrimSpace(text) == "" {
			continue
		}
		s.Eval(text)
	}
}

// command runs a colon command and reports whether the session goes on.
func (s *Session) command(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":quit", ":q":
		return false
	case ":ast":
		s.showAST = !s.showAST
		fmt.Fprintf(s.out, "ast printing %s\n", onOff(s.showAST))
	case ":enable", ":disable":
		if err := s.cfg.SetEnabled(arg, name == ":enable"); err != nil {
			fmt.Fprintln(s.out, err)
			return true
		}
		fmt.Fprintf(s.out, "%s %s\n", arg, onOff(name == ":enable"))
	case ":checks":
		for _, check := range []string{errors.CheckRedundantCast, errors.CheckPassParamsByRef, errors.CheckCommaOperator} {
			fmt.Fprintf(s.out, "%-16s %s\n", check, onOff(s.cfg.Enabled(check)))
		}
	case ":help":
		fmt.Fprintln(s.out, "enter a dump form such as (translation-unit file=\"a.cxx\" ...)")
		fmt.Fprintln(s.out, ":ast  :checks  :enable <check>  :disable <check>  :quit")
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", name)
	}
	return true
}

// Eval analyzes one complete dump and prints its diagnostics.
func (s *Session) Eval(text string) {
	if s.showAST {
		res := parser.ParseSource(replDumpPath, text)
		if res.Unit != nil && !res.HasErrors() {
			fmt.Fprintf(s.out, "AST:\n%s\n", res.Unit.String())
		}
	}

	res := driver.AnalyzeSource(replDumpPath, text, s.cfg)
	if res.Err != nil {
		fmt.Fprintf(s.out, "error: %v\n", res.Err)
	}
	if len(res.Diagnostics) == 0 && len(res.Edits) == 0 {
		fmt.Fprintln(s.out, "no findings")
		return
	}
	errors.Sort(res.Diagnostics)
	fmt.Fprint(s.out, errors.NewReporter(res.Sources).FormatAll(res.Diagnostics))
	for _, e := range res.Edits {
		fmt.Fprintf(s.out, "edit %s\n", e)
	}
}

// depth returns how many parentheses of text are still open, ignoring
// strings and comments.
func depth(text string) int {
	n := 0
	inString, escaped, inComment := false, false, false
	for _, c := range text {
		switch {
		case inComment:
			inComment = c != '\n'
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == ';':
			inComment = true
		case c == '(':
			n++
		case c == ')':
			n--
		}
	}
	return max(n, 0)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/bfc/internal/codegen"
	"github.com/you-not-fish/bfc/internal/syntax"
)

const (
	historyFile = ".bfc_history"
	promptMain  = "bfc> "
	promptCont  = "...> "
)

const replHelp = `Enter a program to see the generated code. Input continues
on the next line while a loop is open.

  :ast            toggle printing the syntax tree instead of code
  :target asm|c   select the backend
  :opt on|off     toggle optimizations
  :help           show this text
  :quit           leave the REPL

Any other line is program text, where ':' is just a comment.`

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively show the code generated for programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			target, err := codegen.LookupTarget(cfg.Target)
			if err != nil {
				return err
			}
			sess := &replSession{
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
				target:   target,
				optimize: cfg.Optimize,
				labels:   cfg.Labels,
			}
			return runRepl(sess)
		},
	}
}

func runRepl(sess *replSession) error {
	fmt.Fprintln(sess.out, titleStyle.Render("bfc "+Version)+dimStyle.Render("  (:help for commands)"))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(sess.out)
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if sess.eval(code) {
			return nil
		}
	}
}

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readByParseProbe reads lines until the accumulated text parses or fails
// for a reason other than an open loop. It returns false at end of input.
func readByParseProbe(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C discards the pending entry.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isReplCommand(src) {
			return src, true
		}
		_, perr := syntax.Parse("", strings.NewReader(src))
		if syntax.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// replCommands are the words that start a colon command.
var replCommands = map[string]bool{
	":quit":   true,
	":q":      true,
	":help":   true,
	":ast":    true,
	":target": true,
	":opt":    true,
}

// isReplCommand reports whether an entry is a colon command rather than
// program text. Only known command words count.
func isReplCommand(src string) bool {
	fields := strings.Fields(src)
	return len(fields) > 0 && replCommands[strings.ToLower(fields[0])]
}

// replSession holds the REPL settings changed by colon commands.
type replSession struct {
	out, errOut io.Writer
	target      codegen.Target
	optimize    bool
	labels      string
	showAST     bool
}

// eval handles one entry and reports whether the session should end.
func (s *replSession) eval(code string) bool {
	if isReplCommand(code) {
		return s.command(strings.Fields(code))
	}

	root, err := syntax.Parse("", strings.NewReader(code))
	if err != nil {
		fmt.Fprintln(s.errOut, errorStyle.Render(err.Error()))
		return false
	}
	if s.showAST {
		syntax.Fprint(s.out, root)
		return false
	}
	err = codegen.Generate(s.out, root, s.target, codegen.Options{
		Optimized: s.optimize,
		Labels:    labelSource(s.labels),
	})
	if err != nil {
		fmt.Fprintln(s.errOut, errorStyle.Render(err.Error()))
	}
	return false
}

func (s *replSession) command(fields []string) bool {
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":ast":
		s.showAST = !s.showAST
		fmt.Fprintf(s.out, "ast: %s\n", onOff(s.showAST))
	case ":target":
		t, err := codegen.LookupTarget(arg)
		if err != nil {
			fmt.Fprintln(s.errOut, errorStyle.Render(err.Error()))
			break
		}
		s.target = t
		fmt.Fprintf(s.out, "target: %s\n", t.Name())
	case ":opt":
		switch arg {
		case "on":
			s.optimize = true
		case "off":
			s.optimize = false
		default:
			fmt.Fprintln(s.errOut, errorStyle.Render("usage: :opt on|off"))
			return false
		}
		fmt.Fprintf(s.out, "optimize: %s\n", onOff(s.optimize))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

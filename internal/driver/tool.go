package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrToolNotFound is wrapped when an external program cannot be started
// because it is not installed.
var ErrToolNotFound = errors.New("tool not found")

// ToolError reports an external program that ran and failed.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed with exit status %d", e.Tool, e.ExitCode)
}

// Lines returns the tool's diagnostic output split into lines.
func (e *ToolError) Lines() []string {
	s := strings.TrimRight(e.Stderr, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Toolchain names the external programs used to build executables.
type Toolchain struct {
	Assembler string
	CC        string
	ASFlags   []string
	CFlags    []string
}

// DefaultToolchain uses GNU as and gcc from PATH.
func DefaultToolchain() Toolchain {
	return Toolchain{Assembler: "as", CC: "gcc"}
}

// runner executes external programs, announcing each on progress.
type runner struct {
	progress io.Writer
	log      *slog.Logger
}

// run executes name with args. Progress is printed as
// "Running `name`... SUCCESS" or "... FAILED".
func (r *runner) run(ctx context.Context, name string, args ...string) error {
	r.log.Debug("exec", "tool", name, "args", args)
	fmt.Fprintf(r.progress, "Running `%s`... ", name)

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		fmt.Fprintln(r.progress, "SUCCESS")
		return nil
	}
	fmt.Fprintln(r.progress, "FAILED")

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return &ToolError{
			Tool:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("running %s: %w", name, ctx.Err())
	}
	return fmt.Errorf("running %s: %w", name, err)
}

// ToolStatus is the result of probing one program.
type ToolStatus struct {
	Name     string
	Path     string // resolved path, empty when missing
	Version  string // first line of --version output
	Required bool
}

// OK reports whether the tool was found.
func (s ToolStatus) OK() bool { return s.Path != "" }

// Check probes every program in the toolchain.
func (t Toolchain) Check(ctx context.Context) []ToolStatus {
	return []ToolStatus{
		probe(ctx, t.Assembler, true),
		probe(ctx, t.CC, true),
	}
}

func probe(ctx context.Context, name string, required bool) ToolStatus {
	st := ToolStatus{Name: name, Required: required}
	path, err := exec.LookPath(name)
	if err != nil {
		return st
	}
	st.Path = path

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return st
	}
	line, _, _ := strings.Cut(string(out), "\n")
	st.Version = truncate(strings.TrimSpace(line), 60)
	return st
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Package driver runs a whole compilation: it reads the source, generates
// target text and, for executables, invokes the assembler and C compiler.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/you-not-fish/bfc/internal/codegen"
	"github.com/you-not-fish/bfc/internal/syntax"
)

// Job describes one compilation.
type Job struct {
	Paths    Paths
	Format   Format
	Target   codegen.Target // backend for executables; ignored when Format picks one
	Optimize bool
	Labels   codegen.LabelSource // nil means a fresh counter
}

// Driver runs jobs against one toolchain.
type Driver struct {
	Toolchain Toolchain
	Progress  io.Writer    // receives "Running `as`..." lines; nil discards them
	Logger    *slog.Logger // nil uses slog.Default()
}

// Backend returns the target that generates code for job.
func (j Job) Backend() codegen.Target {
	switch j.Format {
	case Assembly:
		return codegen.Asm
	case CSource:
		return codegen.C
	}
	if j.Target == nil {
		return codegen.Asm
	}
	return j.Target
}

// Run compiles job. Syntax errors are returned as *syntax.SyntaxError and
// failing tools as *ToolError.
func (d *Driver) Run(ctx context.Context, job Job) error {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	progress := d.Progress
	if progress == nil {
		progress = io.Discard
	}

	root, err := d.parse(job.Paths.Source, log)
	if err != nil {
		return err
	}

	target := job.Backend()
	start := time.Now()
	text := codegen.GenerateString(root, target, codegen.Options{
		Optimized: job.Optimize,
		Labels:    job.Labels,
	})
	log.Debug("codegen", "target", target.Name(), "optimized", job.Optimize,
		"bytes", len(text), "elapsed", time.Since(start))

	if job.Format != Executable {
		return writeFile(job.Paths.Output, text)
	}

	src := job.Paths.Asm
	if target.Ext() == ".c" {
		src = job.Paths.C
	}
	if err := writeFile(src, text); err != nil {
		return err
	}
	if !job.Paths.Keep {
		defer d.cleanup(job.Paths.Intermediates(target.Ext()), log)
	}

	r := &runner{progress: progress, log: log}
	if target.Ext() == ".c" {
		return d.compileC(ctx, r, job)
	}
	return d.compileAsm(ctx, r, job)
}

func (d *Driver) parse(filename string, log *slog.Logger) (*syntax.Root, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	defer f.Close()

	start := time.Now()
	root, err := syntax.Parse(filename, f)
	if err != nil {
		return nil, err
	}
	st := syntax.Stats(root)
	log.Debug("parse", "file", filename, "loops", st.Loops, "depth", st.MaxDepth,
		"leaves", st.Leaves, "commands", st.Commands, "elapsed", time.Since(start))
	return root, nil
}

func (d *Driver) compileAsm(ctx context.Context, r *runner, job Job) error {
	p := job.Paths
	asArgs := append([]string{p.Asm, "-o", p.Object}, d.Toolchain.ASFlags...)
	if err := r.run(ctx, d.Toolchain.Assembler, asArgs...); err != nil {
		return err
	}
	ccArgs := append([]string{p.Object, "-o", p.Output}, d.Toolchain.CFlags...)
	return r.run(ctx, d.Toolchain.CC, ccArgs...)
}

func (d *Driver) compileC(ctx context.Context, r *runner, job Job) error {
	p := job.Paths
	args := []string{p.C, "-o", p.Output}
	if job.Optimize {
		args = append(args, "-O2")
	}
	args = append(args, d.Toolchain.CFlags...)
	return r.run(ctx, d.Toolchain.CC, args...)
}

// cleanup removes intermediates; files that were never created are fine.
func (d *Driver) cleanup(files []string, log *slog.Logger) {
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove intermediate file", "file", f, "err", err)
		}
	}
}

func writeFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

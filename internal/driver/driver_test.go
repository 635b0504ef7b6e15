package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/you-not-fish/bfc/internal/codegen"
	"github.com/you-not-fish/bfc/internal/syntax"
)

func TestInferFormat(t *testing.T) {
	tests := []struct {
		output string
		asm, c bool
		want   Format
	}{
		{"a.out", false, false, Executable},
		{"prog", false, false, Executable},
		{"prog.s", false, false, Assembly},
		{"prog.S", false, false, Assembly},
		{"prog.c", false, false, CSource},
		{"prog.C", false, false, CSource},
		{"prog", true, false, Assembly},
		{"prog.c", true, false, Assembly},
		{"prog.S", false, true, CSource},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v/%v", tt.output, tt.asm, tt.c), func(t *testing.T) {
			got, err := InferFormat(tt.output, tt.asm, tt.c)
			if err != nil {
				t.Fatalf("InferFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("InferFormat() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := InferFormat("x", true, true); err == nil {
		t.Error("InferFormat(-S -C) error = nil")
	}
}

func TestDefaultOutput(t *testing.T) {
	for f, want := range map[Format]string{Executable: "a.out", Assembly: "a.S", CSource: "a.c"} {
		if got := DefaultOutput(f); got != want {
			t.Errorf("DefaultOutput(%v) = %v, want %v", f, got, want)
		}
	}
}

func TestNewPaths(t *testing.T) {
	kept := NewPaths("hello.b", filepath.Join("out", "hello"), true)
	want := Paths{
		Source: "hello.b",
		Asm:    filepath.Join("out", "hello.S"),
		C:      filepath.Join("out", "hello.c"),
		Object: filepath.Join("out", "hello.o"),
		Output: filepath.Join("out", "hello"),
		Keep:   true,
	}
	if kept != want {
		t.Errorf("NewPaths(keep) = %+v, want %+v", kept, want)
	}

	now := time.Unix(1700000000, 0)
	tmp := newPaths("hello.b", "a.out", false, now)
	base := filepath.Join(os.TempDir(), "a_1700000000")
	if tmp.Asm != base+".S" || tmp.C != base+".c" || tmp.Object != base+".o" {
		t.Errorf("newPaths(tmp) = %+v", tmp)
	}
	if tmp.Output != "a.out" || tmp.Keep {
		t.Errorf("Output = %v, Keep = %v, want a.out, false", tmp.Output, tmp.Keep)
	}
}

// ----------------------------------------------------------------------------
// Run

func writeSource(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "prog.b")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeTool writes a shell script that records its arguments in log and
// creates the file named by its third argument (the -o operand).
func fakeTool(t *testing.T, dir, name, log string, exit int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(dir, name)
	script := fmt.Sprintf("#!/bin/sh\necho \"%s $*\" >> %q\n", name, log)
	if exit == 0 {
		script += ": > \"$3\"\n"
	} else {
		script += fmt.Sprintf("echo \"%s: boom\" >&2\nexit %d\n", name, exit)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunStopsEarly(t *testing.T) {
	const src = "+++[->+<]."
	root, err := syntax.Parse("prog.b", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format Format
		target codegen.Target
	}{
		{Assembly, codegen.Asm},
		{CSource, codegen.C},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "out"+tt.target.Ext())
			job := Job{
				Paths:    NewPaths(writeSource(t, dir, src), out, true),
				Format:   tt.format,
				Optimize: true,
			}

			var progress bytes.Buffer
			d := &Driver{Toolchain: DefaultToolchain(), Progress: &progress}
			if err := d.Run(context.Background(), job); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			want := codegen.GenerateString(root, tt.target, codegen.Options{Optimized: true})
			if string(got) != want {
				t.Errorf("output mismatch:\n%s\nwant:\n%s", got, want)
			}
			if progress.Len() != 0 {
				t.Errorf("no tool should run, progress = %q", progress.String())
			}
		})
	}
}

func TestRunSyntaxError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.S")
	d := &Driver{Toolchain: DefaultToolchain()}

	err := d.Run(context.Background(), Job{
		Paths:  NewPaths(writeSource(t, dir, "+[[-]"), out, true),
		Format: Assembly,
	})
	if !errors.Is(err, syntax.ErrUnterminatedLoop) {
		t.Fatalf("Run() error = %v, want unterminated loop", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written despite syntax error")
	}
}

func TestRunMissingSource(t *testing.T) {
	dir := t.TempDir()
	d := &Driver{}
	err := d.Run(context.Background(), Job{
		Paths:  NewPaths(filepath.Join(dir, "nope.b"), filepath.Join(dir, "a.S"), true),
		Format: Assembly,
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run() error = %v, want not exist", err)
	}
}

func TestRunAsmPipeline(t *testing.T) {
	for _, keep := range []bool{false, true} {
		t.Run(fmt.Sprintf("keep=%v", keep), func(t *testing.T) {
			dir := t.TempDir()
			log := filepath.Join(dir, "calls.log")
			tc := Toolchain{
				Assembler: fakeTool(t, dir, "fake-as", log, 0),
				CC:        fakeTool(t, dir, "fake-cc", log, 0),
				CFlags:    []string{"-no-pie"},
			}
			out := filepath.Join(dir, "prog")
			paths := NewPaths(writeSource(t, dir, "+."), out, keep)
			if paths.Keep != keep {
				t.Fatalf("Paths.Keep = %v, want %v", paths.Keep, keep)
			}

			var progress bytes.Buffer
			d := &Driver{Toolchain: tc, Progress: &progress}
			err := d.Run(context.Background(), Job{Paths: paths, Target: codegen.Asm})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			calls, err := os.ReadFile(log)
			if err != nil {
				t.Fatal(err)
			}
			want := fmt.Sprintf("fake-as %s -o %s\nfake-cc %s -o %s -no-pie\n", paths.Asm, paths.Object, paths.Object, out)
			if string(calls) != want {
				t.Errorf("tool calls:\n%s\nwant:\n%s", calls, want)
			}

			wantProgress := fmt.Sprintf("Running `%s`... SUCCESS\nRunning `%s`... SUCCESS\n", tc.Assembler, tc.CC)
			if progress.String() != wantProgress {
				t.Errorf("progress = %q, want %q", progress.String(), wantProgress)
			}

			if _, err := os.Stat(out); err != nil {
				t.Errorf("executable missing: %v", err)
			}
			for _, f := range []string{paths.Asm, paths.Object} {
				_, err := os.Stat(f)
				if keep && err != nil {
					t.Errorf("%s removed despite keep: %v", f, err)
				}
				if !keep && !os.IsNotExist(err) {
					t.Errorf("%s not cleaned up", f)
				}
			}
		})
	}
}

func TestRunCPipeline(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	tc := Toolchain{
		Assembler: "as",
		CC:        fakeTool(t, dir, "fake-cc", log, 0),
		CFlags:    []string{"-static"},
	}
	out := filepath.Join(dir, "prog")
	paths := NewPaths(writeSource(t, dir, "+."), out, true)

	d := &Driver{Toolchain: tc}
	err := d.Run(context.Background(), Job{Paths: paths, Target: codegen.C, Optimize: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	calls, err := os.ReadFile(log)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("fake-cc %s -o %s -O2 -static\n", paths.C, out)
	if string(calls) != want {
		t.Errorf("tool calls = %q, want %q", calls, want)
	}
}

func TestRunToolFailure(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	tc := Toolchain{
		Assembler: fakeTool(t, dir, "fake-as", log, 3),
		CC:        fakeTool(t, dir, "fake-cc", log, 0),
	}
	paths := NewPaths(writeSource(t, dir, "+."), filepath.Join(dir, "prog"), false)

	var progress bytes.Buffer
	d := &Driver{Toolchain: tc, Progress: &progress}
	err := d.Run(context.Background(), Job{Paths: paths})

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Run() error = %v, want *ToolError", err)
	}
	if te.Tool != tc.Assembler || te.ExitCode != 3 {
		t.Errorf("ToolError = %+v", te)
	}
	if lines := te.Lines(); len(lines) != 1 || lines[0] != "fake-as: boom" {
		t.Errorf("Lines() = %q", lines)
	}
	if !strings.HasSuffix(progress.String(), "FAILED\n") {
		t.Errorf("progress = %q", progress.String())
	}

	calls, _ := os.ReadFile(log)
	if strings.Contains(string(calls), "fake-cc") {
		t.Error("linker ran after assembler failed")
	}
	if _, err := os.Stat(paths.Asm); !os.IsNotExist(err) {
		t.Error("assembly not cleaned up after failure")
	}
}

func TestRunToolNotFound(t *testing.T) {
	dir := t.TempDir()
	tc := Toolchain{Assembler: "bfc-test-no-such-assembler", CC: "gcc"}
	d := &Driver{Toolchain: tc}
	err := d.Run(context.Background(), Job{
		Paths: NewPaths(writeSource(t, dir, "+."), filepath.Join(dir, "prog"), false),
	})
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Run() error = %v, want ErrToolNotFound", err)
	}
}

func TestJobBackend(t *testing.T) {
	tests := []struct {
		job  Job
		want codegen.Target
	}{
		{Job{}, codegen.Asm},
		{Job{Target: codegen.C}, codegen.C},
		{Job{Format: Assembly, Target: codegen.C}, codegen.Asm},
		{Job{Format: CSource, Target: codegen.Asm}, codegen.C},
	}
	for _, tt := range tests {
		if got := tt.job.Backend(); got != tt.want {
			t.Errorf("%+v.Backend() = %s, want %s", tt.job, got.Name(), tt.want.Name())
		}
	}
}

func TestToolchainCheck(t *testing.T) {
	dir := t.TempDir()
	tc := Toolchain{
		Assembler: fakeTool(t, dir, "fake-as", filepath.Join(dir, "log"), 0),
		CC:        "bfc-test-no-such-cc",
	}
	st := tc.Check(context.Background())
	if len(st) != 2 {
		t.Fatalf("Check() returned %d results", len(st))
	}
	if !st[0].OK() || st[1].OK() {
		t.Errorf("Check() = %+v", st)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"as 2.42", 60, "as 2.42"},
		{strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{strings.Repeat("a", 61), 60, strings.Repeat("a", 57) + "..."},
		{strings.Repeat("é", 70), 60, strings.Repeat("é", 57) + "..."},
		{"GNU 汇编器 版本 2.42", 10, "GNU 汇编器..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

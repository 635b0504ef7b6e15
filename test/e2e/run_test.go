package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/you-not-fish/bfc/internal/codegen"
	"github.com/you-not-fish/bfc/internal/driver"
)

// TestE2E runs end-to-end tests for all .b files in testdata/.
// Each program is built with both backends, with and without
// optimizations:
//  1. Runs the driver: parse → codegen → as/gcc
//  2. Runs the binary, feeding it the .in file if one exists
//  3. Compares stdout against the .golden file
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.b")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .b test files found in testdata/")
	}

	if _, err := exec.LookPath("gcc"); err != nil {
		t.Skip("gcc not found, skipping E2E tests")
	}

	targets := []codegen.Target{codegen.C}
	if _, err := exec.LookPath("as"); err == nil && runtime.GOOS == "linux" && runtime.GOARCH == "amd64" {
		targets = append(targets, codegen.Asm)
	} else {
		t.Log("as not usable for x86-64 ELF, testing the C backend only")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".b")
		for _, target := range targets {
			for _, optimize := range []bool{false, true} {
				variant := name + "/" + target.Name()
				if optimize {
					variant += "/O"
				}
				t.Run(variant, func(t *testing.T) {
					runE2ETest(t, testFile, target, optimize)
				})
			}
		}
	}
}

// runE2ETest builds and runs a single program.
func runE2ETest(t *testing.T, bfFile string, target codegen.Target, optimize bool) {
	t.Helper()

	base := strings.TrimSuffix(bfFile, ".b")
	expected, err := os.ReadFile(base + ".golden")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	var stdin []byte
	if in, err := os.ReadFile(base + ".in"); err == nil {
		stdin = in
	}

	binFile := filepath.Join(t.TempDir(), "prog")
	var progress bytes.Buffer
	d := &driver.Driver{Toolchain: driver.DefaultToolchain(), Progress: &progress}
	err = d.Run(context.Background(), driver.Job{
		Paths:    driver.NewPaths(bfFile, binFile, true),
		Target:   target,
		Optimize: optimize,
	})
	if err != nil {
		if te, ok := err.(*driver.ToolError); ok {
			t.Fatalf("%v\n%s", err, te.Stderr)
		}
		t.Fatalf("compile: %v\n%s", err, progress.String())
	}

	cmd := exec.Command(binFile)
	cmd.Stdin = bytes.NewReader(stdin)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("binary execution failed: %v", err)
	}

	if got, want := string(out), string(expected); got != want {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

// TestE2EDeterministic checks that building the same program twice yields
// byte-identical assembly.
func TestE2EDeterministic(t *testing.T) {
	dir := t.TempDir()
	var outputs []string
	for i := 0; i < 2; i++ {
		out := filepath.Join(dir, "hello"+string(rune('0'+i))+".S")
		d := &driver.Driver{}
		err := d.Run(context.Background(), driver.Job{
			Paths:  driver.NewPaths("testdata/hello.b", out, true),
			Format: driver.Assembly,
		})
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, string(b))
	}
	if outputs[0] != outputs[1] {
		t.Error("two compilations of the same source differ")
	}
}

package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is the kind of file a compilation produces.
type Format int

const (
	Executable Format = iota // assemble or compile, then link
	Assembly                 // stop after writing assembly
	CSource                  // stop after writing C
)

func (f Format) String() string {
	switch f {
	case Executable:
		return "executable"
	case Assembly:
		return "assembly"
	case CSource:
		return "c"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// DefaultOutput is the output file name used when none is given.
func DefaultOutput(f Format) string {
	switch f {
	case Assembly:
		return "a.S"
	case CSource:
		return "a.c"
	}
	return "a.out"
}

// InferFormat decides where compilation stops. The -S and -C flags win;
// otherwise an output name ending in .s or .S means assembly and one ending
// in .c or .C means C source. Asking for both is an error.
func InferFormat(output string, asm, c bool) (Format, error) {
	switch {
	case asm && c:
		return 0, fmt.Errorf("cannot output both assembly and C")
	case asm:
		return Assembly, nil
	case c:
		return CSource, nil
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".s":
		return Assembly, nil
	case ".c":
		return CSource, nil
	}
	return Executable, nil
}

// Paths names every file touched by one compilation.
type Paths struct {
	Source string
	Asm    string // intermediate assembly
	C      string // intermediate C
	Object string
	Output string

	Keep bool // intermediates survive the build
}

// NewPaths derives the intermediate file names for compiling input to
// output. Kept intermediates sit next to the output with its extension
// replaced; otherwise they go to the temp directory as <stem>_<unix seconds>.
func NewPaths(input, output string, keep bool) Paths {
	return newPaths(input, output, keep, time.Now())
}

func newPaths(input, output string, keep bool, now time.Time) Paths {
	stem := strings.TrimSuffix(output, filepath.Ext(output))
	if !keep {
		name := fmt.Sprintf("%s_%d", filepath.Base(stem), now.Unix())
		stem = filepath.Join(os.TempDir(), name)
	}
	return Paths{
		Source: input,
		Asm:    stem + ".S",
		C:      stem + ".c",
		Object: stem + ".o",
		Output: output,
		Keep:   keep,
	}
}

// Intermediates returns the files an executable build leaves behind for
// the given backend extension (".S" or ".c").
func (p Paths) Intermediates(ext string) []string {
	if ext == ".c" {
		return []string{p.C}
	}
	return []string{p.Asm, p.Object}
}

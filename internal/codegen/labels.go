package codegen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LabelSource hands out structural labels for loops. Every label returned
// during one generation must be distinct from every other one.
type LabelSource interface {
	// Next returns a fresh label. hint describes the label's role and is
	// used as its prefix.
	Next(hint string) string
}

// Counter is the deterministic LabelSource: a counter incremented once per
// label, so the same tree always yields the same labels. A Counter is owned
// by a single generation and is not safe for concurrent use.
type Counter struct {
	n int
}

// NewCounter returns a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns hint_N and advances the counter.
func (c *Counter) Next(hint string) string {
	l := fmt.Sprintf("%s_%d", hint, c.n)
	c.n++
	return l
}

// Issued reports how many labels the counter has handed out.
func (c *Counter) Issued() int {
	return c.n
}

type randomLabels struct{}

// RandomLabels returns a LabelSource that suffixes each hint with a random
// UUID. Labels stay unique across generations and processes, but output is
// no longer reproducible; prefer Counter unless that is the point.
func RandomLabels() LabelSource {
	return randomLabels{}
}

func (randomLabels) Next(hint string) string {
	return hint + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

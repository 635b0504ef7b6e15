package codegen

import "io"

// emitter wraps an io.Writer with helpers for emitting target text.
// The first write error is latched and every later write is skipped.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes one chunk of generated text followed by a newline.
// A chunk may span several lines.
func (e *emitter) emit(text string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, text+"\n")
}

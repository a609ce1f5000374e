// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report provides the ordered line-oriented reporting sink used by
// the pipeline stages. Stages receive a Reporter instead of writing to the
// console directly, so tests can capture output with a bytes.Buffer.
package report

import (
	"fmt"
	"io"
)

// Reporter emits ordered status lines at three severities.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Writer is a Reporter that writes one line per call to an io.Writer.
// Warnings and errors are prefixed so they stand out in a scrolling log.
type Writer struct {
	Out io.Writer
}

// New returns a Writer reporting to out.
func New(out io.Writer) *Writer {
	return &Writer{Out: out}
}

func (w *Writer) Infof(format string, args ...any) {
	fmt.Fprintf(w.Out, format+"\n", args...)
}

func (w *Writer) Warnf(format string, args ...any) {
	fmt.Fprintf(w.Out, "warning: "+format+"\n", args...)
}

func (w *Writer) Errorf(format string, args ...any) {
	fmt.Fprintf(w.Out, "error: "+format+"\n", args...)
}

// Discard is a Reporter that drops all output.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}

package output

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// TextWriter writes a human-readable block per report.
type TextWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a single report.
func (w *TextWriter) Write(r Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	header := r.Source
	if r.Output != "" {
		header += " -> " + r.Output
	}
	if _, err := fmt.Fprintf(w.w, "== %s\n", header); err != nil {
		return err
	}
	if r.Error != "" {
		if _, err := fmt.Fprintf(w.w, "Error: %s\n", r.Error); err != nil {
			return err
		}
	}
	if r.Stats != nil {
		if _, err := w.w.WriteString(r.Stats.String()); err != nil {
			return err
		}
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w.w, "Warning: %s\n", warn); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}

package util

import (
	"bufio"
	"os"
)

// ReadSource reads the compiler's source file, adapted from the
// teacher's util.ReadSource. Unlike the teacher, reading from stdin is
// not supported: this compiler's CLI always takes an explicit input
// path (spec §6, "compile <input.py> [output.ll]").
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Writer buffers and flushes textual output (the emitted LLVM IR) to a
// destination file or stdout. Adapted from the
// teacher's util.Writer; the channel-fed single-writer-goroutine
// indirection is collapsed to a direct bufio.Writer since spec §5 rules
// out concurrent code generation.
type Writer struct {
	w *bufio.Writer
	f *os.File
}

// NewWriter opens path for writing, or wraps os.Stdout if path is empty.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return &Writer{w: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{w: bufio.NewWriter(f), f: f}, nil
}

// WriteString writes s to the buffered writer.
func (w *Writer) WriteString(s string) error {
	_, err := w.w.WriteString(s)
	return err
}

// Close flushes buffered output and closes the underlying file, if any.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

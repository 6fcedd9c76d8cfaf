// Package output writes file contents to the destination in one of the supported layouts.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the destination used when none is given.
const DefaultFileName = "output.txt"

// Format represents an output format type.
type Format string

const (
	// FormatText writes "<path>\n---\n<content>\n\n---\n" per file.
	FormatText Format = "text"
	// FormatMarkdown writes each file as a fenced code block under its path.
	FormatMarkdown Format = "markdown"
	// FormatXML wraps each file in a <document> element.
	FormatXML Format = "xml"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatText),
		string(FormatMarkdown),
		string(FormatXML),
	}
}

// IsValidFormat checks if a format string is valid.
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatText, FormatMarkdown, FormatXML:
		return true
	default:
		return false
	}
}

// Writer receives files in discovery order.
type Writer interface {
	// WriteFile appends one file to the output.
	WriteFile(path, content string) error

	// Close writes any trailer. It does not close the underlying io.Writer.
	Close() error
}

// New returns a Writer for format on top of w.
// An empty format means FormatText.
func New(w io.Writer, format Format) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return &TextWriter{w: w}, nil
	case FormatMarkdown:
		return &MarkdownWriter{w: w}, nil
	case FormatXML:
		return &XMLWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// ResolvePath resolves a destination name against the working directory.
// Absolute names are returned unchanged.
func ResolvePath(cwd, name string) string {
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cwd, name)
}

// File is an output destination opened once for a whole invocation.
type File struct {
	Writer

	path    string
	file    *os.File
	buf     *bufio.Writer
	counter *countingWriter
}

// Open creates or truncates the file at path and returns a Writer for it.
func Open(path string, format Format) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening output file: %w", err)
	}

	buf := bufio.NewWriter(f)
	counter := &countingWriter{w: buf}

	w, err := New(counter, format)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &File{
		Writer:  w,
		path:    path,
		file:    f,
		buf:     buf,
		counter: counter,
	}, nil
}

// Path returns the destination path.
func (f *File) Path() string {
	return f.path
}

// BytesWritten returns the number of bytes written so far.
func (f *File) BytesWritten() int64 {
	return f.counter.n
}

// Close writes the trailer, flushes and closes the file.
func (f *File) Close() error {
	if err := f.Writer.Close(); err != nil {
		_ = f.file.Close()
		return fmt.Errorf("finishing output: %w", err)
	}
	if err := f.buf.Flush(); err != nil {
		_ = f.file.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// countingWriter counts bytes passed to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

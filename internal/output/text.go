package output

import (
	"io"
)

// TextWriter writes the plain delimited layout:
//
//	<path>
//	---
//	<content>
//
//	---
type TextWriter struct {
	w io.Writer
}

// WriteFile implements Writer.
func (t *TextWriter) WriteFile(path, content string) error {
	_, err := io.WriteString(t.w, path+"\n---\n"+content+"\n\n---\n")
	return err
}

// Close implements Writer.
func (*TextWriter) Close() error {
	return nil
}

package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XMLWriter wraps each file in a numbered <document> element inside <documents>.
// The source path is escaped; file content is written as is.
type XMLWriter struct {
	w       io.Writer
	index   int
	started bool
}

// WriteFile implements Writer.
func (x *XMLWriter) WriteFile(path, content string) error {
	if err := x.start(); err != nil {
		return err
	}
	x.index++

	var source strings.Builder
	if err := xml.EscapeText(&source, []byte(path)); err != nil {
		return err
	}

	_, err := fmt.Fprintf(x.w,
		"<document index=\"%d\">\n<source>%s</source>\n<document_content>\n%s\n</document_content>\n</document>\n",
		x.index, source.String(), content)
	return err
}

// Close writes the closing tag. An empty run still produces <documents></documents>.
func (x *XMLWriter) Close() error {
	if err := x.start(); err != nil {
		return err
	}
	_, err := io.WriteString(x.w, "</documents>\n")
	return err
}

func (x *XMLWriter) start() error {
	if x.started {
		return nil
	}
	x.started = true
	_, err := io.WriteString(x.w, "<documents>\n")
	return err
}

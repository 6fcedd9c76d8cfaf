package output

import (
	"io"
	"path/filepath"
	"strings"
)

// MarkdownWriter writes each file as its path followed by a fenced code block.
type MarkdownWriter struct {
	w io.Writer
}

// languages maps file extensions to fence info strings.
var languages = map[string]string{
	".bash":  "bash",
	".c":     "c",
	".cpp":   "cpp",
	".cs":    "csharp",
	".css":   "css",
	".go":    "go",
	".h":     "c",
	".html":  "html",
	".java":  "java",
	".js":    "javascript",
	".json":  "json",
	".jsx":   "jsx",
	".kt":    "kotlin",
	".md":    "markdown",
	".php":   "php",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".sh":    "bash",
	".sql":   "sql",
	".swift": "swift",
	".toml":  "toml",
	".ts":    "typescript",
	".tsx":   "tsx",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
}

// WriteFile implements Writer.
func (m *MarkdownWriter) WriteFile(path, content string) error {
	fence := fenceFor(content)
	lang := languages[strings.ToLower(filepath.Ext(path))]

	var b strings.Builder
	b.Grow(len(path) + len(content) + 2*len(fence) + len(lang) + 8)
	b.WriteString(path)
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString(lang)
	b.WriteString("\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n\n")

	_, err := io.WriteString(m.w, b.String())
	return err
}

// Close implements Writer.
func (*MarkdownWriter) Close() error {
	return nil
}

// fenceFor returns a backtick fence longer than any backtick run in content.
func fenceFor(content string) string {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

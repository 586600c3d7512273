package editor

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownConverter turns imported markdown into the editor's HTML dialect.
// Fenced code blocks come out as <pre><code class="language-x"> so the view
// pipeline treats them the same as editor-authored blocks.
var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// FromMarkdown converts a markdown document to sanitized content HTML. This
// backs the editor's import path; the result is safe to persist directly.
func FromMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return Sanitize(buf.String()), nil
}

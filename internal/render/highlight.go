package render

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// highlightLines tokenizes source and returns one HTML fragment per visual
// line, with token spans carrying chroma's standard CSS classes. A language
// the lexer registry does not know falls back to plain tokens.
func highlightLines(source, language string) []string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return escapeLines(source)
	}

	var lines []string
	var current strings.Builder

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}

	for token := it(); token != chroma.EOF; token = it() {
		class := tokenClass(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part == "" {
				continue
			}
			escaped := html.EscapeString(part)
			if class != "" {
				current.WriteString(`<span class="` + class + `">` + escaped + `</span>`)
			} else {
				current.WriteString(escaped)
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}

	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func escapeLines(source string) []string {
	raw := strings.Split(source, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = html.EscapeString(l)
	}
	return out
}

// tokenClass resolves a token type to its short CSS class, walking up the
// type hierarchy until a mapped class is found.
func tokenClass(t chroma.TokenType) string {
	for t != 0 {
		if class, ok := chroma.StandardTypes[t]; ok && class != "" {
			return class
		}
		parent := t.Parent()
		if parent == t {
			break
		}
		t = parent
	}
	return ""
}

// trimBlankEdges drops leading and trailing blank lines, returning the
// trimmed slice. Interior blank lines are kept.
func trimBlankEdges(lines []string) []string {
	return trimEdges(lines, func(s string) bool { return strings.TrimSpace(s) == "" })
}

// trimHighlightedEdges is trimBlankEdges for highlighted lines. Blankness is
// judged on the visible text; a whitespace-only line the highlighter wrapped
// in a token span must trim the same way its raw counterpart does, or the
// two slices fall out of step.
func trimHighlightedEdges(lines []string) []string {
	return trimEdges(lines, func(s string) bool { return strings.TrimSpace(stripTags(s)) == "" })
}

func trimEdges(lines []string, blank func(string) bool) []string {
	start := 0
	end := len(lines)
	for start < end && blank(lines[start]) {
		start++
	}
	for end > start && blank(lines[end-1]) {
		end--
	}
	return lines[start:end]
}

// stripTags reduces a highlighted line back to its visible text.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

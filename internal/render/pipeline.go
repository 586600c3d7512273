// Package render turns persisted document HTML into the final presentation
// markup. The stored HTML is author-controlled but same-origin-trusted; the
// pipeline parses it into a node tree, applies the stage transforms, and
// serializes the result. Re-running the pipeline on its own output is a
// no-op for every stage.
package render

import (
	"fmt"
	stdhtml "html"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the output of one pipeline run. Diagrams holds the raw source
// of every diagram container so the page can issue a single batched
// diagram-render call instead of one per block.
type Result struct {
	HTML       string
	Diagrams   []string
	CodeBlocks int
	Images     int
}

// Pipeline applies the four content transforms in order: diagram
// extraction, code highlighting, line numbering, image lightbox.
type Pipeline struct{}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Render transforms stored HTML. A block that cannot be transformed is left
// as authored; only a parse failure of the whole input is an error.
func (p *Pipeline) Render(stored string) (*Result, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(stored), root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	result := &Result{}

	// Collect before mutating so replacements do not disturb the walk.
	var pres, imgs []*html.Node
	collect(root, result, &pres, &imgs)

	for _, pre := range pres {
		p.transformPre(pre, result)
	}
	for _, img := range imgs {
		wrapLightbox(img)
		result.Images++
	}

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return nil, fmt.Errorf("failed to serialize content: %w", err)
		}
	}
	result.HTML = b.String()
	return result, nil
}

// collect gathers transform targets. Already-processed containers are
// counted but not descended into, which is what makes re-rendering
// idempotent.
func collect(n *html.Node, result *Result, pres, imgs *[]*html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case n.DataAtom == atom.Div && hasClass(n, "mermaid-diagram"):
			result.Diagrams = append(result.Diagrams, textContent(n))
			return
		case n.DataAtom == atom.Div && hasClass(n, "code-block"):
			result.CodeBlocks++
			return
		case n.DataAtom == atom.A && hasClass(n, "lightbox"):
			result.Images++
			return
		case n.DataAtom == atom.Pre:
			if codeChild(n) != nil {
				*pres = append(*pres, n)
				return
			}
		case n.DataAtom == atom.Img:
			*imgs = append(*imgs, n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, result, pres, imgs)
	}
}

// transformPre replaces a <pre><code> block with either a diagram container
// or a highlighted, line-numbered code block.
func (p *Pipeline) transformPre(pre *html.Node, result *Result) {
	code := codeChild(pre)
	if code == nil || pre.Parent == nil {
		return
	}

	language := languageClass(code)
	source := textContent(code)

	if language == "mermaid" {
		replaceWithHTML(pre, `<div class="mermaid-diagram">`+stdhtml.EscapeString(source)+`</div>`)
		result.Diagrams = append(result.Diagrams, source)
		return
	}

	rawLines := trimBlankEdges(strings.Split(source, "\n"))
	hlLines := trimHighlightedEdges(highlightLines(source, language))

	var body strings.Builder
	for i := range rawLines {
		content := stdhtml.EscapeString(rawLines[i])
		if i < len(hlLines) {
			content = hlLines[i]
		}
		fmt.Fprintf(&body, `<span class="code-line"><span class="line-number">%d</span><span class="line-text">%s</span></span>`+"\n", i+1, content)
	}

	plain := strings.Join(rawLines, "\n")

	var block strings.Builder
	block.WriteString(`<div class="code-block"`)
	if language != "" {
		block.WriteString(` data-language="` + stdhtml.EscapeString(language) + `"`)
	}
	block.WriteString(`><div class="code-header">`)
	if language != "" {
		block.WriteString(`<span class="language-badge">` + stdhtml.EscapeString(language) + `</span>`)
	}
	block.WriteString(`<button type="button" class="copy-button" data-copy="` + stdhtml.EscapeString(plain) + `">Copy</button>`)
	block.WriteString(`</div><pre><code>`)
	block.WriteString(body.String())
	block.WriteString(`</code></pre></div>`)

	replaceWithHTML(pre, block.String())
	result.CodeBlocks++
}

// wrapLightbox moves an image inside a lightbox anchor pointing at its
// full-size source.
func wrapLightbox(img *html.Node) {
	if img.Parent == nil {
		return
	}
	anchor := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "lightbox"},
			{Key: "href", Val: attrValue(img, "src")},
		},
	}
	img.Parent.InsertBefore(anchor, img)
	img.Parent.RemoveChild(img)
	anchor.AppendChild(img)
}

func replaceWithHTML(n *html.Node, fragment string) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return
	}
	for _, nn := range nodes {
		n.Parent.InsertBefore(nn, n)
	}
	n.Parent.RemoveChild(n)
}

func codeChild(pre *html.Node) *html.Node {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			return c
		}
	}
	return nil
}

// languageClass extracts the hint from a "language-*" class, if any.
func languageClass(code *html.Node) string {
	for _, class := range strings.Fields(attrValue(code, "class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

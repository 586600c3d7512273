package render

import (
	"strings"
	"testing"
)

func TestRenderCodeBlockLineNumbers(t *testing.T) {
	// Three non-blank-bounded lines surrounded by blanks in both directions.
	input := `<pre><code class="language-go">

func main() {
	println("hi")
}

</code></pre>`

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if result.CodeBlocks != 1 {
		t.Fatalf("expected 1 code block, got %d", result.CodeBlocks)
	}
	if got := strings.Count(result.HTML, `class="line-number"`); got != 3 {
		t.Errorf("expected 3 line-number spans, got %d\n%s", got, result.HTML)
	}
	if !strings.Contains(result.HTML, `class="language-badge"`) {
		t.Error("expected a language badge for language-go")
	}
	if !strings.Contains(result.HTML, `class="copy-button"`) {
		t.Error("expected a copy button")
	}
}

func TestRenderCopyButtonHoldsPlainText(t *testing.T) {
	input := `<pre><code class="language-go">fmt.Println(x &gt; 1)</code></pre>`

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// data-copy carries the source text, not highlighted markup.
	if !strings.Contains(result.HTML, `data-copy="fmt.Println(x &gt; 1)"`) {
		t.Errorf("copy payload should be the plain source\n%s", result.HTML)
	}
	if strings.Contains(result.HTML, `data-copy="&lt;span`) {
		t.Error("copy payload must not contain highlighted markup")
	}
}

func TestRenderNoBadgeWithoutLanguage(t *testing.T) {
	result, err := NewPipeline().Render(`<pre><code>plain snippet</code></pre>`)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(result.HTML, "language-badge") {
		t.Error("no badge expected without a language class")
	}
	if !strings.Contains(result.HTML, "copy-button") {
		t.Error("copy button expected even without a language class")
	}
}

func TestRenderMermaidExtraction(t *testing.T) {
	input := `<pre><code class="language-mermaid">graph TD
A --> B</code></pre>
<pre><code class="language-mermaid">sequenceDiagram
X->>Y: ping</code></pre>`

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if len(result.Diagrams) != 2 {
		t.Fatalf("expected 2 diagrams collected, got %d", len(result.Diagrams))
	}
	if got := strings.Count(result.HTML, `class="mermaid-diagram"`); got != 2 {
		t.Errorf("expected 2 diagram containers, got %d", got)
	}
	if result.CodeBlocks != 0 {
		t.Errorf("diagram blocks must not count as code blocks, got %d", result.CodeBlocks)
	}
	if !strings.Contains(result.HTML, "graph TD") {
		t.Error("diagram container should hold the raw source")
	}
}

func TestRenderImageLightbox(t *testing.T) {
	input := `<p>shot</p><img src="http://localhost:3001/uploads/a.png" alt="screen">`

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if result.Images != 1 {
		t.Fatalf("expected 1 image, got %d", result.Images)
	}
	if !strings.Contains(result.HTML, `<a class="lightbox" href="http://localhost:3001/uploads/a.png">`) {
		t.Errorf("expected lightbox anchor wrapping the image\n%s", result.HTML)
	}
}

func TestRenderIdempotent(t *testing.T) {
	input := `<pre><code class="language-mermaid">graph TD
A --> B</code></pre>
<pre><code class="language-go">func f() {}
func g() {}</code></pre>
<img src="/uploads/a.png">`

	p := NewPipeline()
	once, err := p.Render(input)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	twice, err := p.Render(once.HTML)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}

	if len(once.Diagrams) != len(twice.Diagrams) {
		t.Errorf("diagram count changed on re-render: %d -> %d", len(once.Diagrams), len(twice.Diagrams))
	}
	if once.CodeBlocks != twice.CodeBlocks {
		t.Errorf("code block count changed on re-render: %d -> %d", once.CodeBlocks, twice.CodeBlocks)
	}
	if once.Images != twice.Images {
		t.Errorf("image count changed on re-render: %d -> %d", once.Images, twice.Images)
	}

	for _, marker := range []string{"mermaid-diagram", "copy-button", "line-number", "lightbox"} {
		a := strings.Count(once.HTML, marker)
		b := strings.Count(twice.HTML, marker)
		if a != b {
			t.Errorf("%s occurrences changed on re-render: %d -> %d", marker, a, b)
		}
	}
}

func TestRenderPassesThroughPlainContent(t *testing.T) {
	input := `<h2>Heading</h2><p>Some <strong>bold</strong> prose.</p>`

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if result.HTML != input {
		t.Errorf("plain content should pass through unchanged\ngot:  %s\nwant: %s", result.HTML, input)
	}
}

func TestTrimBlankEdges(t *testing.T) {
	got := trimBlankEdges([]string{"", "  ", "a", "", "b", ""})
	want := []string{"a", "", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if got := trimBlankEdges([]string{"", "  "}); len(got) != 0 {
		t.Errorf("all-blank input should trim to nothing, got %v", got)
	}
}

func TestTrimHighlightedEdges(t *testing.T) {
	// A whitespace-only line wrapped in a token span is still blank.
	got := trimHighlightedEdges([]string{`<span class="w">   </span>`, `<span class="nf">main</span>`, "  "})
	if len(got) != 1 || got[0] != `<span class="nf">main</span>` {
		t.Errorf("got %v, want only the main span", got)
	}
}

func TestRenderLineNumbersAlignWithBlankEdgeSpans(t *testing.T) {
	// The leading line is whitespace only, which some lexers emit as a
	// whitespace token span. Both slices must trim it, or every visible
	// line pairs with the previous line's highlighting.
	input := "<pre><code class=\"language-rust\">   \nline1\nline2</code></pre>"

	result, err := NewPipeline().Render(input)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if got := strings.Count(result.HTML, `class="line-number"`); got != 2 {
		t.Fatalf("expected 2 numbered lines, got %d\n%s", got, result.HTML)
	}

	lines := strings.SplitN(result.HTML, `class="line-text"`, 3)
	if len(lines) < 3 {
		t.Fatalf("expected two line-text spans\n%s", result.HTML)
	}
	first := lines[1][:strings.Index(lines[1], `</span></span>`)]
	if !strings.Contains(first, "line1") {
		t.Errorf("first numbered line should carry line1, got %q", first)
	}
}

// Package editor holds the server side of the authoring surface: content
// sanitization, markdown import, and the image upload batch coordinator.
package editor

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// contentPolicy admits the markup the rich-text editor produces and nothing
// else. Code blocks keep their language-* class so the view pipeline can
// pick the highlighter.
var contentPolicy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br", "hr", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"strong", "em", "b", "i", "u", "s", "mark",
		"ul", "ol", "li",
		"pre", "code",
		"table", "thead", "tbody", "tr", "th", "td",
		"figure", "figcaption")

	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[a-zA-Z0-9-]+$`)).OnElements("code")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("title").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)

	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")

	return p
}

// Sanitize strips anything outside the editor's markup contract from
// author-submitted HTML before it is persisted.
func Sanitize(html string) string {
	return contentPolicy.Sanitize(html)
}

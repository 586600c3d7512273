package models

import (
	"regexp"
	"strings"
	"time"
)

// Section types
const (
	SectionText    = "text"
	SectionCode    = "code"
	SectionImage   = "image"
	SectionCallout = "callout"
)

// LanguageMermaid marks a code section (or fenced block) as a diagram source
// rather than highlightable code.
const LanguageMermaid = "mermaid"

// Section is one typed unit of structured content inside a document.
// Sections render after the rich-text content, in list order.
type Section struct {
	Type     string `bson:"type" json:"type"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Content  string `bson:"content" json:"content"`
	Language string `bson:"language,omitempty" json:"language,omitempty"` // only meaningful for code sections
}

var validSectionTypes = map[string]bool{
	SectionText:    true,
	SectionCode:    true,
	SectionImage:   true,
	SectionCallout: true,
}

// Validate checks a section before persistence. Language is ignored for
// non-code types, not rejected.
func (s *Section) Validate() error {
	if !validSectionTypes[s.Type] {
		return &ValidationError{Field: "sections.type", Message: "unknown section type: " + s.Type}
	}
	if strings.TrimSpace(s.Content) == "" {
		return &ValidationError{Field: "sections.content", Message: "section content is required"}
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateSlug checks that a slug is URL-safe: lowercase letters, digits and
// hyphens only, and non-empty once leading/trailing hyphens are trimmed.
func ValidateSlug(slug string) error {
	if slug == "" || !slugPattern.MatchString(slug) {
		return &ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and hyphens"}
	}
	if strings.Trim(slug, "-") == "" {
		return &ValidationError{Field: "slug", Message: "slug must contain at least one letter or digit"}
	}
	return nil
}

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

func validateSections(sections []Section) error {
	for i := range sections {
		if err := sections[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// isoDate formats a time the way post dates are stored (YYYY-MM-DD).
func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

package models

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"simple", "edge-runtime", false},
		{"digits", "v2-release-notes", false},
		{"single char", "a", false},
		{"empty", "", true},
		{"uppercase", "Edge-Runtime", true},
		{"spaces", "edge runtime", true},
		{"underscore", "edge_runtime", true},
		{"unicode", "café", true},
		{"only hyphens", "---", true},
		{"leading hyphen ok", "-edge-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestProjectValidateForCreate(t *testing.T) {
	valid := func() *Project {
		return &Project{Title: "Edge Runtime", Slug: "edge-runtime", Description: "x"}
	}

	t.Run("valid draft passes and defaults icon", func(t *testing.T) {
		p := valid()
		if err := p.ValidateForCreate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Icon != DefaultProjectIcon {
			t.Errorf("icon = %q, want %q", p.Icon, DefaultProjectIcon)
		}
	})

	t.Run("existing icon is kept", func(t *testing.T) {
		p := valid()
		p.Icon = "Terminal"
		if err := p.ValidateForCreate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Icon != "Terminal" {
			t.Errorf("icon = %q, want Terminal", p.Icon)
		}
	})

	missing := map[string]func(*Project){
		"title":       func(p *Project) { p.Title = "" },
		"slug":        func(p *Project) { p.Slug = "" },
		"description": func(p *Project) { p.Description = "  " },
	}
	for field, mutate := range missing {
		t.Run("missing "+field, func(t *testing.T) {
			p := valid()
			mutate(p)
			err := p.ValidateForCreate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != field {
				t.Errorf("error field = %q, want %q", verr.Field, field)
			}
		})
	}

	t.Run("bad section rejected", func(t *testing.T) {
		p := valid()
		p.Sections = []Section{{Type: "video", Content: "x"}}
		if err := p.ValidateForCreate(); err == nil {
			t.Error("expected error for unknown section type")
		}
		p.Sections = []Section{{Type: SectionText, Content: ""}}
		if err := p.ValidateForCreate(); err == nil {
			t.Error("expected error for empty section content")
		}
	})
}

func TestPostValidateForCreate(t *testing.T) {
	p := &Post{Title: "Notes", Slug: "notes", Excerpt: "short"}
	if err := p.ValidateForCreate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Date != isoDate(time.Now()) {
		t.Errorf("date = %q, want today in YYYY-MM-DD form", p.Date)
	}
	if p.Author != DefaultPostAuthor {
		t.Errorf("author = %q, want %q", p.Author, DefaultPostAuthor)
	}

	p2 := &Post{Title: "Notes", Slug: "notes", Excerpt: "short", Date: "2024-01-02", Author: "Jo"}
	if err := p2.ValidateForCreate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p2.Date != "2024-01-02" || p2.Author != "Jo" {
		t.Errorf("explicit date/author overwritten: %q %q", p2.Date, p2.Author)
	}

	p3 := &Post{Title: "Notes", Slug: "notes"}
	if err := p3.ValidateForCreate(); err == nil {
		t.Error("expected error for missing excerpt")
	}
}

func TestPatchSetFields(t *testing.T) {
	now := time.Now()

	t.Run("empty patch only stamps updatedAt", func(t *testing.T) {
		set := (&ProjectPatch{}).SetFields(now)
		if len(set) != 1 {
			t.Errorf("set = %v, want only updatedAt", set)
		}
	})

	t.Run("present fields included, including false booleans", func(t *testing.T) {
		featured := false
		title := "New Title"
		set := (&ProjectPatch{Title: &title, Featured: &featured}).SetFields(now)
		if set["title"] != "New Title" {
			t.Errorf("title = %v", set["title"])
		}
		if v, ok := set["featured"]; !ok || v != false {
			t.Errorf("featured = %v, ok=%v; want explicit false", v, ok)
		}
	})

	t.Run("patch validation rejects emptied required field", func(t *testing.T) {
		empty := ""
		if err := (&PostPatch{Title: &empty}).Validate(); err == nil {
			t.Error("expected error when patch blanks the title")
		}
		published := false
		if err := (&PostPatch{Published: &published}).Validate(); err != nil {
			t.Errorf("publish toggle should validate, got %v", err)
		}
	})
}

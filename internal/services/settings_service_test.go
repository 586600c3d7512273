package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsDefaultsWhenMissing(t *testing.T) {
	svc := NewSettingsService(filepath.Join(t.TempDir(), "site.yaml"))

	got := svc.Get()
	if got.Title != "Portfolio" {
		t.Errorf("expected default title, got %q", got.Title)
	}
	if got.Author != "Author" {
		t.Errorf("expected default author, got %q", got.Author)
	}
}

func TestSettingsLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := `title: My Studio
tagline: Things I build
author: Jamie
social_links:
  - label: GitHub
    url: https://github.com/jamie
    icon: Github
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	svc := NewSettingsService(path)
	got := svc.Get()
	if got.Title != "My Studio" {
		t.Errorf("title = %q, want My Studio", got.Title)
	}
	if got.Author != "Jamie" {
		t.Errorf("author = %q, want Jamie", got.Author)
	}
	if len(got.SocialLinks) != 1 || got.SocialLinks[0].Label != "GitHub" {
		t.Errorf("unexpected social links: %+v", got.SocialLinks)
	}
}

func TestSettingsReloadKeepsLastGoodOnBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("title: Good\n"), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	svc := NewSettingsService(path)
	if svc.Get().Title != "Good" {
		t.Fatalf("expected initial title Good, got %q", svc.Get().Title)
	}

	if err := os.WriteFile(path, []byte("title: [unclosed\n"), 0644); err != nil {
		t.Fatalf("overwrite settings: %v", err)
	}
	if err := svc.reload(); err == nil {
		t.Fatal("expected reload error on malformed YAML")
	}
	if svc.Get().Title != "Good" {
		t.Errorf("expected last good settings to survive, got %q", svc.Get().Title)
	}
}

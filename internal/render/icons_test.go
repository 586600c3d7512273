package render

import "testing"

func TestIconGlyph(t *testing.T) {
	if got := IconGlyph("Sparkles"); got != "✦" {
		t.Errorf("Sparkles = %q", got)
	}
	if got := IconGlyph("Rocket"); got == fallbackGlyph {
		t.Error("known icon should not resolve to the fallback")
	}
	if got := IconGlyph("NotAnIcon"); got != fallbackGlyph {
		t.Errorf("unknown icon should fall back, got %q", got)
	}
	if got := IconGlyph(""); got != fallbackGlyph {
		t.Errorf("empty name should fall back, got %q", got)
	}
}

package render

// iconGlyphs maps the symbolic icon names a project may carry to display
// glyphs. The set is closed; anything else falls back to the default.
var iconGlyphs = map[string]string{
	"Sparkles":  "✦",
	"Code":      "⌘",
	"Terminal":  "❯",
	"Globe":     "◍",
	"Rocket":    "▲",
	"Database":  "⛁",
	"Cpu":       "▣",
	"BookOpen":  "❐",
	"Palette":   "◐",
	"Wrench":    "⚙",
	"Camera":    "◉",
	"Music":     "♪",
	"Zap":       "⚡",
	"Heart":     "♥",
	"Star":      "★",
	"Cloud":     "☁",
	"Lock":      "⚿",
	"Layers":    "≡",
	"GitBranch": "⎇",
	"Puzzle":    "◳",
}

const fallbackGlyph = "✦"

// IconGlyph resolves an icon name to a glyph. Unknown names get the
// fallback; resolution never fails.
func IconGlyph(name string) string {
	if glyph, ok := iconGlyphs[name]; ok {
		return glyph
	}
	return fallbackGlyph
}

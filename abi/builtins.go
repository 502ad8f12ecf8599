package abi

// Shortcut is one zero-namespace built-in call the parser produces as a
// plain CallExpr and the generator desugars per spec §4.4.6. This table
// is the single source of truth for which bare names are shortcuts and
// which namespace they conceptually belong to; the generator still
// special-cases each one's exact lowering (arg-count dependent clear,
// the print/StringInterp split, etc.) rather than driving purely off
// this table, because several shortcuts don't map onto one ABI call.
type Shortcut struct {
	Name        string
	Namespace   string
	Description string
}

var Shortcuts = []Shortcut{
	{"print", "Screen", "Print text, or interpolated text with .at(x,y) placement"},
	{"clear", "Screen", "Clear the screen with a packed color or r,g,b"},
	{"rect", "Screen", "Create a rectangle game object"},
	{"circle", "Screen", "Create a circle game object"},
	{"random", "Math", "Generate a random number in [lo, hi)"},
	{"key", "Input", "Check whether a named key is currently pressed"},
	{"play", "Sound", "Play a named sound effect"},
	{"point", "Screen", "Pack (x, y) into a position value, from tuple syntax"},
	{"color", "Screen", "Pack (r, g, b) into a color value, from tuple syntax"},
}

// IsShortcut reports whether name (already lowercased) is a recognized
// built-in shortcut.
func IsShortcut(name string) bool {
	for _, s := range Shortcuts {
		if s.Name == name {
			return true
		}
	}
	return false
}

// NamedColors maps the language's named color constants (spec §4.4.6) to
// their packed (r<<16)|(g<<8)|b integer value.
var NamedColors = map[string]int64{
	"black":  pack(0, 0, 0),
	"white":  pack(255, 255, 255),
	"red":    pack(220, 40, 40),
	"green":  pack(40, 180, 70),
	"blue":   pack(50, 90, 220),
	"yellow": pack(240, 220, 40),
	"orange": pack(240, 140, 30),
	"purple": pack(140, 60, 200),
	"pink":   pack(240, 140, 190),
	"cyan":   pack(40, 200, 220),
	"gray":   pack(128, 128, 128),
	"grey":   pack(128, 128, 128),
	"brown":  pack(110, 70, 40),
}

func pack(r, g, b int64) int64 {
	return (r << 16) | (g << 8) | b
}

// IsNamedColor reports whether name (already lowercased) is a reserved
// color constant.
func IsNamedColor(name string) bool {
	_, ok := NamedColors[name]
	return ok
}

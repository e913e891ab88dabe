package domain

import "strings"

// Color is one of the palette keys a streak can be drawn with.
type Color string

const (
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorAmber   Color = "amber"
	ColorYellow  Color = "yellow"
	ColorLime    Color = "lime"
	ColorGreen   Color = "green"
	ColorEmerald Color = "emerald"
	ColorTeal    Color = "teal"
	ColorCyan    Color = "cyan"
	ColorSky     Color = "sky"
	ColorBlue    Color = "blue"
	ColorIndigo  Color = "indigo"
	ColorViolet  Color = "violet"
	ColorPurple  Color = "purple"
	ColorFuchsia Color = "fuchsia"
	ColorPink    Color = "pink"
	ColorRose    Color = "rose"
	ColorSlate   Color = "slate"
	ColorGray    Color = "gray"
	ColorZinc    Color = "zinc"
	ColorNeutral Color = "neutral"
	ColorStone   Color = "stone"

	// FallbackColor is used for any value outside the palette.
	FallbackColor = ColorGray

	EmptyBlockClass = "bg-muted/40"
)

// ColorStyle holds the style tokens for each intensity level of a color.
type ColorStyle struct {
	Empty  string `json:"empty"`
	Light  string `json:"light"`
	Medium string `json:"medium"`
	Bright string `json:"bright"`
	Glow   string `json:"glow"`
}

type paletteEntry struct {
	displayName string
	shade       string // empty/light shade prefix: 950 for chromatic colors, 900 for grays
	lightShade  string
	glowRGBA    string
}

var palette = map[Color]paletteEntry{
	ColorRed:     {"Crimson", "950", "800", "248,113,113"},
	ColorOrange:  {"Sunset", "950", "800", "251,146,60"},
	ColorAmber:   {"Gold", "950", "800", "251,191,36"},
	ColorYellow:  {"Lemon", "950", "800", "250,204,21"},
	ColorLime:    {"Lime", "950", "800", "163,230,53"},
	ColorGreen:   {"Forest", "950", "800", "74,222,128"},
	ColorEmerald: {"Emerald", "950", "800", "52,211,153"},
	ColorTeal:    {"Teal", "950", "800", "45,212,191"},
	ColorCyan:    {"Cyan", "950", "800", "34,211,238"},
	ColorSky:     {"Sky", "950", "800", "56,189,248"},
	ColorBlue:    {"Ocean", "950", "800", "96,165,250"},
	ColorIndigo:  {"Indigo", "950", "800", "129,140,248"},
	ColorViolet:  {"Violet", "950", "800", "167,139,250"},
	ColorPurple:  {"Grape", "950", "800", "192,132,252"},
	ColorFuchsia: {"Fuchsia", "950", "800", "232,121,249"},
	ColorPink:    {"Rose", "950", "800", "244,114,182"},
	ColorRose:    {"Blush", "950", "800", "251,113,133"},
	ColorSlate:   {"", "900", "700", "148,163,184"},
	ColorGray:    {"", "900", "700", "156,163,175"},
	ColorZinc:    {"", "900", "700", "161,161,170"},
	ColorNeutral: {"", "900", "700", "163,163,163"},
	ColorStone:   {"", "900", "700", "168,162,158"},
}

// Colors lists the palette in display order.
var Colors = []Color{
	ColorRed, ColorOrange, ColorAmber, ColorYellow, ColorLime, ColorGreen,
	ColorEmerald, ColorTeal, ColorCyan, ColorSky, ColorBlue, ColorIndigo,
	ColorViolet, ColorPurple, ColorFuchsia, ColorPink, ColorRose,
	ColorSlate, ColorGray, ColorZinc, ColorNeutral, ColorStone,
}

func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

func (c Color) Valid() bool {
	_, ok := palette[c]
	return ok
}

func (c Color) Style() ColorStyle {
	entry, ok := palette[c]
	if !ok {
		c = FallbackColor
		entry = palette[c]
	}
	name := string(c)
	return ColorStyle{
		Empty:  "bg-" + name + "-" + entry.shade + "/30",
		Light:  "bg-" + name + "-" + entry.lightShade + "/60",
		Medium: "bg-" + name + "-600",
		Bright: "bg-" + name + "-500",
		Glow:   "bg-" + name + "-400 shadow-[0_0_12px_rgba(" + entry.glowRGBA + ",0.5)]",
	}
}

func (c Color) DisplayName() string {
	entry, ok := palette[c]
	if ok && entry.displayName != "" {
		return entry.displayName
	}
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// BlockClass returns the style token for a single grid block.
func BlockClass(c Color, completed bool) string {
	if !completed {
		return EmptyBlockClass
	}
	return c.Style().Bright
}

// Package styles defines the closed set of style properties understood by the
// document model together with their value types. The registry answers, for
// every property, whether it is inherited, whether it can be animated, what
// its initial value is and whether a candidate value is well formed. It is
// pure data - no I/O, no logging.
package styles

import (
	"fmt"
	"strings"
)

// Value is the closed union of everything a style property can hold. Only
// types declared in this package implement it.
type Value interface {
	isValue()
	String() string
}

// Unit is a length measurement unit.
type Unit int

const (
	UnitEm Unit = iota
	UnitCell
	UnitPercent
	UnitPixel
	UnitRootHeight
	UnitRootWidth
)

func (u Unit) String() string {
	switch u {
	case UnitEm:
		return "em"
	case UnitCell:
		return "c"
	case UnitPercent:
		return "%"
	case UnitPixel:
		return "px"
	case UnitRootHeight:
		return "rh"
	case UnitRootWidth:
		return "rw"
	}
	return "?"
}

// Length is a one dimensional measure.
type Length struct {
	Value float64
	Units Unit
}

func (Length) isValue() {}

func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Units)
}

// Color is a 4-channel color with an optional colorimetry system tag. An
// empty Colorimetry means sRGB.
type Color struct {
	R, G, B, A  uint8
	Colorimetry string
}

func (Color) isValue() {}

func (c Color) String() string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	ColorTransparent = Color{0x00, 0x00, 0x00, 0x00, ""}
	ColorBlack       = Color{0x00, 0x00, 0x00, 0xff, ""}
	ColorWhite       = Color{0xff, 0xff, 0xff, 0xff, ""}
	ColorRed         = Color{0xff, 0x00, 0x00, 0xff, ""}
	ColorGreen       = Color{0x00, 0xff, 0x00, 0xff, ""}
	ColorBlue        = Color{0x00, 0x00, 0xff, 0xff, ""}
	ColorYellow      = Color{0xff, 0xff, 0x00, 0xff, ""}
	ColorMagenta     = Color{0xff, 0x00, 0xff, 0xff, ""}
	ColorCyan        = Color{0x00, 0xff, 0xff, 0xff, ""}
)

// NamedColor maps well known color names to values. Returns false for
// unrecognized names.
func NamedColor(name string) (Color, bool) {
	switch strings.ToLower(name) {
	case "transparent":
		return ColorTransparent, true
	case "black":
		return ColorBlack, true
	case "white":
		return ColorWhite, true
	case "red":
		return ColorRed, true
	case "lime", "green":
		return ColorGreen, true
	case "blue":
		return ColorBlue, true
	case "yellow":
		return ColorYellow, true
	case "magenta":
		return ColorMagenta, true
	case "cyan":
		return ColorCyan, true
	}
	return Color{}, false
}

// Extent is a width/height pair.
type Extent struct {
	Width  Length
	Height Length
}

func (Extent) isValue() {}

func (e Extent) String() string {
	return e.Width.String() + " " + e.Height.String()
}

// Coordinate is an x/y pair, used for region origin.
type Coordinate struct {
	X Length
	Y Length
}

func (Coordinate) isValue() {}

func (c Coordinate) String() string {
	return c.X.String() + " " + c.Y.String()
}

// Position is a pair of offsets from the top-left corner of the root area.
type Position struct {
	HOffset Length
	VOffset Length
}

func (Position) isValue() {}

func (p Position) String() string {
	return p.HOffset.String() + " " + p.VOffset.String()
}

// Padding holds per-side padding in writing-mode relative order.
type Padding struct {
	Before Length
	End    Length
	After  Length
	Start  Length
}

func (Padding) isValue() {}

func (p Padding) String() string {
	return fmt.Sprintf("%s %s %s %s", p.Before, p.End, p.After, p.Start)
}

// FontFamilies is an ordered list of font family names.
type FontFamilies []string

func (FontFamilies) isValue() {}

func (f FontFamilies) String() string {
	return strings.Join(f, ", ")
}

// TextDecoration is a set of line decoration toggles. The zero value means
// no decoration.
type TextDecoration struct {
	Underline   bool
	Overline    bool
	LineThrough bool
}

func (TextDecoration) isValue() {}

func (t TextDecoration) String() string {
	var parts []string
	if t.Underline {
		parts = append(parts, "underline")
	}
	if t.Overline {
		parts = append(parts, "overline")
	}
	if t.LineThrough {
		parts = append(parts, "lineThrough")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// TextOutline is an outline drawn around glyphs.
type TextOutline struct {
	Color     Color
	Thickness Length
}

func (TextOutline) isValue() {}

func (t TextOutline) String() string {
	return t.Color.String() + " " + t.Thickness.String()
}

// Scalar is a plain number, used for opacity.
type Scalar float64

func (Scalar) isValue() {}

func (s Scalar) String() string {
	return fmt.Sprintf("%g", float64(s))
}

// Boolean is a true/false property value.
type Boolean bool

func (Boolean) isValue() {}

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Keyword is an enumerated property value, including the "none"/"normal"/
// "auto" sentinels. Validation restricts each property to its own set.
type Keyword string

func (Keyword) isValue() {}

func (k Keyword) String() string {
	return string(k)
}

const (
	KeywordNone   Keyword = "none"
	KeywordNormal Keyword = "normal"
	KeywordAuto   Keyword = "auto"
)

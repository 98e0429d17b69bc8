package ttml

import (
	"fmt"
	"strconv"
	"strings"

	"ttc/model/styles"
)

// ParseStyleAttribute interprets a tts:* attribute. The returned value is
// already validated against the property registry.
func ParseStyleAttribute(name, raw string) (styles.Property, styles.Value, error) {
	prop, ok := styles.ByName(name)
	if !ok {
		return 0, nil, fmt.Errorf("unknown style attribute %q", name)
	}
	raw = strings.TrimSpace(raw)

	var (
		val styles.Value
		err error
	)
	switch prop {
	case styles.PropBackgroundColor, styles.PropColor:
		val, err = parseColor(raw)
	case styles.PropExtent:
		val, err = parsePair(raw, func(w, h styles.Length) styles.Value {
			return styles.Extent{Width: w, Height: h}
		})
	case styles.PropOrigin:
		val, err = parsePair(raw, func(x, y styles.Length) styles.Value {
			return styles.Coordinate{X: x, Y: y}
		})
	case styles.PropPosition:
		val, err = parsePosition(raw)
	case styles.PropFontFamily:
		val = parseFontFamilies(raw)
	case styles.PropFontSize, styles.PropLineHeight, styles.PropLinePadding:
		val, err = parseKeywordOrLength(raw)
	case styles.PropOpacity:
		f, perr := strconv.ParseFloat(raw, 64)
		val, err = styles.Scalar(f), perr
	case styles.PropPadding:
		val, err = parsePadding(raw)
	case styles.PropTextDecoration:
		val, err = parseTextDecoration(raw)
	case styles.PropTextOutline:
		val, err = parseTextOutline(raw)
	case styles.PropFillLineGap:
		b, perr := strconv.ParseBool(raw)
		val, err = styles.Boolean(b), perr
	default:
		val = styles.Keyword(raw)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("unable to parse %s value %q: %w", name, raw, err)
	}
	if !styles.Validate(prop, val) {
		return 0, nil, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return prop, val, nil
}

func parseColor(raw string) (styles.Value, error) {
	if c, ok := styles.NamedColor(raw); ok {
		return c, nil
	}
	if strings.HasPrefix(raw, "#") {
		hex := raw[1:]
		var r, g, b, a uint64
		var err error
		switch len(hex) {
		case 6:
			r, g, b, a, err = parseHexChannels(hex, false)
		case 8:
			r, g, b, a, err = parseHexChannels(hex, true)
		default:
			err = fmt.Errorf("hex color must have 6 or 8 digits")
		}
		if err != nil {
			return nil, err
		}
		return styles.Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
	}
	if fn, args, ok := parseFunction(raw); ok {
		switch fn {
		case "rgb":
			if len(args) != 3 {
				return nil, fmt.Errorf("rgb() wants 3 arguments")
			}
			ch, err := parseByteArgs(args)
			if err != nil {
				return nil, err
			}
			return styles.Color{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
		case "rgba":
			if len(args) != 4 {
				return nil, fmt.Errorf("rgba() wants 4 arguments")
			}
			ch, err := parseByteArgs(args)
			if err != nil {
				return nil, err
			}
			return styles.Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized color")
}

func parseHexChannels(hex string, hasAlpha bool) (r, g, b, a uint64, err error) {
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return
	}
	if hasAlpha {
		return v >> 24 & 0xff, v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff, nil
	}
	return v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff, 0xff, nil
}

func parseFunction(raw string) (name string, args []string, ok bool) {
	open := strings.IndexByte(raw, '(')
	if open < 0 || !strings.HasSuffix(raw, ")") {
		return "", nil, false
	}
	name = strings.ToLower(strings.TrimSpace(raw[:open]))
	for _, a := range strings.Split(raw[open+1:len(raw)-1], ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}

func parseByteArgs(args []string) ([]uint8, error) {
	out := make([]uint8, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("bad channel %q: %w", a, err)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

var lengthUnits = []struct {
	suffix string
	unit   styles.Unit
}{
	// longest suffixes first so "px" is not read as "x" after "p"
	{"px", styles.UnitPixel},
	{"em", styles.UnitEm},
	{"rh", styles.UnitRootHeight},
	{"rw", styles.UnitRootWidth},
	{"%", styles.UnitPercent},
	{"c", styles.UnitCell},
}

func parseLength(raw string) (styles.Length, error) {
	for _, lu := range lengthUnits {
		if num, ok := strings.CutSuffix(raw, lu.suffix); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return styles.Length{}, fmt.Errorf("bad length %q: %w", raw, err)
			}
			return styles.Length{Value: v, Units: lu.unit}, nil
		}
	}
	return styles.Length{}, fmt.Errorf("length %q has no recognized unit", raw)
}

func parseKeywordOrLength(raw string) (styles.Value, error) {
	switch styles.Keyword(raw) {
	case styles.KeywordNormal, styles.KeywordAuto, styles.KeywordNone:
		return styles.Keyword(raw), nil
	}
	return parseLength(raw)
}

func parsePair(raw string, mk func(a, b styles.Length) styles.Value) (styles.Value, error) {
	if raw == string(styles.KeywordAuto) {
		return styles.KeywordAuto, nil
	}
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return nil, fmt.Errorf("want two lengths")
	}
	a, err := parseLength(fields[0])
	if err != nil {
		return nil, err
	}
	b, err := parseLength(fields[1])
	if err != nil {
		return nil, err
	}
	return mk(a, b), nil
}

// parsePosition accepts the common "<h> <v>" two-length form of tts:position.
// Keyword based forms (center, bottom ...) are mapped onto percentages.
func parsePosition(raw string) (styles.Value, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return nil, fmt.Errorf("want two components")
	}
	h, err := positionComponent(fields[0], map[string]float64{"left": 0, "center": 50, "right": 100})
	if err != nil {
		return nil, err
	}
	v, err := positionComponent(fields[1], map[string]float64{"top": 0, "center": 50, "bottom": 100})
	if err != nil {
		return nil, err
	}
	return styles.Position{HOffset: h, VOffset: v}, nil
}

func positionComponent(raw string, keywords map[string]float64) (styles.Length, error) {
	if pct, ok := keywords[raw]; ok {
		return styles.Length{Value: pct, Units: styles.UnitPercent}, nil
	}
	return parseLength(raw)
}

func parseFontFamilies(raw string) styles.FontFamilies {
	var out styles.FontFamilies
	for _, f := range strings.Split(raw, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parsePadding(raw string) (styles.Value, error) {
	fields := strings.Fields(raw)
	ls := make([]styles.Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return nil, err
		}
		ls[i] = l
	}
	// 1-4 value shorthand, writing-mode relative like CSS box shorthand
	switch len(ls) {
	case 1:
		return styles.Padding{Before: ls[0], End: ls[0], After: ls[0], Start: ls[0]}, nil
	case 2:
		return styles.Padding{Before: ls[0], End: ls[1], After: ls[0], Start: ls[1]}, nil
	case 3:
		return styles.Padding{Before: ls[0], End: ls[1], After: ls[2], Start: ls[1]}, nil
	case 4:
		return styles.Padding{Before: ls[0], End: ls[1], After: ls[2], Start: ls[3]}, nil
	}
	return nil, fmt.Errorf("want 1 to 4 lengths")
}

func parseTextDecoration(raw string) (styles.Value, error) {
	var td styles.TextDecoration
	for _, tok := range strings.Fields(raw) {
		switch tok {
		case "none":
			return styles.TextDecoration{}, nil
		case "underline":
			td.Underline = true
		case "overline":
			td.Overline = true
		case "lineThrough":
			td.LineThrough = true
		case "noUnderline", "noOverline", "noLineThrough":
			// explicit negations of the initial state are no-ops
		default:
			return nil, fmt.Errorf("unknown decoration %q", tok)
		}
	}
	return td, nil
}

func parseTextOutline(raw string) (styles.Value, error) {
	if raw == string(styles.KeywordNone) {
		return styles.KeywordNone, nil
	}
	fields := strings.Fields(raw)
	switch len(fields) {
	case 1:
		th, err := parseLength(fields[0])
		if err != nil {
			return nil, err
		}
		return styles.TextOutline{Color: styles.ColorBlack, Thickness: th}, nil
	case 2:
		cv, err := parseColor(fields[0])
		if err != nil {
			return nil, err
		}
		th, err := parseLength(fields[1])
		if err != nil {
			return nil, err
		}
		return styles.TextOutline{Color: cv.(styles.Color), Thickness: th}, nil
	}
	return nil, fmt.Errorf("want [color] thickness")
}

// formatStyleValue renders a value back into its tts attribute form. The
// String methods of the value types already produce attribute syntax.
func formatStyleValue(v styles.Value) string {
	return v.String()
}

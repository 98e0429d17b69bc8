package styles

// Property identifies one style property from the closed registry.
type Property int

const (
	PropBackgroundColor Property = iota
	PropColor
	PropDirection
	PropDisplay
	PropDisplayAlign
	PropExtent
	PropFillLineGap
	PropFontFamily
	PropFontSize
	PropFontStyle
	PropFontWeight
	PropLineHeight
	PropLinePadding
	PropMultiRowAlign
	PropOpacity
	PropOrigin
	PropOverflow
	PropPadding
	PropPosition
	PropRubyAlign
	PropRubyPosition
	PropShowBackground
	PropTextAlign
	PropTextDecoration
	PropTextOutline
	PropUnicodeBidi
	PropVisibility
	PropWrapOption
	PropWritingMode

	numProperties // keep last
)

type propertySpec struct {
	name       string
	inherited  bool
	animatable bool
	initial    Value
	keywords   []Keyword // allowed values when Keyword is acceptable
	validate   func(Value) bool
}

// The registry proper. Initial values follow TTML/IMSC initial value
// definitions; keyword sets are the per-property allowed enumerations.
var registry = [numProperties]propertySpec{
	PropBackgroundColor: {
		name: "backgroundColor", animatable: true,
		initial: ColorTransparent, validate: isColor,
	},
	PropColor: {
		name: "color", inherited: true, animatable: true,
		initial: ColorWhite, validate: isColor,
	},
	PropDirection: {
		name: "direction", inherited: true,
		initial:  Keyword("ltr"),
		keywords: []Keyword{"ltr", "rtl"},
	},
	PropDisplay: {
		name: "display", animatable: true,
		initial:  KeywordAuto,
		keywords: []Keyword{KeywordAuto, KeywordNone},
	},
	PropDisplayAlign: {
		name: "displayAlign", animatable: true,
		initial:  Keyword("before"),
		keywords: []Keyword{"before", "center", "after", "justify"},
	},
	PropExtent: {
		name: "extent", animatable: true,
		initial:  KeywordAuto,
		keywords: []Keyword{KeywordAuto},
		validate: func(v Value) bool {
			e, ok := v.(Extent)
			return ok && e.Width.Value >= 0 && e.Height.Value >= 0
		},
	},
	PropFillLineGap: {
		name: "fillLineGap", inherited: true,
		initial:  Boolean(false),
		validate: func(v Value) bool { _, ok := v.(Boolean); return ok },
	},
	PropFontFamily: {
		name: "fontFamily", inherited: true,
		initial: FontFamilies{"default"},
		validate: func(v Value) bool {
			f, ok := v.(FontFamilies)
			return ok && len(f) > 0
		},
	},
	PropFontSize: {
		name: "fontSize", inherited: true, animatable: true,
		initial:  Length{1, UnitCell},
		validate: isNonNegativeLength,
	},
	PropFontStyle: {
		name: "fontStyle", inherited: true,
		initial:  KeywordNormal,
		keywords: []Keyword{KeywordNormal, "italic", "oblique"},
	},
	PropFontWeight: {
		name: "fontWeight", inherited: true,
		initial:  KeywordNormal,
		keywords: []Keyword{KeywordNormal, "bold"},
	},
	PropLineHeight: {
		name: "lineHeight", inherited: true, animatable: true,
		initial:  KeywordNormal,
		keywords: []Keyword{KeywordNormal},
		validate: isNonNegativeLength,
	},
	PropLinePadding: {
		name: "linePadding", inherited: true,
		initial:  Length{0, UnitCell},
		validate: isNonNegativeLength,
	},
	PropMultiRowAlign: {
		name: "multiRowAlign", inherited: true,
		initial:  KeywordAuto,
		keywords: []Keyword{KeywordAuto, "start", "center", "end"},
	},
	PropOpacity: {
		name: "opacity", animatable: true,
		initial: Scalar(1),
		validate: func(v Value) bool {
			s, ok := v.(Scalar)
			return ok && s >= 0 && s <= 1
		},
	},
	PropOrigin: {
		name: "origin", animatable: true,
		initial:  KeywordAuto,
		keywords: []Keyword{KeywordAuto},
		validate: func(v Value) bool { _, ok := v.(Coordinate); return ok },
	},
	PropOverflow: {
		name: "overflow",
		initial:  Keyword("visible"),
		keywords: []Keyword{"visible", "hidden"},
	},
	PropPadding: {
		name: "padding", animatable: true,
		initial: Padding{},
		validate: func(v Value) bool {
			p, ok := v.(Padding)
			return ok && p.Before.Value >= 0 && p.End.Value >= 0 && p.After.Value >= 0 && p.Start.Value >= 0
		},
	},
	PropPosition: {
		name: "position", animatable: true,
		initial:  Position{Length{0, UnitPercent}, Length{0, UnitPercent}},
		validate: func(v Value) bool { _, ok := v.(Position); return ok },
	},
	PropRubyAlign: {
		name: "rubyAlign", inherited: true,
		initial:  Keyword("center"),
		keywords: []Keyword{"center", "spaceAround"},
	},
	PropRubyPosition: {
		name: "rubyPosition", inherited: true,
		initial:  Keyword("outside"),
		keywords: []Keyword{"before", "after", "outside"},
	},
	PropShowBackground: {
		name: "showBackground",
		initial:  Keyword("always"),
		keywords: []Keyword{"always", "whenActive"},
	},
	PropTextAlign: {
		name: "textAlign", inherited: true,
		initial:  Keyword("start"),
		keywords: []Keyword{"left", "center", "right", "start", "end", "justify"},
	},
	PropTextDecoration: {
		name: "textDecoration", inherited: true,
		initial:  TextDecoration{},
		validate: func(v Value) bool { _, ok := v.(TextDecoration); return ok },
	},
	PropTextOutline: {
		name: "textOutline", inherited: true,
		initial:  KeywordNone,
		keywords: []Keyword{KeywordNone},
		validate: func(v Value) bool {
			o, ok := v.(TextOutline)
			return ok && o.Thickness.Value >= 0
		},
	},
	PropUnicodeBidi: {
		name: "unicodeBidi",
		initial:  KeywordNormal,
		keywords: []Keyword{KeywordNormal, "embed", "bidiOverride"},
	},
	PropVisibility: {
		name: "visibility", inherited: true, animatable: true,
		initial:  Keyword("visible"),
		keywords: []Keyword{"visible", "hidden"},
	},
	PropWrapOption: {
		name: "wrapOption", inherited: true,
		initial:  Keyword("wrap"),
		keywords: []Keyword{"wrap", "noWrap"},
	},
	PropWritingMode: {
		name: "writingMode",
		initial:  Keyword("lrtb"),
		keywords: []Keyword{"lrtb", "rltb", "tblr", "tbrl"},
	},
}

func isColor(v Value) bool {
	_, ok := v.(Color)
	return ok
}

func isNonNegativeLength(v Value) bool {
	l, ok := v.(Length)
	return ok && l.Value >= 0
}

// Properties returns every property in the registry, in stable order.
func Properties() []Property {
	out := make([]Property, 0, numProperties)
	for p := Property(0); p < numProperties; p++ {
		out = append(out, p)
	}
	return out
}

func (p Property) valid() bool {
	return p >= 0 && p < numProperties
}

// String returns the canonical property name.
func (p Property) String() string {
	if !p.valid() {
		return "unknown"
	}
	return registry[p].name
}

// ByName resolves a canonical property name back to a Property.
func ByName(name string) (Property, bool) {
	for p := Property(0); p < numProperties; p++ {
		if registry[p].name == name {
			return p, true
		}
	}
	return 0, false
}

// IsInherited reports whether values of the property propagate from parent
// to child during resolution.
func IsInherited(p Property) bool {
	return p.valid() && registry[p].inherited
}

// IsAnimatable reports whether the property may be the target of discrete
// animation steps.
func IsAnimatable(p Property) bool {
	return p.valid() && registry[p].animatable
}

// Initial returns the specification-defined initial value of the property.
func Initial(p Property) Value {
	if !p.valid() {
		return nil
	}
	return registry[p].initial
}

// Validate reports whether the value is well formed for the property.
// Unknown properties never validate.
func Validate(p Property, v Value) bool {
	if !p.valid() || v == nil {
		return false
	}
	spec := registry[p]
	if k, ok := v.(Keyword); ok {
		for _, allowed := range spec.keywords {
			if k == allowed {
				return true
			}
		}
		return false
	}
	if spec.validate != nil {
		return spec.validate(v)
	}
	return false
}

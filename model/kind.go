package model

import "ttc/model/styles"

// Kind is the closed set of content node kinds. The Document itself is not
// an element; it owns the body and the region registry.
type Kind int

const (
	KindBody Kind = iota
	KindDiv
	KindP
	KindSpan
	KindBr
	KindText
	KindRuby
	KindRb
	KindRt
	KindRp
	KindRbc
	KindRtc
	KindRegion

	numKinds // keep last
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindDiv:
		return "div"
	case KindP:
		return "p"
	case KindSpan:
		return "span"
	case KindBr:
		return "br"
	case KindText:
		return "text"
	case KindRuby:
		return "ruby"
	case KindRb:
		return "rb"
	case KindRt:
		return "rt"
	case KindRp:
		return "rp"
	case KindRbc:
		return "rbc"
	case KindRtc:
		return "rtc"
	case KindRegion:
		return "region"
	}
	return "unknown"
}

type kindMask uint16

func mask(kinds ...Kind) kindMask {
	var m kindMask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

func (m kindMask) has(k Kind) bool {
	return m&(1<<k) != 0
}

var (
	maskRegion     = mask(KindRegion)
	maskSpanLike   = mask(KindSpan, KindRuby, KindRb, KindRt, KindRp, KindRbc, KindRtc)
	maskContent    = mask(KindBody, KindDiv, KindP, KindSpan, KindBr, KindRuby, KindRb, KindRt, KindRp, KindRbc, KindRtc)
	maskBackground = mask(KindRegion, KindBody, KindDiv, KindP, KindSpan, KindRuby, KindRb, KindRt, KindRp, KindRbc, KindRtc)
)

// applicability lists, per property, the node kinds the property has any
// effect on. Properties may be *stored* on other kinds, but resolution
// strips them there.
var applicability = map[styles.Property]kindMask{
	styles.PropBackgroundColor: maskBackground,
	styles.PropColor:           maskSpanLike,
	styles.PropDirection:       mask(KindP) | maskSpanLike,
	styles.PropDisplay:         maskContent | maskRegion,
	styles.PropDisplayAlign:    maskRegion,
	styles.PropExtent:          maskRegion,
	styles.PropFillLineGap:     mask(KindP),
	styles.PropFontFamily:      mask(KindP) | maskSpanLike,
	styles.PropFontSize:        mask(KindP) | maskSpanLike,
	styles.PropFontStyle:       mask(KindP) | maskSpanLike,
	styles.PropFontWeight:      mask(KindP) | maskSpanLike,
	styles.PropLineHeight:      mask(KindP),
	styles.PropLinePadding:     mask(KindP),
	styles.PropMultiRowAlign:   mask(KindP),
	styles.PropOpacity:         maskRegion,
	styles.PropOrigin:          maskRegion,
	styles.PropOverflow:        maskRegion,
	styles.PropPadding:         maskRegion,
	styles.PropPosition:        maskRegion,
	styles.PropRubyAlign:       mask(KindRuby, KindRtc),
	styles.PropRubyPosition:    mask(KindRt, KindRtc),
	styles.PropShowBackground:  maskRegion,
	styles.PropTextAlign:       mask(KindP),
	styles.PropTextDecoration:  maskSpanLike,
	styles.PropTextOutline:     maskSpanLike,
	styles.PropUnicodeBidi:     mask(KindP) | maskSpanLike,
	styles.PropVisibility:      maskContent | maskRegion,
	styles.PropWrapOption:      maskSpanLike,
	styles.PropWritingMode:     maskRegion,
}

// Applies reports whether the style property has any effect on nodes of
// kind k.
func Applies(p styles.Property, k Kind) bool {
	return applicability[p].has(k)
}

// childGrammar is the structural grammar enforced on insertion: for each
// parent kind the set of child kinds it accepts. Ruby and Rtc are absent
// on purpose - their children are validated as a complete sequence, see
// Element.SetChildren.
var childGrammar = map[Kind]kindMask{
	KindBody: mask(KindDiv),
	KindDiv:  mask(KindDiv, KindP),
	KindP:    mask(KindSpan, KindBr, KindRuby),
	KindSpan: mask(KindSpan, KindBr, KindText),
	KindRb:   mask(KindSpan),
	KindRt:   mask(KindSpan),
	KindRp:   mask(KindSpan),
	KindRbc:  mask(KindRb),
}

package ttml

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"ttc/model"
)

const (
	nsTT  = "http://www.w3.org/ns/ttml"
	nsTTS = "http://www.w3.org/ns/ttml#styling"
	nsTTP = "http://www.w3.org/ns/ttml#parameter"
	nsITT = "http://www.w3.org/ns/ttml/profile/imsc1#parameter"
)

// Write serializes the document model as TTML. Styles are written inline on
// the elements that specify them - named style indirection is a reader-side
// convenience the model deliberately flattens away.
func Write(w io.Writer, doc *model.Document) error {
	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	tt := xml.CreateElement("tt")
	tt.CreateAttr("xmlns", nsTT)
	tt.CreateAttr("xmlns:tts", nsTTS)
	tt.CreateAttr("xmlns:ttp", nsTTP)
	if lang := doc.Lang(); lang != "" {
		tt.CreateAttr("xml:lang", lang)
	}
	if cr := doc.CellResolution(); cr != (model.CellResolution{Rows: 15, Columns: 32}) {
		tt.CreateAttr("ttp:cellResolution", fmt.Sprintf("%d %d", cr.Columns, cr.Rows))
	}
	if pr, ok := doc.PixelResolution(); ok {
		tt.CreateAttr("tts:extent", fmt.Sprintf("%dpx %dpx", pr.Width, pr.Height))
	}
	if aa, ok := doc.ActiveArea(); ok {
		tt.CreateAttr("xmlns:ittp", nsITT)
		tt.CreateAttr("ittp:activeArea", fmt.Sprintf("%g%% %g%% %g%% %g%%",
			aa.LeftOffset*100, aa.TopOffset*100, aa.Width*100, aa.Height*100))
	}

	head := tt.CreateElement("head")
	writeStyling(head, doc)
	writeLayout(head, doc)

	if body := doc.Body(); body != nil {
		writeContent(tt, body)
	}

	xml.Indent(2)
	if _, err := xml.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write ttml: %w", err)
	}
	return nil
}

func writeStyling(head *etree.Element, doc *model.Document) {
	overrides := doc.InitialValueOverrides()
	if len(overrides) == 0 {
		return
	}
	styling := head.CreateElement("styling")
	initial := styling.CreateElement("initial")
	for _, p := range overrides {
		initial.CreateAttr("tts:"+p.String(), formatStyleValue(doc.InitialValue(p)))
	}
}

func writeLayout(head *etree.Element, doc *model.Document) {
	regions := doc.Regions()
	if len(regions) == 0 {
		return
	}
	layout := head.CreateElement("layout")
	for _, r := range regions {
		el := layout.CreateElement("region")
		el.CreateAttr("xml:id", r.ID())
		writeStyles(el, r)
		writeTiming(el, r)
		writeAnimations(el, r)
	}
}

func writeContent(parent *etree.Element, e *model.Element) {
	if e.Kind() == model.KindText {
		parent.CreateText(e.Text())
		return
	}

	el := parent.CreateElement(contentTag(e.Kind()))
	if ruby := rubyRole(e.Kind()); ruby != "" {
		el.CreateAttr("tts:ruby", ruby)
	}
	if id := e.ID(); id != "" {
		el.CreateAttr("xml:id", id)
	}
	if lang := e.Lang(); lang != "" && (e.Parent() == nil || e.Parent().Lang() != lang) {
		el.CreateAttr("xml:lang", lang)
	}
	if e.Space() == model.WhiteSpacePreserve && (e.Parent() == nil || e.Parent().Space() != model.WhiteSpacePreserve) {
		el.CreateAttr("xml:space", "preserve")
	}
	if r := e.Region(); r != nil {
		el.CreateAttr("region", r.ID())
	}
	writeStyles(el, e)
	writeTiming(el, e)
	writeAnimations(el, e)

	for _, c := range e.Children() {
		writeContent(el, c)
	}
}

// contentTag maps node kinds to TTML element names. Ruby kinds are spans
// distinguished by the tts:ruby attribute, per TTML2.
func contentTag(k model.Kind) string {
	switch k {
	case model.KindBody:
		return "body"
	case model.KindDiv:
		return "div"
	case model.KindP:
		return "p"
	case model.KindBr:
		return "br"
	default:
		return "span"
	}
}

func rubyRole(k model.Kind) string {
	switch k {
	case model.KindRuby:
		return "container"
	case model.KindRb:
		return "base"
	case model.KindRt:
		return "text"
	case model.KindRp:
		return "delimiter"
	case model.KindRbc:
		return "baseContainer"
	case model.KindRtc:
		return "textContainer"
	}
	return ""
}

func writeStyles(el *etree.Element, e *model.Element) {
	for _, p := range e.StyleProperties() {
		v, _ := e.Style(p)
		el.CreateAttr("tts:"+p.String(), formatStyleValue(v))
	}
}

func writeTiming(el *etree.Element, e *model.Element) {
	if b, ok := e.Begin(); ok {
		el.CreateAttr("begin", formatTime(b))
	}
	if end, ok := e.End(); ok {
		el.CreateAttr("end", formatTime(end))
	}
}

func writeAnimations(el *etree.Element, e *model.Element) {
	for _, s := range e.AnimationSteps() {
		set := el.CreateElement("set")
		if s.Begin != nil {
			set.CreateAttr("begin", formatTime(*s.Begin))
		}
		if s.End != nil {
			set.CreateAttr("end", formatTime(*s.End))
		}
		set.CreateAttr("tts:"+s.Property.String(), formatStyleValue(s.Value))
	}
}

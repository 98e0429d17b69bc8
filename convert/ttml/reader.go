// Package ttml reads and writes TTML (IMSC text profile) documents.
package ttml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"ttc/model"
	"ttc/model/styles"
)

type styleSet map[styles.Property]styles.Value

// mergeUnset copies src entries that dst does not have yet.
func (s styleSet) mergeUnset(src styleSet) {
	for p, v := range src {
		if _, ok := s[p]; !ok {
			s[p] = v
		}
	}
}

type namedStyle struct {
	refs []string
	set  styleSet
}

type parser struct {
	doc    *model.Document
	params timeParams
	named  map[string]*namedStyle
	flat   map[string]styleSet
	log    *zap.Logger
}

// Read parses a TTML document into the canonical model.
func Read(r io.Reader, log *zap.Logger) (*model.Document, error) {
	xml := etree.NewDocument()
	xml.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := xml.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse xml: %w", err)
	}

	root := xml.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "tt" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	p := &parser{
		doc:    model.NewDocument(),
		params: defaultTimeParams(),
		named:  make(map[string]*namedStyle),
		flat:   make(map[string]styleSet),
		log:    log,
	}
	if err := p.parseRoot(root); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// attr finds an attribute by local name, ignoring the namespace prefix.
// TTML prefixes (tts, ttp, ittp, xml) never collide on local names we use.
func attr(el *etree.Element, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Key == local {
			return a.Value, true
		}
	}
	return "", false
}

func (p *parser) parseRoot(root *etree.Element) error {
	if err := p.parseParameters(root); err != nil {
		return err
	}
	if lang, ok := attr(root, "lang"); ok {
		p.doc.SetLang(lang)
	}

	var body *etree.Element
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "head":
			if err := p.parseHead(child); err != nil {
				return err
			}
		case "body":
			body = child
		default:
			p.log.Warn("Unexpected tag in tt, ignoring", zap.String("tag", child.Tag))
		}
	}

	// head precedes body in document order, but be tolerant of the
	// reverse: content is parsed only after all regions are known.
	if body != nil {
		b, err := p.parseContent(body, nil)
		if err != nil {
			return fmt.Errorf("body: %w", err)
		}
		if b != nil {
			if err := p.doc.SetBody(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseParameters(root *etree.Element) error {
	if v, ok := attr(root, "frameRate"); ok {
		fr, err := strconv.ParseInt(v, 10, 64)
		if err != nil || fr <= 0 {
			return fmt.Errorf("bad frameRate %q", v)
		}
		p.params.frameRateNum, p.params.frameRateDen = fr, 1
		if m, ok := attr(root, "frameRateMultiplier"); ok {
			fields := strings.Fields(m)
			if len(fields) != 2 {
				return fmt.Errorf("bad frameRateMultiplier %q", m)
			}
			num, err1 := strconv.ParseInt(fields[0], 10, 64)
			den, err2 := strconv.ParseInt(fields[1], 10, 64)
			if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
				return fmt.Errorf("bad frameRateMultiplier %q", m)
			}
			p.params.frameRateNum *= num
			p.params.frameRateDen *= den
		}
	}
	if v, ok := attr(root, "tickRate"); ok {
		tr, err := strconv.ParseInt(v, 10, 64)
		if err != nil || tr <= 0 {
			return fmt.Errorf("bad tickRate %q", v)
		}
		p.params.tickRate = tr
	}
	if v, ok := attr(root, "cellResolution"); ok {
		fields := strings.Fields(v)
		if len(fields) != 2 {
			return fmt.Errorf("bad cellResolution %q", v)
		}
		cols, err1 := strconv.Atoi(fields[0])
		rows, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("bad cellResolution %q", v)
		}
		if err := p.doc.SetCellResolution(model.CellResolution{Rows: rows, Columns: cols}); err != nil {
			return err
		}
	}
	if v, ok := attr(root, "extent"); ok {
		if err := p.parseRootExtent(v); err != nil {
			return err
		}
	}
	if v, ok := attr(root, "activeArea"); ok {
		if err := p.parseActiveArea(v); err != nil {
			p.log.Warn("Ignoring malformed activeArea", zap.String("value", v), zap.Error(err))
		}
	}
	return nil
}

func (p *parser) parseRootExtent(raw string) error {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return fmt.Errorf("bad root extent %q", raw)
	}
	w, err1 := parseLength(fields[0])
	h, err2 := parseLength(fields[1])
	if err1 != nil || err2 != nil || w.Units != styles.UnitPixel || h.Units != styles.UnitPixel {
		return fmt.Errorf("root extent %q must be in pixels", raw)
	}
	return p.doc.SetPixelResolution(model.PixelResolution{Width: int(w.Value), Height: int(h.Value)})
}

func (p *parser) parseActiveArea(raw string) error {
	fields := strings.Fields(raw)
	if len(fields) != 4 {
		return fmt.Errorf("want four percentages")
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil || l.Units != styles.UnitPercent {
			return fmt.Errorf("component %q is not a percentage", f)
		}
		vals[i] = l.Value / 100
	}
	return p.doc.SetActiveArea(model.ActiveArea{
		LeftOffset: vals[0], TopOffset: vals[1], Width: vals[2], Height: vals[3],
	})
}

func (p *parser) parseHead(head *etree.Element) error {
	for _, child := range head.ChildElements() {
		switch child.Tag {
		case "styling":
			if err := p.parseStyling(child); err != nil {
				return fmt.Errorf("styling: %w", err)
			}
		case "layout":
			if err := p.parseLayout(child); err != nil {
				return fmt.Errorf("layout: %w", err)
			}
		case "metadata":
			// document metadata carries nothing the model needs
		default:
			p.log.Warn("Unexpected tag in head, ignoring", zap.String("tag", child.Tag))
		}
	}
	return nil
}

func (p *parser) parseStyling(styling *etree.Element) error {
	for _, child := range styling.ChildElements() {
		switch child.Tag {
		case "style":
			id, ok := attr(child, "id")
			if !ok || id == "" {
				p.log.Warn("Style without xml:id, ignoring")
				continue
			}
			ns := &namedStyle{set: p.inlineStyles(child)}
			if refs, ok := attr(child, "style"); ok {
				ns.refs = strings.Fields(refs)
			}
			p.named[id] = ns
		case "initial":
			p.parseInitial(child)
		default:
			p.log.Warn("Unexpected tag in styling, ignoring", zap.String("tag", child.Tag))
		}
	}
	// flatten referential chains once all named styles are known; chains are
	// independent, so report every broken one at once
	var errs error
	for id := range p.named {
		if _, err := p.resolveStyle(id, nil); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (p *parser) parseInitial(el *etree.Element) {
	for prop, val := range p.inlineStyles(el) {
		if err := p.doc.SetInitialValue(prop, val); err != nil {
			p.log.Warn("Ignoring bad initial value", zap.String("property", prop.String()), zap.Error(err))
		}
	}
}

// resolveStyle flattens one referential chain. Own attributes win over
// referenced styles; earlier references win over later ones. Cycles fail.
func (p *parser) resolveStyle(id string, trail []string) (styleSet, error) {
	if set, ok := p.flat[id]; ok {
		return set, nil
	}
	for _, seen := range trail {
		if seen == id {
			return nil, fmt.Errorf("style reference cycle through %q", id)
		}
	}
	ns, ok := p.named[id]
	if !ok {
		return nil, fmt.Errorf("reference to undefined style %q", id)
	}
	set := make(styleSet, len(ns.set))
	for prop, val := range ns.set {
		set[prop] = val
	}
	for _, ref := range ns.refs {
		refSet, err := p.resolveStyle(ref, append(trail, id))
		if err != nil {
			return nil, err
		}
		set.mergeUnset(refSet)
	}
	p.flat[id] = set
	return set, nil
}

// inlineStyles collects the tts attributes of one element. Unrecognized
// attributes are logged and skipped, as required for forward compatibility.
func (p *parser) inlineStyles(el *etree.Element) styleSet {
	set := make(styleSet)
	for _, a := range el.Attr {
		if a.Space != "tts" {
			continue
		}
		prop, val, err := ParseStyleAttribute(a.Key, a.Value)
		if err != nil {
			p.log.Warn("Ignoring style attribute", zap.String("tag", el.Tag), zap.Error(err))
			continue
		}
		set[prop] = val
	}
	return set
}

// elementStyles merges referenced styles into the inline ones for a content
// element or region.
func (p *parser) elementStyles(el *etree.Element) (styleSet, error) {
	set := p.inlineStyles(el)
	if refs, ok := attr(el, "style"); ok {
		for _, ref := range strings.Fields(refs) {
			refSet, err := p.resolveStyle(ref, nil)
			if err != nil {
				return nil, err
			}
			set.mergeUnset(refSet)
		}
	}
	return set, nil
}

func (p *parser) parseLayout(layout *etree.Element) error {
	for _, child := range layout.ChildElements() {
		if child.Tag != "region" {
			p.log.Warn("Unexpected tag in layout, ignoring", zap.String("tag", child.Tag))
			continue
		}
		id, ok := attr(child, "id")
		if !ok || id == "" {
			return fmt.Errorf("region without xml:id")
		}
		region, err := model.NewRegion(p.doc, id)
		if err != nil {
			return err
		}
		set, err := p.elementStyles(child)
		if err != nil {
			return fmt.Errorf("region %q: %w", id, err)
		}
		// nested style children also apply, after attribute styles
		for _, nested := range child.SelectElements("style") {
			set.mergeUnset(p.inlineStyles(nested))
		}
		for prop, val := range set {
			if err := region.SetStyle(prop, val); err != nil {
				return fmt.Errorf("region %q: %w", id, err)
			}
		}
		if err := p.parseTiming(child, region); err != nil {
			return fmt.Errorf("region %q: %w", id, err)
		}
		if err := p.parseAnimations(child, region); err != nil {
			return fmt.Errorf("region %q: %w", id, err)
		}
		if err := p.doc.PutRegion(region); err != nil {
			return err
		}
	}
	return nil
}

// parseContent recursively converts body/div/p/span/br elements. Character
// data under p becomes an anonymous span; under span it becomes a text
// node. Returns nil for tags the model has no equivalent for.
func (p *parser) parseContent(el *etree.Element, parent *model.Element) (*model.Element, error) {
	var node *model.Element
	switch el.Tag {
	case "body":
		node = model.NewBody(p.doc)
	case "div":
		node = model.NewDiv(p.doc)
	case "p":
		node = model.NewP(p.doc)
	case "span":
		node = model.NewSpan(p.doc)
	case "br":
		node = model.NewBr(p.doc)
	case "metadata":
		return nil, nil
	default:
		p.log.Warn("Unexpected content tag, ignoring", zap.String("tag", el.Tag))
		return nil, nil
	}

	if err := p.applyContentAttrs(el, node); err != nil {
		return nil, fmt.Errorf("%s: %w", el.Tag, err)
	}
	if parent != nil {
		if err := parent.AppendChild(node); err != nil {
			return nil, err
		}
	}
	if err := p.parseAnimations(el, node); err != nil {
		return nil, fmt.Errorf("%s: %w", el.Tag, err)
	}

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if err := p.appendText(node, t.Data); err != nil {
				return nil, err
			}
		case *etree.Element:
			if t.Tag == "set" {
				continue // handled by parseAnimations
			}
			if _, err := p.parseContent(t, node); err != nil {
				return nil, err
			}
		}
	}
	return node, nil
}

func (p *parser) appendText(parent *model.Element, data string) error {
	switch parent.Kind() {
	case model.KindP:
		if strings.TrimSpace(data) == "" {
			return nil // inter-element whitespace
		}
		// anonymous span so that text always sits under a span
		span := model.NewSpan(p.doc)
		if err := parent.AppendChild(span); err != nil {
			return err
		}
		return span.AppendChild(model.NewText(p.doc, data))
	case model.KindSpan:
		return parent.AppendChild(model.NewText(p.doc, data))
	default:
		if strings.TrimSpace(data) != "" {
			p.log.Warn("Dropping character data outside p/span", zap.String("parent", parent.Kind().String()))
		}
		return nil
	}
}

func (p *parser) applyContentAttrs(el *etree.Element, node *model.Element) error {
	if id, ok := attr(el, "id"); ok {
		if err := node.SetID(id); err != nil {
			return err
		}
	}
	if lang, ok := attr(el, "lang"); ok {
		node.SetLang(lang)
	}
	if space, ok := attr(el, "space"); ok {
		switch space {
		case "preserve":
			node.SetSpace(model.WhiteSpacePreserve)
		case "default":
			node.SetSpace(model.WhiteSpaceDefault)
		default:
			return fmt.Errorf("bad xml:space %q", space)
		}
	}
	if region, ok := attr(el, "region"); ok {
		r, found := p.doc.Region(region)
		if !found {
			return fmt.Errorf("%w: %q", model.ErrUnknownRegion, region)
		}
		if err := node.SetRegion(r); err != nil {
			return err
		}
	}
	set, err := p.elementStyles(el)
	if err != nil {
		return err
	}
	for prop, val := range set {
		if err := node.SetStyle(prop, val); err != nil {
			return err
		}
	}
	return p.parseTiming(el, node)
}

// parseTiming applies begin/end/dur. When both end and dur are present the
// effective end is the earlier of the two.
func (p *parser) parseTiming(el *etree.Element, node *model.Element) error {
	var begin *model.Time
	if v, ok := attr(el, "begin"); ok {
		t, err := p.params.parseTimeExpression(v)
		if err != nil {
			return err
		}
		begin = &t
		if err := node.SetBegin(t); err != nil {
			return err
		}
	}

	var end *model.Time
	if v, ok := attr(el, "end"); ok {
		t, err := p.params.parseTimeExpression(v)
		if err != nil {
			return err
		}
		end = &t
	}
	if v, ok := attr(el, "dur"); ok {
		d, err := p.params.parseTimeExpression(v)
		if err != nil {
			return err
		}
		t := d
		if begin != nil {
			t = begin.Add(d)
		}
		if end == nil || t.Before(*end) {
			end = &t
		}
	}
	if end != nil {
		return node.SetEnd(*end)
	}
	return nil
}

// parseAnimations converts set children into discrete animation steps, one
// step per animated property.
func (p *parser) parseAnimations(el *etree.Element, node *model.Element) error {
	for _, set := range el.SelectElements("set") {
		var begin, end *model.Time
		if v, ok := attr(set, "begin"); ok {
			t, err := p.params.parseTimeExpression(v)
			if err != nil {
				return err
			}
			begin = &t
		}
		if v, ok := attr(set, "end"); ok {
			t, err := p.params.parseTimeExpression(v)
			if err != nil {
				return err
			}
			end = &t
		}
		for prop, val := range p.inlineStyles(set) {
			err := node.AddAnimationStep(model.AnimationStep{
				Property: prop,
				Begin:    begin,
				End:      end,
				Value:    val,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

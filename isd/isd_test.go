package isd

import (
	"slices"
	"strings"
	"testing"

	"ttc/model"
	"ttc/model/styles"
)

func buildRegion(t *testing.T, doc *model.Document, id string) *model.Element {
	t.Helper()
	r, err := model.NewRegion(doc, id)
	if err != nil {
		t.Fatalf("NewRegion(%s): %v", id, err)
	}
	if err := doc.PutRegion(r); err != nil {
		t.Fatalf("PutRegion(%s): %v", id, err)
	}
	return r
}

// single always-shown region, one p active on [1s,3s) with an explicit
// color. Nothing in the body names a region: the content inherits the
// selected one.
func buildScenarioDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	r1 := buildRegion(t, doc, "r1")
	if err := r1.SetStyle(styles.PropShowBackground, styles.Keyword("always")); err != nil {
		t.Fatalf("region style: %v", err)
	}

	body := model.NewBody(doc)
	if err := doc.SetBody(body); err != nil {
		t.Fatalf("set body: %v", err)
	}
	div := model.NewDiv(doc)
	if err := body.AppendChild(div); err != nil {
		t.Fatalf("attach div: %v", err)
	}
	p := model.NewP(doc)
	if err := div.AppendChild(p); err != nil {
		t.Fatalf("attach p: %v", err)
	}
	if err := p.SetBegin(model.Seconds(1)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := p.SetEnd(model.Seconds(3)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := p.SetStyle(styles.PropColor, styles.ColorRed); err != nil {
		t.Fatalf("color: %v", err)
	}
	span := model.NewSpan(doc)
	if err := p.AppendChild(span); err != nil {
		t.Fatalf("attach span: %v", err)
	}
	if err := span.AppendChild(model.NewText(doc, "hello")); err != nil {
		t.Fatalf("attach text: %v", err)
	}
	return doc
}

func findKind(n *Node, k model.Kind) *Node {
	if n.Kind == k {
		return n
	}
	for _, c := range n.Children {
		if f := findKind(c, k); f != nil {
			return f
		}
	}
	return nil
}

func TestRoundTripScenario(t *testing.T) {
	doc := buildScenarioDocument(t)

	// before the p becomes active: region kept only for its background
	snap := FromModel(doc, model.Seconds(0))
	if len(snap.Regions) != 1 {
		t.Fatalf("t=0: expected background-only region, got %d regions", len(snap.Regions))
	}
	if len(snap.Regions[0].Children) != 0 {
		t.Fatalf("t=0: region must be empty")
	}

	// inside the active window
	snap = FromModel(doc, model.Seconds(2))
	if len(snap.Regions) != 1 {
		t.Fatalf("t=2: expected one region, got %d", len(snap.Regions))
	}
	region := snap.Regions[0]
	p := findKind(region, model.KindP)
	if p == nil {
		t.Fatalf("t=2: p subtree missing")
	}
	if _, ok := region.Styles[styles.PropColor]; ok {
		t.Fatalf("t=2: color does not apply to regions and must be stripped")
	}
	span := findKind(p, model.KindSpan)
	if span == nil {
		t.Fatalf("t=2: span missing")
	}
	if span.Style(styles.PropColor) != styles.ColorRed {
		t.Fatalf("t=2: span color = %v", span.Style(styles.PropColor))
	}
	if text := findKind(span, model.KindText); text == nil || text.Text != "hello" {
		t.Fatalf("t=2: text payload missing")
	}

	// at the exclusive end the content is gone again
	snap = FromModel(doc, model.Seconds(3))
	if len(snap.Regions) != 1 || len(snap.Regions[0].Children) != 0 {
		t.Fatalf("t=3: expected background-only region again")
	}
}

func TestEmptySnapshotWithoutBackground(t *testing.T) {
	doc := buildScenarioDocument(t)
	r1, _ := doc.Region("r1")
	if err := r1.SetStyle(styles.PropShowBackground, styles.Keyword("whenActive")); err != nil {
		t.Fatalf("style: %v", err)
	}
	if snap := FromModel(doc, model.Seconds(10)); len(snap.Regions) != 0 {
		t.Fatalf("no active content anywhere: expected zero regions, got %d", len(snap.Regions))
	}
}

func TestHalfOpenIntervals(t *testing.T) {
	doc := buildScenarioDocument(t)
	for _, tc := range []struct {
		offset model.Time
		active bool
	}{
		{model.Millis(999), false},
		{model.Seconds(1), true}, // begin == offset is active
		{model.Rat(5, 2), true},
		{model.Millis(2999), true},
		{model.Seconds(3), false}, // end == offset is inactive
		{model.Seconds(4), false},
	} {
		snap := FromModel(doc, tc.offset)
		got := len(snap.Regions) == 1 && findKind(snap.Regions[0], model.KindP) != nil
		if got != tc.active {
			t.Fatalf("offset %s: active=%v, expected %v", tc.offset, got, tc.active)
		}
	}
}

func TestSignificantTimesCompleteness(t *testing.T) {
	doc := model.NewDocument()
	r := buildRegion(t, doc, "r1")
	if err := r.SetBegin(model.Seconds(2)); err != nil {
		t.Fatalf("region begin: %v", err)
	}
	if err := r.SetEnd(model.Seconds(9)); err != nil {
		t.Fatalf("region end: %v", err)
	}

	body := model.NewBody(doc)
	if err := doc.SetBody(body); err != nil {
		t.Fatalf("set body: %v", err)
	}
	if err := body.SetBegin(model.Seconds(1)); err != nil {
		t.Fatalf("body begin: %v", err)
	}
	if err := body.SetEnd(model.Seconds(10)); err != nil {
		t.Fatalf("body end: %v", err)
	}
	div := model.NewDiv(doc)
	if err := div.SetBegin(model.Seconds(2)); err != nil { // 2s after body begin => 3s
		t.Fatalf("div begin: %v", err)
	}
	if err := body.AppendChild(div); err != nil {
		t.Fatalf("attach div: %v", err)
	}

	got := SignificantTimes(doc)
	want := []model.Time{
		model.Seconds(0), model.Seconds(1), model.Seconds(2),
		model.Seconds(3), model.Seconds(9), model.Seconds(10),
	}
	if len(got) != len(want) {
		t.Fatalf("significant times %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("significant times %v, want %v", got, want)
		}
	}
}

func TestInheritancePrecedence(t *testing.T) {
	doc := buildScenarioDocument(t)

	// no value anywhere: document override wins over registry initial
	if err := doc.SetInitialValue(styles.PropFontStyle, styles.Keyword("italic")); err != nil {
		t.Fatalf("override: %v", err)
	}
	snap := FromModel(doc, model.Seconds(2))
	span := findKind(snap.Regions[0], model.KindSpan)
	if span.Style(styles.PropFontStyle) != styles.Keyword("italic") {
		t.Fatalf("document override expected, got %v", span.Style(styles.PropFontStyle))
	}

	// parent specifies: child inherits the parent's resolved value
	p := findParagraph(t, doc)
	if err := p.SetStyle(styles.PropFontStyle, styles.Keyword("oblique")); err != nil {
		t.Fatalf("p style: %v", err)
	}
	snap = FromModel(doc, model.Seconds(2))
	span = findKind(snap.Regions[0], model.KindSpan)
	if span.Style(styles.PropFontStyle) != styles.Keyword("oblique") {
		t.Fatalf("inherited value expected, got %v", span.Style(styles.PropFontStyle))
	}
}

func findParagraph(t *testing.T, doc *model.Document) *model.Element {
	t.Helper()
	var walk func(e *model.Element) *model.Element
	walk = func(e *model.Element) *model.Element {
		if e.Kind() == model.KindP {
			return e
		}
		for _, c := range e.Children() {
			if f := walk(c); f != nil {
				return f
			}
		}
		return nil
	}
	p := walk(doc.Body())
	if p == nil {
		t.Fatalf("no p in document")
	}
	return p
}

func TestAnimationPrecedence(t *testing.T) {
	doc := buildScenarioDocument(t)
	p := findParagraph(t, doc)

	// color animated over [0s,10s) in the p's frame; specified color is red
	if err := p.AddAnimationStep(model.AnimationStep{
		Property: styles.PropColor,
		Value:    styles.ColorGreen,
	}); err != nil {
		t.Fatalf("step: %v", err)
	}
	snap := FromModel(doc, model.Seconds(2))
	span := findKind(snap.Regions[0], model.KindSpan)
	if span.Style(styles.PropColor) != styles.ColorGreen {
		t.Fatalf("active animation must beat specified style, got %v", span.Style(styles.PropColor))
	}

	// a later-starting step beats an earlier one while both are active
	b := model.Millis(1500)
	if err := p.AddAnimationStep(model.AnimationStep{
		Property: styles.PropColor, Begin: &b,
		Value: styles.ColorBlue,
	}); err != nil {
		t.Fatalf("step: %v", err)
	}
	snap = FromModel(doc, model.Seconds(2))
	span = findKind(snap.Regions[0], model.KindSpan)
	if span.Style(styles.PropColor) != styles.ColorBlue {
		t.Fatalf("latest-starting step must win, got %v", span.Style(styles.PropColor))
	}
}

func TestApplicabilityStripping(t *testing.T) {
	doc := buildScenarioDocument(t)
	snap := FromModel(doc, model.Seconds(2))

	var walk func(n *Node)
	walk = func(n *Node) {
		for p := range n.Styles {
			if !model.Applies(p, n.Kind) {
				t.Fatalf("%s carries inapplicable property %s", n.Kind, p)
			}
		}
		if n.Kind == model.KindText && len(n.Styles) != 0 {
			t.Fatalf("text nodes carry no styles")
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range snap.Regions {
		walk(r)
	}
}

func TestDisplayNonePrunesSubtree(t *testing.T) {
	doc := buildScenarioDocument(t)
	p := findParagraph(t, doc)
	if err := p.SetStyle(styles.PropDisplay, styles.KeywordNone); err != nil {
		t.Fatalf("display: %v", err)
	}
	snap := FromModel(doc, model.Seconds(2))
	if len(snap.Regions) != 1 || len(snap.Regions[0].Children) != 0 {
		t.Fatalf("display:none must suppress the whole subtree")
	}
}

// content explicitly associated with a second region must not leak into the
// first, while region-less content follows whichever region is selected.
func TestMixedRegionPassThrough(t *testing.T) {
	doc := model.NewDocument()
	r1 := buildRegion(t, doc, "r1")
	r2 := buildRegion(t, doc, "r2")

	body := model.NewBody(doc)
	if err := doc.SetBody(body); err != nil {
		t.Fatalf("set body: %v", err)
	}
	div := model.NewDiv(doc) // no region: inherits the selected one
	if err := body.AppendChild(div); err != nil {
		t.Fatalf("attach div: %v", err)
	}

	mk := func(region *model.Element, text string) {
		p := model.NewP(doc)
		if err := div.AppendChild(p); err != nil {
			t.Fatalf("attach p: %v", err)
		}
		if err := p.SetRegion(region); err != nil {
			t.Fatalf("associate: %v", err)
		}
		span := model.NewSpan(doc)
		if err := p.AppendChild(span); err != nil {
			t.Fatalf("attach span: %v", err)
		}
		if err := span.AppendChild(model.NewText(doc, text)); err != nil {
			t.Fatalf("attach text: %v", err)
		}
	}
	mk(r1, "first")
	mk(r2, "second")

	snap := FromModel(doc, model.Seconds(0))
	if len(snap.Regions) != 2 {
		t.Fatalf("expected both regions, got %d", len(snap.Regions))
	}
	for i, want := range []string{"first", "second"} {
		text := findKind(snap.Regions[i], model.KindText)
		if text == nil || text.Text != want {
			t.Fatalf("region %d: expected %q", i, want)
		}
		if n := countKind(snap.Regions[i], model.KindP); n != 1 {
			t.Fatalf("region %d: expected exactly one p, got %d", i, n)
		}
	}

	// content without any explicit association inherits the selected
	// region, so it shows up in every region
	lone := model.NewP(doc)
	if err := div.AppendChild(lone); err != nil {
		t.Fatalf("attach lone p: %v", err)
	}
	span := model.NewSpan(doc)
	if err := lone.AppendChild(span); err != nil {
		t.Fatalf("attach span: %v", err)
	}
	if err := span.AppendChild(model.NewText(doc, "shared")); err != nil {
		t.Fatalf("attach text: %v", err)
	}
	snap = FromModel(doc, model.Seconds(0))
	for i := range snap.Regions {
		if n := countKind(snap.Regions[i], model.KindP); n != 2 {
			t.Fatalf("region %d: unassociated content must follow the selected region, got %d p nodes", i, n)
		}
		var texts []string
		collectText(snap.Regions[i], &texts)
		if !slices.Contains(texts, "shared") {
			t.Fatalf("region %d: unassociated text missing, got %v", i, texts)
		}
	}
}

func collectText(n *Node, out *[]string) {
	if n.Kind == model.KindText {
		*out = append(*out, n.Text)
	}
	for _, c := range n.Children {
		collectText(c, out)
	}
}

func countKind(n *Node, k model.Kind) int {
	c := 0
	if n.Kind == k {
		c++
	}
	for _, ch := range n.Children {
		c += countKind(ch, k)
	}
	return c
}

func TestSnapshotDump(t *testing.T) {
	doc := buildScenarioDocument(t)

	snap := FromModel(doc, model.Seconds(2))
	dump := snap.String()
	for _, want := range []string{"ISD offset=2s", "region[r1]", "text: \"hello\"", "style color ="} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump is missing %q:\n%s", want, dump)
		}
	}

	var nilSnap *ISD
	if got := nilSnap.String(); got != "<nil ISD>" {
		t.Errorf("nil dump = %q", got)
	}
}

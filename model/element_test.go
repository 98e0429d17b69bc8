package model

import (
	"errors"
	"testing"

	"ttc/model/styles"
)

func mustRegion(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	r, err := NewRegion(doc, id)
	if err != nil {
		t.Fatalf("NewRegion(%s): %v", id, err)
	}
	if err := doc.PutRegion(r); err != nil {
		t.Fatalf("PutRegion(%s): %v", id, err)
	}
	return r
}

func TestGrammarEnforcement(t *testing.T) {
	doc := NewDocument()
	body := NewBody(doc)

	if err := body.AppendChild(NewSpan(doc)); !errors.Is(err, ErrStructure) {
		t.Fatalf("span under body must fail with structure error, got %v", err)
	}

	div := NewDiv(doc)
	if err := body.AppendChild(div); err != nil {
		t.Fatalf("div under body: %v", err)
	}
	if err := div.AppendChild(NewDiv(doc)); err != nil {
		t.Fatalf("div under div: %v", err)
	}

	p := NewP(doc)
	if err := div.AppendChild(p); err != nil {
		t.Fatalf("p under div: %v", err)
	}
	if err := p.AppendChild(NewText(doc, "x")); !errors.Is(err, ErrStructure) {
		t.Fatalf("text directly under p must fail, got %v", err)
	}

	br := NewBr(doc)
	if err := p.AppendChild(br); err != nil {
		t.Fatalf("br under p: %v", err)
	}
	if err := br.AppendChild(NewText(doc, "x")); !errors.Is(err, ErrStructure) {
		t.Fatalf("br cannot have children, got %v", err)
	}
}

func TestReparentingAndCycles(t *testing.T) {
	doc := NewDocument()
	body := NewBody(doc)
	div := NewDiv(doc)
	if err := body.AppendChild(div); err != nil {
		t.Fatalf("attach: %v", err)
	}

	other := NewBody(doc)
	if err := other.AppendChild(div); !errors.Is(err, ErrStructure) {
		t.Fatalf("attached node cannot be re-parented, got %v", err)
	}

	inner := NewDiv(doc)
	if err := div.AppendChild(inner); err != nil {
		t.Fatalf("attach inner: %v", err)
	}
	inner.Remove()
	if inner.Parent() != nil {
		t.Fatalf("remove did not detach")
	}
	// a detached subtree can be re-attached
	if err := div.AppendChild(inner); err != nil {
		t.Fatalf("re-attach detached: %v", err)
	}

	// cycle: div is an ancestor of inner
	inner.Remove()
	if err := inner.AppendChild(div); !errors.Is(err, ErrStructure) {
		t.Fatalf("cycle must be rejected, got %v", err)
	}
	if err := div.AppendChild(div); !errors.Is(err, ErrStructure) {
		t.Fatalf("self-append must be rejected, got %v", err)
	}
}

func TestCrossDocumentAttach(t *testing.T) {
	docA, docB := NewDocument(), NewDocument()
	body := NewBody(docA)
	if err := body.AppendChild(NewDiv(docB)); !errors.Is(err, ErrStructure) {
		t.Fatalf("cross-document attach must fail, got %v", err)
	}
}

func TestStyleValidation(t *testing.T) {
	doc := NewDocument()
	p := NewP(doc)

	if err := p.SetStyle(styles.PropColor, styles.ColorRed); err != nil {
		t.Fatalf("valid color: %v", err)
	}
	if err := p.SetStyle(styles.PropColor, styles.Keyword("bogus")); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("invalid color value must fail, got %v", err)
	}
	if err := p.SetStyle(styles.PropFontStyle, styles.Keyword("upright")); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("unknown keyword must fail, got %v", err)
	}
	if err := p.SetStyle(styles.PropOpacity, styles.Scalar(1.5)); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("opacity out of range must fail, got %v", err)
	}
	if err := p.SetStyle(styles.Property(9999), styles.ColorRed); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("unknown property must fail, got %v", err)
	}

	// unset leaves no trace
	if err := p.SetStyle(styles.PropColor, nil); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, ok := p.Style(styles.PropColor); ok {
		t.Fatalf("style was not unset")
	}
}

func TestAnimationStepValidation(t *testing.T) {
	doc := NewDocument()
	p := NewP(doc)

	b, e := Seconds(1), Seconds(2)
	if err := p.AddAnimationStep(AnimationStep{
		Property: styles.PropColor, Begin: &b, End: &e, Value: styles.ColorGreen,
	}); err != nil {
		t.Fatalf("valid step: %v", err)
	}

	if err := p.AddAnimationStep(AnimationStep{
		Property: styles.PropFontStyle, Value: styles.Keyword("italic"),
	}); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("non-animatable property must fail, got %v", err)
	}

	rb, re := Seconds(3), Seconds(1)
	if err := p.AddAnimationStep(AnimationStep{
		Property: styles.PropColor, Begin: &rb, End: &re, Value: styles.ColorGreen,
	}); !errors.Is(err, ErrStructure) {
		t.Fatalf("reversed step interval must fail, got %v", err)
	}

	if got := len(p.AnimationSteps()); got != 1 {
		t.Fatalf("failed steps must not be stored, have %d", got)
	}
}

func TestRegionAssociation(t *testing.T) {
	doc := NewDocument()
	r1 := mustRegion(t, doc, "r1")
	p := NewP(doc)

	if err := p.SetRegion(r1); err != nil {
		t.Fatalf("associate: %v", err)
	}

	// region registered in another document
	otherDoc := NewDocument()
	foreign := mustRegion(t, otherDoc, "r1")
	if err := p.SetRegion(foreign); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("foreign region must fail, got %v", err)
	}

	// unregistered region of the same document
	loose, err := NewRegion(doc, "r2")
	if err != nil {
		t.Fatalf("NewRegion: %v", err)
	}
	if err := p.SetRegion(loose); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("unregistered region must fail, got %v", err)
	}

	// element without a document cannot resolve regions
	orphan := NewP(nil)
	if err := orphan.SetRegion(r1); !errors.Is(err, ErrUnassociatedDocument) {
		t.Fatalf("document-less element must fail, got %v", err)
	}

	// regions never reference regions
	if err := r1.SetRegion(r1); !errors.Is(err, ErrStructure) {
		t.Fatalf("region self-association must fail, got %v", err)
	}

	if err := p.SetRegion(nil); err != nil {
		t.Fatalf("clear association: %v", err)
	}
	if p.Region() != nil {
		t.Fatalf("association was not cleared")
	}
}

func TestRegionIDImmutable(t *testing.T) {
	doc := NewDocument()
	r := mustRegion(t, doc, "r1")
	if err := r.SetID("r2"); !errors.Is(err, ErrImmutableID) {
		t.Fatalf("region id change must fail, got %v", err)
	}
	if r.ID() != "r1" {
		t.Fatalf("region id changed to %q", r.ID())
	}

	p := NewP(doc)
	if err := p.SetID("p1"); err != nil {
		t.Fatalf("non-region id assignment: %v", err)
	}
}

func TestRubyGroupAtomicInsertion(t *testing.T) {
	doc := NewDocument()

	ruby := NewRuby(doc)
	if err := ruby.AppendChild(NewRb(doc)); !errors.Is(err, ErrStructure) {
		t.Fatalf("incremental ruby insertion must fail, got %v", err)
	}

	// invalid sequences
	for name, kids := range map[string][]*Element{
		"empty":         {},
		"rb only":       {NewRb(doc)},
		"rt first":      {NewRt(doc), NewRb(doc)},
		"trailing rb":   {NewRb(doc), NewRt(doc), NewRb(doc)},
		"span in group": {NewRb(doc), NewSpan(doc)},
	} {
		if err := NewRuby(doc).SetChildren(kids); !errors.Is(err, ErrMalformedGroup) {
			t.Fatalf("%s: expected malformed group, got %v", name, err)
		}
	}

	rb, rt, rp := NewRb(doc), NewRt(doc), NewRp(doc)
	if err := ruby.SetChildren([]*Element{rb, rp, rt}); err != nil {
		t.Fatalf("valid ruby group: %v", err)
	}
	if len(ruby.Children()) != 3 || rb.Parent() != ruby {
		t.Fatalf("group was not linked")
	}

	rtc := NewRtc(doc)
	if err := rtc.SetChildren([]*Element{NewRt(doc), NewRt(doc)}); err != nil {
		t.Fatalf("valid rtc group: %v", err)
	}
	if err := NewRtc(doc).SetChildren([]*Element{NewRp(doc)}); !errors.Is(err, ErrMalformedGroup) {
		t.Fatalf("rtc with rp must fail")
	}

	// atomicity: a bad member must leave the group untouched
	attached := NewRt(doc)
	holder := NewRtc(doc)
	if err := holder.SetChildren([]*Element{attached}); err != nil {
		t.Fatalf("pre-attach: %v", err)
	}
	fresh := NewRuby(doc)
	if err := fresh.SetChildren([]*Element{NewRb(doc), attached}); !errors.Is(err, ErrStructure) {
		t.Fatalf("attached member must fail, got %v", err)
	}
	if len(fresh.Children()) != 0 {
		t.Fatalf("failed group insertion must not link anything")
	}
}

func TestTimingValidation(t *testing.T) {
	doc := NewDocument()
	p := NewP(doc)

	if err := p.SetBegin(Seconds(1)); err != nil {
		t.Fatalf("set begin: %v", err)
	}
	if err := p.SetEnd(Millis(500)); !errors.Is(err, ErrStructure) {
		t.Fatalf("end before begin must fail, got %v", err)
	}
	if err := p.SetEnd(Seconds(1)); err != nil {
		t.Fatalf("end == begin is legal (empty interval): %v", err)
	}
	if _, ok := p.End(); !ok {
		t.Fatalf("end was not stored")
	}
}

func TestLangAndSpacePropagation(t *testing.T) {
	doc := NewDocument()
	body := NewBody(doc)
	body.SetLang("fr")
	body.SetSpace(WhiteSpacePreserve)

	div := NewDiv(doc)
	p := NewP(doc)
	if err := div.AppendChild(p); err != nil {
		t.Fatalf("attach p: %v", err)
	}

	explicit := NewDiv(doc)
	explicit.SetLang("de")

	if err := body.AppendChild(div); err != nil {
		t.Fatalf("attach div: %v", err)
	}
	if err := body.AppendChild(explicit); err != nil {
		t.Fatalf("attach explicit: %v", err)
	}

	if div.Lang() != "fr" || p.Lang() != "fr" {
		t.Fatalf("lang did not propagate: div=%q p=%q", div.Lang(), p.Lang())
	}
	if p.Space() != WhiteSpacePreserve {
		t.Fatalf("space did not propagate")
	}
	if explicit.Lang() != "de" {
		t.Fatalf("explicit lang was overwritten: %q", explicit.Lang())
	}
}

func TestDocumentLangReachesBody(t *testing.T) {
	// language declared before the body is attached
	doc := NewDocument()
	doc.SetLang("es")
	body := NewBody(doc)
	p := NewP(doc)
	if err := body.AppendChild(p); err != nil {
		t.Fatalf("attach p: %v", err)
	}
	if err := doc.SetBody(body); err != nil {
		t.Fatalf("set body: %v", err)
	}
	if body.Lang() != "es" || p.Lang() != "es" {
		t.Fatalf("document lang did not reach the body: body=%q p=%q", body.Lang(), p.Lang())
	}

	// language declared after the body is attached
	doc.SetLang("pt")
	if body.Lang() != "pt" || p.Lang() != "pt" {
		t.Fatalf("late document lang did not reach the body: body=%q p=%q", body.Lang(), p.Lang())
	}

	// an explicit element language always wins over the document default
	explicit := NewDiv(doc)
	explicit.SetLang("ja")
	if err := body.AppendChild(explicit); err != nil {
		t.Fatalf("attach explicit: %v", err)
	}
	doc.SetLang("ko")
	if explicit.Lang() != "ja" {
		t.Fatalf("explicit lang was overwritten: %q", explicit.Lang())
	}
	if p.Lang() != "ko" {
		t.Fatalf("document lang did not reach the body: p=%q", p.Lang())
	}
}

func TestDocumentRegionsAndBody(t *testing.T) {
	doc := NewDocument()
	body := NewBody(doc)
	if err := doc.SetBody(body); err != nil {
		t.Fatalf("set body: %v", err)
	}
	if err := doc.SetBody(NewDiv(doc)); !errors.Is(err, ErrStructure) {
		t.Fatalf("non-body root must fail, got %v", err)
	}

	mustRegion(t, doc, "r1")
	r1dup, err := NewRegion(doc, "r1")
	if err != nil {
		t.Fatalf("NewRegion: %v", err)
	}
	if err := doc.PutRegion(r1dup); !errors.Is(err, ErrStructure) {
		t.Fatalf("duplicate region id must fail, got %v", err)
	}

	mustRegion(t, doc, "r0")
	regions := doc.Regions()
	if len(regions) != 2 || regions[0].ID() != "r0" || regions[1].ID() != "r1" {
		t.Fatalf("regions must be ordered by id: %v", regions)
	}
}

func TestDocumentInitialOverrides(t *testing.T) {
	doc := NewDocument()
	if got := doc.InitialValue(styles.PropColor); got != styles.ColorWhite {
		t.Fatalf("registry initial expected, got %s", got)
	}
	if err := doc.SetInitialValue(styles.PropColor, styles.ColorYellow); err != nil {
		t.Fatalf("override: %v", err)
	}
	if got := doc.InitialValue(styles.PropColor); got != styles.ColorYellow {
		t.Fatalf("override not visible, got %s", got)
	}
	if err := doc.SetInitialValue(styles.PropColor, styles.Scalar(1)); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("invalid override must fail, got %v", err)
	}
	if err := doc.SetInitialValue(styles.PropColor, nil); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	if got := doc.InitialValue(styles.PropColor); got != styles.ColorWhite {
		t.Fatalf("override not removed, got %s", got)
	}
}

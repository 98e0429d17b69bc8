// Package model implements the canonical, format-agnostic timed-text
// document: a tree of styled, time-scoped content nodes plus the document
// that owns it. Format readers build this tree; the isd package resolves
// it into per-instant snapshots. All mutating operations validate their
// invariants and fail atomically without touching the tree.
package model

import (
	"fmt"
	"slices"

	"ttc/model/styles"
)

// WhiteSpace selects whitespace handling for text content.
type WhiteSpace int

const (
	WhiteSpaceDefault WhiteSpace = iota
	WhiteSpacePreserve
)

func (w WhiteSpace) String() string {
	if w == WhiteSpacePreserve {
		return "preserve"
	}
	return "default"
}

// AnimationStep is one discrete style animation: between Begin and End
// (offsets in the same frame as the owning element's begin/end) Property
// takes Value. Steps are stored unordered; resolution orders them by time.
type AnimationStep struct {
	Property styles.Property
	Begin    *Time
	End      *Time
	Value    styles.Value
}

// Element is one node of the content tree. Parent owns children; doc and
// region links are non-owning back-references.
type Element struct {
	kind     Kind
	id       string
	doc      *Document
	parent   *Element
	children []*Element

	stylesMap map[styles.Property]styles.Value
	anims     []AnimationStep

	begin *Time
	end   *Time

	region *Element

	lang     string
	langSet  bool
	space    WhiteSpace
	spaceSet bool

	text string
}

func newElement(kind Kind, doc *Document) *Element {
	return &Element{kind: kind, doc: doc}
}

func NewBody(doc *Document) *Element { return newElement(KindBody, doc) }
func NewDiv(doc *Document) *Element  { return newElement(KindDiv, doc) }
func NewP(doc *Document) *Element    { return newElement(KindP, doc) }
func NewSpan(doc *Document) *Element { return newElement(KindSpan, doc) }
func NewBr(doc *Document) *Element   { return newElement(KindBr, doc) }
func NewRuby(doc *Document) *Element { return newElement(KindRuby, doc) }
func NewRb(doc *Document) *Element   { return newElement(KindRb, doc) }
func NewRt(doc *Document) *Element   { return newElement(KindRt, doc) }
func NewRp(doc *Document) *Element   { return newElement(KindRp, doc) }
func NewRbc(doc *Document) *Element  { return newElement(KindRbc, doc) }
func NewRtc(doc *Document) *Element  { return newElement(KindRtc, doc) }

// NewText creates a text node holding the given payload.
func NewText(doc *Document, text string) *Element {
	e := newElement(KindText, doc)
	e.text = text
	return e
}

// NewRegion creates a region node. The id is required and immutable.
func NewRegion(doc *Document, id string) (*Element, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("%w: region requires an id", ErrStructure)
	}
	e := newElement(KindRegion, doc)
	e.id = id
	return e, nil
}

func (e *Element) Kind() Kind          { return e.kind }
func (e *Element) ID() string          { return e.id }
func (e *Element) Document() *Document { return e.doc }
func (e *Element) Parent() *Element    { return e.parent }
func (e *Element) Lang() string        { return e.lang }
func (e *Element) Space() WhiteSpace   { return e.space }

// SetID assigns an id. Region ids are fixed at construction and can never
// change afterwards.
func (e *Element) SetID(id string) error {
	if e.kind == KindRegion {
		return fmt.Errorf("%w: region id %q cannot be changed", ErrImmutableID, e.id)
	}
	e.id = id
	return nil
}

func (e *Element) SetLang(lang string) {
	e.lang = lang
	e.langSet = true
}

func (e *Element) SetSpace(ws WhiteSpace) {
	e.space = ws
	e.spaceSet = true
}

// Text returns the payload of a text node, empty for all other kinds.
func (e *Element) Text() string { return e.text }

func (e *Element) SetText(text string) error {
	if e.kind != KindText {
		return fmt.Errorf("%w: %s cannot hold text", ErrStructure, e.kind)
	}
	e.text = text
	return nil
}

// Children returns the child list. The slice is a copy; the elements are
// not.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

func (e *Element) HasChildren() bool { return len(e.children) > 0 }

// checkAttachable validates everything about attaching child to e except
// the parent-kind grammar, which differs between incremental and atomic
// insertion.
func (e *Element) checkAttachable(child *Element) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrStructure)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s is already attached", ErrStructure, child.kind)
	}
	if child.doc != e.doc {
		return fmt.Errorf("%w: %s belongs to a different document", ErrStructure, child.kind)
	}
	for a := e; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: %s is an ancestor of %s", ErrStructure, child.kind, e.kind)
		}
	}
	return nil
}

// AppendChild attaches child as the last child of e, enforcing the
// structural grammar. Ruby and Rtc nodes only accept children through
// SetChildren so that a ruby group is never observable half-built.
func (e *Element) AppendChild(child *Element) error {
	if e.kind == KindRuby || e.kind == KindRtc {
		return fmt.Errorf("%w: %s children must be set as a complete group", ErrStructure, e.kind)
	}
	allowed, ok := childGrammar[e.kind]
	if !ok {
		return fmt.Errorf("%w: %s cannot have children", ErrStructure, e.kind)
	}
	if err := e.checkAttachable(child); err != nil {
		return err
	}
	if !allowed.has(child.kind) {
		return fmt.Errorf("%w: %s is not allowed under %s", ErrStructure, child.kind, e.kind)
	}
	e.link(child)
	return nil
}

// SetChildren atomically replaces the children of a ruby group, validating
// the complete sequence first. Only Ruby (exactly one rb or rbc followed
// by one or more rt/rtc/rp) and Rtc (any number of rt) take this path.
func (e *Element) SetChildren(children []*Element) error {
	switch e.kind {
	case KindRuby:
		if !validRubySequence(children) {
			return fmt.Errorf("%w: ruby requires rb|rbc followed by rt|rtc|rp+", ErrMalformedGroup)
		}
	case KindRtc:
		for _, c := range children {
			if c == nil || c.kind != KindRt {
				return fmt.Errorf("%w: rtc accepts only rt children", ErrMalformedGroup)
			}
		}
	default:
		return fmt.Errorf("%w: %s does not take grouped children", ErrStructure, e.kind)
	}
	if len(e.children) > 0 {
		return fmt.Errorf("%w: %s already has children", ErrStructure, e.kind)
	}
	for _, c := range children {
		if err := e.checkAttachable(c); err != nil {
			return err
		}
	}
	// duplicates within the candidate list would pass checkAttachable
	for i, c := range children {
		if slices.Index(children[:i], c) >= 0 {
			return fmt.Errorf("%w: duplicate child in group", ErrMalformedGroup)
		}
	}
	for _, c := range children {
		e.link(c)
	}
	return nil
}

func validRubySequence(children []*Element) bool {
	if len(children) < 2 {
		return false
	}
	for _, c := range children {
		if c == nil {
			return false
		}
	}
	if k := children[0].kind; k != KindRb && k != KindRbc {
		return false
	}
	for _, c := range children[1:] {
		switch c.kind {
		case KindRt, KindRtc, KindRp:
		default:
			return false
		}
	}
	return true
}

func (e *Element) link(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
	child.inheritDefaults(e.lang, e.space)
}

// inheritDefaults pushes language and whitespace handling down into the
// subtree at attach time. Resolution never looks these up again.
func (e *Element) inheritDefaults(lang string, space WhiteSpace) {
	changed := false
	if !e.langSet && e.lang != lang {
		e.lang = lang
		changed = true
	}
	if !e.spaceSet && e.space != space {
		e.space = space
		changed = true
	}
	if !changed {
		return
	}
	for _, c := range e.children {
		c.inheritDefaults(e.lang, e.space)
	}
}

// RemoveChild detaches child from e. The orphaned subtree keeps its
// document association and may be re-attached or discarded.
func (e *Element) RemoveChild(child *Element) error {
	i := slices.Index(e.children, child)
	if i < 0 {
		return fmt.Errorf("%w: not a child of %s", ErrStructure, e.kind)
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
	return nil
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if e.parent != nil {
		_ = e.parent.RemoveChild(e)
	}
}

// Begin returns the optional begin offset, relative to the parent's
// resolved begin.
func (e *Element) Begin() (Time, bool) {
	if e.begin == nil {
		return Time{}, false
	}
	return *e.begin, true
}

// End returns the optional end offset (exclusive), relative to the
// parent's resolved begin.
func (e *Element) End() (Time, bool) {
	if e.end == nil {
		return Time{}, false
	}
	return *e.end, true
}

func (e *Element) SetBegin(t Time) error {
	if e.end != nil && e.end.Before(t) {
		return fmt.Errorf("%w: begin %s after end %s", ErrStructure, t, *e.end)
	}
	e.begin = &t
	return nil
}

func (e *Element) SetEnd(t Time) error {
	if e.begin != nil && t.Before(*e.begin) {
		return fmt.Errorf("%w: end %s before begin %s", ErrStructure, t, *e.begin)
	}
	e.end = &t
	return nil
}

// SetStyle stores a specified style value. A nil value unsets the
// property. Values are validated against the registry; applicability to
// the node kind is not checked here - inapplicable properties are simply
// stripped during resolution.
func (e *Element) SetStyle(p styles.Property, v styles.Value) error {
	if v == nil {
		delete(e.stylesMap, p)
		return nil
	}
	if !styles.Validate(p, v) {
		return fmt.Errorf("%w: %s = %s", ErrInvalidStyle, p, v)
	}
	if e.stylesMap == nil {
		e.stylesMap = make(map[styles.Property]styles.Value)
	}
	e.stylesMap[p] = v
	return nil
}

// Style returns the specified (not resolved) value for the property.
func (e *Element) Style(p styles.Property) (styles.Value, bool) {
	v, ok := e.stylesMap[p]
	return v, ok
}

// StyleProperties returns the properties with specified values, in
// registry order.
func (e *Element) StyleProperties() []styles.Property {
	out := make([]styles.Property, 0, len(e.stylesMap))
	for _, p := range styles.Properties() {
		if _, ok := e.stylesMap[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AddAnimationStep records a discrete animation step. The target property
// must be animatable and the value well formed.
func (e *Element) AddAnimationStep(s AnimationStep) error {
	if !styles.IsAnimatable(s.Property) {
		return fmt.Errorf("%w: %s is not animatable", ErrInvalidStyle, s.Property)
	}
	if !styles.Validate(s.Property, s.Value) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidStyle, s.Property, s.Value)
	}
	if s.Begin != nil && s.End != nil && s.End.Before(*s.Begin) {
		return fmt.Errorf("%w: animation end %s before begin %s", ErrStructure, *s.End, *s.Begin)
	}
	e.anims = append(e.anims, s)
	return nil
}

// AnimationSteps returns stored steps. Order is storage order and carries
// no meaning; resolution orders by time.
func (e *Element) AnimationSteps() []AnimationStep {
	return slices.Clone(e.anims)
}

// Region returns the associated region, if any.
func (e *Element) Region() *Element { return e.region }

// SetRegion associates the element with a region registered in its
// document. Regions themselves can never be associated with a region. A
// nil region clears the association.
func (e *Element) SetRegion(region *Element) error {
	if region == nil {
		e.region = nil
		return nil
	}
	if e.kind == KindRegion {
		return fmt.Errorf("%w: region cannot reference a region", ErrStructure)
	}
	if e.doc == nil {
		return fmt.Errorf("%w: cannot resolve region %q", ErrUnassociatedDocument, region.id)
	}
	if r, ok := e.doc.Region(region.id); !ok || r != region {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, region.id)
	}
	e.region = region
	return nil
}

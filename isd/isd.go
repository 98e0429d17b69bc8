package isd

import (
	"sort"

	"ttc/model"
	"ttc/model/styles"
)

// Node is one node of a resolved snapshot. Every property in Styles is
// fully resolved - no inheritance, animation or initial-value lookup is
// ever needed downstream - and only properties applicable to the node
// kind are present. Nodes are never mutated after FromModel returns.
type Node struct {
	Kind     model.Kind
	ID       string
	Lang     string
	Space    model.WhiteSpace
	Text     string
	Styles   map[styles.Property]styles.Value
	Children []*Node
}

// Style returns the resolved value for the property, nil when the
// property does not apply to this node kind.
func (n *Node) Style(p styles.Property) styles.Value {
	return n.Styles[p]
}

// ISD is a fully resolved snapshot of a document at one offset. Regions
// are ordered by id; a region appears only when its resolved subtree is
// non-empty or its background is always shown.
type ISD struct {
	Offset  model.Time
	Regions []*Node
}

// FromModel computes the snapshot of doc at the given document offset.
// The document must be well formed (construction-time validation has
// already run) and must not be mutated concurrently; FromModel itself
// only reads it, so any number of offsets can be resolved in parallel.
func FromModel(doc *model.Document, offset model.Time) *ISD {
	out := &ISD{Offset: offset}
	for _, r := range doc.Regions() {
		if n := processElement(doc, offset, r, nil, nil, r); n != nil {
			out.Regions = append(out.Regions, n)
		}
	}
	return out
}

// processElement resolves one source element at the given offset. The
// offset is expressed in the frame of the element's begin/end attributes
// (the parent's resolved begin); callers localize it before recursing.
// Returns nil when the element contributes nothing at this instant.
func processElement(doc *model.Document, offset model.Time, selected, inherited *model.Element, parent *Node, e *model.Element) *Node {
	// temporal pruning: half-open [begin, end)
	if b, ok := e.Begin(); ok && offset.Before(b) {
		return nil
	}
	if end, ok := e.End(); ok && !offset.Before(end) {
		return nil
	}

	// region association and selection pruning. A node without any region
	// association but with children passes through uncommitted: one of its
	// descendants may still associate with the selected region.
	associated := e.Region()
	if associated == nil {
		associated = inherited
	}
	if e != selected {
		if associated != selected && (!e.HasChildren() || associated != nil) {
			return nil
		}
	}

	n := &Node{
		Kind:   e.Kind(),
		ID:     e.ID(),
		Lang:   e.Lang(),
		Space:  e.Space(),
		Text:   e.Text(),
		Styles: make(map[styles.Property]styles.Value),
	}

	// style cascade; within each stage the first writer wins
	applyAnimations(n, e, offset)
	for _, p := range e.StyleProperties() {
		if _, ok := n.Styles[p]; !ok {
			v, _ := e.Style(p)
			n.Styles[p] = v
		}
	}
	if parent != nil {
		for p, v := range parent.Styles {
			if !styles.IsInherited(p) {
				continue
			}
			if _, ok := n.Styles[p]; !ok {
				n.Styles[p] = v
			}
		}
	}
	for _, p := range styles.Properties() {
		if _, ok := n.Styles[p]; !ok {
			n.Styles[p] = doc.InitialValue(p)
		}
	}

	if n.Styles[styles.PropDisplay] == styles.KeywordNone {
		return nil
	}

	if parent == nil {
		// e is the selected region: content flows in from the body, which
		// keeps the document time frame, inherits the region's resolved
		// styling and associates with the region until an element says
		// otherwise
		if body := doc.Body(); body != nil {
			if c := processElement(doc, offset, selected, e, n, body); c != nil {
				n.Children = append(n.Children, c)
			}
		}
	} else {
		childOffset := offset
		if b, ok := e.Begin(); ok {
			childOffset = offset.Sub(b)
		}
		for _, child := range e.Children() {
			if c := processElement(doc, childOffset, selected, associated, n, child); c != nil {
				n.Children = append(n.Children, c)
			}
		}
	}

	// strip properties that have no effect on this node kind
	for p := range n.Styles {
		if !model.Applies(p, n.Kind) {
			delete(n.Styles, p)
		}
	}

	switch {
	case n.Kind == model.KindText || n.Kind == model.KindBr:
		return n
	case len(n.Children) > 0:
		return n
	case n.Kind == model.KindRegion && n.Styles[styles.PropShowBackground] == styles.Keyword("always"):
		return n
	}
	return nil
}

// applyAnimations writes the values of animation steps active at the
// offset. Steps live in the same frame as the element's own begin/end;
// when several active steps target one property the latest-starting one
// wins.
func applyAnimations(n *Node, e *model.Element, offset model.Time) {
	steps := e.AnimationSteps()
	if len(steps) == 0 {
		return
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return stepBegin(steps[i]).Before(stepBegin(steps[j]))
	})
	for _, s := range steps {
		if offset.Before(stepBegin(s)) {
			continue
		}
		if s.End != nil && !offset.Before(*s.End) {
			continue
		}
		// later iterations overwrite: ascending begin order makes the
		// latest-starting active step the final writer
		n.Styles[s.Property] = s.Value
	}
}

func stepBegin(s model.AnimationStep) model.Time {
	if s.Begin == nil {
		return model.Time{}
	}
	return *s.Begin
}

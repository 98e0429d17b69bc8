package convert

import (
	"sort"

	"github.com/maruel/natural"

	"ttc/model"
	"ttc/model/styles"
	"ttc/utils/debug"
)

// String returns a readable tree of the parsed document. It exists solely
// for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil || c.doc == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document[%s] format[%s] lang[%q] src[%q]", c.id, c.format, c.doc.Lang(), c.srcName)

	if props := c.doc.InitialValueOverrides(); len(props) > 0 {
		tw.Line(1, "Initial value overrides: %d", len(props))
		for _, p := range sortProps(props) {
			tw.Line(2, "%s = %s", p, c.doc.InitialValue(p))
		}
	}

	regions := c.doc.Regions()
	tw.Line(1, "Regions: %d", len(regions))
	ids := make([]string, 0, len(regions))
	byID := make(map[string]*model.Element, len(regions))
	for _, r := range regions {
		ids = append(ids, r.ID())
		byID[r.ID()] = r
	}
	sort.Sort(natural.StringSlice(ids))
	for _, id := range ids {
		writeNode(tw, 2, byID[id])
	}

	if body := c.doc.Body(); body != nil {
		writeNode(tw, 1, body)
	}
	return tw.String()
}

// sortProps orders style properties by name for stable dumps.
func sortProps(props []styles.Property) []styles.Property {
	out := append([]styles.Property{}, props...)
	sort.Slice(out, func(i, j int) bool {
		return natural.Less(out[i].String(), out[j].String())
	})
	return out
}

func writeNode(tw *debug.TreeWriter, depth int, e *model.Element) {
	label := e.Kind().String()
	if id := e.ID(); id != "" {
		label += "[" + id + "]"
	}
	if begin, ok := e.Begin(); ok {
		label += " begin=" + begin.String()
	}
	if end, ok := e.End(); ok {
		label += " end=" + end.String()
	}
	if region := e.Region(); region != nil && e.Kind() != model.KindRegion {
		label += " region=" + region.ID()
	}
	tw.Line(depth, "%s", label)

	if e.Kind() == model.KindText {
		tw.TextBlock(depth+1, "text", e.Text())
		return
	}

	for _, p := range sortProps(e.StyleProperties()) {
		if v, ok := e.Style(p); ok {
			tw.Line(depth+1, "style %s = %s", p, v)
		}
	}

	for _, child := range e.Children() {
		writeNode(tw, depth+1, child)
	}
}

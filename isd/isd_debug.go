package isd

import (
	"sort"

	"github.com/maruel/natural"

	"ttc/model"
	"ttc/model/styles"
	"ttc/utils/debug"
)

// String returns a readable rendering of the snapshot. It exists solely for
// debug reports and manual inspection.
func (s *ISD) String() string {
	if s == nil {
		return "<nil ISD>"
	}
	tw := debug.NewTreeWriter()
	tw.Line(0, "ISD offset=%s regions=%d", s.Offset, len(s.Regions))
	for _, r := range s.Regions {
		writeNode(tw, 1, r)
	}
	return tw.String()
}

func writeNode(tw *debug.TreeWriter, depth int, n *Node) {
	label := n.Kind.String()
	if n.ID != "" {
		label += "[" + n.ID + "]"
	}
	tw.Line(depth, "%s", label)

	if n.Kind == model.KindText {
		tw.TextBlock(depth+1, "text", n.Text)
		return
	}

	props := make([]styles.Property, 0, len(n.Styles))
	for p := range n.Styles {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		return natural.Less(props[i].String(), props[j].String())
	})
	for _, p := range props {
		tw.Line(depth+1, "style %s = %s", p, n.Styles[p])
	}

	for _, child := range n.Children {
		writeNode(tw, depth+1, child)
	}
}

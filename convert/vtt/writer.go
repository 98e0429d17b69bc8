// Package vtt writes WebVTT subtitle files.
package vtt

import (
	"bufio"
	"fmt"
	"io"

	"ttc/convert/cues"
	"ttc/isd"
	"ttc/model"
)

// Write renders a resolved segment sequence as WebVTT. Styling maps onto
// the native b/i/u cue components plus a color class per non-default color,
// declared in a STYLE block at the top of the file. With formatting off the
// cue payload is plain text and no STYLE block is emitted.
func Write(w io.Writer, segs []isd.Segment, opts cues.Options) error {
	out := bufio.NewWriter(w)
	out.WriteString("WEBVTT\n")

	cs := cues.FromSegments(segs, opts)
	if opts.TextFormatting {
		writeColorStyles(out, cs)
	}

	for i, cue := range cs {
		fmt.Fprintf(out, "\n%d\n%s --> %s\n", i+1, timestamp(cue.Begin), timestamp(cue.End))
		for _, line := range cue.Lines {
			writeLine(out, line, opts.TextFormatting)
			out.WriteByte('\n')
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("unable to write vtt: %w", err)
	}
	return nil
}

// writeColorStyles emits one ::cue(.cXXXXXX) rule per distinct color used,
// so that players with styling support render them.
func writeColorStyles(out *bufio.Writer, cs []cues.Cue) {
	seen := make(map[string]bool)
	var order []string
	for _, cue := range cs {
		for _, line := range cue.Lines {
			for _, c := range line {
				if c.Color == nil {
					continue
				}
				cls := colorClass(c)
				if !seen[cls] {
					seen[cls] = true
					order = append(order, cls)
				}
			}
		}
	}
	for _, cls := range order {
		fmt.Fprintf(out, "\nSTYLE\n::cue(.%s) {\n  color: #%s;\n}\n", cls, cls[1:])
	}
}

func colorClass(c cues.Chunk) string {
	return fmt.Sprintf("c%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
}

func timestamp(t model.Time) string {
	ms := t.ToMillis()
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func writeLine(out *bufio.Writer, line cues.Line, formatting bool) {
	if !formatting {
		for _, c := range line {
			out.WriteString(c.Text)
		}
		return
	}
	for _, c := range line {
		if c.Color != nil {
			fmt.Fprintf(out, "<c.%s>", colorClass(c))
		}
		if c.Bold {
			out.WriteString("<b>")
		}
		if c.Italic {
			out.WriteString("<i>")
		}
		if c.Underline {
			out.WriteString("<u>")
		}
		out.WriteString(c.Text)
		if c.Underline {
			out.WriteString("</u>")
		}
		if c.Italic {
			out.WriteString("</i>")
		}
		if c.Bold {
			out.WriteString("</b>")
		}
		if c.Color != nil {
			out.WriteString("</c>")
		}
	}
}

package srt

import (
	"bufio"
	"fmt"
	"io"

	"ttc/convert/cues"
	"ttc/isd"
	"ttc/model"
)

// Write renders a resolved segment sequence as SubRip. Character styling
// survives as b/i/u/font tags unless opts turns formatting off; everything
// positional is dropped, SubRip has nowhere to put it.
func Write(w io.Writer, segs []isd.Segment, opts cues.Options) error {
	out := bufio.NewWriter(w)
	for i, cue := range cues.FromSegments(segs, opts) {
		if i > 0 {
			out.WriteByte('\n')
		}
		fmt.Fprintf(out, "%d\n%s --> %s\n", i+1, timestamp(cue.Begin), timestamp(cue.End))
		for _, line := range cue.Lines {
			writeLine(out, line, opts.TextFormatting)
			out.WriteByte('\n')
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("unable to write srt: %w", err)
	}
	return nil
}

func timestamp(t model.Time) string {
	ms := t.ToMillis()
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
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
			fmt.Fprintf(out, `<font color="#%02x%02x%02x">`, c.Color.R, c.Color.G, c.Color.B)
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
			out.WriteString("</font>")
		}
	}
}

// Package cues flattens resolved snapshot sequences into the simple
// cue/line/chunk shape that flat subtitle formats share. Region layout is
// discarded; character styling survives as per-chunk flags.
package cues

import (
	"regexp"
	"strings"

	"ttc/isd"
	"ttc/model"
	"ttc/model/styles"
)

// Chunk is a run of text with uniform character styling.
type Chunk struct {
	Text      string
	Italic    bool
	Bold      bool
	Underline bool
	Color     *styles.Color // nil when the resolved color is the document default
}

// Line is one rendered line of a cue.
type Line []Chunk

func (l Line) Text() string {
	var sb strings.Builder
	for _, c := range l {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Cue is one subtitle: lines shown over [Begin, End).
type Cue struct {
	Begin model.Time
	End   model.Time
	Lines []Line
}

// Options tune cue assembly and rendering.
type Options struct {
	// TextFormatting keeps italics, bold, underline and color when writing
	// tagged flat formats; writers drop them to plain text otherwise.
	TextFormatting bool
	// OpenEndedHold is how long a trailing cue with no end time of its own
	// stays on screen. Non-positive values fall back to the default.
	OpenEndedHold model.Time
}

// DefaultOptions matches the configuration template defaults.
func DefaultOptions() Options {
	return Options{TextFormatting: true, OpenEndedHold: defaultHold}
}

var defaultHold = model.Seconds(5)

func (o Options) hold() model.Time {
	if o.OpenEndedHold.ToMillis() > 0 {
		return o.OpenEndedHold
	}
	return defaultHold
}

// FromSegments turns a resolved segment sequence into cues. Empty snapshots
// produce no cue, adjacent segments whose rendered content is identical are
// coalesced into one cue, and a trailing open-ended segment is clamped to a
// fixed hold time.
func FromSegments(segs []isd.Segment, opts Options) []Cue {
	var out []Cue
	for _, seg := range segs {
		lines := flatten(seg.Doc)
		if len(lines) == 0 {
			continue
		}
		end := seg.Begin.Add(opts.hold())
		if seg.End != nil {
			end = *seg.End
		}
		if n := len(out); n > 0 && out[n-1].End.Equal(seg.Begin) && sameLines(out[n-1].Lines, lines) {
			out[n-1].End = end
			continue
		}
		out = append(out, Cue{Begin: seg.Begin, End: end, Lines: lines})
	}
	return out
}

func sameLines(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			ca, cb := a[i][j], b[i][j]
			if ca.Text != cb.Text || ca.Italic != cb.Italic || ca.Bold != cb.Bold || ca.Underline != cb.Underline {
				return false
			}
			if (ca.Color == nil) != (cb.Color == nil) {
				return false
			}
			if ca.Color != nil && *ca.Color != *cb.Color {
				return false
			}
		}
	}
	return true
}

// flatten renders every paragraph of every region, in document order, as
// lines of styled chunks. Paragraph boundaries and br nodes both break
// lines.
func flatten(snapshot *isd.ISD) []Line {
	var (
		out  []Line
		line Line
	)
	endLine := func() {
		line = trimLine(line)
		if len(line) > 0 {
			out = append(out, line)
		}
		line = nil
	}

	// text nodes carry no styles of their own (nothing applies to them), so
	// chunk styling comes from the enclosing span
	var walk func(n, parent *isd.Node)
	walk = func(n, parent *isd.Node) {
		switch n.Kind {
		case model.KindBr:
			endLine()
			return
		case model.KindText:
			if text := collapseSpace(n); text != "" {
				line = append(line, chunkFor(parent, text))
			}
			return
		case model.KindRp:
			// ruby fallback parentheses are renderer hints, not content
			return
		}
		for _, c := range n.Children {
			walk(c, n)
		}
		if n.Kind == model.KindP {
			endLine()
		}
	}

	for _, region := range snapshot.Regions {
		for _, c := range region.Children {
			walk(c, region)
		}
		endLine()
	}
	return out
}

// collapseSpace applies default whitespace handling: runs of whitespace
// become single spaces unless xml:space=preserve is in effect. Edge spaces
// stay - they may separate this chunk from its neighbours - and are trimmed
// at line boundaries instead.
func collapseSpace(n *isd.Node) string {
	if n.Space == model.WhiteSpacePreserve {
		return n.Text
	}
	return wsRun.ReplaceAllString(n.Text, " ")
}

var wsRun = regexp.MustCompile(`\s+`)

// trimLine strips leading and trailing whitespace off a finished line and
// drops chunks that end up empty.
func trimLine(line Line) Line {
	for len(line) > 0 {
		line[0].Text = strings.TrimLeft(line[0].Text, " ")
		if line[0].Text != "" {
			break
		}
		line = line[1:]
	}
	for len(line) > 0 {
		last := len(line) - 1
		line[last].Text = strings.TrimRight(line[last].Text, " ")
		if line[last].Text != "" {
			break
		}
		line = line[:last]
	}
	return line
}

// chunkFor derives the chunk styling from the resolved styles of the span
// holding the text. Resolution has already run the full cascade, so plain
// map lookups are all that is needed.
func chunkFor(n *isd.Node, text string) Chunk {
	c := Chunk{Text: text}
	if v, ok := n.Styles[styles.PropFontStyle].(styles.Keyword); ok && v != styles.KeywordNormal {
		c.Italic = true
	}
	if v, ok := n.Styles[styles.PropFontWeight].(styles.Keyword); ok && v == styles.Keyword("bold") {
		c.Bold = true
	}
	if v, ok := n.Styles[styles.PropTextDecoration].(styles.TextDecoration); ok {
		c.Underline = v.Underline
	}
	if v, ok := n.Styles[styles.PropColor].(styles.Color); ok && v != styles.ColorWhite {
		color := v
		c.Color = &color
	}
	return c
}

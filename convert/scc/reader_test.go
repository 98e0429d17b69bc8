package scc

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"ttc/model"
)

// caption codes below are written without the parity bit; the decoder
// strips it either way

const popOnSCC = "Scenarist_SCC V1.0\n" +
	"\n" +
	"00:00:01:00\t1420 1420 142e 142e 1470 1470 4845 4c4c 4f20 574f 524c 4400 142f 142f\n" +
	"\n" +
	"00:00:03:00\t142c 142c\n"

func paragraphText(t *testing.T, p *model.Element) string {
	t.Helper()
	var sb strings.Builder
	var walk func(e *model.Element)
	walk = func(e *model.Element) {
		switch e.Kind() {
		case model.KindText:
			sb.WriteString(e.Text())
		case model.KindBr:
			sb.WriteString("\n")
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(p)
	return sb.String()
}

func TestPopOnCaption(t *testing.T) {
	doc, err := Read(strings.NewReader(popOnSCC), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, ok := doc.Region(regionID); !ok {
		t.Fatalf("region missing")
	}

	paragraphs := doc.Body().Children()[0].Children()
	if len(paragraphs) != 1 {
		t.Fatalf("want 1 caption, got %d", len(paragraphs))
	}
	p := paragraphs[0]
	if got := paragraphText(t, p); got != "HELLO WORLD" {
		t.Fatalf("caption text: %q", got)
	}

	// EOC is the 13th word of a line starting at frame 30
	if b, ok := p.Begin(); !ok || !b.Equal(model.FrameTime(42, 30000, 1001)) {
		t.Fatalf("begin: %v %v", b, ok)
	}
	if e, ok := p.End(); !ok || !e.Equal(model.FrameTime(90, 30000, 1001)) {
		t.Fatalf("end: %v %v", e, ok)
	}
}

func TestRollUpCaptions(t *testing.T) {
	const src = "Scenarist_SCC V1.0\n\n" +
		"00:00:00:10\t1425 1425 1470 1470 4849 2054 4845 5245\n" +
		"00:00:02:00\t142d 142d\n" +
		"00:00:02:10\t4142 4300\n"

	doc, err := Read(strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	paragraphs := doc.Body().Children()[0].Children()
	if len(paragraphs) != 2 {
		t.Fatalf("want 2 captions, got %d", len(paragraphs))
	}

	first := paragraphs[0]
	if got := paragraphText(t, first); got != "HI THERE" {
		t.Fatalf("first caption: %q", got)
	}
	// text starts at the 5th word of a line starting at frame 10
	if b, _ := first.Begin(); !b.Equal(model.FrameTime(14, 30000, 1001)) {
		t.Fatalf("first begin: %s", b)
	}
	if e, ok := first.End(); !ok || !e.Equal(model.FrameTime(60, 30000, 1001)) {
		t.Fatalf("first end: %v %v", e, ok)
	}

	// after the carriage return the old line is still in the window, the
	// new text types into the base row; the file ends with it on screen
	second := paragraphs[1]
	if got := paragraphText(t, second); got != "HI THERE\nABC" {
		t.Fatalf("second caption: %q", got)
	}
	if _, ok := second.End(); ok {
		t.Fatalf("caption on screen at end of input must stay open-ended")
	}
}

func TestSpecialAndExtendedCharacters(t *testing.T) {
	d := newDecoder(zaptest.NewLogger(t))
	feed := [][2]byte{
		{0x14, 0x29}, // RDC: paint-on writes straight to the screen
		{0x14, 0x70}, // PAC row 15
		{0x43, 0x00}, // C
		{0x11, 0x37}, // music note
		{0x65, 0x00}, // e fallback
		{0x12, 0x30}, // replaced by À
	}
	for i, w := range feed {
		d.word(frameTime(int64(i)), w[0], w[1])
	}
	caps := d.finish()
	if len(caps) != 1 {
		t.Fatalf("want 1 caption, got %d", len(caps))
	}
	runs := rowRuns(caps[0].rows[numRows])
	if len(runs) != 1 || runs[0].text != "C♪À" {
		t.Fatalf("decoded text: %+v", runs)
	}
}

func TestMidRowStyling(t *testing.T) {
	d := newDecoder(zaptest.NewLogger(t))
	feed := [][2]byte{
		{0x14, 0x29}, // RDC
		{0x14, 0x70}, // PAC row 15, white
		{0x41, 0x00}, // A
		{0x11, 0x2e}, // mid-row: italics
		{0x42, 0x00}, // B
	}
	for i, w := range feed {
		d.word(frameTime(int64(i)), w[0], w[1])
	}
	runs := rowRuns(d.finish()[0].rows[numRows])
	if len(runs) != 2 {
		t.Fatalf("want 2 runs, got %+v", runs)
	}
	if runs[0].style.italic || !runs[1].style.italic {
		t.Fatalf("italics: %+v", runs)
	}
	// the mid-row code itself renders as a space
	if runs[0].text != "A" || runs[1].text != " B" {
		t.Fatalf("run text: %+v", runs)
	}
}

func TestDropFrameTimecode(t *testing.T) {
	m := []string{"", "00", "01", "00", ";", "02"}
	frames, err := parseTimecode(m)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// one minute of drop-frame drops two frame numbers
	if frames != 30*60+2-2 {
		t.Fatalf("frames: %d", frames)
	}
}

func TestRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not scc\n",
		"Scenarist_SCC V1.0\n\nbogus line without timecode\n",
		"Scenarist_SCC V1.0\n\n00:00:01:00\t94zz\n",
		"Scenarist_SCC V1.0\n\n00:00:01:00\t1420\n", // decodes but displays nothing
	}
	for _, src := range cases {
		if _, err := Read(strings.NewReader(src), zaptest.NewLogger(t)); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

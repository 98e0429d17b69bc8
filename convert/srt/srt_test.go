package srt

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"ttc/convert/cues"
	"ttc/isd"
	"ttc/model"
	"ttc/model/styles"
)

const sampleSRT = "1\n" +
	"00:00:01,000 --> 00:00:03,000\n" +
	"Hello, <i>world</i>\n" +
	"\n" +
	"2\n" +
	"00:00:04,500 --> 00:00:06,000\n" +
	"<font color=\"#00ff00\">green</font> text\n" +
	"second line\n" +
	"\n" +
	"3\n" +
	"00:01:00,000 --> 00:01:02,250\n" +
	"<b>bold</b> and <u>under</u>\n"

func TestReadCues(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleSRT), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, ok := doc.Region(regionID); !ok {
		t.Fatalf("default region missing")
	}

	div := doc.Body().Children()[0]
	paragraphs := div.Children()
	if len(paragraphs) != 3 {
		t.Fatalf("want 3 cues, got %d", len(paragraphs))
	}

	p1 := paragraphs[0]
	if b, _ := p1.Begin(); !b.Equal(model.Seconds(1)) {
		t.Fatalf("cue 1 begin: %s", b)
	}
	if e, _ := p1.End(); !e.Equal(model.Seconds(3)) {
		t.Fatalf("cue 1 end: %s", e)
	}
	kids := p1.Children()
	if len(kids) != 2 {
		t.Fatalf("cue 1: want plain + italic span, got %d", len(kids))
	}
	if v, _ := kids[1].Style(styles.PropFontStyle); v != styles.Keyword("italic") {
		t.Fatalf("cue 1 italic: %v", v)
	}

	p2 := paragraphs[1]
	var sawBr bool
	for _, c := range p2.Children() {
		if c.Kind() == model.KindBr {
			sawBr = true
		}
	}
	if !sawBr {
		t.Fatalf("cue 2 lost its line break")
	}
	if v, _ := p2.Children()[0].Style(styles.PropColor); v != styles.ColorGreen {
		t.Fatalf("cue 2 color: %v", v)
	}

	p3 := paragraphs[2]
	if e, _ := p3.End(); !e.Equal(model.Millis(62250)) {
		t.Fatalf("cue 3 end: %s", e)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not a subtitle file at all",
		"1\n00:00:05,000 --> 00:00:03,000\nbackwards\n",
	}
	for _, src := range cases {
		if _, err := Read(strings.NewReader(src), zaptest.NewLogger(t)); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestReadMissingCounter(t *testing.T) {
	const src = "00:00:01,000 --> 00:00:02,000\nno counter here\n"
	doc, err := Read(strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := len(doc.Body().Children()[0].Children()); got != 1 {
		t.Fatalf("want 1 cue, got %d", got)
	}
}

func TestRoundTrip(t *testing.T) {
	log := zaptest.NewLogger(t)
	doc, err := Read(strings.NewReader(sampleSRT), log)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, isd.Resolve(doc), cues.DefaultOptions()); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := buf.String()

	for _, want := range []string{
		"1\n00:00:01,000 --> 00:00:03,000",
		"Hello, <i>world</i>",
		"2\n00:00:04,500 --> 00:00:06,000",
		`<font color="#00ff00">green</font> text`,
		"second line",
		"<b>bold</b> and <u>under</u>",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	back, err := Read(bytes.NewReader(buf.Bytes()), log)
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, text)
	}
	if got := len(back.Body().Children()[0].Children()); got != 3 {
		t.Fatalf("want 3 cues after round trip, got %d", got)
	}
}

func TestWritePlainText(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleSRT), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	opts := cues.DefaultOptions()
	opts.TextFormatting = false

	var buf bytes.Buffer
	if err := Write(&buf, isd.Resolve(doc), opts); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := buf.String()

	if strings.ContainsAny(text, "<>") {
		t.Fatalf("markup left in plain text output:\n%s", text)
	}
	for _, want := range []string{"Hello, world", "green text", "bold and under"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

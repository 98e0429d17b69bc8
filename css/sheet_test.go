package css

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"ttc/model"
	"ttc/model/styles"
)

func TestParseOverrides(t *testing.T) {
	const sheet = `
/* broadcast house style */
tt {
  color: yellow;
  background-color: #00000000;
  font-family: "Proportional Sans", monospaceSerif;
  font-style: italic;
}

body {
  text-align: center;
}
`
	p := NewParser(zaptest.NewLogger(t))
	o, err := p.Parse([]byte(sheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := o[styles.PropColor]; got != styles.ColorYellow {
		t.Fatalf("color: %v", got)
	}
	if got := o[styles.PropBackgroundColor]; got != (styles.Color{}) {
		t.Fatalf("background: %v", got)
	}
	ff, ok := o[styles.PropFontFamily].(styles.FontFamilies)
	if !ok || len(ff) != 2 || ff[0] != "Proportional Sans" || ff[1] != "monospaceSerif" {
		t.Fatalf("font families: %v", o[styles.PropFontFamily])
	}
	if got := o[styles.PropFontStyle]; got != styles.Keyword("italic") {
		t.Fatalf("font style: %v", got)
	}
	if got := o[styles.PropTextAlign]; got != styles.Keyword("center") {
		t.Fatalf("text align: %v", got)
	}
}

func TestParseIgnoresUnsupported(t *testing.T) {
	const sheet = `
@media screen { tt { color: red; } }
p.caption { color: red; }
tt {
  line-height: 120%;
  color: not-a-color;
  font-weight: bold;
}
`
	p := NewParser(zaptest.NewLogger(t))
	o, err := p.Parse([]byte(sheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(o) != 1 {
		t.Fatalf("want only font-weight to survive, got %v", o)
	}
	if got := o[styles.PropFontWeight]; got != styles.Keyword("bold") {
		t.Fatalf("font weight: %v", got)
	}
}

func TestApply(t *testing.T) {
	doc := model.NewDocument()
	o := Overrides{
		styles.PropColor:     styles.ColorCyan,
		styles.PropTextAlign: styles.Keyword("start"),
	}
	if err := Apply(doc, o); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := doc.InitialValue(styles.PropColor); got != styles.ColorCyan {
		t.Fatalf("initial color: %v", got)
	}
	if got := doc.InitialValue(styles.PropTextAlign); got != styles.Keyword("start") {
		t.Fatalf("initial text align: %v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	p := NewParser(zaptest.NewLogger(t))
	o, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(o) != 0 {
		t.Fatalf("want no overrides, got %v", o)
	}
}

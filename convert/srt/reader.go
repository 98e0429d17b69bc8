// Package srt reads and writes SubRip subtitle files.
package srt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"go.uber.org/zap"

	"ttc/model"
	"ttc/model/styles"
)

// the single region all cues land in: a bottom-anchored strip
const regionID = "bottom"

var timingRe = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{2}):(\d{2})[,.](\d{1,3})`)

// Read parses a SubRip file into the canonical model. Cues become
// paragraphs in one bottom region; inline b/i/u/font markup becomes styled
// spans.
func Read(r io.Reader, log *zap.Logger) (*model.Document, error) {
	doc := model.NewDocument()
	region, err := newDefaultRegion(doc)
	if err != nil {
		return nil, err
	}

	body := model.NewBody(doc)
	div := model.NewDiv(doc)
	if err := body.AppendChild(div); err != nil {
		return nil, err
	}
	if err := doc.SetBody(body); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		block  []string
		blocks int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		blocks++
		if err := parseBlock(doc, div, region, block, log); err != nil {
			return fmt.Errorf("cue %d: %w", blocks, err)
		}
		block = nil
		return nil
	}

	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if blocks == 0 {
		return nil, fmt.Errorf("no cues found")
	}
	return doc, nil
}

func newDefaultRegion(doc *model.Document) (*model.Element, error) {
	region, err := model.NewRegion(doc, regionID)
	if err != nil {
		return nil, err
	}
	for p, v := range map[styles.Property]styles.Value{
		styles.PropOrigin: styles.Coordinate{
			X: styles.Length{Value: 5, Units: styles.UnitPercent},
			Y: styles.Length{Value: 75, Units: styles.UnitPercent},
		},
		styles.PropExtent: styles.Extent{
			Width:  styles.Length{Value: 90, Units: styles.UnitPercent},
			Height: styles.Length{Value: 20, Units: styles.UnitPercent},
		},
		styles.PropDisplayAlign:   styles.Keyword("after"),
		styles.PropShowBackground: styles.Keyword("whenActive"),
	} {
		if err := region.SetStyle(p, v); err != nil {
			return nil, err
		}
	}
	if err := doc.PutRegion(region); err != nil {
		return nil, err
	}
	return region, nil
}

// parseBlock handles one cue: an optional counter line, the timing line and
// the payload.
func parseBlock(doc *model.Document, div, region *model.Element, block []string, log *zap.Logger) error {
	// the counter is optional and some files omit it
	if _, err := strconv.Atoi(strings.TrimSpace(block[0])); err == nil && len(block) > 1 {
		block = block[1:]
	}
	m := timingRe.FindStringSubmatch(block[0])
	if m == nil {
		return fmt.Errorf("bad timing line %q", block[0])
	}
	begin := cueTime(m[1:5])
	end := cueTime(m[5:9])
	if !begin.Before(end) {
		return fmt.Errorf("cue ends at %s before it begins at %s", end, begin)
	}

	p := model.NewP(doc)
	if err := p.SetBegin(begin); err != nil {
		return err
	}
	if err := p.SetEnd(end); err != nil {
		return err
	}
	if err := p.SetRegion(region); err != nil {
		return err
	}
	if err := div.AppendChild(p); err != nil {
		return err
	}
	return parseMarkup(doc, p, strings.Join(block[1:], "\n"), log)
}

func cueTime(m []string) model.Time {
	h, _ := strconv.ParseInt(m[0], 10, 64)
	mm, _ := strconv.ParseInt(m[1], 10, 64)
	ss, _ := strconv.ParseInt(m[2], 10, 64)
	// fractions shorter than three digits scale up: "5" means 500ms
	frac := m[3] + strings.Repeat("0", 3-len(m[3]))
	ms, _ := strconv.ParseInt(frac, 10, 64)
	return model.Millis((h*3600+mm*60+ss)*1000 + ms)
}

// markupState is the styling accumulated from open tags at one point of the
// payload.
type markupState struct {
	italic, bold, underline bool
	color                   *styles.Color
}

// parseMarkup lexes the cue payload and appends styled spans and line
// breaks to the paragraph. Unknown or unbalanced tags are ignored with a
// warning rather than failing the whole file.
func parseMarkup(doc *model.Document, p *model.Element, payload string, log *zap.Logger) error {
	lexer := html.NewLexer(parse.NewInputString(payload))
	stack := []markupState{{}}
	cur := func() markupState { return stack[len(stack)-1] }

	for {
		tt, _ := lexer.Next()
		switch tt {
		case html.ErrorToken:
			if lexer.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("unable to lex markup: %w", lexer.Err())

		case html.StartTagToken:
			name := strings.ToLower(string(lexer.Text()))
			state := cur()
			switch name {
			case "i":
				state.italic = true
			case "b":
				state.bold = true
			case "u":
				state.underline = true
			case "br":
				if err := p.AppendChild(model.NewBr(doc)); err != nil {
					return err
				}
			case "font":
				if c := fontColor(lexer); c != nil {
					state.color = c
				}
			default:
				log.Warn("Ignoring unknown tag", zap.String("tag", name))
			}
			if name != "br" {
				stack = append(stack, state)
			}
			drainTag(lexer)

		case html.EndTagToken:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case html.TextToken:
			if err := appendStyledText(doc, p, string(lexer.Text()), cur()); err != nil {
				return err
			}
		}
	}
}

// fontColor pulls the color attribute off an open font tag.
func fontColor(lexer *html.Lexer) *styles.Color {
	for {
		tt, _ := lexer.Next()
		if tt != html.AttributeToken {
			return nil
		}
		if !strings.EqualFold(string(lexer.Text()), "color") {
			continue
		}
		raw := strings.Trim(string(lexer.AttrVal()), `"'`)
		if c, ok := parseColor(raw); ok {
			return &c
		}
		return nil
	}
}

// drainTag consumes any remaining attribute tokens up to the closing angle
// bracket.
func drainTag(lexer *html.Lexer) {
	for {
		switch tt, _ := lexer.Next(); tt {
		case html.AttributeToken:
		default:
			return
		}
	}
}

func parseColor(raw string) (styles.Color, bool) {
	if c, ok := styles.NamedColor(raw); ok {
		return c, true
	}
	if strings.HasPrefix(raw, "#") && len(raw) == 7 {
		v, err := strconv.ParseUint(raw[1:], 16, 32)
		if err == nil {
			return styles.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
		}
	}
	return styles.Color{}, false
}

// appendStyledText adds the text as one span per line, with br nodes at the
// newlines, styled per the open markup.
func appendStyledText(doc *model.Document, p *model.Element, text string, state markupState) error {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			if err := p.AppendChild(model.NewBr(doc)); err != nil {
				return err
			}
		}
		if part == "" {
			continue
		}
		span := model.NewSpan(doc)
		if state.italic {
			if err := span.SetStyle(styles.PropFontStyle, styles.Keyword("italic")); err != nil {
				return err
			}
		}
		if state.bold {
			if err := span.SetStyle(styles.PropFontWeight, styles.Keyword("bold")); err != nil {
				return err
			}
		}
		if state.underline {
			if err := span.SetStyle(styles.PropTextDecoration, styles.TextDecoration{Underline: true}); err != nil {
				return err
			}
		}
		if state.color != nil {
			if err := span.SetStyle(styles.PropColor, *state.color); err != nil {
				return err
			}
		}
		if err := p.AppendChild(span); err != nil {
			return err
		}
		if err := span.AppendChild(model.NewText(doc, part)); err != nil {
			return err
		}
	}
	return nil
}

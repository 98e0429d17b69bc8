// Package stl reads EBU 3264 (EBU-STL) binary subtitle files.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"ttc/model"
	"ttc/model/styles"
)

const (
	gsiSize = 1024
	ttiSize = 128

	regionID = "screen"

	// text field control codes
	tfItalicsOn    = 0x80
	tfItalicsOff   = 0x81
	tfUnderlineOn  = 0x82
	tfUnderlineOff = 0x83
	tfBoxingOn     = 0x84
	tfBoxingOff    = 0x85
	tfNewline      = 0x8a
	tfEndOfText    = 0x8f
)

// teletext alpha color codes 0x00-0x07
var alphaColors = [8]styles.Color{
	styles.ColorBlack,
	styles.ColorRed,
	styles.ColorGreen,
	styles.ColorYellow,
	styles.ColorBlue,
	styles.ColorMagenta,
	styles.ColorCyan,
	styles.ColorWhite,
}

type gsi struct {
	timebase int64 // frames per timecode second: 25 or 30
	rateNum  int64 // true frame rate as a rational
	rateDen  int64
	cct      string
	decoder  textDecoder
}

// Read parses an EBU-STL file into the canonical model.
func Read(r io.Reader, log *zap.Logger) (*model.Document, error) {
	var head [gsiSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("unable to read gsi block: %w", err)
	}
	info, err := parseGSI(head[:])
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument()
	region, err := newScreenRegion(doc)
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

	var (
		block    [ttiSize]byte
		open     *subtitle
		count    int
		produced int
	)
	for {
		if _, err := io.ReadFull(r, block[:]); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("unable to read tti block %d: %w", count+1, err)
		}
		count++

		sub, last, err := parseTTI(block[:], info)
		if err != nil {
			return nil, fmt.Errorf("tti block %d: %w", count, err)
		}
		if sub == nil {
			continue // comment block
		}
		if open != nil {
			open.text = append(open.text, sub.text...)
		} else {
			open = sub
		}
		if !last {
			continue // extension blocks accumulate text
		}
		if err := appendSubtitle(doc, div, region, open, info, log); err != nil {
			return nil, fmt.Errorf("subtitle %d: %w", open.number, err)
		}
		open = nil
		produced++
	}
	if open != nil {
		return nil, fmt.Errorf("subtitle %d: missing terminal extension block", open.number)
	}
	if produced == 0 {
		return nil, fmt.Errorf("no subtitles found")
	}
	return doc, nil
}

func parseGSI(b []byte) (*gsi, error) {
	dfc := string(b[3:11])
	info := &gsi{}
	switch dfc {
	case "STL25.01":
		info.timebase, info.rateNum, info.rateDen = 25, 25, 1
	case "STL30.01":
		info.timebase, info.rateNum, info.rateDen = 30, 30000, 1001
	default:
		return nil, fmt.Errorf("unsupported disk format code %q", dfc)
	}
	info.cct = string(b[12:14])
	dec, err := newTextDecoder(info.cct)
	if err != nil {
		return nil, err
	}
	info.decoder = dec
	// LC at 14-15 is an EBU numeric language code with no clean BCP 47
	// mapping; the document language stays unset
	return info, nil
}

type styledText struct {
	text      string
	color     styles.Color
	italic    bool
	underline bool
	newline   bool
}

type subtitle struct {
	number  int
	begin   model.Time
	end     model.Time
	justify byte
	text    []styledText
}

// parseTTI decodes one 128-byte block. Returns nil for comment blocks;
// last reports whether this block terminates its subtitle.
func parseTTI(b []byte, info *gsi) (*subtitle, bool, error) {
	ebn := b[3]
	if ebn >= 0xf0 && ebn < 0xff {
		return nil, false, nil // reserved and user data blocks
	}
	if b[15] != 0 {
		return nil, false, nil // comment
	}

	begin, err := timecode(b[5:9], info)
	if err != nil {
		return nil, false, fmt.Errorf("tci: %w", err)
	}
	end, err := timecode(b[9:13], info)
	if err != nil {
		return nil, false, fmt.Errorf("tco: %w", err)
	}

	sub := &subtitle{
		number:  int(binary.LittleEndian.Uint16(b[1:3])),
		begin:   begin,
		end:     end,
		justify: b[14],
	}
	if err := sub.decodeTextField(b[16:], info); err != nil {
		return nil, false, err
	}
	return sub, ebn == 0xff, nil
}

func timecode(b []byte, info *gsi) (model.Time, error) {
	h, m, s, f := int64(b[0]), int64(b[1]), int64(b[2]), int64(b[3])
	if m > 59 || s > 59 || f >= info.timebase {
		return model.Time{}, fmt.Errorf("timecode %02d:%02d:%02d:%02d out of range", h, m, s, f)
	}
	frames := (h*3600+m*60+s)*info.timebase + f
	return model.FrameTime(frames, info.rateNum, info.rateDen), nil
}

// decodeTextField splits the text field into styled runs, decoding the
// character code table for each run of printable bytes.
func (sub *subtitle) decodeTextField(tf []byte, info *gsi) error {
	var (
		run       []byte
		color     = styles.ColorWhite
		italic    bool
		underline bool
	)
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		decoded, err := info.decoder.decode(run)
		if err != nil {
			return err
		}
		run = nil
		sub.text = append(sub.text, styledText{
			text: decoded, color: color, italic: italic, underline: underline,
		})
		return nil
	}

	for _, c := range tf {
		switch {
		case c == tfEndOfText:
			return flush()
		case c == tfNewline:
			if err := flush(); err != nil {
				return err
			}
			sub.text = append(sub.text, styledText{newline: true})
		case c < 0x08:
			if err := flush(); err != nil {
				return err
			}
			color = alphaColors[c]
		case c == tfItalicsOn || c == tfItalicsOff:
			if err := flush(); err != nil {
				return err
			}
			italic = c == tfItalicsOn
		case c == tfUnderlineOn || c == tfUnderlineOff:
			if err := flush(); err != nil {
				return err
			}
			underline = c == tfUnderlineOn
		case c == tfBoxingOn || c == tfBoxingOff:
			// boxing is background presentation, nothing to carry
		case c < 0x20 || (c >= 0x86 && c < 0xa0):
			// remaining teletext control codes are presentation hints
		default:
			run = append(run, c)
		}
	}
	return flush()
}

func newScreenRegion(doc *model.Document) (*model.Element, error) {
	region, err := model.NewRegion(doc, regionID)
	if err != nil {
		return nil, err
	}
	for p, v := range map[styles.Property]styles.Value{
		styles.PropOrigin: styles.Coordinate{
			X: styles.Length{Value: 10, Units: styles.UnitPercent},
			Y: styles.Length{Value: 10, Units: styles.UnitPercent},
		},
		styles.PropExtent: styles.Extent{
			Width:  styles.Length{Value: 80, Units: styles.UnitPercent},
			Height: styles.Length{Value: 80, Units: styles.UnitPercent},
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

func appendSubtitle(doc *model.Document, div, region *model.Element, sub *subtitle, info *gsi, log *zap.Logger) error {
	if !sub.begin.Before(sub.end) {
		return fmt.Errorf("ends at %s before it begins at %s", sub.end, sub.begin)
	}

	p := model.NewP(doc)
	if err := p.SetBegin(sub.begin); err != nil {
		return err
	}
	if err := p.SetEnd(sub.end); err != nil {
		return err
	}
	if err := p.SetRegion(region); err != nil {
		return err
	}
	switch sub.justify {
	case 1:
		if err := p.SetStyle(styles.PropTextAlign, styles.Keyword("left")); err != nil {
			return err
		}
	case 3:
		if err := p.SetStyle(styles.PropTextAlign, styles.Keyword("right")); err != nil {
			return err
		}
	case 0, 2:
		// unchanged or centered: the region default centers
	default:
		log.Warn("Unknown justification code", zap.Uint8("jc", sub.justify))
	}
	if err := div.AppendChild(p); err != nil {
		return err
	}

	wrote := false
	for i, run := range sub.text {
		if run.newline {
			if err := p.AppendChild(model.NewBr(doc)); err != nil {
				return err
			}
		}
		text := run.text
		if i == len(sub.text)-1 {
			text = strings.TrimRight(text, " ")
		}
		if text == "" {
			continue
		}
		span := model.NewSpan(doc)
		if run.color != styles.ColorWhite {
			if err := span.SetStyle(styles.PropColor, run.color); err != nil {
				return err
			}
		}
		if run.italic {
			if err := span.SetStyle(styles.PropFontStyle, styles.Keyword("italic")); err != nil {
				return err
			}
		}
		if run.underline {
			if err := span.SetStyle(styles.PropTextDecoration, styles.TextDecoration{Underline: true}); err != nil {
				return err
			}
		}
		if err := p.AppendChild(span); err != nil {
			return err
		}
		if err := span.AppendChild(model.NewText(doc, text)); err != nil {
			return err
		}
		wrote = true
	}
	if !wrote {
		// an empty subtitle carries no content; drop the paragraph
		p.Remove()
	}
	return nil
}

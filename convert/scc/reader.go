// Package scc reads Scenarist Closed Caption files carrying CEA-608
// channel 1 caption data.
package scc

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ttc/model"
	"ttc/model/styles"
)

const (
	sccHeader = "Scenarist_SCC V1.0"
	regionID  = "screen"

	numRows = 15
	numCols = 32
)

var lineRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})([:;])(\d{2})\s+(.*)$`)

// Read decodes an SCC file into the canonical model. Only data channel 1 is
// decoded; channel 2 and text-mode services are skipped.
func Read(r io.Reader, log *zap.Logger) (*model.Document, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty input")
	}
	header := strings.TrimPrefix(strings.TrimRight(scanner.Text(), "\r"), "\ufeff")
	if !strings.HasPrefix(header, sccHeader) {
		return nil, fmt.Errorf("not an scc file: header %q", header)
	}

	dec := newDecoder(log)
	lines := 1
	for scanner.Scan() {
		lines++
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: bad timecode line %q", lines, line)
		}
		frame, err := parseTimecode(m)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lines, err)
		}
		for _, word := range strings.Fields(m[6]) {
			if len(word) != 4 {
				return nil, fmt.Errorf("line %d: bad word %q", lines, word)
			}
			v, err := strconv.ParseUint(word, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad word %q: %w", lines, word, err)
			}
			dec.word(frameTime(frame), byte(v>>8), byte(v))
			frame++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}

	captions := dec.finish()
	if len(captions) == 0 {
		return nil, fmt.Errorf("no captions found")
	}
	return buildDocument(captions)
}

// parseTimecode converts an SCC timecode to a frame count. Drop-frame
// timecodes (the ; separator) skip two frame numbers every minute except
// each tenth minute.
func parseTimecode(m []string) (int64, error) {
	h, _ := strconv.ParseInt(m[1], 10, 64)
	mm, _ := strconv.ParseInt(m[2], 10, 64)
	ss, _ := strconv.ParseInt(m[3], 10, 64)
	ff, _ := strconv.ParseInt(m[5], 10, 64)
	if mm > 59 || ss > 59 || ff > 29 {
		return 0, fmt.Errorf("timecode %s:%s:%s%s%s out of range", m[1], m[2], m[3], m[4], m[5])
	}
	frames := ((h*3600+mm*60+ss)*30 + ff)
	if m[4] == ";" {
		minutes := h*60 + mm
		frames -= 2 * (minutes - minutes/10)
	}
	return frames, nil
}

// frameTime converts a 29.97 fps frame count to seconds.
func frameTime(frames int64) model.Time {
	return model.FrameTime(frames, 30000, 1001)
}

// cell is one screen position: a character and its styling.
type cell struct {
	ch        rune
	color     styles.Color
	italic    bool
	underline bool
}

type screen [numRows + 1][numCols]cell // rows are 1-based

func (s *screen) clear() {
	*s = screen{}
}

func (s *screen) empty() bool {
	for r := 1; r <= numRows; r++ {
		for c := 0; c < numCols; c++ {
			if s[r][c].ch != 0 {
				return false
			}
		}
	}
	return true
}

// caption is one finished display interval. Rows are captured when the
// caption leaves the screen.
type caption struct {
	begin model.Time
	end   *model.Time
	rows  screen
}

type captionMode int

const (
	modeNone captionMode = iota
	modePopOn
	modeRollUp
	modePaintOn
	modeText
)

type decoder struct {
	log *zap.Logger

	mode       captionMode
	rollUpRows int

	displayed screen
	offscreen screen

	row, col int
	style    cell // current PAC/mid-row styling, ch unused

	lastControl uint16 // for control code doubling

	openBegin *model.Time
	captions  []caption
}

func newDecoder(log *zap.Logger) *decoder {
	return &decoder{log: log, row: numRows, style: cell{color: styles.ColorWhite}}
}

// active returns the buffer writes currently land in.
func (d *decoder) active() *screen {
	if d.mode == modePopOn {
		return &d.offscreen
	}
	return &d.displayed
}

// word processes one two-byte caption element at the given time.
func (d *decoder) word(t model.Time, b1, b2 byte) {
	b1 &= 0x7f // strip odd parity
	b2 &= 0x7f
	if b1 == 0 && b2 == 0 {
		return // padding
	}

	if b1 >= 0x20 {
		d.lastControl = 0
		d.text(t, b1)
		if b2 >= 0x20 {
			d.text(t, b2)
		}
		return
	}

	// transmission doubles control codes; drop the immediate repeat
	code := uint16(b1)<<8 | uint16(b2)
	if code == d.lastControl {
		d.lastControl = 0
		return
	}
	d.lastControl = code

	switch {
	case b1 >= 0x18:
		// data channel 2
	case b1 == 0x11 && b2 >= 0x30 && b2 <= 0x3f:
		d.put(t, specialChars[b2-0x30])
	case b1 == 0x12 && b2 >= 0x20 && b2 <= 0x3f:
		d.replaceLast(t, extendedChars12[b2-0x20])
	case b1 == 0x13 && b2 >= 0x20 && b2 <= 0x3f:
		d.replaceLast(t, extendedChars13[b2-0x20])
	case b1 == 0x11 && b2 >= 0x20 && b2 <= 0x2f:
		d.midRow(b2)
	case b1 == 0x14 && b2 >= 0x20 && b2 <= 0x2f:
		d.control(t, b2)
	case b1 == 0x17 && b2 >= 0x21 && b2 <= 0x23:
		d.col = min(d.col+int(b2-0x20), numCols-1)
	case b2 >= 0x40:
		d.pac(b1, b2)
	default:
		d.log.Debug("Skipping unsupported caption code",
			zap.Uint8("b1", b1), zap.Uint8("b2", b2))
	}
}

func (d *decoder) text(t model.Time, b byte) {
	d.put(t, standardChars[b-0x20])
}

func (d *decoder) put(t model.Time, ch rune) {
	if d.mode == modeNone || d.mode == modeText {
		return
	}
	buf := d.active()
	c := d.style
	c.ch = ch
	buf[d.row][d.col] = c
	if d.col < numCols-1 {
		d.col++
	}
	if buf == &d.displayed {
		d.ensureOpen(t)
	}
}

// replaceLast implements extended characters: the fallback standard
// character transmitted just before is overwritten.
func (d *decoder) replaceLast(t model.Time, ch rune) {
	if d.mode == modeNone || d.mode == modeText {
		return
	}
	if d.col > 0 && d.active()[d.row][d.col-1].ch != 0 {
		d.col--
	}
	d.put(t, ch)
}

func (d *decoder) midRow(b2 byte) {
	idx := (b2 & 0x0e) >> 1
	d.style.color = pacColors[idx]
	d.style.italic = idx == 7
	d.style.underline = b2&0x01 != 0
	// a mid-row code occupies a screen position
	if d.col < numCols-1 {
		d.col++
	}
}

func (d *decoder) pac(b1, b2 byte) {
	row, ok := pacRows[[2]byte{b1 & 0x07, b2 & 0x20}]
	if !ok {
		return
	}
	d.row = row
	d.col = 0
	d.style = cell{color: styles.ColorWhite}

	attr := b2 & 0x1f
	d.style.underline = attr&0x01 != 0
	if attr&0x10 != 0 {
		d.col = int((attr&0x0e)>>1) * 4
	} else {
		idx := (attr & 0x0e) >> 1
		d.style.color = pacColors[idx]
		d.style.italic = idx == 7
	}
}

func (d *decoder) control(t model.Time, b2 byte) {
	switch b2 {
	case ctrlRCL:
		d.mode = modePopOn
	case ctrlBS:
		if d.col > 0 {
			d.col--
			d.active()[d.row][d.col] = cell{}
		}
	case ctrlDER:
		for c := d.col; c < numCols; c++ {
			d.active()[d.row][c] = cell{}
		}
	case ctrlRU2, ctrlRU3, ctrlRU4:
		if d.mode != modeRollUp {
			d.closeCaption(t)
			d.displayed.clear()
			d.mode = modeRollUp
			d.row, d.col = numRows, 0
		}
		d.rollUpRows = int(b2-ctrlRU2) + 2
	case ctrlFON:
		// flash is not representable, keep the text
	case ctrlRDC:
		d.mode = modePaintOn
	case ctrlTR, ctrlRTD:
		d.mode = modeText
	case ctrlEDM:
		d.closeCaption(t)
		d.displayed.clear()
	case ctrlCR:
		if d.mode == modeRollUp {
			d.closeCaption(t)
			d.scroll()
			d.col = 0
		}
	case ctrlENM:
		d.offscreen.clear()
	case ctrlEOC:
		d.closeCaption(t)
		// flip memories; the old displayed buffer stays in non-displayed
		// memory until ENM erases it
		d.displayed, d.offscreen = d.offscreen, d.displayed
		d.mode = modePopOn
		d.ensureOpen(t)
	}
}

// scroll moves the roll-up window one row towards the base row.
func (d *decoder) scroll() {
	top := d.row - d.rollUpRows + 1
	if top < 1 {
		top = 1
	}
	for r := top; r < d.row; r++ {
		d.displayed[r] = d.displayed[r+1]
	}
	d.displayed[d.row] = [numCols]cell{}
}

// ensureOpen starts a caption interval the moment visible content appears.
func (d *decoder) ensureOpen(t model.Time) {
	if d.openBegin == nil && !d.displayed.empty() {
		begin := t
		d.openBegin = &begin
	}
}

// closeCaption captures the currently displayed screen as one finished
// caption interval ending at t.
func (d *decoder) closeCaption(t model.Time) {
	if d.openBegin == nil {
		return
	}
	if d.displayed.empty() {
		d.openBegin = nil
		return
	}
	end := t
	d.captions = append(d.captions, caption{
		begin: *d.openBegin,
		end:   &end,
		rows:  d.displayed,
	})
	d.openBegin = nil
}

// finish flushes a caption still on screen at end of input. It stays
// open-ended; downstream decides how long it lingers.
func (d *decoder) finish() []caption {
	if d.openBegin != nil && !d.displayed.empty() {
		d.captions = append(d.captions, caption{
			begin: *d.openBegin,
			rows:  d.displayed,
		})
		d.openBegin = nil
	}
	return d.captions
}

// buildDocument converts finished captions into the model: one paragraph
// per caption in a single safe-area region, one line per screen row with
// styling changes as span boundaries.
func buildDocument(captions []caption) (*model.Document, error) {
	doc := model.NewDocument()
	doc.SetLang("und")

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

	body := model.NewBody(doc)
	div := model.NewDiv(doc)
	if err := body.AppendChild(div); err != nil {
		return nil, err
	}
	if err := doc.SetBody(body); err != nil {
		return nil, err
	}

	for i, cc := range captions {
		p := model.NewP(doc)
		if err := p.SetBegin(cc.begin); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i+1, err)
		}
		if cc.end != nil {
			if err := p.SetEnd(*cc.end); err != nil {
				return nil, fmt.Errorf("caption %d: %w", i+1, err)
			}
		}
		if err := p.SetRegion(region); err != nil {
			return nil, err
		}
		if err := div.AppendChild(p); err != nil {
			return nil, err
		}
		if err := appendRows(doc, p, &cc.rows); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i+1, err)
		}
	}
	return doc, nil
}

func appendRows(doc *model.Document, p *model.Element, rows *screen) error {
	first := true
	for r := 1; r <= numRows; r++ {
		runs := rowRuns(rows[r])
		if len(runs) == 0 {
			continue
		}
		if !first {
			if err := p.AppendChild(model.NewBr(doc)); err != nil {
				return err
			}
		}
		first = false
		for _, run := range runs {
			span := model.NewSpan(doc)
			if run.style.color != styles.ColorWhite {
				if err := span.SetStyle(styles.PropColor, run.style.color); err != nil {
					return err
				}
			}
			if run.style.italic {
				if err := span.SetStyle(styles.PropFontStyle, styles.Keyword("italic")); err != nil {
					return err
				}
			}
			if run.style.underline {
				if err := span.SetStyle(styles.PropTextDecoration, styles.TextDecoration{Underline: true}); err != nil {
					return err
				}
			}
			if err := p.AppendChild(span); err != nil {
				return err
			}
			if err := span.AppendChild(model.NewText(doc, run.text)); err != nil {
				return err
			}
		}
	}
	return nil
}

type styledRun struct {
	text  string
	style cell
}

// rowRuns turns one screen row into runs of uniformly styled text.
// Positioning gaps inside the row collapse to single spaces (mid-row codes
// render as a space on a real decoder); leading indent and trailing
// emptiness are dropped.
func rowRuns(row [numCols]cell) []styledRun {
	var runs []styledRun
	var cur *styledRun
	pendingGap := false
	for _, c := range row {
		if c.ch == 0 {
			if cur != nil {
				pendingGap = true
			}
			continue
		}
		style := cell{color: c.color, italic: c.italic, underline: c.underline}
		if cur == nil || cur.style != style {
			runs = append(runs, styledRun{style: style})
			cur = &runs[len(runs)-1]
		}
		if pendingGap {
			cur.text += " "
			pendingGap = false
		}
		cur.text += string(c.ch)
	}
	if len(runs) > 0 {
		last := len(runs) - 1
		runs[last].text = strings.TrimRight(runs[last].text, " ")
		if runs[last].text == "" {
			runs = runs[:last]
		}
	}
	return runs
}

package ttml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ttc/model"
)

// timeParams carries the tt root parameters needed to interpret time
// expressions.
type timeParams struct {
	frameRateNum int64 // effective rate numerator (frameRate * multiplier)
	frameRateDen int64
	tickRate     int64
}

func defaultTimeParams() timeParams {
	return timeParams{frameRateNum: 30, frameRateDen: 1, tickRate: 1}
}

var (
	clockTimeRe  = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})(?:\.(\d+)|:(\d{2,}))?$`)
	offsetTimeRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)(h|m|s|ms|f|t)$`)
)

// parseTimeExpression converts a TTML time expression to exact rational
// seconds.
func (tp timeParams) parseTimeExpression(expr string) (model.Time, error) {
	expr = strings.TrimSpace(expr)

	if m := clockTimeRe.FindStringSubmatch(expr); m != nil {
		h, _ := strconv.ParseInt(m[1], 10, 64)
		mm, _ := strconv.ParseInt(m[2], 10, 64)
		ss, _ := strconv.ParseInt(m[3], 10, 64)
		if mm > 59 || ss > 59 {
			return model.Time{}, fmt.Errorf("clock time out of range: %q", expr)
		}
		t := model.Seconds(h*3600 + mm*60 + ss)
		switch {
		case len(m[4]) > 0: // fractional seconds
			frac, err := strconv.ParseInt(m[4], 10, 64)
			if err != nil {
				return model.Time{}, fmt.Errorf("bad fraction in %q: %w", expr, err)
			}
			t = t.Add(model.Rat(frac, pow10(len(m[4]))))
		case len(m[5]) > 0: // frames
			frames, _ := strconv.ParseInt(m[5], 10, 64)
			t = t.Add(model.FrameTime(frames, tp.frameRateNum, tp.frameRateDen))
		}
		return t, nil
	}

	if m := offsetTimeRe.FindStringSubmatch(expr); m != nil {
		// the numeric part may be fractional, keep it exact
		num, den, err := parseDecimal(m[1])
		if err != nil {
			return model.Time{}, fmt.Errorf("bad offset in %q: %w", expr, err)
		}
		switch m[2] {
		case "h":
			return model.Rat(num*3600, den), nil
		case "m":
			return model.Rat(num*60, den), nil
		case "s":
			return model.Rat(num, den), nil
		case "ms":
			return model.Rat(num, den*1000), nil
		case "f":
			return model.Rat(num*tp.frameRateDen, den*tp.frameRateNum), nil
		case "t":
			return model.Rat(num, den*tp.tickRate), nil
		}
	}

	return model.Time{}, fmt.Errorf("unsupported time expression %q", expr)
}

// parseDecimal parses an unsigned decimal into an exact num/den pair.
func parseDecimal(s string) (int64, int64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	num, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	den := int64(1)
	if len(frac) > 0 {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		den = pow10(len(frac))
		num = num*den + f
	}
	return num, den, nil
}

func pow10(n int) int64 {
	p := int64(1)
	for range n {
		p *= 10
	}
	return p
}

// formatTime renders a time as a clock expression with millisecond
// precision, the most interoperable TTML form.
func formatTime(t model.Time) string {
	ms := t.ToMillis()
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

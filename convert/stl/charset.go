package stl

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// EBU 3264 character code tables. Table 00 is ISO 6937/2, which no
// maintained Go encoding package provides, so its diacritic composition is
// implemented here; tables 01-04 map onto the ISO 8859 family.

type textDecoder interface {
	decode(b []byte) (string, error)
}

func newTextDecoder(cct string) (textDecoder, error) {
	switch cct {
	case "00":
		return iso6937{}, nil
	case "01":
		return charmapDecoder{charmap.ISO8859_5}, nil
	case "02":
		return charmapDecoder{charmap.ISO8859_6}, nil
	case "03":
		return charmapDecoder{charmap.ISO8859_7}, nil
	case "04":
		return charmapDecoder{charmap.ISO8859_8}, nil
	}
	return nil, fmt.Errorf("unsupported character code table %q", cct)
}

type charmapDecoder struct {
	cm *charmap.Charmap
}

func (d charmapDecoder) decode(b []byte) (string, error) {
	out, err := d.cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("unable to decode text: %w", err)
	}
	return string(out), nil
}

// iso6937 decodes ISO 6937/2 with its two-byte diacritic sequences: a
// combining accent in 0xc1-0xcf followed by the base letter. Output is
// NFC-normalized so downstream sees precomposed characters.
type iso6937 struct{}

// single-byte high-half characters
var iso6937High = map[byte]rune{
	0xa0: ' ', 0xa1: '¡', 0xa2: '¢', 0xa3: '£', 0xa4: '$', 0xa5: '¥',
	0xa7: '§', 0xa8: '¤', 0xa9: '‘', 0xaa: '“', 0xab: '«', 0xac: '←',
	0xad: '↑', 0xae: '→', 0xaf: '↓',
	0xb0: '°', 0xb1: '±', 0xb2: '²', 0xb3: '³', 0xb4: '×', 0xb5: 'µ',
	0xb6: '¶', 0xb7: '·', 0xb8: '÷', 0xb9: '’', 0xba: '”', 0xbb: '»',
	0xbc: '¼', 0xbd: '½', 0xbe: '¾', 0xbf: '¿',
	0xd0: '―', 0xd1: '¹', 0xd2: '®', 0xd3: '©', 0xd4: '™', 0xd5: '♪',
	0xd6: '¬', 0xd7: '¦', 0xdc: '⅛', 0xdd: '⅜', 0xde: '⅝', 0xdf: '⅞',
	0xe0: 'Ω', 0xe1: 'Æ', 0xe2: 'Đ', 0xe3: 'ª', 0xe4: 'Ħ', 0xe6: 'Ĳ',
	0xe7: 'Ŀ', 0xe8: 'Ł', 0xe9: 'Ø', 0xea: 'Œ', 0xeb: 'º', 0xec: 'Þ',
	0xed: 'Ŧ', 0xee: 'Ŋ', 0xef: 'ŉ',
	0xf0: 'ĸ', 0xf1: 'æ', 0xf2: 'đ', 0xf3: 'ð', 0xf4: 'ħ', 0xf5: 'ı',
	0xf6: 'ĳ', 0xf7: 'ŀ', 0xf8: 'ł', 0xf9: 'ø', 0xfa: 'œ', 0xfb: 'ß',
	0xfc: 'þ', 0xfd: 'ŧ', 0xfe: 'ŋ', 0xff: '\u00ad', // soft hyphen
}

// combining diacritical marks selected by 0xc1-0xcf
var iso6937Accents = map[byte]rune{
	0xc1: '\u0300', // grave
	0xc2: '\u0301', // acute
	0xc3: '\u0302', // circumflex
	0xc4: '\u0303', // tilde
	0xc5: '\u0304', // macron
	0xc6: '\u0306', // breve
	0xc7: '\u0307', // dot above
	0xc8: '\u0308', // diaeresis
	0xca: '\u030a', // ring above
	0xcb: '\u0327', // cedilla
	0xcd: '\u030b', // double acute
	0xce: '\u0328', // ogonek
	0xcf: '\u030c', // caron
}

func (iso6937) decode(b []byte) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= 0x20 && c <= 0x7e:
			if c == 0x24 {
				sb.WriteRune('¤') // ISO 6937 swaps $ and the currency sign
			} else {
				sb.WriteByte(c)
			}
		case c >= 0xc1 && c <= 0xcf:
			mark, ok := iso6937Accents[c]
			if !ok || i+1 >= len(b) {
				return "", fmt.Errorf("dangling diacritic 0x%02x", c)
			}
			i++
			sb.WriteByte(b[i])
			sb.WriteRune(mark)
		default:
			if r, ok := iso6937High[c]; ok {
				sb.WriteRune(r)
			} else {
				return "", fmt.Errorf("unmapped character 0x%02x", c)
			}
		}
	}
	return norm.NFC.String(sb.String()), nil
}

package scc

import "ttc/model/styles"

// CEA-608 character sets. The standard set is ASCII with a handful of
// substitutions; special and extended characters arrive as two-byte codes.

// standardChars maps byte values 0x20-0x7f. Indexed by b-0x20.
var standardChars = [96]rune{
	' ', '!', '"', '#', '$', '%', '&', '\'', '(', ')',
	'á', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	':', ';', '<', '=', '>', '?',
	'@', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I',
	'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S',
	'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'[', 'é', ']', 'í', 'ó',
	'ú', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i',
	'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's',
	't', 'u', 'v', 'w', 'x', 'y', 'z',
	'ç', '÷', 'Ñ', 'ñ', '█',
}

// specialChars: second byte 0x30-0x3f after a 0x11 prefix.
var specialChars = [16]rune{
	'®', '°', '½', '¿', '™', '¢', '£', '♪',
	'à', ' ', 'è', 'â', 'ê', 'î', 'ô', 'û',
}

// extendedChars12: second byte 0x20-0x3f after a 0x12 prefix (Spanish and
// miscellaneous). An extended character replaces the standard fallback
// transmitted just before it.
var extendedChars12 = [32]rune{
	'Á', 'É', 'Ó', 'Ú', 'Ü', 'ü', '‘', '¡',
	'*', '\'', '—', '©', '℠', '•', '“', '”',
	'À', 'Â', 'Ç', 'È', 'Ê', 'Ë', 'ë', 'Î',
	'Ï', 'ï', 'Ô', 'Ù', 'ù', 'Û', '«', '»',
}

// extendedChars13: second byte 0x20-0x3f after a 0x13 prefix (Portuguese,
// French, German, Danish).
var extendedChars13 = [32]rune{
	'Ã', 'ã', 'Í', 'Ì', 'ì', 'Ò', 'ò', 'Õ',
	'õ', '{', '}', '\\', '^', '_', '|', '~',
	'Ä', 'ä', 'Ö', 'ö', 'ß', '¥', '¤', '¦',
	'Å', 'å', 'Ø', 'ø', '┌', '┐', '└', '┘',
}

// pacColors indexes (b2 & 0x0e) >> 1 for preamble address and mid-row
// codes. Index 7 means white italics.
var pacColors = [8]styles.Color{
	styles.ColorWhite,
	styles.ColorGreen,
	styles.ColorBlue,
	styles.ColorCyan,
	styles.ColorRed,
	styles.ColorYellow,
	styles.ColorMagenta,
	styles.ColorWhite, // italics
}

// pacRows maps the (b1 & 0x07, b2 & 0x20) pair of a preamble address code
// to the caption row, 1-15. Zero means not a PAC row pair.
var pacRows = map[[2]byte]int{
	{0x01, 0x00}: 1, {0x01, 0x20}: 2,
	{0x02, 0x00}: 3, {0x02, 0x20}: 4,
	{0x05, 0x00}: 5, {0x05, 0x20}: 6,
	{0x06, 0x00}: 7, {0x06, 0x20}: 8,
	{0x07, 0x00}: 9, {0x07, 0x20}: 10,
	{0x00, 0x00}: 11,
	{0x03, 0x00}: 12, {0x03, 0x20}: 13,
	{0x04, 0x00}: 14, {0x04, 0x20}: 15,
}

// control code second bytes for the 0x14 channel-1 prefix
const (
	ctrlRCL = 0x20 // resume caption loading (pop-on)
	ctrlBS  = 0x21 // backspace
	ctrlDER = 0x24 // delete to end of row
	ctrlRU2 = 0x25 // roll-up, 2 rows
	ctrlRU3 = 0x26 // roll-up, 3 rows
	ctrlRU4 = 0x27 // roll-up, 4 rows
	ctrlFON = 0x28 // flash on
	ctrlRDC = 0x29 // resume direct captioning (paint-on)
	ctrlTR  = 0x2a // text restart (text mode)
	ctrlRTD = 0x2b // resume text display (text mode)
	ctrlEDM = 0x2c // erase displayed memory
	ctrlCR  = 0x2d // carriage return
	ctrlENM = 0x2e // erase non-displayed memory
	ctrlEOC = 0x2f // end of caption (flip memories)
)

package convert

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"ttc/common"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// sniffLen is how much of the file head participates in format detection.
// Plenty for BOMs, magic strings and the first SubRip timing line.
const sniffLen = 512

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF sniffs the BOM. UTF-32LE must be checked before UTF-16LE, their
// BOMs share a prefix.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader wraps r with a decoder matching the detected encoding. For
// plain UTF-8 the BOM, if present, is stripped.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder().Reader(r)
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder().Reader(r)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder().Reader(r)
	default:
		panic("unsupported encoding requested") // this should never happen
	}
}

// isArchiveFile detects if file is a zip archive.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("unable to read file head: %w", err)
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isCaptionFile detects if file contains timed text in one of the supported
// source formats, returning the format and the detected text encoding.
func isCaptionFile(path string) (common.InputFmt, srcEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.InputFmtUnknown, encUnknown, fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()
	return detectCaption(path, f)
}

// isCaptionInArchive detects if zip archive entry contains timed text.
func isCaptionInArchive(file *zip.File) (common.InputFmt, srcEncoding, error) {
	r, err := file.Open()
	if err != nil {
		return common.InputFmtUnknown, encUnknown, fmt.Errorf("unable to open archive entry: %w", err)
	}
	defer r.Close()
	return detectCaption(file.Name, r)
}

func detectCaption(name string, r io.Reader) (common.InputFmt, srcEncoding, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return common.InputFmtUnknown, encUnknown, fmt.Errorf("unable to read file head: %w", err)
	}
	head = head[:n]

	enc := detectUTF(head)
	format := sniffFormat(name, head, enc)
	if format == common.InputFmtUnknown {
		enc = encUnknown
	}
	return format, enc, nil
}

// sniffFormat matches file extension against content. Extension alone is not
// trusted, truncated or mislabeled files are rejected here rather than deep
// inside a reader.
func sniffFormat(name string, head []byte, enc srcEncoding) common.InputFmt {
	text := decodeHead(head, enc)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttml", ".dfxp", ".xml":
		if strings.Contains(text, "<tt") {
			return common.InputFmtTtml
		}
	case ".scc":
		if strings.HasPrefix(text, "Scenarist_SCC") {
			return common.InputFmtScc
		}
	case ".stl":
		// binary format, the GSI block states the frame rate in its header
		if len(head) >= 11 {
			if v := string(head[3:11]); v == "STL25.01" || v == "STL30.01" {
				return common.InputFmtStl
			}
		}
	case ".srt":
		if strings.Contains(text, "-->") {
			return common.InputFmtSrt
		}
	}
	return common.InputFmtUnknown
}

// decodeHead converts the sniffed head to UTF-8 for magic string matching.
// The tail may end mid-rune, decoders replace that with U+FFFD which never
// collides with anything we look for.
func decodeHead(head []byte, enc srcEncoding) string {
	if enc == encUnknown {
		return string(head)
	}
	decoded, err := io.ReadAll(selectReader(bytes.NewReader(head), enc))
	if err != nil {
		return string(head)
	}
	return string(decoded)
}

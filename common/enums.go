// Format identifiers live in their own package so that both the
// configuration layer and the converters can use them without pulling in
// each other.
package common

// Specification of requested output type.
// ENUM(ttml, srt, vtt)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtTtml:
		return ".ttml"
	case OutputFmtSrt:
		return ".srt"
	case OutputFmtVtt:
		return ".vtt"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Detected type of input file.
// ENUM(unknown, ttml, scc, stl, srt)
type InputFmt int

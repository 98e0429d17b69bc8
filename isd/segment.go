package isd

import "ttc/model"

// Segment pairs a resolved snapshot with the half-open interval it renders
// over. End is nil for the trailing open-ended segment.
type Segment struct {
	Begin model.Time
	End   *model.Time
	Doc   *ISD
}

// Resolve computes the complete segment sequence for a document: one
// snapshot per significant time, each valid until the next significant
// time. Empty trailing segments are kept - writers decide whether an empty
// snapshot means "clear the screen" or "nothing to emit".
func Resolve(doc *model.Document) []Segment {
	times := SignificantTimes(doc)
	segs := make([]Segment, len(times))
	for i, t := range times {
		segs[i] = Segment{Begin: t, Doc: FromModel(doc, t)}
		if i > 0 {
			segs[i-1].End = &times[i]
		}
	}
	return segs
}

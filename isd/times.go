// Package isd resolves a model document into Intermediate Synchronic
// Documents: fully styled, pruned snapshots of the content tree, one per
// instant at which rendering could change.
package isd

import (
	"sort"

	"ttc/model"
)

// SignificantTimes returns the ordered set of offsets, in the document
// time frame, at which the active state or styling of some node could
// change. The set over-approximates - writers coalesce adjacent identical
// snapshots - but never misses a boundary.
func SignificantTimes(doc *model.Document) []model.Time {
	seen := make(map[[2]int64]model.Time)
	add := func(t model.Time) {
		seen[t.Key()] = t
	}

	// the analysis start: regions without timing are active from 0
	add(model.Time{})

	for _, r := range doc.Regions() {
		collectTimes(r, model.Time{}, nil, add)
	}
	if body := doc.Body(); body != nil {
		collectTimes(body, model.Time{}, nil, add)
	}

	out := make([]model.Time, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// collectTimes is a single linear traversal: every node and animation step
// contributes its resolved begin and end, children recurse in the frame
// established by their parent.
func collectTimes(e *model.Element, parentBegin model.Time, parentEnd *model.Time, add func(model.Time)) {
	begin := parentBegin
	if b, ok := e.Begin(); ok {
		begin = parentBegin.Add(b)
	}
	add(begin)

	end := resolveEnd(e.End, parentBegin, parentEnd)
	if end != nil {
		add(*end)
	}

	// steps share the node's parent frame, not the node's own frame
	for _, s := range e.AnimationSteps() {
		sb := parentBegin
		if s.Begin != nil {
			sb = parentBegin.Add(*s.Begin)
		}
		add(sb)
		if se := resolveEnd(func() (model.Time, bool) {
			if s.End == nil {
				return model.Time{}, false
			}
			return *s.End, true
		}, parentBegin, parentEnd); se != nil {
			add(*se)
		}
	}

	for _, c := range e.Children() {
		collectTimes(c, begin, end, add)
	}
}

// resolveEnd turns an optional local end offset into an absolute end time,
// clipped by the parent interval.
func resolveEnd(localEnd func() (model.Time, bool), parentBegin model.Time, parentEnd *model.Time) *model.Time {
	var end *model.Time
	if le, ok := localEnd(); ok {
		t := parentBegin.Add(le)
		end = &t
	} else {
		end = parentEnd
	}
	if end != nil && parentEnd != nil {
		t := model.MinTime(*end, *parentEnd)
		end = &t
	}
	return end
}

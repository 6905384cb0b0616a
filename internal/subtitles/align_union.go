package subtitles

import (
	"math"
	"sort"
)

// UnionOverlapRatio is the share of either segment's duration that an overlap
// must exceed before Union treats two segments as the same line.
const UnionOverlapRatio = 0.8

type segment struct {
	start, end         string
	startSecs, endSecs float64
	textA, textB       string
}

func (s segment) duration() float64 { return s.endSecs - s.startSecs }

// absorb widens s to cover o and fills any empty text slot from o.
func (s *segment) absorb(o segment) {
	if o.startSecs < s.startSecs {
		s.start, s.startSecs = o.start, o.startSecs
	}
	if o.endSecs > s.endSecs {
		s.end, s.endSecs = o.end, o.endSecs
	}
	if s.textA == "" && o.textA != "" {
		s.textA = o.textA
	}
	if s.textB == "" && o.textB != "" {
		s.textB = o.textB
	}
}

func sameLine(c, o segment) bool {
	overlap := math.Min(c.endSecs, o.endSecs) - math.Max(c.startSecs, o.startSecs)
	if overlap <= 0 {
		return false
	}
	return overlap/c.duration() > UnionOverlapRatio || overlap/o.duration() > UnionOverlapRatio
}

// alignUnion coalesces both tracks into shared windows. Output keeps the scan
// order of the initial (start, end) sort and is not re-sorted afterwards. A
// base only absorbs segments sorted after it, so its start never moves and
// starts stay ascending; a widened end may pass the end of a later entry.
func alignUnion(a, b []timedCue) []MergedCue {
	segments := make([]segment, 0, len(a)+len(b))
	for _, c := range a {
		segments = append(segments, segment{start: c.cue.Start, end: c.cue.End, startSecs: c.start, endSecs: c.end, textA: c.cue.Text})
	}
	for _, c := range b {
		segments = append(segments, segment{start: c.cue.Start, end: c.cue.End, startSecs: c.start, endSecs: c.end, textB: c.cue.Text})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].startSecs != segments[j].startSecs {
			return segments[i].startSecs < segments[j].startSecs
		}
		return segments[i].endSecs < segments[j].endSecs
	})

	consumed := make([]bool, len(segments))
	merged := make([]MergedCue, 0, len(segments))
	for i := range segments {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		current := segments[i]
		for j := i + 1; j < len(segments); j++ {
			if consumed[j] || !sameLine(current, segments[j]) {
				continue
			}
			current.absorb(segments[j])
			consumed[j] = true
		}
		merged = append(merged, MergedCue{
			Index: len(merged) + 1,
			Start: current.start,
			End:   current.end,
			TextA: current.textA,
			TextB: current.textB,
		})
	}
	return merged
}

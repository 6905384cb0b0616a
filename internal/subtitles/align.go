package subtitles

import (
	"fmt"
	"math"
	"sort"
)

// DefaultTolerance is the midpoint distance, in seconds, under which two
// non-overlapping cues still count as aligned in primary-driven mode.
const DefaultTolerance = 0.5

// timedCue is a cue with its window decoded once up front.
type timedCue struct {
	cue   Cue
	start float64
	end   float64
}

func (t timedCue) mid() float64 { return (t.start + t.end) / 2 }

func decodeTrack(cues []Cue, label string) ([]timedCue, error) {
	out := make([]timedCue, 0, len(cues))
	for i, cue := range cues {
		start, end, err := cue.Bounds()
		if err != nil {
			return nil, fmt.Errorf("track %s cue %d: %w", label, i+1, err)
		}
		out = append(out, timedCue{cue: cue, start: start, end: end})
	}
	return out, nil
}

// Align merges track A and track B into one bilingual sequence. The only
// failure is a cue carrying a malformed timestamp. tolerance applies to the
// primary-driven policies and is ignored by Union.
func Align(trackA, trackB []Cue, policy Policy, tolerance float64) ([]MergedCue, error) {
	a, err := decodeTrack(trackA, "a")
	if err != nil {
		return nil, err
	}
	b, err := decodeTrack(trackB, "b")
	if err != nil {
		return nil, err
	}
	switch policy {
	case PrimaryA:
		return alignPrimary(a, b, false, tolerance), nil
	case PrimaryB:
		return alignPrimary(b, a, true, tolerance), nil
	case Union:
		return alignUnion(a, b), nil
	default:
		return nil, fmt.Errorf("align: unsupported policy %s", policy)
	}
}

// alignPrimary walks the primary track in order and greedily claims the
// closest eligible secondary cue for each primary cue. swapped reports that
// the primary track is track B, so texts land in the opposite slots.
func alignPrimary(primary, secondary []timedCue, swapped bool, tolerance float64) []MergedCue {
	merged := make([]mergedEntry, 0, len(primary)+len(secondary))
	used := make([]bool, len(secondary))

	for _, p := range primary {
		pMid := p.mid()
		best := -1
		bestDistance := math.Inf(1)
		for i, s := range secondary {
			if used[i] {
				continue
			}
			distance := math.Abs(pMid - s.mid())
			overlap := math.Min(p.end, s.end) - math.Max(p.start, s.start)
			if overlap <= 0 && distance >= tolerance {
				continue
			}
			// Strict comparison keeps the first scanned candidate on ties.
			if distance < bestDistance {
				bestDistance = distance
				best = i
			}
		}
		var secondaryText string
		if best >= 0 {
			used[best] = true
			secondaryText = secondary[best].cue.Text
		}
		merged = append(merged, newEntry(p, p.cue.Text, secondaryText, swapped))
	}

	for i, s := range secondary {
		if used[i] {
			continue
		}
		merged = append(merged, newEntry(s, "", s.cue.Text, swapped))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].startSeconds < merged[j].startSeconds
	})
	return reindex(merged)
}

type mergedEntry struct {
	cue          MergedCue
	startSeconds float64
}

func newEntry(window timedCue, primaryText, secondaryText string, swapped bool) mergedEntry {
	cue := MergedCue{Start: window.cue.Start, End: window.cue.End, TextA: primaryText, TextB: secondaryText}
	if swapped {
		cue.TextA, cue.TextB = secondaryText, primaryText
	}
	return mergedEntry{cue: cue, startSeconds: window.start}
}

func reindex(entries []mergedEntry) []MergedCue {
	out := make([]MergedCue, len(entries))
	for i, entry := range entries {
		out[i] = entry.cue
		out[i].Index = i + 1
	}
	return out
}

package subtitles

import (
	"fmt"
	"strings"
)

// Track identifies one side of a bilingual sequence.
type Track string

const (
	TrackA Track = "a"
	TrackB Track = "b"
)

// ParseTrack accepts a, b, or the zh/en aliases.
func ParseTrack(value string) (Track, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "a", "zh":
		return TrackA, nil
	case "b", "en":
		return TrackB, nil
	default:
		return "", fmt.Errorf("unknown track %q (want a or b)", value)
	}
}

// ValidateCues checks a decoded track before it is handed to Align.
// Returns a list of issues found; empty slice means validation passed.
func ValidateCues(cues []Cue) []string {
	var issues []string
	for i, cue := range cues {
		start, err := ParseTimestamp(cue.Start)
		if err != nil {
			issues = append(issues, fmt.Sprintf("cue %d: start: %v", i+1, err))
			continue
		}
		end, err := ParseTimestamp(cue.End)
		if err != nil {
			issues = append(issues, fmt.Sprintf("cue %d: end: %v", i+1, err))
			continue
		}
		if end < start {
			issues = append(issues, fmt.Sprintf("cue %d: end %s before start %s", i+1, cue.End, cue.Start))
		}
	}
	return issues
}

// SplitTrack extracts one language from a merged sequence. Entries whose text
// for that track is blank are dropped and the survivors are renumbered 1..N.
func SplitTrack(merged []MergedCue, track Track) []Cue {
	out := make([]Cue, 0, len(merged))
	for _, m := range merged {
		text := m.TextA
		if track == TrackB {
			text = m.TextB
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, Cue{Index: len(out) + 1, Start: m.Start, End: m.End, Text: text})
	}
	return out
}

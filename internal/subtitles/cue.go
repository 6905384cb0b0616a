package subtitles

import "strings"

// Cue is one timed text unit from a single-language track.
type Cue struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// Bounds returns the cue window in seconds.
func (c Cue) Bounds() (float64, float64, error) {
	start, err := ParseTimestamp(c.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(c.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// MergedCue is one entry of a bilingual track. TextA and TextB hold the text
// from track A and track B; either is empty when the other track had nothing
// in this window.
type MergedCue struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

// Bilingual reports whether both language slots carry text.
func (m MergedCue) Bilingual() bool {
	return strings.TrimSpace(m.TextA) != "" && strings.TrimSpace(m.TextB) != ""
}

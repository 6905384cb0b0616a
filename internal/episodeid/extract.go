package episodeid

import (
	"regexp"

	"bisub/internal/textutil"
)

// episodePatterns are tried in order; the first hit wins. Explicit episode
// markers come before bare digit heuristics and the order must not change.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Ee][Pp]?(\d{1,3})`),
	regexp.MustCompile(`(\d{1,3})[集话話]`),
	regexp.MustCompile(`[^\d](\d{2,3})[^\d]`),
	regexp.MustCompile(`^(\d{2,3})[^\d]`),
	regexp.MustCompile(`[^\d](\d{2,3})$`),
	regexp.MustCompile(`[^\d](\d{2,3})\.`),
}

// ExtractEpisodeNumber returns the episode key for filename, zero-padded to
// at least two digits. ok is false when no pattern matches.
func ExtractEpisodeNumber(filename string) (string, bool) {
	folded := textutil.FoldWidth(filename)
	for _, pattern := range episodePatterns {
		match := pattern.FindStringSubmatch(folded)
		if match == nil {
			continue
		}
		return padKey(match[1]), true
	}
	return "", false
}

func padKey(digits string) string {
	if len(digits) >= 2 {
		return digits
	}
	return "0" + digits
}

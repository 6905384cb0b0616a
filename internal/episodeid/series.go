package episodeid

import (
	"regexp"
	"strings"

	"bisub/internal/textutil"
)

// DefaultLanguageMarkers are the language tags commonly appended to subtitle
// names after the episode number.
var DefaultLanguageMarkers = []string{"中文", "西班牙语", "英语"}

var (
	episodeMarkerTail = regexp.MustCompile(`[Ee][Pp]?\d+.*`)
	digitRunTail      = regexp.MustCompile(`\d{2,3}.*`)
)

// DeriveSeriesName guesses the series title from one subtitle filename by
// cutting everything from the episode marker onwards, then any trailing
// language tag. Returns an empty string when nothing is left.
func DeriveSeriesName(filename string, languageMarkers []string) string {
	name := textutil.FoldWidth(filename)
	name = episodeMarkerTail.ReplaceAllString(name, "")
	name = digitRunTail.ReplaceAllString(name, "")
	if tail := languageTail(languageMarkers); tail != nil {
		name = tail.ReplaceAllString(name, "")
	}
	return strings.Trim(name, "-_. ")
}

func languageTail(markers []string) *regexp.Regexp {
	quoted := make([]string, 0, len(markers))
	for _, marker := range markers {
		marker = strings.TrimSpace(marker)
		if marker == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(marker))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`[_\-]*(` + strings.Join(quoted, "|") + `).*`)
}

// FilterBySeries keeps the videos whose name contains series. An empty series
// keeps everything.
func FilterBySeries(videos []string, series string) []string {
	if series == "" {
		return append([]string(nil), videos...)
	}
	folded := textutil.FoldWidth(series)
	out := make([]string, 0, len(videos))
	for _, video := range videos {
		if strings.Contains(textutil.FoldWidth(video), folded) {
			out = append(out, video)
		}
	}
	return out
}

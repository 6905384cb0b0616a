package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "chi" vs "zho")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
	markers []string // Filename tags, most common first
}

var languages = []entry{
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}, []string{"中文", "简体", "繁体", "国语"}},
	{"en", "eng", "", "English", []string{"english"}, []string{"英语", "英文"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}, []string{"西班牙语"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}, []string{"日语", "日文"}},
	{"ko", "kor", "", "Korean", []string{"korean"}, []string{"韩语", "韩文"}},
	{"fr", "fra", "fre", "French", []string{"french"}, []string{"法语"}},
	{"de", "deu", "ger", "German", []string{"german"}, []string{"德语"}},
	{"ru", "rus", "", "Russian", []string{"russian"}, []string{"俄语"}},
}

var (
	byCode2  map[string]*entry
	byCode3  map[string]*entry
	byWord   map[string]*entry
	byMarker map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	byMarker = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
		for _, m := range e.markers {
			byMarker[m] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	if e, ok := byMarker[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code, word, or filename tag to
// ISO 639-1. Unknown 2-letter codes pass through; anything else unrecognized
// returns "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Markers returns the filename tags of the given languages in argument order,
// without duplicates. Unknown codes contribute nothing.
func Markers(codes ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, code := range codes {
		e := lookup(code)
		if e == nil {
			continue
		}
		for _, m := range e.markers {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

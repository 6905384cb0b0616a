package episodeid

import (
	"sort"
	"strconv"
)

// EpisodeMatch associates the files of one episode. An empty field means no
// file of that class was found for the episode.
type EpisodeMatch struct {
	Episode string `json:"episode"`
	TrackA  string `json:"track_a"`
	TrackB  string `json:"track_b"`
	Video   string `json:"video"`
}

// Complete reports whether every slot is filled.
func (m EpisodeMatch) Complete() bool {
	return m.TrackA != "" && m.TrackB != "" && m.Video != ""
}

// MatchEpisodes pairs files by extracted episode key. Files without a key are
// dropped. When two files of the same class share a key, the later one wins.
func MatchEpisodes(trackAFiles, trackBFiles, videoFiles []string) []EpisodeMatch {
	trackA := indexByEpisode(trackAFiles)
	trackB := indexByEpisode(trackBFiles)
	videos := indexByEpisode(videoFiles)

	keys := make(map[string]struct{}, len(trackA)+len(trackB)+len(videos))
	for _, m := range []map[string]string{trackA, trackB, videos} {
		for key := range m {
			keys[key] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}
	sortKeys(ordered)

	matches := make([]EpisodeMatch, 0, len(ordered))
	for _, key := range ordered {
		matches = append(matches, EpisodeMatch{
			Episode: key,
			TrackA:  trackA[key],
			TrackB:  trackB[key],
			Video:   videos[key],
		})
	}
	return matches
}

func indexByEpisode(files []string) map[string]string {
	out := make(map[string]string, len(files))
	for _, file := range files {
		if key, ok := ExtractEpisodeNumber(file); ok {
			out[key] = file
		}
	}
	return out
}

// MergeVideos refreshes the video slot of existing matches from a fresh
// match of the same directories. Subtitle slots are kept. An episode found in
// fresh takes its video from there, even when that video is absent; episodes
// missing from fresh keep their video. Episodes only fresh knows about are
// appended when they carry a video. The result is ordered by episode key and
// existing is not modified.
func MergeVideos(existing, fresh []EpisodeMatch) []EpisodeMatch {
	freshByKey := make(map[string]EpisodeMatch, len(fresh))
	for _, m := range fresh {
		if _, ok := freshByKey[m.Episode]; !ok {
			freshByKey[m.Episode] = m
		}
	}

	merged := make([]EpisodeMatch, 0, len(existing)+len(fresh))
	known := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		if f, ok := freshByKey[m.Episode]; ok {
			m.Video = f.Video
		}
		known[m.Episode] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range fresh {
		if _, ok := known[m.Episode]; ok || m.Video == "" {
			continue
		}
		known[m.Episode] = struct{}{}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return keyLess(merged[i].Episode, merged[j].Episode)
	})
	return merged
}

// sortKeys orders episode keys numerically so "100" follows "99".
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
}

// keyLess compares keys by numeric value. Keys of equal value such as "07"
// and "007" fall back to string order.
func keyLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && x != y {
		return x < y
	}
	return a < b
}

package episodeid

import (
	"reflect"
	"testing"
)

func TestMatchEpisodes(t *testing.T) {
	trackA := []string{"剧名-中文-02.srt", "剧名-中文-01.srt", "readme.txt"}
	trackB := []string{"Show.E01.en.srt", "Show.E03.en.srt"}
	videos := []string{"Show.E02.1080p.mkv", "Show.E01.1080p.mkv"}

	got := MatchEpisodes(trackA, trackB, videos)

	want := []EpisodeMatch{
		{Episode: "01", TrackA: "剧名-中文-01.srt", TrackB: "Show.E01.en.srt", Video: "Show.E01.1080p.mkv"},
		{Episode: "02", TrackA: "剧名-中文-02.srt", Video: "Show.E02.1080p.mkv"},
		{Episode: "03", TrackB: "Show.E03.en.srt"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchEpisodes mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if !got[0].Complete() || got[1].Complete() {
		t.Fatalf("unexpected completeness flags: %+v", got)
	}
}

func TestMatchEpisodesSortsThreeDigitKeysNumerically(t *testing.T) {
	got := MatchEpisodes([]string{"Show.E100.srt", "Show.E99.srt", "Show.E02.srt"}, nil, nil)

	var keys []string
	for _, m := range got {
		keys = append(keys, m.Episode)
	}
	if want := []string{"02", "99", "100"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("episode order = %v, want %v", keys, want)
	}
}

func TestMatchEpisodesEmptyInput(t *testing.T) {
	if got := MatchEpisodes(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestMatchEpisodesLaterDuplicateWins(t *testing.T) {
	got := MatchEpisodes([]string{"Show.E01.v1.srt", "Show.E01.v2.srt"}, nil, nil)
	if len(got) != 1 || got[0].TrackA != "Show.E01.v2.srt" {
		t.Fatalf("expected later duplicate to win, got %+v", got)
	}
}

func TestMergeVideosRefreshesOnlyVideoSlots(t *testing.T) {
	existing := []EpisodeMatch{
		{Episode: "01", TrackA: "a01.srt", TrackB: "b01.srt", Video: "old01.mp4"},
		{Episode: "02", TrackA: "a02.srt", Video: "old02.mp4"},
		{Episode: "10", TrackB: "b10.srt", Video: "old10.mp4"},
	}
	fresh := []EpisodeMatch{
		{Episode: "01", TrackA: "other.srt", Video: "new01.mp4"},
		{Episode: "02", TrackA: "a02.srt"},
		{Episode: "03", Video: "new03.mp4"},
		{Episode: "04", TrackA: "a04.srt"},
	}

	got := MergeVideos(existing, fresh)

	want := []EpisodeMatch{
		{Episode: "01", TrackA: "a01.srt", TrackB: "b01.srt", Video: "new01.mp4"},
		{Episode: "02", TrackA: "a02.srt"},
		{Episode: "03", Video: "new03.mp4"},
		{Episode: "10", TrackB: "b10.srt", Video: "old10.mp4"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeVideos mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if existing[0].Video != "old01.mp4" {
		t.Fatalf("existing matches were modified: %+v", existing)
	}
}

func TestMergeVideosFirstFreshDuplicateWins(t *testing.T) {
	got := MergeVideos(
		[]EpisodeMatch{{Episode: "01", TrackA: "a01.srt"}},
		[]EpisodeMatch{{Episode: "01", Video: "first.mp4"}, {Episode: "01", Video: "second.mp4"}},
	)
	if len(got) != 1 || got[0].Video != "first.mp4" {
		t.Fatalf("expected first fresh video, got %+v", got)
	}
}

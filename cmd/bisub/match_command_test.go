package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bisub/internal/library"
	"bisub/internal/subtitles"
	"bisub/internal/testsupport"
)

// seedLibrary lays out a two-episode series plus a video from another series.
func seedLibrary(t *testing.T, env *cliTestEnv) {
	t.Helper()
	paths := env.cfg.Paths
	writeTracks(t,
		filepath.Join(paths.TrackADir, "Show_E01_中文.json"),
		filepath.Join(paths.TrackBDir, "Show_E01_英语.json"),
	)
	testsupport.WriteJSON(t, filepath.Join(paths.TrackADir, "Show_E02_中文.json"), []subtitles.Cue{
		cue(1, "00:00:01,000", "00:00:02,000", "第二集"),
	})
	testsupport.Touch(t, paths.TrackADir, "notes.txt")
	testsupport.Touch(t, paths.VideoDir, "Show E01.mp4", "Show E02.mp4", "Zeta E01.mp4")
}

func TestMatchCommandGroupsFilesByEpisode(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var result matchOutput
	decodeOutput(t, out, &result)

	if result.Series != "Show" || result.Source != "fallback" || result.RunID != "" {
		t.Fatalf("unexpected header: %#v", result)
	}
	if len(result.Episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %#v", result.Episodes)
	}
	first, second := result.Episodes[0], result.Episodes[1]
	if first.Episode != "01" || first.TrackA != "Show_E01_中文.json" || first.TrackB != "Show_E01_英语.json" || first.Video != "Show E01.mp4" {
		t.Fatalf("unexpected first episode: %#v", first)
	}
	if second.Episode != "02" || second.TrackB != "" || second.Video != "Show E02.mp4" {
		t.Fatalf("unexpected second episode: %#v", second)
	}
}

func TestMatchCommandWithoutSeriesFilterKeepsOtherVideos(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match", "--no-series-filter"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var result matchOutput
	decodeOutput(t, out, &result)
	// Zeta E01.mp4 is listed after Show E01.mp4, so as the later file it
	// takes episode 01 once the series filter is off.
	if result.Episodes[0].Video != "Zeta E01.mp4" {
		t.Fatalf("expected unfiltered video to win episode 01, got %#v", result.Episodes[0])
	}

	env = setupCLITestEnv(t, testsupport.WithoutSeriesFilter())
	seedLibrary(t, env)
	out, _, err = runCLI(t, []string{"match"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	result = matchOutput{}
	decodeOutput(t, out, &result)
	if result.Episodes[0].Video != "Zeta E01.mp4" {
		t.Fatalf("expected config to disable the series filter, got %#v", result.Episodes[0])
	}
}

func TestMatchCommandRequiresSubtitleDirs(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths.TrackADir = ""
	env.cfg.Paths.TrackBDir = ""
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"match"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no subtitle directories") {
		t.Fatalf("expected missing directory error, got %v", err)
	}
}

func TestMatchSaveThenEpisode(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("match --save: %v", err)
	}
	var result matchOutput
	decodeOutput(t, out, &result)
	if result.RunID == "" {
		t.Fatal("expected run id in output")
	}

	out, _, err = runCLI(t, []string{"episodes"}, env.configPath)
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	var run library.Run
	decodeOutput(t, out, &run)
	if run.ID != result.RunID || len(run.Episodes) != 2 || run.TrackADir != env.cfg.Paths.TrackADir {
		t.Fatalf("unexpected saved run: %#v", run)
	}

	out, _, err = runCLI(t, []string{"episode", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("episode: %v", err)
	}
	var ep episodeOutput
	decodeOutput(t, out, &ep)
	if ep.Episode != "01" || ep.Policy != "a" || ep.RunID != result.RunID {
		t.Fatalf("unexpected episode header: %#v", ep)
	}
	if ep.Video != filepath.Join(env.cfg.Paths.VideoDir, "Show E01.mp4") {
		t.Fatalf("unexpected video path %q", ep.Video)
	}
	if len(ep.Cues) != 3 || ep.Cues[0].TextA != "你好" || ep.Cues[0].TextB != "Hello" {
		t.Fatalf("unexpected cues: %#v", ep.Cues)
	}

	out, _, err = runCLI(t, []string{"episode", "02"}, env.configPath)
	if err != nil {
		t.Fatalf("episode with one track: %v", err)
	}
	ep = episodeOutput{}
	decodeOutput(t, out, &ep)
	if len(ep.Cues) != 1 || ep.Cues[0].TextA != "第二集" || ep.Cues[0].TextB != "" {
		t.Fatalf("expected track A only cues, got %#v", ep.Cues)
	}
	if ep.Video != filepath.Join(env.cfg.Paths.VideoDir, "Show E02.mp4") {
		t.Fatalf("unexpected video path %q", ep.Video)
	}

	_, _, err = runCLI(t, []string{"episode", "07", "--run", result.RunID[:8]}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), library.ErrEpisodeNotFound.Error()) {
		t.Fatalf("expected episode not found, got %v", err)
	}
}

func TestEpisodesWithoutSavedRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"episodes"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no saved runs") {
		t.Fatalf("expected no saved runs error, got %v", err)
	}
}

func TestRunsListAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("match --save: %v", err)
	}
	var result matchOutput
	decodeOutput(t, out, &result)

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	var runs []library.Run
	decodeOutput(t, out, &runs)
	if len(runs) != 1 || runs[0].ID != result.RunID {
		t.Fatalf("unexpected runs: %#v", runs)
	}

	out, _, err = runCLI(t, []string{"runs", "delete", result.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("runs delete: %v", err)
	}
	requireContains(t, out, "Deleted run "+result.RunID)

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty list, got %q", out)
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	cases := []struct {
		flag string
		want string
		err  bool
	}{
		{"", formatJSON, false},
		{"table", formatTable, false},
		{" JSON ", formatJSON, false},
		{"yaml", "", true},
	}
	for _, tc := range cases {
		got, err := resolveFormat(tc.flag, &buf)
		if tc.err {
			if err == nil {
				t.Fatalf("resolveFormat(%q): expected error", tc.flag)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("resolveFormat(%q) = %q, %v; want %q", tc.flag, got, err, tc.want)
		}
	}
}

func TestNormalizeEpisodeKey(t *testing.T) {
	cases := map[string]string{"3": "03", " 7 ": "07", "12": "12", "01": "01", "x": "x"}
	for in, want := range cases {
		if got := normalizeEpisodeKey(in); got != want {
			t.Fatalf("normalizeEpisodeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchTableOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match", "--format", "table"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "Series: Show")
	requireContains(t, out, "Show_E01_中文.json")
	requireContains(t, out, "Complete")
	requireContains(t, out, "Track A (Chinese)")
}

func TestMatchScansSubfoldersWithoutVideoDir(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := env.cfg.Paths
	writeTracks(t,
		filepath.Join(paths.TrackADir, "unzipped", "Show_E01_中文.json"),
		filepath.Join(paths.TrackBDir, "unzipped", "nested", "Show_E01_英语.json"),
	)

	out, _, err := runCLI(t, []string{"match", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("match without video dir: %v", err)
	}
	var result matchOutput
	decodeOutput(t, out, &result)
	if len(result.Episodes) != 1 {
		t.Fatalf("expected one episode from subfolders, got %#v", result.Episodes)
	}
	first := result.Episodes[0]
	if first.TrackA != "Show_E01_中文.json" || first.TrackB != "Show_E01_英语.json" || first.Video != "" {
		t.Fatalf("unexpected episode: %#v", first)
	}

	out, _, err = runCLI(t, []string{"episode", "01"}, env.configPath)
	if err != nil {
		t.Fatalf("episode from subfolders: %v", err)
	}
	var ep episodeOutput
	decodeOutput(t, out, &ep)
	if len(ep.Cues) != 3 || ep.Cues[0].TextA != "你好" || ep.Cues[0].TextB != "Hello" || ep.Video != "" {
		t.Fatalf("unexpected episode output: %#v", ep)
	}
}

func TestEpisodeReportsMovedCueFile(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)
	if _, _, err := runCLI(t, []string{"match", "--save"}, env.configPath); err != nil {
		t.Fatalf("match --save: %v", err)
	}
	if err := os.Remove(filepath.Join(env.cfg.Paths.TrackBDir, "Show_E01_英语.json")); err != nil {
		t.Fatalf("remove cue file: %v", err)
	}

	_, _, err := runCLI(t, []string{"episode", "01"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "track b") || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing track b file error, got %v", err)
	}
}

func TestMatchRematchVideosKeepsSubtitles(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env)

	out, _, err := runCLI(t, []string{"match", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("match --save: %v", err)
	}
	var first matchOutput
	decodeOutput(t, out, &first)

	videos := env.cfg.Paths.VideoDir
	if err := os.RemoveAll(videos); err != nil {
		t.Fatalf("clear videos: %v", err)
	}
	testsupport.Touch(t, filepath.Join(videos, "season1"), "Show.E01.1080p.mp4", "Show E03.mp4")

	out, _, err = runCLI(t, []string{"match", "--rematch-videos", "--run", first.RunID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("match --rematch-videos: %v", err)
	}
	var rematched matchOutput
	decodeOutput(t, out, &rematched)
	if rematched.RunID == "" || rematched.RunID == first.RunID {
		t.Fatalf("expected a new saved run, got %q", rematched.RunID)
	}
	if len(rematched.Episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %#v", rematched.Episodes)
	}
	ep1, ep2, ep3 := rematched.Episodes[0], rematched.Episodes[1], rematched.Episodes[2]
	if ep1.Episode != "01" || ep1.TrackA != "Show_E01_中文.json" || ep1.TrackB != "Show_E01_英语.json" || ep1.Video != "Show.E01.1080p.mp4" {
		t.Fatalf("unexpected episode 01: %#v", ep1)
	}
	if ep2.Episode != "02" || ep2.TrackA != "Show_E02_中文.json" || ep2.Video != "" {
		t.Fatalf("unexpected episode 02: %#v", ep2)
	}
	if ep3.Episode != "03" || ep3.TrackA != "" || ep3.Video != "Show E03.mp4" {
		t.Fatalf("unexpected episode 03: %#v", ep3)
	}

	out, _, err = runCLI(t, []string{"episode", "01"}, env.configPath)
	if err != nil {
		t.Fatalf("episode after rematch: %v", err)
	}
	var ep episodeOutput
	decodeOutput(t, out, &ep)
	if ep.RunID != rematched.RunID || ep.Video != filepath.Join(videos, "season1", "Show.E01.1080p.mp4") {
		t.Fatalf("unexpected episode after rematch: %#v", ep)
	}
}

func TestMatchRematchVideosRejectsBadInput(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"match", "--rematch-videos"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no saved runs") {
		t.Fatalf("expected no saved runs error, got %v", err)
	}

	seedLibrary(t, env)
	if _, _, err := runCLI(t, []string{"match", "--save"}, env.configPath); err != nil {
		t.Fatalf("match --save: %v", err)
	}
	cases := map[string][]string{
		"missing video dir": {"match", "--rematch-videos", "--video-dir", filepath.Join(env.baseDir, "nowhere")},
		"subtitle dir flag": {"match", "--rematch-videos", "--a-dir", env.cfg.Paths.TrackADir},
		"run without flag":  {"match", "--run", "abc"},
	}
	for name, args := range cases {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("%s: expected error for %v", name, args)
		}
	}
}

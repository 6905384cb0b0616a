package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bisub/internal/subtitles"
	"bisub/internal/testsupport"
)

func TestAlignCommandPrimaryA(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	writeTracks(t, pathA, pathB)

	out, _, err := runCLI(t, []string{"align", pathA, pathB}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var merged []subtitles.MergedCue
	decodeOutput(t, out, &merged)

	want := []subtitles.MergedCue{
		{Index: 1, Start: "00:00:01,000", End: "00:00:02,000", TextA: "你好", TextB: "Hello"},
		{Index: 2, Start: "00:00:03,000", End: "00:00:04,000", TextA: "再见"},
		{Index: 3, Start: "00:00:05,000", End: "00:00:06,000", TextB: "Bye"},
	}
	if len(merged) != len(want) {
		t.Fatalf("expected %d cues, got %d: %#v", len(want), len(merged), merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("cue %d = %#v, want %#v", i, merged[i], want[i])
		}
	}
}

func TestAlignCommandPolicyFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	writeTracks(t, pathA, pathB)

	out, _, err := runCLI(t, []string{"align", pathA, pathB, "--policy", "b", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var merged []subtitles.MergedCue
	decodeOutput(t, out, &merged)
	if len(merged) != 3 {
		t.Fatalf("expected 3 cues, got %#v", merged)
	}
	if merged[0].Start != "00:00:01,100" || merged[0].TextA != "你好" || merged[0].TextB != "Hello" {
		t.Fatalf("expected track B boundaries on first cue, got %#v", merged[0])
	}
}

func TestAlignCommandUsesConfiguredPolicy(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithPolicy("union"))
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	testsupport.WriteJSON(t, pathA, []subtitles.Cue{cue(1, "00:00:01,000", "00:00:03,000", "甲")})
	testsupport.WriteJSON(t, pathB, []subtitles.Cue{cue(1, "00:00:01,000", "00:00:02,900", "A")})

	out, _, err := runCLI(t, []string{"align", pathA, pathB}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var merged []subtitles.MergedCue
	decodeOutput(t, out, &merged)
	if len(merged) != 1 || merged[0].End != "00:00:03,000" || merged[0].TextB != "A" {
		t.Fatalf("expected union to coalesce into one widened cue, got %#v", merged)
	}
}

func TestAlignCommandRejectsMalformedTimestamp(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	testsupport.WriteJSON(t, pathA, []subtitles.Cue{cue(1, "00:00:01.000", "00:00:02,000", "你好")})
	testsupport.WriteJSON(t, pathB, []subtitles.Cue{})

	_, _, err := runCLI(t, []string{"align", pathA, pathB}, env.configPath)
	if !errors.Is(err, subtitles.ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestAlignCommandRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	writeTracks(t, pathA, pathB)

	cases := [][]string{
		{"align", pathA, pathB, "--policy", "sideways"},
		{"align", pathA, pathB, "--tolerance", "-1"},
		{"align", pathA, pathB, "--format", "yaml"},
		{"align", pathA},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestAlignThenSplitRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	writeTracks(t, pathA, pathB)

	mergedPath := filepath.Join(env.baseDir, "out", "merged.json")
	out, _, err := runCLI(t, []string{"align", pathA, pathB, "-o", mergedPath}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Wrote 3 merged cues")
	if _, err := os.Stat(mergedPath); err != nil {
		t.Fatalf("expected merged output: %v", err)
	}

	out, _, err = runCLI(t, []string{"split", mergedPath, "--track", "b"}, env.configPath)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	var cues []subtitles.Cue
	decodeOutput(t, out, &cues)
	if len(cues) != 2 {
		t.Fatalf("expected 2 track B cues, got %#v", cues)
	}
	if cues[0].Index != 1 || cues[0].Text != "Hello" || cues[1].Index != 2 || cues[1].Text != "Bye" {
		t.Fatalf("unexpected split result: %#v", cues)
	}
}

func TestSplitRejectsUnknownTrack(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "merged.json")
	testsupport.WriteJSON(t, path, []subtitles.MergedCue{})
	if _, _, err := runCLI(t, []string{"split", path, "--track", "c"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown track")
	}
}

func TestRenderMergedTableShowsDashForMissingText(t *testing.T) {
	table := renderMergedTable([]subtitles.MergedCue{
		{Index: 1, Start: "00:00:01,000", End: "00:00:02,000", TextA: "你好", TextB: ""},
	}, trackLabels{a: "Track A (Chinese)", b: "Track B (English)"})
	requireContains(t, table, "你好")
	requireContains(t, table, "Track B (English)")
	requireContains(t, table, " - ")
}

func TestAlignRejectsNonJSONCueFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA := filepath.Join(env.baseDir, "zh.json")
	pathB := filepath.Join(env.baseDir, "en.json")
	writeTracks(t, pathA, pathB)
	srtPath := filepath.Join(env.baseDir, "en.srt")
	if err := os.WriteFile(srtPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nHello\n"), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	_, _, err := runCLI(t, []string{"align", pathA, srtPath}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported cue file format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestReadCuesTreatsEmptyPathAsAbsentTrack(t *testing.T) {
	cues, err := readCues("")
	if err != nil || cues != nil {
		t.Fatalf("readCues(\"\") = %v, %v; want nil, nil", cues, err)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bisub/internal/config"
	"bisub/internal/subtitles"
	"bisub/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("BISUB_LOG_LEVEL", "")
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "bisub.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeOutput(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func cue(index int, start, end, text string) subtitles.Cue {
	return subtitles.Cue{Index: index, Start: start, End: end, Text: text}
}

// writeTracks stores a two-cue zh track and a two-cue en track where only the
// first lines overlap.
func writeTracks(t *testing.T, pathA, pathB string) {
	t.Helper()
	testsupport.WriteJSON(t, pathA, []subtitles.Cue{
		cue(1, "00:00:01,000", "00:00:02,000", "你好"),
		cue(2, "00:00:03,000", "00:00:04,000", "再见"),
	})
	testsupport.WriteJSON(t, pathB, []subtitles.Cue{
		cue(1, "00:00:01,100", "00:00:02,100", "Hello"),
		cue(2, "00:00:05,000", "00:00:06,000", "Bye"),
	})
}

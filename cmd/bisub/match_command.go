package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/episodeid"
	"bisub/internal/library"
	"bisub/internal/logging"
	"bisub/internal/textutil"
)

type matchOutput struct {
	RunID    string                   `json:"run_id,omitempty"`
	Series   string                   `json:"series"`
	Source   string                   `json:"source"`
	Episodes []episodeid.EpisodeMatch `json:"episodes"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		trackADir      string
		trackBDir      string
		videoDir       string
		save           bool
		noSeriesFilter bool
		format         string
		rematchVideos  bool
		runID          string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Group subtitle and video files into episodes",
		Long: "Match scans the track A, track B, and video directories, extracts an\n" +
			"episode number from every filename, and prints one row per episode.\n" +
			"Directories default to the [paths] section of the configuration.\n\n" +
			"With --rematch-videos the directories of a saved run are scanned again and\n" +
			"only the video of each episode is replaced; the result is saved as a new run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var (
				dirs scanDirs
				base *library.Run
			)
			if rematchVideos {
				if cmd.Flags().Changed("a-dir") || cmd.Flags().Changed("b-dir") {
					return errors.New("--a-dir/--b-dir cannot be combined with --rematch-videos")
				}
				run, err := loadSavedRun(cmd.Context(), ctx, runID)
				if err != nil {
					return err
				}
				if dirs, err = rematchDirs(run, videoDir); err != nil {
					return err
				}
				base = &run
			} else {
				if strings.TrimSpace(runID) != "" {
					return errors.New("--run requires --rematch-videos")
				}
				if dirs, err = resolveScanDirs(cfg, trackADir, trackBDir, videoDir); err != nil {
					return err
				}
			}
			logger := ctx.loggerValue()
			batch, err := scanBatch(cfg, dirs, logger)
			if err != nil {
				return err
			}

			matcher := episodeid.NewMatcher(episodeid.Options{
				SeriesFilter:    cfg.Matching.SeriesFilter && !noSeriesFilter,
				LanguageMarkers: cfg.Matching.LanguageMarkers,
			}, logger)
			result, err := matcher.Match(cmd.Context(), batch)
			if err != nil {
				return err
			}

			if base != nil {
				result.Matches = episodeid.MergeVideos(base.Episodes, result.Matches)
				if result.Series == "" {
					result.Series = base.Series
				}
				logger.Info("episode videos rematched",
					logging.String(logging.FieldRunID, base.ID),
					logging.String("video_dir", dirs.video),
					logging.Int(logging.FieldEpisodeCount, len(result.Matches)),
				)
				save = true
			}

			out := matchOutput{Series: result.Series, Source: result.Source, Episodes: result.Matches}
			if out.Episodes == nil {
				out.Episodes = []episodeid.EpisodeMatch{}
			}
			if save {
				run, err := saveRun(cmd.Context(), ctx, dirs, result)
				if err != nil {
					return err
				}
				out.RunID = run.ID
			}

			if resolved == formatJSON {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Series: %s\n", orDash(textutil.TitleCase(out.Series)))
			fmt.Fprintf(w, "Source: %s\n", out.Source)
			if out.RunID != "" {
				fmt.Fprintf(w, "Saved run: %s\n", out.RunID)
			}
			fmt.Fprintln(w, renderEpisodeTable(out.Episodes, labelsFor(cfg)))
			return nil
		},
	}
	cmd.Flags().StringVar(&trackADir, "a-dir", "", "Directory holding track A subtitle files")
	cmd.Flags().StringVar(&trackBDir, "b-dir", "", "Directory holding track B subtitle files")
	cmd.Flags().StringVar(&videoDir, "video-dir", "", "Directory holding video files")
	cmd.Flags().BoolVar(&save, "save", false, "Record the result in the library for later episode lookups")
	cmd.Flags().BoolVar(&noSeriesFilter, "no-series-filter", false, "Consider every video regardless of series name")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table or json")
	cmd.Flags().BoolVar(&rematchVideos, "rematch-videos", false, "Rescan videos for a saved run, keeping its subtitle matches")
	cmd.Flags().StringVar(&runID, "run", "", "Run ID or unique prefix for --rematch-videos (defaults to the latest run)")
	return cmd
}

func loadSavedRun(ctx context.Context, cc *commandContext, id string) (library.Run, error) {
	var run library.Run
	err := cc.withLibrary(func(store *library.Store) error {
		var err error
		run, err = loadRun(ctx, store, id)
		return err
	})
	return run, err
}

// rematchDirs reuses a run's directories. videoFlag overrides the video
// directory, which must exist.
func rematchDirs(run library.Run, videoFlag string) (scanDirs, error) {
	dirs := scanDirs{trackA: run.TrackADir, trackB: run.TrackBDir, video: run.VideoDir}
	if flag := strings.TrimSpace(videoFlag); flag != "" {
		expanded, err := config.ExpandPath(flag)
		if err != nil {
			return scanDirs{}, fmt.Errorf("--video-dir: %w", err)
		}
		dirs.video = expanded
	}
	if dirs.video == "" {
		return scanDirs{}, fmt.Errorf("run %s has no video directory: pass --video-dir", run.ID)
	}
	info, err := os.Stat(dirs.video)
	if err != nil {
		return scanDirs{}, fmt.Errorf("video directory: %w", err)
	}
	if !info.IsDir() {
		return scanDirs{}, fmt.Errorf("video directory: %s is not a directory", dirs.video)
	}
	return dirs, nil
}

type scanDirs struct {
	trackA string
	trackB string
	video  string
}

func resolveScanDirs(cfg *config.Config, trackA, trackB, video string) (scanDirs, error) {
	pick := func(flag, fallback string) (string, error) {
		if strings.TrimSpace(flag) == "" {
			return fallback, nil
		}
		return config.ExpandPath(strings.TrimSpace(flag))
	}
	var dirs scanDirs
	var err error
	if dirs.trackA, err = pick(trackA, cfg.Paths.TrackADir); err != nil {
		return scanDirs{}, fmt.Errorf("--a-dir: %w", err)
	}
	if dirs.trackB, err = pick(trackB, cfg.Paths.TrackBDir); err != nil {
		return scanDirs{}, fmt.Errorf("--b-dir: %w", err)
	}
	if dirs.video, err = pick(video, cfg.Paths.VideoDir); err != nil {
		return scanDirs{}, fmt.Errorf("--video-dir: %w", err)
	}
	if dirs.trackA == "" && dirs.trackB == "" {
		return scanDirs{}, errors.New("no subtitle directories: pass --a-dir/--b-dir or set paths.track_a_dir/paths.track_b_dir")
	}
	return dirs, nil
}

func scanBatch(cfg *config.Config, dirs scanDirs, logger *slog.Logger) (episodeid.Batch, error) {
	var batch episodeid.Batch
	var err error
	if batch.TrackA, err = listFiles(dirs.trackA, cfg.Matching.SubtitleExtensions); err != nil {
		return episodeid.Batch{}, err
	}
	if batch.TrackB, err = listFiles(dirs.trackB, cfg.Matching.SubtitleExtensions); err != nil {
		return episodeid.Batch{}, err
	}
	batch.Videos, err = listFiles(dirs.video, cfg.Matching.VideoExtensions)
	if errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "video directory not found", "video_dir_missing",
			logging.String("dir", dirs.video),
			logging.String(logging.FieldErrorHint, "create the directory or pass --video-dir"),
			logging.String(logging.FieldImpact, "episodes matched without videos"),
		)
		return batch, nil
	}
	if err != nil {
		return episodeid.Batch{}, err
	}
	return batch, nil
}

// listFiles returns the base names of regular files below dir carrying one
// of exts, walking subdirectories in lexical order. An empty dir yields
// nothing; a missing one wraps fs.ErrNotExist.
func listFiles(dir string, exts []string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	var names []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !textutil.HasExtension(entry.Name(), exts) {
			return nil
		}
		names = append(names, entry.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return names, nil
}

// findFile locates name anywhere below root and returns its full path. The
// first hit in lexical walk order wins.
func findFile(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search %s: %w", root, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s not found under %s: %w", name, root, fs.ErrNotExist)
	}
	return found, nil
}

func saveRun(ctx context.Context, cc *commandContext, dirs scanDirs, result episodeid.Result) (library.Run, error) {
	var saved library.Run
	err := cc.withLibrary(func(store *library.Store) error {
		run, err := store.SaveRun(ctx, library.Run{
			Source:    result.Source,
			Series:    result.Series,
			TrackADir: dirs.trackA,
			TrackBDir: dirs.trackB,
			VideoDir:  dirs.video,
			Episodes:  result.Matches,
		})
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		saved = run
		return nil
	})
	return saved, err
}

func renderEpisodeTable(episodes []episodeid.EpisodeMatch, labels trackLabels) string {
	rows := make([][]string, 0, len(episodes))
	for _, ep := range episodes {
		rows = append(rows, []string{
			ep.Episode,
			orDash(ep.TrackA),
			orDash(ep.TrackB),
			orDash(ep.Video),
			textutil.Ternary(ep.Complete(), "yes", "no"),
		})
	}
	return renderTable([]columnSpec{
		{header: "Episode", right: true},
		{header: labels.a, maxWidth: 40},
		{header: labels.b, maxWidth: 40},
		{header: "Video", maxWidth: 40},
		{header: "Complete"},
	}, rows)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bisub/internal/episodeid"
	"bisub/internal/library"
	"bisub/internal/logging"
	"bisub/internal/subtitles"
	"bisub/internal/textutil"
)

// loadRun returns the run named by id, or the latest run when id is empty.
func loadRun(ctx context.Context, store *library.Store, id string) (library.Run, error) {
	var (
		run library.Run
		err error
	)
	if strings.TrimSpace(id) == "" {
		run, err = store.LatestRun(ctx)
	} else {
		run, err = store.GetRun(ctx, id)
	}
	if errors.Is(err, library.ErrRunNotFound) && strings.TrimSpace(id) == "" {
		return library.Run{}, errors.New("no saved runs: run `bisub match --save` first")
	}
	return run, err
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var format string

	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List the episodes of a saved match run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(store *library.Store) error {
				run, err := loadRun(cmd.Context(), store, runID)
				if err != nil {
					return err
				}
				if resolved == formatJSON {
					return writeJSON(cmd, run)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Run: %s (%s)\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintf(w, "Series: %s\n", orDash(textutil.TitleCase(run.Series)))
				fmt.Fprintln(w, renderEpisodeTable(run.Episodes, labelsFor(cfg)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run ID or unique prefix (defaults to the latest run)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table or json")
	return cmd
}

type episodeOutput struct {
	RunID   string                `json:"run_id"`
	Episode string                `json:"episode"`
	Policy  string                `json:"policy"`
	Video   string                `json:"video,omitempty"`
	Cues    []subtitles.MergedCue `json:"cues"`
}

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var flags alignFlags

	cmd := &cobra.Command{
		Use:   "episode <key>",
		Short: "Align the two subtitle tracks of one saved episode",
		Long: "Episode loads a saved match run, finds the episode's track A and track B\n" +
			"cue files below the run's directories, and prints the aligned result. A\n" +
			"missing track aligns as an empty cue list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			policy, tolerance, err := flags.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			format, err := resolveFormat(flags.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			key := normalizeEpisodeKey(args[0])

			var run library.Run
			var match episodeid.EpisodeMatch
			err = ctx.withLibrary(func(store *library.Store) error {
				var err error
				if run, err = loadRun(cmd.Context(), store, runID); err != nil {
					return err
				}
				match, err = store.Episode(cmd.Context(), run.ID, key)
				return err
			})
			if err != nil {
				return err
			}
			pathA, err := locateEpisodeFile(run.TrackADir, match.TrackA)
			if err != nil {
				return fmt.Errorf("track a: %w", err)
			}
			pathB, err := locateEpisodeFile(run.TrackBDir, match.TrackB)
			if err != nil {
				return fmt.Errorf("track b: %w", err)
			}

			logger := ctx.loggerValue()
			logger.Info("episode requested",
				logging.String(logging.FieldRunID, run.ID),
				logging.String(logging.FieldEpisodeKey, key),
			)
			if pathA == "" || pathB == "" {
				logging.WarnWithContext(logger, "episode has a single subtitle track", "episode_track_missing",
					logging.String(logging.FieldEpisodeKey, key),
					logging.Bool("track_a", pathA != ""),
					logging.Bool("track_b", pathB != ""),
					logging.String(logging.FieldErrorHint, "add the missing subtitle file and run match --save again"),
					logging.String(logging.FieldImpact, "cues carry text for one track only"),
				)
			}
			merged, err := alignFiles(ctx, pathA, pathB, policy, tolerance)
			if err != nil {
				return err
			}

			out := episodeOutput{RunID: run.ID, Episode: key, Policy: policy.String(), Cues: merged}
			if match.Video != "" {
				if out.Video, err = locateEpisodeFile(run.VideoDir, match.Video); err != nil {
					out.Video = filepath.Join(run.VideoDir, match.Video)
				}
			}
			if flags.output != "" {
				if err := writeJSONFile(flags.output, out.Cues); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d merged cues to %s\n", len(merged), flags.output)
				return nil
			}
			if format == formatJSON {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Episode %s (%s)\n", out.Episode, out.Policy)
			fmt.Fprintf(w, "Video: %s\n", orDash(out.Video))
			fmt.Fprintln(w, renderMergedTable(merged, labelsFor(cfg)))
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run ID or unique prefix (defaults to the latest run)")
	flags.register(cmd)
	return cmd
}

// locateEpisodeFile resolves a stored file name below its run directory. An
// absent slot resolves to the empty path.
func locateEpisodeFile(dir, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	return findFile(dir, name)
}

// normalizeEpisodeKey pads single digits so "3" finds episode "03".
func normalizeEpisodeKey(value string) string {
	value = strings.TrimSpace(value)
	if len(value) == 1 && value[0] >= '0' && value[0] <= '9' {
		return "0" + value
	}
	return value
}

package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/language"
	"bisub/internal/logging"
	"bisub/internal/subtitles"
)

// cueFileExt is the only cue file encoding the CLI reads.
const cueFileExt = ".json"

type alignFlags struct {
	policy    string
	tolerance float64
	format    string
	output    string
}

func (f *alignFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.policy, "policy", "", "Alignment policy: a, b, or union (defaults to config)")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "Midpoint distance in seconds for primary-driven matching (defaults to config)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: table or json")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write merged cues as JSON to this file")
}

// resolve applies config defaults to flags the user did not set.
func (f *alignFlags) resolve(cmd *cobra.Command, cfg *config.Config) (subtitles.Policy, float64, error) {
	policyText := cfg.Alignment.Policy
	if cmd.Flags().Changed("policy") {
		policyText = f.policy
	}
	policy, err := subtitles.ParsePolicy(policyText)
	if err != nil {
		return 0, 0, fmt.Errorf("--policy: %w", err)
	}
	tolerance := cfg.Alignment.Tolerance
	if cmd.Flags().Changed("tolerance") {
		tolerance = f.tolerance
	}
	if tolerance < 0 {
		return 0, 0, fmt.Errorf("--tolerance: must be >= 0, got %v", tolerance)
	}
	return policy, tolerance, nil
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var flags alignFlags

	cmd := &cobra.Command{
		Use:   "align <track-a.json> <track-b.json>",
		Short: "Merge two cue lists into bilingual cues",
		Args:  cobra.ExactArgs(2),
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

			merged, err := alignFiles(ctx, args[0], args[1], policy, tolerance)
			if err != nil {
				return err
			}
			if flags.output != "" {
				if err := writeJSONFile(flags.output, merged); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d merged cues to %s\n", len(merged), flags.output)
				return nil
			}
			if format == formatJSON {
				return writeJSON(cmd, merged)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMergedTable(merged, labelsFor(cfg)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// alignFiles reads both cue files, reports suspicious cues, and aligns them.
// An empty path stands for an absent track and aligns as an empty cue list.
func alignFiles(ctx *commandContext, pathA, pathB string, policy subtitles.Policy, tolerance float64) ([]subtitles.MergedCue, error) {
	logger := ctx.loggerValue()
	started := time.Now()

	trackA, err := readCues(pathA)
	if err != nil {
		return nil, fmt.Errorf("track a: %w", err)
	}
	trackB, err := readCues(pathB)
	if err != nil {
		return nil, fmt.Errorf("track b: %w", err)
	}
	for _, track := range []struct {
		path string
		cues []subtitles.Cue
	}{{pathA, trackA}, {pathB, trackB}} {
		if issues := subtitles.ValidateCues(track.cues); len(issues) > 0 {
			logging.WarnWithContext(logger, "cue list has problems", "cue_validation",
				logging.String("file", track.path),
				logging.Int("issue_count", len(issues)),
				logging.String("first_issue", issues[0]),
				logging.String(logging.FieldErrorHint, "fix the listed cue timestamps in the source file"),
				logging.String(logging.FieldImpact, "alignment may fail or pair the wrong lines"),
			)
		}
	}

	merged, err := subtitles.Align(trackA, trackB, policy, tolerance)
	if err != nil {
		return nil, err
	}
	bilingual := 0
	for _, cue := range merged {
		if cue.Bilingual() {
			bilingual++
		}
	}
	logger.Info("tracks aligned",
		logging.String(logging.FieldPolicy, policy.String()),
		logging.Float64("tolerance", tolerance),
		logging.Int("track_a_cues", len(trackA)),
		logging.Int("track_b_cues", len(trackB)),
		logging.Int("merged_cues", len(merged)),
		logging.Int("bilingual_cues", bilingual),
		logging.Duration("elapsed", time.Since(started)),
	)
	return merged, nil
}

// readCues decodes a JSON cue list. An empty path yields no cues.
func readCues(path string) ([]subtitles.Cue, error) {
	if path == "" {
		return nil, nil
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != cueFileExt {
		return nil, fmt.Errorf("%s: unsupported cue file format %q (convert it to a JSON cue list)", path, ext)
	}
	var cues []subtitles.Cue
	if err := readJSONFile(path, &cues); err != nil {
		return nil, err
	}
	return cues, nil
}

func renderMergedTable(merged []subtitles.MergedCue, labels trackLabels) string {
	rows := make([][]string, 0, len(merged))
	for _, cue := range merged {
		rows = append(rows, []string{
			strconv.Itoa(cue.Index),
			cue.Start,
			cue.End,
			orDash(flattenText(cue.TextA)),
			orDash(flattenText(cue.TextB)),
		})
	}
	return renderTable([]columnSpec{
		{header: "#", right: true},
		{header: "Start"},
		{header: "End"},
		{header: labels.a, maxWidth: 40},
		{header: labels.b, maxWidth: 40},
	}, rows)
}

type trackLabels struct {
	a string
	b string
}

// labelsFor names the table columns after the configured track languages.
func labelsFor(cfg *config.Config) trackLabels {
	return trackLabels{
		a: fmt.Sprintf("Track A (%s)", language.DisplayName(cfg.Alignment.TrackALanguage)),
		b: fmt.Sprintf("Track B (%s)", language.DisplayName(cfg.Alignment.TrackBLanguage)),
	}
}

// flattenText joins multi-line cue text for single-row display.
func flattenText(value string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(value, "\n", " / ")), " ")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bisub/internal/logging"
	"bisub/internal/subtitles"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var trackFlag string
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "split <merged.json>",
		Short: "Extract one language from merged cues",
		Long: "Split reads merged cues produced by align and writes the cues of a single\n" +
			"track. Cues with no text for that track are dropped and the rest renumbered.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := subtitles.ParseTrack(trackFlag)
			if err != nil {
				return fmt.Errorf("--track: %w", err)
			}
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var merged []subtitles.MergedCue
			if err := readJSONFile(args[0], &merged); err != nil {
				return err
			}
			cues := subtitles.SplitTrack(merged, track)
			ctx.loggerValue().Info("merged cues split",
				logging.String("track", string(track)),
				logging.Int("merged_cues", len(merged)),
				logging.Int("track_cues", len(cues)),
			)

			if output != "" {
				if err := writeJSONFile(output, cues); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", len(cues), output)
				return nil
			}
			if resolved == formatJSON {
				return writeJSON(cmd, cues)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCueTable(cues))
			return nil
		},
	}
	cmd.Flags().StringVar(&trackFlag, "track", "a", "Track to extract: a or b")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write cues as JSON to this file")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table or json")
	return cmd
}

func renderCueTable(cues []subtitles.Cue) string {
	rows := make([][]string, 0, len(cues))
	for _, cue := range cues {
		rows = append(rows, []string{fmt.Sprint(cue.Index), cue.Start, cue.End, flattenText(cue.Text)})
	}
	return renderTable([]columnSpec{
		{header: "#", right: true},
		{header: "Start"},
		{header: "End"},
		{header: "Text", maxWidth: 60},
	}, rows)
}

package episodeid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bisub/internal/logging"
)

// ErrNoResolution is returned by a Resolver that declines a batch. The
// Matcher treats it as "skipped" and falls back without a warning.
var ErrNoResolution = errors.New("resolver declined batch")

// Batch is the set of filenames to be grouped into episodes.
type Batch struct {
	TrackA []string
	TrackB []string
	Videos []string
}

// Empty reports whether the batch has no subtitle files at all.
func (b Batch) Empty() bool {
	return len(b.TrackA) == 0 && len(b.TrackB) == 0
}

// Resolver produces episode associations for a batch. Implementations live
// outside this package (remote or AI-assisted matchers).
type Resolver interface {
	Resolve(ctx context.Context, batch Batch) ([]EpisodeMatch, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, batch Batch) ([]EpisodeMatch, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, batch Batch) ([]EpisodeMatch, error) {
	return f(ctx, batch)
}

// Source values reported in Result.
const (
	SourceUpstream = "upstream"
	SourceFallback = "fallback"
)

// Options configures a Matcher.
type Options struct {
	// SeriesFilter drops videos whose name lacks the derived series name.
	SeriesFilter bool
	// LanguageMarkers are stripped when deriving the series name.
	LanguageMarkers []string
	// Upstream is consulted before the filename fallback. Optional.
	Upstream Resolver
}

// Result is the outcome of one Matcher run.
type Result struct {
	Series  string
	Source  string
	Videos  []string
	Matches []EpisodeMatch
}

// Matcher runs the upstream-then-fallback episode matching workflow.
type Matcher struct {
	opts   Options
	logger *slog.Logger
}

// NewMatcher constructs a Matcher. A nil logger discards output.
func NewMatcher(opts Options, logger *slog.Logger) *Matcher {
	if opts.LanguageMarkers == nil {
		opts.LanguageMarkers = DefaultLanguageMarkers
	}
	m := &Matcher{opts: opts}
	m.SetLogger(logger)
	return m
}

// SetLogger updates the matcher's logging destination.
func (m *Matcher) SetLogger(logger *slog.Logger) {
	m.logger = logging.NewComponentLogger(logger, "episodeid")
}

// Match groups the batch into episodes. It only fails when ctx is done.
func (m *Matcher) Match(ctx context.Context, batch Batch) (Result, error) {
	logger := m.logger
	logger.Info("episode matching started",
		logging.Int("track_a_files", len(batch.TrackA)),
		logging.Int("track_b_files", len(batch.TrackB)),
		logging.Int("video_files", len(batch.Videos)),
	)

	if batch.Empty() {
		logger.Info("episode matching decision", logging.Args(logging.DecisionAttrs("episode_matching", "skipped", "no subtitle files")...)...)
		return Result{Source: SourceFallback}, nil
	}

	result := Result{Series: m.seriesName(batch)}
	result.Videos = m.filterVideos(batch.Videos, result.Series)
	filtered := Batch{TrackA: batch.TrackA, TrackB: batch.TrackB, Videos: result.Videos}

	if m.opts.Upstream != nil {
		matches, err := m.opts.Upstream.Resolve(ctx, filtered)
		switch {
		case err == nil && len(matches) > 0:
			result.Source = SourceUpstream
			result.Matches = matches
			logger.Info("episode matching completed",
				logging.String(logging.FieldDecisionSource, result.Source),
				logging.Int(logging.FieldEpisodeCount, len(matches)),
			)
			return result, nil
		case ctx.Err() != nil:
			return Result{}, fmt.Errorf("episode matching: %w", ctx.Err())
		case err == nil, errors.Is(err, ErrNoResolution):
			logger.Info("episode matching decision", logging.Args(logging.DecisionAttrs("episode_matching", "fallback", "upstream resolver declined")...)...)
		default:
			logging.WarnWithContext(logger, "upstream episode resolver failed", "episode_resolver_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the upstream resolver configuration"),
				logging.String(logging.FieldImpact, "episodes matched from filenames only"),
			)
		}
	}

	result.Source = SourceFallback
	result.Matches = MatchEpisodes(filtered.TrackA, filtered.TrackB, filtered.Videos)
	for _, match := range result.Matches {
		logger.Debug("episode matched",
			logging.String(logging.FieldEpisodeKey, match.Episode),
			logging.Bool("track_a", match.TrackA != ""),
			logging.Bool("track_b", match.TrackB != ""),
			logging.Bool("video", match.Video != ""),
		)
	}
	logger.Info("episode matching completed",
		logging.String(logging.FieldDecisionSource, result.Source),
		logging.Int(logging.FieldEpisodeCount, len(result.Matches)),
	)
	return result, nil
}

func (m *Matcher) seriesName(batch Batch) string {
	var sample string
	switch {
	case len(batch.TrackA) > 0:
		sample = batch.TrackA[0]
	case len(batch.TrackB) > 0:
		sample = batch.TrackB[0]
	}
	series := DeriveSeriesName(sample, m.opts.LanguageMarkers)
	if series == "" {
		logging.WarnWithContext(m.logger, "series name not detected", "series_name_missing",
			logging.String("sample", sample),
			logging.String(logging.FieldErrorHint, "include the series title in subtitle filenames"),
			logging.String(logging.FieldImpact, "all videos considered for matching"),
		)
	}
	return series
}

func (m *Matcher) filterVideos(videos []string, series string) []string {
	if !m.opts.SeriesFilter || series == "" {
		return append([]string(nil), videos...)
	}
	filtered := FilterBySeries(videos, series)
	if len(filtered) == 0 && len(videos) > 0 {
		m.logger.Info("series filter decision", logging.Args(logging.DecisionAttrs("series_filter", "bypassed", "no video names contain the series name")...)...)
		return append([]string(nil), videos...)
	}
	m.logger.Debug("series filter applied",
		logging.String("series", series),
		logging.Int("kept", len(filtered)),
		logging.Int("total", len(videos)),
	)
	return filtered
}

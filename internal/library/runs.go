package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bisub/internal/episodeid"
	"bisub/internal/logging"
)

// Run is one persisted matcher result.
type Run struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Source    string                   `json:"source"`
	Series    string                   `json:"series,omitempty"`
	TrackADir string                   `json:"track_a_dir,omitempty"`
	TrackBDir string                   `json:"track_b_dir,omitempty"`
	VideoDir  string                   `json:"video_dir,omitempty"`
	Episodes  []episodeid.EpisodeMatch `json:"episodes"`
}

// SaveRun inserts run and its episodes in one transaction. The ID and
// CreatedAt fields are assigned when empty; the stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if strings.TrimSpace(run.Source) == "" {
		return Run{}, errors.New("save run: source is required")
	}
	if dupes := duplicateKeys(run.Episodes); len(dupes) > 0 {
		logging.WarnWithContext(s.logger, "run has duplicate episode keys", "episode_key_duplicate",
			logging.String(logging.FieldRunID, run.ID),
			logging.String("episode_keys", strings.Join(dupes, ",")),
			logging.String(logging.FieldErrorHint, "check the episode numbers in the file names"),
			logging.String(logging.FieldImpact, "episode lookups return the first record for a key"),
		)
	}

	err := s.withWriteLock(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, created_at, source, series, track_a_dir, track_b_dir, video_dir)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.CreatedAt.UTC().Format(timeLayout),
			run.Source,
			nullableString(run.Series),
			nullableString(run.TrackADir),
			nullableString(run.TrackBDir),
			nullableString(run.VideoDir),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO episodes (run_id, position, episode_key, track_a, track_b, video)
             VALUES (?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare episode insert: %w", err)
		}
		defer stmt.Close()

		for i, ep := range run.Episodes {
			if _, err := stmt.ExecContext(ctx,
				run.ID, i, ep.Episode,
				nullableString(ep.TrackA),
				nullableString(ep.TrackB),
				nullableString(ep.Video),
			); err != nil {
				return fmt.Errorf("insert episode %s: %w", ep.Episode, err)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	s.logger.Info("match run saved",
		logging.String(logging.FieldRunID, run.ID),
		logging.Int(logging.FieldEpisodeCount, len(run.Episodes)),
		logging.String(logging.FieldDecisionSource, run.Source),
	)
	return run, nil
}

// GetRun loads a run by ID. A unique ID prefix is accepted as well.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, ErrRunNotFound
	}
	runs, err := s.queryRuns(ctx, `WHERE id = ?`, 1, id)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		runs, err = s.queryRuns(ctx, `WHERE id LIKE ?`, 2, id+"%")
		if err != nil {
			return Run{}, err
		}
	}
	switch len(runs) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return s.withEpisodes(ctx, runs[0])
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	runs, err := s.queryRuns(ctx, "", 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrRunNotFound
	}
	return s.withEpisodes(ctx, runs[0])
}

// ListRuns returns run headers, newest first, without their episodes.
// A non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.queryRuns(ctx, "", limit)
}

// queryRuns selects run headers newest first. A non-positive limit is unbounded.
func (s *Store) queryRuns(ctx context.Context, where string, limit int, args ...any) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, created_at, source, series, track_a_dir, track_b_dir, video_dir FROM runs ` +
		where + ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return scanRuns(rows)
}

// Episode returns one episode record of a run. When a key repeats, the
// first record in run order is returned.
func (s *Store) Episode(ctx context.Context, runID, key string) (episodeid.EpisodeMatch, error) {
	var match episodeid.EpisodeMatch
	var trackA, trackB, video sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT episode_key, track_a, track_b, video FROM episodes
         WHERE run_id = ? AND episode_key = ?
         ORDER BY position LIMIT 1`,
		runID, key,
	).Scan(&match.Episode, &trackA, &trackB, &video)
	if errors.Is(err, sql.ErrNoRows) {
		return episodeid.EpisodeMatch{}, fmt.Errorf("%w: %s", ErrEpisodeNotFound, key)
	}
	if err != nil {
		return episodeid.EpisodeMatch{}, fmt.Errorf("query episode: %w", err)
	}
	match.TrackA = trackA.String
	match.TrackB = trackB.String
	match.Video = video.String
	return match, nil
}

// DeleteRun removes a run and its episodes.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.withWriteLock(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil
	})
}

func (s *Store) withEpisodes(ctx context.Context, run Run) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT episode_key, track_a, track_b, video FROM episodes
         WHERE run_id = ? ORDER BY position`,
		run.ID,
	)
	if err != nil {
		return Run{}, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	run.Episodes = []episodeid.EpisodeMatch{}
	for rows.Next() {
		var match episodeid.EpisodeMatch
		var trackA, trackB, video sql.NullString
		if err := rows.Scan(&match.Episode, &trackA, &trackB, &video); err != nil {
			return Run{}, fmt.Errorf("scan episode: %w", err)
		}
		match.TrackA = trackA.String
		match.TrackB = trackB.String
		match.Video = video.String
		run.Episodes = append(run.Episodes, match)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate episodes: %w", err)
	}
	return run, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var (
			run                                    Run
			createdRaw                             string
			series, trackADir, trackBDir, videoDir sql.NullString
		)
		if err := rows.Scan(&run.ID, &createdRaw, &run.Source, &series, &trackADir, &trackBDir, &videoDir); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		created, err := parseTimeString(createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
		}
		run.CreatedAt = created
		run.Series = series.String
		run.TrackADir = trackADir.String
		run.TrackBDir = trackBDir.String
		run.VideoDir = videoDir.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// timeLayout keeps a fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// duplicateKeys lists episode keys that occur more than once, in first-seen order.
func duplicateKeys(episodes []episodeid.EpisodeMatch) []string {
	seen := make(map[string]int, len(episodes))
	var dupes []string
	for _, ep := range episodes {
		seen[ep.Episode]++
		if seen[ep.Episode] == 2 {
			dupes = append(dupes, ep.Episode)
		}
	}
	return dupes
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cdripper/internal/ripping"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const entryColumns = "id, kind, device, artist, album, format, fingerprint, status, error_message, started_at, finished_at"

// Record inserts a finished job and its track results in one transaction.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("history entry id is required")
	}
	if entry.Kind == "" || entry.Status == "" {
		return errors.New("history entry kind and status are required")
	}
	return retryOnBusy(ctx, func() error {
		return s.record(ctx, entry)
	})
}

func (s *Store) record(ctx context.Context, entry Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO jobs (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Kind),
		entry.Device,
		nullableString(entry.Artist),
		nullableString(entry.Album),
		nullableString(entry.Format),
		nullableString(entry.Fingerprint),
		string(entry.Status),
		nullableString(entry.Error),
		formatTime(entry.StartedAt),
		formatTime(entry.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	for _, track := range entry.Tracks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO track_results (job_id, track_number, output_path, succeeded, error_detail) VALUES (?, ?, ?, ?, ?)`,
			entry.ID,
			track.TrackNumber,
			nullableString(track.OutputPath),
			boolToInt(track.Succeeded),
			nullableString(track.ErrorDetail),
		)
		if err != nil {
			return fmt.Errorf("insert track %d: %w", track.TrackNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// Recent returns the newest jobs first, tracks included.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM jobs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan job: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range entries {
		tracks, err := s.tracks(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Tracks = tracks
	}
	return entries, nil
}

// Get fetches one job by id. It returns nil when the id is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM jobs WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	tracks, err := s.tracks(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Tracks = tracks
	return entry, nil
}

// Prune removes jobs that finished before the cutoff and returns how many
// were deleted.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE finished_at < ?`, formatTime(before))
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return removed, nil
}

func (s *Store) tracks(ctx context.Context, jobID string) ([]ripping.TrackResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT track_number, output_path, succeeded, error_detail FROM track_results WHERE job_id = ? ORDER BY track_number`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var results []ripping.TrackResult
	for rows.Next() {
		var (
			number    int
			output    sql.NullString
			succeeded int
			detail    sql.NullString
		)
		if err := rows.Scan(&number, &output, &succeeded, &detail); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		results = append(results, ripping.TrackResult{
			TrackNumber: number,
			OutputPath:  output.String,
			Succeeded:   succeeded != 0,
			ErrorDetail: detail.String,
		})
	}
	return results, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id, kind, device, status string
		artist, album, format    sql.NullString
		fingerprint, errMessage  sql.NullString
		startedRaw, finishedRaw  string
	)
	if err := scanner.Scan(&id, &kind, &device, &artist, &album, &format, &fingerprint, &status, &errMessage, &startedRaw, &finishedRaw); err != nil {
		return nil, err
	}
	entry := &Entry{
		ID:          id,
		Kind:        Kind(kind),
		Device:      device,
		Artist:      artist.String,
		Album:       album.String,
		Format:      format.String,
		Fingerprint: fingerprint.String,
		Status:      Status(status),
		Error:       errMessage.String,
	}
	if started, err := time.Parse(timeLayout, startedRaw); err == nil {
		entry.StartedAt = started
	}
	if finished, err := time.Parse(timeLayout, finishedRaw); err == nil {
		entry.FinishedAt = finished
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		value = time.Now()
	}
	return value.UTC().Format(timeLayout)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

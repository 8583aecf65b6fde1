package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultPageLimit is used when a page query does not specify a limit.
	DefaultPageLimit = 50
	// MaxPageLimit bounds response size regardless of caller input.
	MaxPageLimit = 200

	topAppsLimit = 10

	entryColumns = "id, app, title, text, timestamp, embedding"
)

// Store defines the read/write surface of the entry store. The capture loop
// is the only writer; the dashboard server and the CLI are readers.
type Store interface {
	InsertEntry(ctx context.Context, e NewEntry) (id int64, inserted bool, err error)
	AllEntries(ctx context.Context) ([]Entry, error)
	EntriesPage(ctx context.Context, q PageQuery) ([]Entry, int64, error)
	EntryByID(ctx context.Context, id int64) (*Entry, error)
	Timestamps(ctx context.Context) ([]int64, error)
	UniqueApps(ctx context.Context) ([]AppCount, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// screenshotsDir is scanned for disk-usage stats; may be empty.
	screenshotsDir string

	insertEntry *sql.Stmt
	getEntry    *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database. screenshotsDir points at the image artifact directory and is
// only used for the Stats disk-usage figure; pass "" to skip it.
func NewSQLiteStore(db *sql.DB, screenshotsDir string) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, screenshotsDir: screenshotsDir}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertEntry, err = s.db.Prepare(`
		INSERT INTO entries (app, title, text, timestamp, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(timestamp) DO NOTHING
	`)
	if err != nil {
		return err
	}

	s.getEntry, err = s.db.Prepare(
		"SELECT " + entryColumns + " FROM entries WHERE id = ?",
	)
	if err != nil {
		return err
	}

	return nil
}

// InsertEntry inserts a new observation. When an entry with the same
// timestamp already exists the insert is a defined no-op: the method returns
// inserted=false with a nil error, and the existing row is left untouched.
func (s *SQLiteStore) InsertEntry(ctx context.Context, e NewEntry) (int64, bool, error) {
	res, err := s.insertEntry.ExecContext(ctx,
		e.App, e.Title, e.Text, e.Timestamp, EncodeEmbedding(e.Embedding),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// Duplicate timestamp: already captured this second.
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, true, nil
}

// AllEntries returns every entry, newest first, with embeddings decoded.
// This is the exhaustive-search read path.
func (s *SQLiteStore) AllEntries(ctx context.Context) ([]Entry, error) {
	return s.scanEntries(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY timestamp DESC",
	)
}

// EntriesPage returns one page of entries matching the query's filters,
// newest first, plus the total number of entries matching the same filters.
func (s *SQLiteStore) EntriesPage(ctx context.Context, q PageQuery) ([]Entry, int64, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var clauses []string
	var args []interface{}

	if q.StartTime > 0 {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, q.StartTime)
	}
	if q.EndTime > 0 {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, q.EndTime)
	}
	if q.App != "" {
		clauses = append(clauses, "app LIKE ?")
		args = append(args, "%"+q.App+"%")
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries"+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	query := "SELECT " + entryColumns + " FROM entries" + where +
		" ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	entries, err := s.scanEntries(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// EntryByID retrieves a single entry. A missing ID yields (nil, nil).
func (s *SQLiteStore) EntryByID(ctx context.Context, id int64) (*Entry, error) {
	var e Entry
	var blob []byte

	err := s.getEntry.QueryRowContext(ctx, id).Scan(
		&e.ID, &e.App, &e.Title, &e.Text, &e.Timestamp, &blob,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	e.Embedding = DecodeEmbedding(blob)
	return &e, nil
}

// Timestamps returns all capture timestamps, newest first. It drives the
// timeline without materializing full entries.
func (s *SQLiteStore) Timestamps(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT timestamp FROM entries ORDER BY timestamp DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("query timestamps: %w", err)
	}
	defer rows.Close()

	timestamps := []int64{}
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		timestamps = append(timestamps, ts)
	}

	return timestamps, rows.Err()
}

// UniqueApps returns each application name with its entry count, most
// frequent first.
func (s *SQLiteStore) UniqueApps(ctx context.Context) ([]AppCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT app, COUNT(*) AS cnt FROM entries GROUP BY app ORDER BY cnt DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	defer rows.Close()

	apps := []AppCount{}
	for rows.Next() {
		var ac AppCount
		if err := rows.Scan(&ac.App, &ac.Count); err != nil {
			return nil, fmt.Errorf("scan app count: %w", err)
		}
		apps = append(apps, ac)
	}

	return apps, rows.Err()
}

// Stats returns aggregate statistics about the database. The activity
// histogram buckets by the host's local hour of day: the question it answers
// is "when in my day", not "when in UTC".
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	if stats.TotalEntries > 0 {
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(timestamp), MAX(timestamp) FROM entries",
		).Scan(&stats.FirstTimestamp, &stats.LastTimestamp)
		if err != nil {
			return nil, fmt.Errorf("entry time range: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT app, COUNT(*) AS cnt FROM entries GROUP BY app ORDER BY cnt DESC LIMIT ?",
		topAppsLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("top apps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ac AppCount
		if err := rows.Scan(&ac.App, &ac.Count); err != nil {
			return nil, fmt.Errorf("scan top app: %w", err)
		}
		stats.TopApps = append(stats.TopApps, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hourRows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%H', timestamp, 'unixepoch', 'localtime') AS INTEGER) AS hour,
		       COUNT(*) AS cnt
		FROM entries
		GROUP BY hour
		ORDER BY hour
	`)
	if err != nil {
		return nil, fmt.Errorf("activity by hour: %w", err)
	}
	defer hourRows.Close()

	for hourRows.Next() {
		var hc HourCount
		if err := hourRows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("scan hour bucket: %w", err)
		}
		stats.ActivityByHour = append(stats.ActivityByHour, hc)
	}
	if err := hourRows.Err(); err != nil {
		return nil, err
	}

	stats.ScreenshotsBytes = s.screenshotsSize()

	return stats, nil
}

// screenshotsSize sums the size of the image artifacts on disk. Failures
// here only zero out one stat field, so they are swallowed.
func (s *SQLiteStore) screenshotsSize() int64 {
	if s.screenshotsDir == "" {
		return 0
	}

	dirents, err := os.ReadDir(s.screenshotsDir)
	if err != nil {
		return 0
	}

	var total int64
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(s.screenshotsDir, d.Name()))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// scanEntries executes a query and scans results into Entry slices,
// decoding embedding blobs as it goes.
func (s *SQLiteStore) scanEntries(ctx context.Context, query string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var blob []byte
		if err := rows.Scan(&e.ID, &e.App, &e.Title, &e.Text, &e.Timestamp, &blob); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Embedding = DecodeEmbedding(blob)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertEntry, s.getEntry} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/pixlet/internal/db"
)

// ErrNotFound is returned when a visit does not exist.
var ErrNotFound = errors.New("visit not found")

// Store provides persistence for visits.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Record inserts a visit. If v.ID is empty a UUID is generated, and a zero
// VisitedAt is set to the current time.
func (s *Store) Record(ctx context.Context, v Visit) (*Visit, error) {
	if !v.Kind.Valid() {
		return nil, fmt.Errorf("recording visit: unknown kind %q", v.Kind)
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.VisitedAt.IsZero() {
		v.VisitedAt = s.now()
	}
	if v.Status == "" {
		v.Status = StatusOpened
	}
	v.VisitedAt = v.VisitedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (id, kind, query, url, status, error, visited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		string(v.Kind),
		v.Query,
		v.URL,
		string(v.Status),
		v.Error,
		v.VisitedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visit: %w", err)
	}
	return &v, nil
}

// GetByID retrieves a single visit.
func (s *Store) GetByID(ctx context.Context, id string) (*Visit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, query, url, status, error, visited_at
		FROM visits WHERE id = ?`, id)

	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// ListFilter controls which visits are returned by List.
type ListFilter struct {
	Kind   Kind
	Status Status
	Since  *time.Time
	Limit  int
	Offset int
}

// List returns visits matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Visit, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Since != nil {
		clauses = append(clauses, "visited_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT id, kind, query, url, status, error, visited_at FROM visits"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY visited_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

// Suggest returns distinct past search queries starting with prefix,
// most recently used first. Matching ignores ASCII case.
func (s *Store) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query FROM visits
		WHERE kind = 'search' AND query LIKE ? ESCAPE '\'
		GROUP BY query
		ORDER BY MAX(visited_at) DESC, MAX(rowid) DESC
		LIMIT ?`,
		escapeLike(prefix)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Count returns the number of stored visits.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting visits: %w", err)
	}
	return n, nil
}

// Clear removes every visit and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM visits")
	if err != nil {
		return 0, fmt.Errorf("clearing visits: %w", err)
	}
	return res.RowsAffected()
}

// DeleteBefore removes all visits older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM visits WHERE visited_at < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old visits: %w", err)
	}
	return res.RowsAffected()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(sc scanner) (*Visit, error) {
	var (
		v            Visit
		kind, status string
		ts           string
	)

	if err := sc.Scan(&v.ID, &kind, &v.Query, &v.URL, &status, &v.Error, &ts); err != nil {
		return nil, err
	}
	v.Kind = Kind(kind)
	v.Status = Status(status)

	if t, err := time.Parse(timeLayout, ts); err == nil {
		v.VisitedAt = t
	} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		v.VisitedAt = t
	}
	return &v, nil
}

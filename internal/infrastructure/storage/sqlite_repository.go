package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS assignments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	course_key TEXT NOT NULL,
	title TEXT NOT NULL,
	due_date_raw TEXT,
	due_date_parsed TIMESTAMP,
	extracted_at TIMESTAMP NOT NULL,
	notified BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE(course_key, title)
)`

// DueDateParser turns raw due-date text into a timestamp, nil when unparseable.
type DueDateParser interface {
	Parse(raw string) *time.Time
}

// SQLiteRepository persists assignments in an embedded SQLite database.
type SQLiteRepository struct {
	db     *sql.DB
	parser DueDateParser
	now    func() time.Time
}

var _ ports.AssignmentRepository = (*SQLiteRepository)(nil)

// Open creates the database file if needed and initializes the schema.
func Open(path string, parser DueDateParser) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteRepository{db: db, parser: parser, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Upsert writes each candidate keyed by (course key, title). Existing rows
// get fresh due-date fields and extraction time; the notified latch is never
// touched here. The whole batch runs in one transaction, so readers never
// observe a half-written record.
func (r *SQLiteRepository) Upsert(ctx context.Context, courseKey string, candidates []domain.Candidate) (domain.UpsertStats, error) {
	var stats domain.UpsertStats

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, candidate := range candidates {
		parsed := r.parseDueDate(candidate.DueDateRaw)

		query, args, err := sq.Select("id").
			From("assignments").
			Where(sq.Eq{"course_key": courseKey, "title": candidate.Title}).
			ToSql()
		if err != nil {
			return domain.UpsertStats{}, fmt.Errorf("build lookup: %w", err)
		}

		var id int64
		lookupErr := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		switch {
		case lookupErr == sql.ErrNoRows:
			query, args, err = sq.Insert("assignments").
				Columns("course_key", "title", "due_date_raw", "due_date_parsed", "extracted_at", "notified").
				Values(courseKey, candidate.Title, candidate.DueDateRaw, parsed, r.now(), false).
				ToSql()
			if err != nil {
				return domain.UpsertStats{}, fmt.Errorf("build insert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return domain.UpsertStats{}, fmt.Errorf("insert %q: %w", candidate.Title, err)
			}
			stats.New++
		case lookupErr != nil:
			return domain.UpsertStats{}, fmt.Errorf("lookup %q: %w", candidate.Title, lookupErr)
		default:
			query, args, err = sq.Update("assignments").
				Set("due_date_raw", candidate.DueDateRaw).
				Set("due_date_parsed", parsed).
				Set("extracted_at", r.now()).
				Where(sq.Eq{"id": id}).
				ToSql()
			if err != nil {
				return domain.UpsertStats{}, fmt.Errorf("build update: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return domain.UpsertStats{}, fmt.Errorf("update %q: %w", candidate.Title, err)
			}
			stats.Updated++
		}
		stats.Total++
	}

	if err := tx.Commit(); err != nil {
		return domain.UpsertStats{}, fmt.Errorf("commit: %w", err)
	}

	return stats, nil
}

// QueryDueWithin returns records with a parsed due date inside [now, now+window],
// ascending by due date.
func (r *SQLiteRepository) QueryDueWithin(ctx context.Context, window time.Duration) ([]domain.Assignment, error) {
	now := r.now()

	query, args, err := selectAssignments().
		Where(sq.NotEq{"due_date_parsed": nil}).
		Where(sq.GtOrEq{"due_date_parsed": now}).
		Where(sq.LtOrEq{"due_date_parsed": now.Add(window)}).
		OrderBy("due_date_parsed ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.queryAssignments(ctx, query, args)
}

// MarkNotified flips the one-way notified latch. Idempotent.
func (r *SQLiteRepository) MarkNotified(ctx context.Context, courseKey, title string) error {
	query, args, err := sq.Update("assignments").
		Set("notified", true).
		Where(sq.Eq{"course_key": courseKey, "title": title}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// ListAll returns every record ascending by due date; records without a
// parsed due date sort last.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]domain.Assignment, error) {
	query, args, err := selectAssignments().
		OrderBy("due_date_parsed IS NULL", "due_date_parsed ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.queryAssignments(ctx, query, args)
}

func selectAssignments() sq.SelectBuilder {
	return sq.Select("course_key", "title", "due_date_raw", "due_date_parsed", "extracted_at", "notified").
		From("assignments")
}

func (r *SQLiteRepository) queryAssignments(ctx context.Context, query string, args []interface{}) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var (
			record    domain.Assignment
			dueParsed sql.NullTime
		)
		if err := rows.Scan(&record.CourseKey, &record.Title, &record.DueDateRaw, &dueParsed, &record.ExtractedAt, &record.Notified); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if dueParsed.Valid {
			t := dueParsed.Time
			record.DueDateParsed = &t
		}
		assignments = append(assignments, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return assignments, nil
}

func (r *SQLiteRepository) parseDueDate(raw string) interface{} {
	if r.parser == nil {
		return nil
	}
	if parsed := r.parser.Parse(raw); parsed != nil {
		return *parsed
	}
	return nil
}

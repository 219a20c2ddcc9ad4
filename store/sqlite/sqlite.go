/*
Package sqlite provides SQLite-backed persistence for named market calendars.

PURPOSE:
  The only durable state in the engine is the set of market calendars and
  their holidays: everything else (exercise styles, rebate schedules) is
  constructed per request and never stored. This package keeps those
  calendars and materializes them as dates.HolidayCalendar values.

INTERFACES IMPLEMENTED:
  factory.CalendarSource: Calendar(ctx, name) lookup for the JSON factory

KEY TABLES:
  calendars: One row per named market calendar
  holidays:  One row per (calendar, date), unique per pair

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

CONCURRENCY:
  Uses sync.RWMutex around writes. Reads materialize immutable calendar
  values, so callers can share the results freely.

USAGE:
  store, err := sqlite.New("./data/calendars.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cal, err := store.Calendar(ctx, "krx")

SEE ALSO:
  - dates package: the Calendar capability this store feeds
  - factory package: resolves calendar names through this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/exercise-engine/dates"
)

// ErrCalendarNotFound is returned when a referenced calendar doesn't exist.
var ErrCalendarNotFound = errors.New("calendar not found")

// CalendarRecord is a stored market calendar.
type CalendarRecord struct {
	Name        string
	Description string
	CreatedAt   time.Time
}

// HolidayRecord is a stored holiday belonging to a calendar.
type HolidayRecord struct {
	ID           int64
	CalendarName string
	Date         dates.Date
	Label        string
	CreatedAt    time.Time
}

// Store persists market calendars in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendars (
		name TEXT PRIMARY KEY,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		calendar_name TEXT NOT NULL REFERENCES calendars(name) ON DELETE CASCADE,
		date TEXT NOT NULL,
		label TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_calendar
		ON holidays(calendar_name, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(calendar_name, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALENDARS
// =============================================================================

// SaveCalendar creates or updates a named calendar.
func (s *Store) SaveCalendar(ctx context.Context, rec CalendarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (name, description, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET description = excluded.description`,
		rec.Name, rec.Description, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save calendar: %w", err)
	}
	return nil
}

// ListCalendars returns all stored calendars, ordered by name.
func (s *Store) ListCalendars(ctx context.Context) ([]CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, created_at FROM calendars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer rows.Close()

	var records []CalendarRecord
	for rows.Next() {
		var rec CalendarRecord
		var createdAt string
		if err := rows.Scan(&rec.Name, &rec.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan calendar: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetCalendar returns a single calendar record.
func (s *Store) GetCalendar(ctx context.Context, name string) (CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec CalendarRecord
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, description, created_at FROM calendars WHERE name = ?`, name).
		Scan(&rec.Name, &rec.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CalendarRecord{}, fmt.Errorf("%q: %w", name, ErrCalendarNotFound)
	}
	if err != nil {
		return CalendarRecord{}, fmt.Errorf("failed to get calendar: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// AddHoliday records a holiday for a calendar and returns its id.
// Adding the same date twice for a calendar is an error (unique index).
func (s *Store) AddHoliday(ctx context.Context, rec HolidayRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCalendar(ctx, rec.CalendarName); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (calendar_name, date, label, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.CalendarName, rec.Date.String(), rec.Label,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to add holiday: %w", err)
	}
	return res.LastInsertId()
}

// DeleteHoliday removes a holiday by id.
func (s *Store) DeleteHoliday(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// ListHolidays returns all holidays of a calendar in date order.
func (s *Store) ListHolidays(ctx context.Context, calendarName string) ([]HolidayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkCalendar(ctx, calendarName); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, calendar_name, date, label, created_at
		FROM holidays WHERE calendar_name = ? ORDER BY date`, calendarName)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var records []HolidayRecord
	for rows.Next() {
		var rec HolidayRecord
		var dateStr, createdAt string
		if err := rows.Scan(&rec.ID, &rec.CalendarName, &dateStr, &rec.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		rec.Date, err = dates.Parse(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt holiday date %q: %w", dateStr, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Calendar materializes a stored calendar as a dates.Calendar value.
// This implements factory.CalendarSource.
func (s *Store) Calendar(ctx context.Context, name string) (dates.Calendar, error) {
	holidays, err := s.ListHolidays(ctx, name)
	if err != nil {
		return nil, err
	}
	ds := make([]dates.Date, len(holidays))
	for i, h := range holidays {
		ds[i] = h.Date
	}
	return dates.NewHolidayCalendar(name, ds), nil
}

// checkCalendar verifies calendar existence; callers hold s.mu.
func (s *Store) checkCalendar(ctx context.Context, name string) error {
	var got string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM calendars WHERE name = ?`, name).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%q: %w", name, ErrCalendarNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check calendar: %w", err)
	}
	return nil
}

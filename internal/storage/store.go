// Package storage persists decoded telemetry to a SQLite database: one
// sessions row per recording session, one sensors row per declared sensor
// and the assembled table in long format, one samples row per field value.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shkiefer/tlm-parsing/internal/assemble"
	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

//go:embed schema.sql
var schemaSQL string

const defaultMaxBatchSize = 500

// utcTextLayout is how GPS time-of-fix values are stored, matching the
// decoded fraction width.
const utcTextLayout = "15:04:05.00"

// WithMaxBatchSize sets the maximum number of assembled rows written within
// a single database transaction.
func WithMaxBatchSize(size int) func(*Store) {
	return func(s *Store) {
		s.maxBatchSize = size
	}
}

// Store handles database operations for one output file.
type Store struct {
	dbPath       string
	maxBatchSize int

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the database at dbPath. The connection is opened
// and the schema initialized on first use.
func New(dbPath string, options ...func(*Store)) *Store {
	s := Store{
		dbPath:       dbPath,
		maxBatchSize: defaultMaxBatchSize,
	}
	for _, option := range options {
		option(&s)
	}
	return &s
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

// Close releases the database connection. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			s.closeErr = s.writeDB.Close()
		}
	})
	return s.closeErr
}

const insertSessionSQL = `
INSERT INTO sessions (session_num, source, model_type, bind_info, model_name)
VALUES (?, ?, ?, ?, ?)`

// CreateSession inserts one recording session and returns its row id.
// Sessions that opened without a decodable main header are stored with
// Unknown model fields so their samples still have a parent row.
func (s *Store) CreateSession(ctx context.Context, hdr telemetry.MainHeader, source string) (sessionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	result, err := stmt.ExecContext(ctx, hdr.SessionID, source,
		hdr.ModelType.String(), hdr.BindInfo.String(), hdr.ModelName)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	return result.LastInsertId()
}

const insertSensorSQL = `
INSERT INTO sensors (session_id, sensor_type)
VALUES (?, ?)`

// StoreSensors inserts the sensors a session declared via supplemental
// headers.
func (s *Store) StoreSensors(ctx context.Context, sessionID int64, sensors []telemetry.SensorType) (err error) {
	if len(sensors) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSensorSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, sensor := range sensors {
		if _, err = stmt.ExecContext(ctx, sessionID, sensor.String()); err != nil {
			return fmt.Errorf("inserting sensor: %w", err)
		}
	}
	return tx.Commit()
}

const insertSampleSQL = `
INSERT INTO samples (session_id, timestamp_ms, elapsed_s, field, value_num, value_text)
VALUES (?, ?, ?, ?, ?, ?)`

// StoreRows writes assembled rows in long format, committing a transaction
// every maxBatchSize rows.
func (s *Store) StoreRows(ctx context.Context, sessionID int64, rows []assemble.Row) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	for start := 0; start < len(rows); start += s.maxBatchSize {
		end := min(start+s.maxBatchSize, len(rows))
		if err := s.storeRowBatch(ctx, db, sessionID, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) storeRowBatch(ctx context.Context, db *sql.DB, sessionID int64, rows []assemble.Row) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSampleSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		for field, value := range row.Values {
			num, text := sampleValue(value)
			if _, err = stmt.ExecContext(ctx, sessionID, row.TimestampMS, row.ElapsedS, field, num, text); err != nil {
				return fmt.Errorf("inserting sample: %w", err)
			}
		}
	}
	return tx.Commit()
}

// sampleValue maps an assembled field value onto the numeric/text column
// pair. Booleans are stored as 0/1, times as text in the UTC layout.
func sampleValue(value any) (sql.NullFloat64, sql.NullString) {
	var num sql.NullFloat64
	var text sql.NullString

	switch v := value.(type) {
	case float64:
		num.Valid = true
		num.Float64 = v
	case int64:
		num.Valid = true
		num.Float64 = float64(v)
	case bool:
		num.Valid = true
		if v {
			num.Float64 = 1
		}
	case string:
		text.Valid = true
		text.String = v
	case time.Time:
		text.Valid = true
		text.String = v.Format(utcTextLayout)
	}
	return num, text
}

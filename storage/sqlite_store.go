package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shiftlog/attendance"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Column names are the field names, so every statement is built from
// attendance.Columns.
var (
	columnNames  = fieldColumns()
	selectColumn = "id, " + strings.Join(columnNames, ", ")
)

func fieldColumns() []string {
	out := make([]string, 0, len(attendance.Columns))
	for _, col := range attendance.Columns {
		out = append(out, string(col.Field))
	}
	return out
}

func (s *SQLiteStore) ensureSchema() error {
	definitions := make([]string, 0, len(columnNames)+2)
	definitions = append(definitions, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, name := range columnNames {
		definitions = append(definitions, name+" TEXT NOT NULL DEFAULT ''")
	}
	definitions = append(definitions, "created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP")

	schema := fmt.Sprintf("CREATE TABLE IF NOT EXISTS attendance (\n\t%s\n);", strings.Join(definitions, ",\n\t"))
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (date);`); err != nil {
		return fmt.Errorf("create date index: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertStatement() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columnNames)), ", ")
	return fmt.Sprintf("INSERT INTO attendance (%s) VALUES (%s);", strings.Join(columnNames, ", "), placeholders)
}

func insertRecord(db execer, rec attendance.Record) (int64, error) {
	values := rec.Values()
	args := make([]any, 0, len(values))
	for _, value := range values {
		args = append(args, value)
	}

	res, err := db.Exec(insertStatement(), args...)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

func (s *SQLiteStore) InsertRecord(rec attendance.Record) (int64, error) {
	return insertRecord(s.db, rec)
}

func (s *SQLiteStore) InsertRecords(recs []attendance.Record) ([]int64, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	ids := make([]int64, 0, len(recs))
	for i, rec := range recs {
		id, err := insertRecord(tx, rec)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ids, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (attendance.Record, error) {
	var rec attendance.Record
	values := make([]string, len(columnNames))
	dest := make([]any, 0, len(columnNames)+1)
	dest = append(dest, &rec.ID)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Record{}, err
	}
	for i, col := range attendance.Columns {
		rec.Set(col.Field, values[i])
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecords() ([]attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance ORDER BY date DESC, id;", selectColumn)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0, 256)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// GetRecord returns one record by id.
func (s *SQLiteStore) GetRecord(id int64) (attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE id = ?;", selectColumn)
	rec, err := scanRecord(s.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("query record %d: %w", id, err)
	}
	return rec, nil
}

// UpdateRecord applies patch to the stored row and returns the result. Only
// the patched columns are written.
func (s *SQLiteStore) UpdateRecord(id int64, patch attendance.Patch) (attendance.Record, error) {
	return s.update(id, nil, patch)
}

func (s *SQLiteStore) UpdateRecordIf(id int64, expected attendance.Record, patch attendance.Patch) (attendance.Record, error) {
	return s.update(id, &expected, patch)
}

func (s *SQLiteStore) update(id int64, expected *attendance.Record, patch attendance.Patch) (attendance.Record, error) {
	if id <= 0 {
		return attendance.Record{}, fmt.Errorf("record id must be > 0")
	}
	if err := validatePatch(patch); err != nil {
		return attendance.Record{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("begin transaction: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM attendance WHERE id = ?;", selectColumn)
	current, err := scanRecord(tx.QueryRow(query, id))
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("query record %d: %w", id, err)
	}
	if expected != nil && current != *expected {
		_ = tx.Rollback()
		return attendance.Record{}, ErrRecordChanged
	}

	if len(patch) > 0 {
		assignments := make([]string, 0, len(patch))
		args := make([]any, 0, len(patch)+1)
		for _, col := range attendance.Columns {
			value, ok := patch[col.Field]
			if !ok {
				continue
			}
			assignments = append(assignments, string(col.Field)+" = ?")
			args = append(args, value)
		}
		args = append(args, id)

		updateStmt := fmt.Sprintf("UPDATE attendance SET %s WHERE id = ?;", strings.Join(assignments, ", "))
		if _, err := tx.Exec(updateStmt, args...); err != nil {
			_ = tx.Rollback()
			return attendance.Record{}, fmt.Errorf("update record %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return attendance.Record{}, fmt.Errorf("commit update transaction: %w", err)
	}
	return attendance.ApplyPatch(current, patch), nil
}

func (s *SQLiteStore) DeleteRecord(id int64) error {
	if id <= 0 {
		return fmt.Errorf("record id must be > 0")
	}

	res, err := s.db.Exec(`DELETE FROM attendance WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllRecords() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM attendance;`)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

// Package datarecording stores what a simulation observed in an SQLite
// database.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// ErrInvalidEntry is returned when an entry has a field that cannot be stored
// in a column.
var ErrInvalidEntry = errors.New("datarecording: entry is invalid")

// DataRecorder is a backend that can record and store data. It is not safe
// for concurrent use.
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables, sorted.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

// New creates a DataRecorder that writes to path.sqlite3. An empty path
// picks a unique name. Buffered entries are flushed when the program exits
// through atexit.
func New(path string) DataRecorder {
	if path == "" {
		path = "overlaynet_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("recording %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording to %s\n", filename)

	w := newWriter(db)
	atexit.Register(w.Flush)

	return w
}

// NewWithDB creates a DataRecorder over an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	return newWriter(db)
}

const defaultBatchSize = 10000

type table struct {
	entryType reflect.Type
	insert    string
	pending   []any
}

type sqliteWriter struct {
	db        *sql.DB
	tables    map[string]*table
	batchSize int
	pending   int
	closed    bool
}

func newWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		db:        db,
		tables:    make(map[string]*table),
		batchSize: defaultBatchSize,
	}
}

func columnType(kind reflect.Kind) (string, bool) {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "INTEGER", true
	case reflect.Float32, reflect.Float64:
		return "REAL", true
	case reflect.String:
		return "TEXT", true
	default:
		return "", false
	}
}

// columns maps every exported field of entry to a column definition.
func columns(entry any) ([]string, error) {
	if entry == nil || reflect.TypeOf(entry).Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrInvalidEntry, entry)
	}

	fields := structs.Fields(entry)
	defs := make([]string, 0, len(fields))

	for _, f := range fields {
		typ, ok := columnType(f.Kind())
		if !ok {
			return nil, fmt.Errorf("%w: field %s is a %s",
				ErrInvalidEntry, f.Name(), f.Kind())
		}

		defs = append(defs, fmt.Sprintf("%q %s", f.Name(), typ))
	}

	return defs, nil
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	defs, err := columns(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	create := fmt.Sprintf("CREATE TABLE %q (\n\t%s\n)",
		tableName, strings.Join(defs, ",\n\t"))
	if _, err := w.db.Exec(create); err != nil {
		panic(fmt.Errorf("creating table %s: %w", tableName, err))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(defs)), ", ")

	w.tables[tableName] = &table{
		entryType: reflect.TypeOf(sampleEntry),
		insert: fmt.Sprintf("INSERT INTO %q VALUES (%s)",
			tableName, placeholders),
	}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.entryType {
		panic(fmt.Sprintf("table %s does not store %T", tableName, entry))
	}

	t.pending = append(t.pending, entry)
	w.pending++

	if w.pending >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Flush writes every buffered entry in one transaction.
func (w *sqliteWriter) Flush() {
	if w.pending == 0 || w.closed {
		return
	}

	tx, err := w.db.Begin()
	if err != nil {
		panic(fmt.Errorf("starting flush: %w", err))
	}

	for name, t := range w.tables {
		if len(t.pending) == 0 {
			continue
		}

		if err := insertAll(tx, t); err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("flushing %s: %w", name, err))
		}

		t.pending = nil
	}

	if err := tx.Commit(); err != nil {
		panic(fmt.Errorf("committing flush: %w", err))
	}

	w.pending = 0
}

func insertAll(tx *sql.Tx, t *table) error {
	stmt, err := tx.Prepare(t.insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range t.pending {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			return err
		}
	}

	return nil
}

func (w *sqliteWriter) Close() error {
	if w.closed {
		return nil
	}

	w.Flush()
	w.closed = true

	return w.db.Close()
}

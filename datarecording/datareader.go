package datarecording

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryParams narrows an event query.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword, for example
	// "Kind = ?".
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit is the maximum number of rows to return. Zero means no limit.
	Limit int

	// Offset is the number of rows to skip.
	Offset int
}

// EventReader reads the events written by an EventRecorder.
type EventReader struct {
	*sql.DB
}

// NewEventReader opens a recording for reading.
func NewEventReader(filename string) (*EventReader, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	return &EventReader{DB: db}, nil
}

// NewEventReaderWithDB creates a reader over an open database.
func NewEventReaderWithDB(db *sql.DB) *EventReader {
	return &EventReader{DB: db}
}

// Events returns the matching events in recording order.
func (r *EventReader) Events(
	ctx context.Context,
	params QueryParams,
) ([]EventEntry, error) {
	query := "SELECT ID, Seq, Node, Kind, Detail FROM " + EventTable

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	query += " ORDER BY Seq"

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	rows, err := r.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []EventEntry

	for rows.Next() {
		var e EventEntry

		err := rows.Scan(&e.ID, &e.Seq, &e.Node, &e.Kind, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// CountByKind returns how many events of each kind were recorded.
func (r *EventReader) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT Kind, COUNT(*) FROM "+EventTable+" GROUP BY Kind")
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			kind  string
			count int
		)

		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}

		counts[kind] = count
	}

	return counts, rows.Err()
}

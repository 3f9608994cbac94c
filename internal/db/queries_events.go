package db

import (
	"database/sql"
	"fmt"

	"github.com/chris/remindme/internal/clock"
)

// CreateEvent stores a new event and returns its ID. The date may be given in
// either YYYY-MM-DD or DD.MM.YYYY form; it is always stored as YYYY-MM-DD.
// The notify time is normalized to HH:MM and defaults to 09:00.
func (d *DB) CreateEvent(ownerID, description, eventDate, notifyTime string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("creating event: empty owner id")
	}
	date, err := clock.ParseStoredDate(eventDate)
	if err != nil {
		return 0, fmt.Errorf("creating event: %w", err)
	}
	if notifyTime == "" {
		notifyTime = DefaultNotifyTime
	}
	notifyTime, err = clock.ParseTimeOfDay(notifyTime)
	if err != nil {
		return 0, fmt.Errorf("creating event: %w", err)
	}

	res, err := d.conn.Exec(
		"INSERT INTO events (owner_id, description, event_date, notify_time) VALUES (?, ?, ?, ?)",
		ownerID, description, date.Format(clock.DateLayout), notifyTime,
	)
	if err != nil {
		return 0, fmt.Errorf("creating event: %w", err)
	}
	return res.LastInsertId()
}

// ListEvents returns all of an owner's events, soonest first.
func (d *DB) ListEvents(ownerID string) ([]Event, error) {
	rows, err := d.conn.Query(
		"SELECT "+eventColumns+" FROM events WHERE owner_id = ? ORDER BY event_date ASC, id ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetEvent returns the event with the given ID if it belongs to ownerID.
// It returns nil, nil when there is no such event for that owner.
func (d *DB) GetEvent(id int64, ownerID string) (*Event, error) {
	var e Event
	err := d.conn.QueryRow(
		"SELECT "+eventColumns+" FROM events WHERE id = ? AND owner_id = ?",
		id, ownerID,
	).Scan(&e.ID, &e.OwnerID, &e.Description, &e.EventDate, &e.NotifyTime, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %d: %w", id, err)
	}
	return &e, nil
}

// DeleteEvent removes an owner's event. It reports false when nothing matched.
func (d *DB) DeleteEvent(id int64, ownerID string) (bool, error) {
	res, err := d.conn.Exec("DELETE FROM events WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("deleting event %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting event %d: %w", id, err)
	}
	return n > 0, nil
}

// ListEventsAtTime returns every owner's events whose notify time is exactly
// notifyTime (HH:MM).
func (d *DB) ListEventsAtTime(notifyTime string) ([]Event, error) {
	rows, err := d.conn.Query(
		"SELECT "+eventColumns+" FROM events WHERE notify_time = ? ORDER BY owner_id ASC, id ASC",
		notifyTime,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events at %s: %w", notifyTime, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// CountEvents counts an owner's events, or all events when ownerID is empty.
func (d *DB) CountEvents(ownerID string) (int, error) {
	q := "SELECT COUNT(*) FROM events"
	var args []any
	if ownerID != "" {
		q += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	var n int
	if err := d.conn.QueryRow(q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

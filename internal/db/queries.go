package db

import (
	"database/sql"
	"fmt"
)

// DefaultNotifyTime is used when an event is created without a notify time.
const DefaultNotifyTime = "09:00"

type Event struct {
	ID          int64  `json:"id"`
	OwnerID     string `json:"owner_id"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`  // YYYY-MM-DD
	NotifyTime  string `json:"notify_time"` // HH:MM, local timezone
	CreatedAt   string `json:"created_at"`
}

const eventColumns = "id, owner_id, description, event_date, notify_time, created_at"

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Description, &e.EventDate, &e.NotifyTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

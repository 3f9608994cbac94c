package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
)

// Reminder kinds, used as metric labels.
const (
	KindCountdown = "countdown"
	KindToday     = "today"
	KindFallback  = "fallback"
)

type reminder struct {
	kind string
	days int
	text string
}

// reminderFor builds the message for an event due now. It reports false for
// events whose date has passed.
func reminderFor(e db.Event, today time.Time) (reminder, bool) {
	date, err := clock.ParseStoredDate(e.EventDate)
	if err != nil {
		log.Printf("scheduler: event %d has unreadable date %q: %v", e.ID, e.EventDate, err)
		return reminder{kind: KindFallback, text: fmt.Sprintf("⏰ Reminder: %s", e.Description)}, true
	}

	days := clock.DaysBetween(today, date)
	switch {
	case days > 0:
		return reminder{
			kind: KindCountdown,
			days: days,
			text: fmt.Sprintf(
				"⏰ **Daily reminder!**\n\n📝 Event: **%s**\n📅 Date: %s\n⏳ Days left: **%d**",
				e.Description, date.Format(clock.DisplayLayout), days,
			),
		}, true
	case days == 0:
		return reminder{
			kind: KindToday,
			text: fmt.Sprintf("🎉 **THE EVENT IS TODAY!**\n\n📝 **%s**\n\nCongratulations! 🎊", e.Description),
		}, true
	}
	return reminder{}, false
}

package assistant

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
	"github.com/chris/remindme/internal/wizard"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

const (
	textUnknown         = "I didn't understand that. Use the menu below, or type **help**."
	textAskDescription  = "📝 **Enter the event description:**\nFor example: Birthday, Meeting, Deadline"
	textAskDate         = "📅 **Enter the event date:**\nFormat: **DD.MM.YYYY**\nExample: 25.12.2026"
	textInvalidDate     = "❌ **Invalid date format!**\nPlease enter the date as **DD.MM.YYYY**\nExample: 25.12.2026"
	textPastDate        = "❌ That date has already passed! Enter today's date or a later one."
	textAskCustomTime   = "⏰ **Enter the time as HH:MM**\nExample: 09:30 or 14:00"
	textInvalidTime     = "❌ **Invalid time format!**\nPlease enter the time as **HH:MM** (24-hour)\nExample: 09:30"
	textCancelled       = "❌ Adding cancelled."
	textNothingToCancel = "There is nothing to cancel."
	textIncomplete      = "❌ Some details were missing, so nothing was saved. Please start again."
	textSaveFailed      = "❌ Could not save the event. Please try again."
	textWhatNext        = "What next?"
	textExpired         = "⚠️ That option is no longer available."
	textNotFound        = "❌ Event not found!"
	textStoreFailed     = "❌ Something went wrong. Please try again."
	textDeleteFailed    = "❌ Could not delete the event."
	textNothingToDelete = "📭 **You have no events to delete.**"
	textPickToDelete    = "Pick an event to delete it."
	textNoEvents        = "📭 **You have no saved events yet.**\nPress **Add event** to create your first one!"
)

func welcomeReply() Reply {
	return Reply{
		Text: "👋 **Hi! I'm your event reminder bot.**\n\n" +
			"Tell me about an upcoming event and I will message you every day " +
			"at the time you choose, counting down the days until it arrives.\n\n" +
			"Use the buttons below to get started.",
		Keyboard: KeyboardMainMenu,
	}
}

func helpReply() Reply {
	var b strings.Builder
	b.WriteString("❓ **How to use the bot**\n\n")
	b.WriteString("**Add event**: start a short dialogue. I will ask for a description, a date (DD.MM.YYYY) and a reminder time.\n")
	b.WriteString("**My events**: list your events with the days remaining.\n")
	b.WriteString("**Delete event**: pick an event and confirm.\n\n")
	fmt.Fprintf(&b, "Reminder times on offer: %s, or type your own as HH:MM.\n", strings.Join(wizard.TimeChoices, ", "))
	b.WriteString("Every day at that time you get a countdown, and on the day itself a congratulation.\n\n")
	b.WriteString("Typed commands work too: **add**, **list**, **delete**, **cancel**, **help**.")
	return Reply{Text: b.String(), Keyboard: KeyboardMainMenu}
}

// displayDate renders a stored date as DD.MM.YYYY, or as-is if unreadable.
func displayDate(stored string) string {
	d, err := clock.ParseStoredDate(stored)
	if err != nil {
		return stored
	}
	return d.Format(clock.DisplayLayout)
}

func days(n int) string {
	return english.Plural(n, "day", "")
}

// statusLine summarizes where an event stands relative to today.
func (a *Assistant) statusLine(e db.Event) string {
	n, err := clock.DaysUntil(a.clock, e.EventDate)
	switch {
	case err != nil:
		log.Printf("warning: event %d has unreadable date %q: %v", e.ID, e.EventDate, err)
		return "📅 Date unknown"
	case n > 0:
		return fmt.Sprintf("⏳ %s left", days(n))
	case n == 0:
		return "🎉 TODAY!"
	default:
		return fmt.Sprintf("✅ Passed %s ago", days(-n))
	}
}

func (a *Assistant) listReply(events []db.Event, edit bool) Reply {
	if len(events) == 0 {
		return Reply{Text: textNoEvents, Keyboard: KeyboardMainMenu, Edit: edit}
	}

	var b strings.Builder
	b.WriteString("📋 **Your events:**\n\n")
	for _, e := range events {
		fmt.Fprintf(&b, "**#%d** %s\n", e.ID, e.Description)
		fmt.Fprintf(&b, "📅 %s | ⏰ %s\n", displayDate(e.EventDate), e.NotifyTime)
		b.WriteString(a.statusLine(e))
		b.WriteString("\n" + strings.Repeat("─", 20) + "\n")
	}
	return Reply{Text: b.String(), Keyboard: KeyboardEventList, Events: events, Edit: edit}
}

func (a *Assistant) detailText(e *db.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Event #%d**\n\n", e.ID)
	fmt.Fprintf(&b, "📝 **%s**\n", e.Description)
	fmt.Fprintf(&b, "📅 Date: %s\n", displayDate(e.EventDate))
	fmt.Fprintf(&b, "⏰ Reminder: every day at %s\n", e.NotifyTime)
	b.WriteString(a.statusLine(*e) + "\n")
	if created, err := time.Parse(time.DateTime, e.CreatedAt); err == nil {
		fmt.Fprintf(&b, "🕓 Added %s\n", humanize.RelTime(created, a.clock.Now(), "ago", "from now"))
	}
	b.WriteString("\nChoose an action:")
	return b.String()
}

func askTimeText(date string) string {
	return fmt.Sprintf("✅ Date: **%s**\n\n⏰ **Choose a time for daily reminders:**\n(I will message you every day at this time)", date)
}

func createdText(res wizard.Result) string {
	left := "?"
	if res.DaysKnown {
		left = days(res.DaysLeft)
	}
	return fmt.Sprintf(
		"✅ **Event #%d added!**\n\n📝 **%s**\n📅 Date: %s\n⏰ Reminder: every day at %s\n⏳ Days left: **%s**",
		res.EventID, res.Description, res.DisplayDate, res.NotifyTime, left,
	)
}

func confirmDeleteText(e *db.Event) string {
	return fmt.Sprintf("⚠️ **Are you sure you want to delete this event?**\n\n#%d: %s\n\nThis cannot be undone!", e.ID, e.Description)
}

func deletedText(e *db.Event) string {
	return fmt.Sprintf("✅ Event **#%d: %s** deleted!", e.ID, e.Description)
}

func (a *Assistant) debugReply(ownerID string) Reply {
	total, err := a.store.CountEvents("")
	if err != nil {
		log.Printf("warning: counting events: %v", err)
	}
	events := a.listEvents(ownerID)
	now := a.clock.Now()

	var b strings.Builder
	b.WriteString("🔍 **Debug info**\n\n")
	fmt.Fprintf(&b, "👤 Your ID: `%s`\n", ownerID)
	fmt.Fprintf(&b, "📊 Events in store: %s\n", humanize.Comma(int64(total)))
	fmt.Fprintf(&b, "📋 Your events: %d\n", len(events))
	fmt.Fprintf(&b, "🧭 Dialogues in progress: %d\n", a.wizard.Active())
	for i, e := range events {
		fmt.Fprintf(&b, "%d. #%d: '%s' on %s at %s\n", i+1, e.ID, e.Description, e.EventDate, e.NotifyTime)
	}
	fmt.Fprintf(&b, "\n🕐 Current time: %s (%s)", now.Format("2006-01-02 15:04:05"), now.Location())
	return Reply{Text: b.String()}
}

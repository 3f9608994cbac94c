package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/remindme/internal/assistant"
	"github.com/chris/remindme/internal/wizard"
)

// Component custom IDs.
const (
	idAdd    = "menu:add"
	idList   = "menu:list"
	idDelete = "menu:delete"
	idHelp   = "menu:help"
	idCancel = "wizard:cancel"
	idBack   = "back_to_events"

	prefixTime          = "time:" // time:<session>:<HH:MM|custom>
	prefixView          = "event:"
	prefixAskDelete     = "delete:"
	prefixConfirmDelete = "confirm_delete:"

	customTime = "custom"
)

const (
	// Discord allows at most 5 rows of 5 buttons.
	maxButtons       = 25
	buttonsPerRow    = 5
	timeButtonsInRow = 3
	labelRunes       = 25
)

var menuIDs = map[string]assistant.Action{
	idAdd:    assistant.ActionStartAdd,
	idList:   assistant.ActionList,
	idDelete: assistant.ActionStartDelete,
	idHelp:   assistant.ActionHelp,
	idCancel: assistant.ActionCancel,
	idBack:   assistant.ActionBack,
}

var eventPrefixes = []struct {
	prefix string
	action assistant.Action
}{
	{prefixConfirmDelete, assistant.ActionConfirmDelete},
	{prefixAskDelete, assistant.ActionAskDelete},
	{prefixView, assistant.ActionView},
}

// parseCustomID maps a pressed button back to a turn. OwnerID is left for
// the caller.
func parseCustomID(id string) (assistant.Turn, bool) {
	if act, ok := menuIDs[id]; ok {
		return assistant.Turn{Action: act}, true
	}

	if rest, ok := strings.CutPrefix(id, prefixTime); ok {
		session, choice, ok := strings.Cut(rest, ":")
		if !ok || choice == "" {
			return assistant.Turn{}, false
		}
		if choice == customTime {
			return assistant.Turn{Action: assistant.ActionCustomTime, Session: session}, true
		}
		return assistant.Turn{Action: assistant.ActionChooseTime, Text: choice, Session: session}, true
	}

	for _, p := range eventPrefixes {
		if rest, ok := strings.CutPrefix(id, p.prefix); ok {
			eventID, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				return assistant.Turn{}, false
			}
			return assistant.Turn{Action: p.action, EventID: eventID}, true
		}
	}
	return assistant.Turn{}, false
}

func button(label, id string, style discordgo.ButtonStyle) discordgo.MessageComponent {
	return discordgo.Button{Label: label, CustomID: id, Style: style}
}

func rows(buttons []discordgo.MessageComponent, perRow int) []discordgo.MessageComponent {
	var out []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := min(perRow, len(buttons))
		out = append(out, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return out
}

// components builds the buttons for a reply. It returns an empty, non-nil
// slice when there are none so an edited message loses its old buttons.
func components(r assistant.Reply) []discordgo.MessageComponent {
	switch r.Keyboard {
	case assistant.KeyboardMainMenu:
		return rows([]discordgo.MessageComponent{
			button("➕ Add event", idAdd, discordgo.PrimaryButton),
			button("📋 My events", idList, discordgo.SecondaryButton),
			button("🗑️ Delete event", idDelete, discordgo.SecondaryButton),
			button("❓ Help", idHelp, discordgo.SecondaryButton),
		}, buttonsPerRow)

	case assistant.KeyboardCancel:
		return rows([]discordgo.MessageComponent{
			button("❌ Cancel", idCancel, discordgo.DangerButton),
		}, buttonsPerRow)

	case assistant.KeyboardTimes:
		var times []discordgo.MessageComponent
		for _, t := range wizard.TimeChoices {
			times = append(times, button(t, prefixTime+r.Session+":"+t, discordgo.PrimaryButton))
		}
		out := rows(times, timeButtonsInRow)
		return append(out, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			button("✏️ Other time", prefixTime+r.Session+":"+customTime, discordgo.SecondaryButton),
			button("❌ Cancel", idCancel, discordgo.DangerButton),
		}})

	case assistant.KeyboardEventList:
		var buttons []discordgo.MessageComponent
		for n, e := range r.Events {
			if n == maxButtons {
				break
			}
			label := fmt.Sprintf("#%d: %s", e.ID, truncateLabel(e.Description))
			buttons = append(buttons, button(label, fmt.Sprintf("%s%d", prefixView, e.ID), discordgo.SecondaryButton))
		}
		return rows(buttons, buttonsPerRow)

	case assistant.KeyboardEventActions:
		return rows([]discordgo.MessageComponent{
			button("🗑️ Delete", fmt.Sprintf("%s%d", prefixAskDelete, r.EventID), discordgo.DangerButton),
			button("🔙 Back", idBack, discordgo.SecondaryButton),
		}, buttonsPerRow)

	case assistant.KeyboardConfirmDelete:
		return rows([]discordgo.MessageComponent{
			button("✅ Yes, delete", fmt.Sprintf("%s%d", prefixConfirmDelete, r.EventID), discordgo.DangerButton),
			button("❌ No", fmt.Sprintf("%s%d", prefixView, r.EventID), discordgo.SecondaryButton),
		}, buttonsPerRow)
	}
	return []discordgo.MessageComponent{}
}

func truncateLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(no description)"
	}
	r := []rune(s)
	if len(r) <= labelRunes {
		return s
	}
	return string(r[:labelRunes]) + "..."
}

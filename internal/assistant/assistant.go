// Package assistant turns user turns (typed text or menu selections) into
// replies. It owns the event dialogue and the list/detail/delete screens and
// knows nothing about the chat transport that carries them.
package assistant

import (
	"log"
	"strings"

	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
	"github.com/chris/remindme/internal/metrics"
	"github.com/chris/remindme/internal/wizard"
)

type Action int

const (
	ActionText Action = iota
	ActionWelcome
	ActionHelp
	ActionStartAdd
	ActionList
	ActionStartDelete
	ActionCancel
	ActionDebug
	ActionChooseTime
	ActionCustomTime
	ActionView
	ActionAskDelete
	ActionConfirmDelete
	ActionBack
)

// Turn is one thing the user did.
type Turn struct {
	OwnerID string
	Action  Action
	Text    string // typed text, or HH:MM for ActionChooseTime
	EventID int64  // for the per-event actions
	Session string // wizard session a time selection belongs to
}

type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMainMenu
	KeyboardCancel
	KeyboardTimes
	KeyboardEventList
	KeyboardEventActions
	KeyboardConfirmDelete
)

// Reply is one message back to the user.
type Reply struct {
	Text     string
	Keyboard Keyboard
	// Edit asks the transport to replace the message the selection came
	// from instead of sending a new one.
	Edit    bool
	Session string     // KeyboardTimes
	Events  []db.Event // KeyboardEventList
	EventID int64      // KeyboardEventActions, KeyboardConfirmDelete
}

// Store is the event store as the assistant uses it.
type Store interface {
	wizard.Store
	ListEvents(ownerID string) ([]db.Event, error)
	GetEvent(id int64, ownerID string) (*db.Event, error)
	DeleteEvent(id int64, ownerID string) (bool, error)
	CountEvents(ownerID string) (int, error)
}

type Assistant struct {
	store   Store
	clock   clock.Clock
	wizard  *wizard.Machine
	metrics metrics.Recorder
}

func New(store Store, c clock.Clock, rec metrics.Recorder) *Assistant {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Assistant{
		store:   store,
		clock:   c,
		wizard:  wizard.New(store, c),
		metrics: rec,
	}
}

// DialogueState reports where the owner is in the add-event dialogue.
func (a *Assistant) DialogueState(ownerID string) wizard.State {
	return a.wizard.State(ownerID)
}

// Handle processes one turn and returns the replies to send, in order.
func (a *Assistant) Handle(t Turn) []Reply {
	switch t.Action {
	case ActionText:
		return a.handleText(t)
	case ActionWelcome:
		return []Reply{welcomeReply()}
	case ActionHelp:
		return []Reply{helpReply()}
	case ActionStartAdd:
		return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.Start}, false)
	case ActionCancel:
		return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.Cancel}, false)
	case ActionChooseTime:
		return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.ChooseTime, Text: t.Text, Session: t.Session}, true)
	case ActionCustomTime:
		return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.CustomTime, Session: t.Session}, true)
	case ActionList:
		return []Reply{a.listReply(a.listEvents(t.OwnerID), false)}
	case ActionBack:
		return []Reply{a.listReply(a.listEvents(t.OwnerID), true)}
	case ActionStartDelete:
		return a.startDelete(t.OwnerID)
	case ActionView:
		return a.view(t.OwnerID, t.EventID)
	case ActionAskDelete:
		return a.askDelete(t.OwnerID, t.EventID)
	case ActionConfirmDelete:
		return a.confirmDelete(t.OwnerID, t.EventID)
	case ActionDebug:
		return []Reply{a.debugReply(t.OwnerID)}
	}
	log.Printf("assistant: unknown action %d from %s", t.Action, t.OwnerID)
	return nil
}

func (a *Assistant) handleText(t Turn) []Reply {
	cmd, isCmd := ParseCommand(t.Text)

	if a.wizard.State(t.OwnerID) != wizard.Idle {
		// Mid-dialogue, only cancel and add are commands; anything else is
		// the answer to the current question.
		switch {
		case isCmd && cmd == ActionCancel:
			return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.Cancel}, false)
		case isCmd && cmd == ActionStartAdd:
			return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.Start}, false)
		}
		return a.wizardTurn(t.OwnerID, wizard.Input{Kind: wizard.Text, Text: t.Text}, false)
	}

	if isCmd {
		return a.Handle(Turn{OwnerID: t.OwnerID, Action: cmd})
	}
	if strings.TrimSpace(t.Text) == "" {
		return nil
	}
	return []Reply{{Text: textUnknown, Keyboard: KeyboardMainMenu}}
}

var commands = map[string]Action{
	"start":  ActionWelcome,
	"help":   ActionHelp,
	"add":    ActionStartAdd,
	"new":    ActionStartAdd,
	"list":   ActionList,
	"events": ActionList,
	"delete": ActionStartDelete,
	"remove": ActionStartDelete,
	"cancel": ActionCancel,
	"debug":  ActionDebug,
}

// ParseCommand recognizes a typed command such as "/start", "help" or "list".
func ParseCommand(text string) (Action, bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	word = strings.TrimPrefix(word, "/")
	act, ok := commands[word]
	return act, ok
}

// listEvents never fails; store errors degrade to an empty list.
func (a *Assistant) listEvents(ownerID string) []db.Event {
	events, err := a.store.ListEvents(ownerID)
	if err != nil {
		log.Printf("warning: listing events for %s: %v", ownerID, err)
		a.metrics.StoreError("list")
		return nil
	}
	return events
}

func (a *Assistant) startDelete(ownerID string) []Reply {
	events := a.listEvents(ownerID)
	if len(events) == 0 {
		return []Reply{{Text: textNothingToDelete, Keyboard: KeyboardMainMenu}}
	}
	r := a.listReply(events, false)
	r.Text += "\n" + textPickToDelete
	return []Reply{r}
}

// getEvent looks up an owner's event, returning a ready error reply when it
// cannot be shown.
func (a *Assistant) getEvent(ownerID string, id int64) (*db.Event, []Reply) {
	e, err := a.store.GetEvent(id, ownerID)
	if err != nil {
		log.Printf("assistant: getting event %d for %s: %v", id, ownerID, err)
		a.metrics.StoreError("get")
		return nil, []Reply{{Text: textStoreFailed, Edit: true}}
	}
	if e == nil {
		return nil, []Reply{{Text: textNotFound, Edit: true}}
	}
	return e, nil
}

func (a *Assistant) view(ownerID string, id int64) []Reply {
	e, errReply := a.getEvent(ownerID, id)
	if e == nil {
		return errReply
	}
	return []Reply{{
		Text:     a.detailText(e),
		Keyboard: KeyboardEventActions,
		EventID:  e.ID,
		Edit:     true,
	}}
}

func (a *Assistant) askDelete(ownerID string, id int64) []Reply {
	e, errReply := a.getEvent(ownerID, id)
	if e == nil {
		return errReply
	}
	return []Reply{{
		Text:     confirmDeleteText(e),
		Keyboard: KeyboardConfirmDelete,
		EventID:  e.ID,
		Edit:     true,
	}}
}

func (a *Assistant) confirmDelete(ownerID string, id int64) []Reply {
	e, errReply := a.getEvent(ownerID, id)
	if e == nil {
		return errReply
	}

	ok, err := a.store.DeleteEvent(id, ownerID)
	if err != nil {
		log.Printf("assistant: deleting event %d for %s: %v", id, ownerID, err)
		a.metrics.StoreError("delete")
		return []Reply{{Text: textDeleteFailed, Edit: true}}
	}
	if !ok {
		return []Reply{{Text: textNotFound, Edit: true}}
	}
	a.metrics.EventDeleted()
	log.Printf("event %d deleted by %s", id, ownerID)

	return []Reply{
		{Text: deletedText(e), Edit: true},
		a.listReply(a.listEvents(ownerID), false),
	}
}

// wizardTurn feeds one input to the dialogue and renders the outcome.
// fromMenu marks inputs that came from a button on an earlier message.
func (a *Assistant) wizardTurn(ownerID string, in wizard.Input, fromMenu bool) []Reply {
	res := a.wizard.Handle(ownerID, in)
	a.metrics.WizardOutcome(res.Outcome.String())

	switch res.Outcome {
	case wizard.AskDescription:
		return []Reply{{Text: textAskDescription, Keyboard: KeyboardCancel}}
	case wizard.AskDate:
		return []Reply{{Text: textAskDate, Keyboard: KeyboardCancel}}
	case wizard.InvalidDate:
		return []Reply{{Text: textInvalidDate, Keyboard: KeyboardCancel}}
	case wizard.PastDate:
		return []Reply{{Text: textPastDate, Keyboard: KeyboardCancel}}
	case wizard.AskTime:
		return []Reply{{Text: askTimeText(res.DisplayDate), Keyboard: KeyboardTimes, Session: res.Session}}
	case wizard.AskCustomTime:
		return []Reply{{Text: textAskCustomTime, Keyboard: KeyboardCancel, Edit: fromMenu}}
	case wizard.InvalidTime:
		return []Reply{{Text: textInvalidTime, Keyboard: KeyboardCancel}}
	case wizard.Cancelled:
		return []Reply{{Text: textCancelled, Keyboard: KeyboardMainMenu, Edit: fromMenu}}
	case wizard.Incomplete:
		return []Reply{{Text: textIncomplete, Keyboard: KeyboardMainMenu, Edit: fromMenu}}
	case wizard.StoreFailed:
		a.metrics.StoreError("create")
		return []Reply{{Text: textSaveFailed, Keyboard: KeyboardMainMenu, Edit: fromMenu}}
	case wizard.Created:
		a.metrics.EventCreated()
		log.Printf("event %d created by %s for %s at %s", res.EventID, ownerID, res.EventDate, res.NotifyTime)
		return []Reply{
			{Text: createdText(res), Edit: fromMenu},
			{Text: textWhatNext, Keyboard: KeyboardMainMenu},
		}
	}

	// Ignored.
	if res.State == wizard.Idle {
		if in.Kind == wizard.Cancel {
			return []Reply{{Text: textNothingToCancel, Keyboard: KeyboardMainMenu}}
		}
		return []Reply{{Text: textExpired, Keyboard: KeyboardMainMenu, Edit: fromMenu}}
	}
	return []Reply{{Text: textExpired}}
}

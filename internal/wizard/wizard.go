// Package wizard implements the multi-turn dialogue that collects a new
// event: description, then date, then daily notification time.
//
// Each owner has at most one session. Starting the dialogue again while a
// session is open replaces it (last writer wins). Sessions live in memory
// only and are removed as soon as the dialogue finishes, is cancelled or
// fails.
package wizard

import (
	"log"
	"strings"
	"sync"

	"github.com/chris/remindme/internal/clock"
	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	AwaitingDescription
	AwaitingDate
	AwaitingTime
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingDescription:
		return "awaiting_description"
	case AwaitingDate:
		return "awaiting_date"
	case AwaitingTime:
		return "awaiting_time"
	}
	return "unknown"
}

type Kind int

const (
	Start      Kind = iota + 1 // begin (or restart) the dialogue
	Text                       // free text typed by the user
	Cancel                     // explicit cancel
	ChooseTime                 // one of TimeChoices picked from a menu; Input.Text holds it
	CustomTime                 // user asked to type a time instead
)

// Input is one user turn.
type Input struct {
	Kind Kind
	Text string
	// Session is the session id a menu selection was issued for. Selections
	// from an older session are ignored. Empty skips the check.
	Session string
}

// TimeChoices are the preset notification times offered as a menu.
var TimeChoices = []string{"07:00", "09:00", "12:00", "15:00", "18:00", "21:00"}

// Store is the part of the event store the wizard writes to.
type Store interface {
	CreateEvent(ownerID, description, eventDate, notifyTime string) (int64, error)
}

type session struct {
	id             string
	state          State
	description    string
	hasDescription bool
	eventDate      string // YYYY-MM-DD
	displayDate    string // as typed
}

func (s *session) result(o Outcome) Result {
	return Result{Outcome: o, State: s.state, Session: s.id, DisplayDate: s.displayDate}
}

type Machine struct {
	store Store
	clock clock.Clock

	mu       sync.Mutex
	sessions map[string]*session
}

func New(store Store, c clock.Clock) *Machine {
	return &Machine{
		store:    store,
		clock:    c,
		sessions: make(map[string]*session),
	}
}

// State reports where ownerID currently is in the dialogue.
func (m *Machine) State(ownerID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[ownerID]; ok {
		return s.state
	}
	return Idle
}

// Active returns the number of open sessions.
func (m *Machine) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Handle applies one turn for ownerID and reports what happened.
func (m *Machine) Handle(ownerID string, in Input) Result {
	if in.Kind == Start {
		return m.start(ownerID)
	}

	m.mu.Lock()
	s, ok := m.sessions[ownerID]
	if !ok {
		m.mu.Unlock()
		return Result{Outcome: Ignored, State: Idle}
	}
	if in.Session != "" && in.Session != s.id {
		res := s.result(Ignored)
		m.mu.Unlock()
		return res
	}
	res, notifyTime, finish := m.step(ownerID, s, in)
	snapshot := *s
	m.mu.Unlock()

	if !finish {
		return res
	}
	// The session is already gone from the map; the store call runs unlocked.
	return m.finalize(ownerID, snapshot, notifyTime)
}

func (m *Machine) start(ownerID string) Result {
	s := &session{id: uuid.NewString(), state: AwaitingDescription}
	m.mu.Lock()
	m.sessions[ownerID] = s
	m.mu.Unlock()
	return s.result(AskDescription)
}

// step runs with m.mu held. When it returns finish=true the session has been
// removed and the caller must create the event with notifyTime.
func (m *Machine) step(ownerID string, s *session, in Input) (res Result, notifyTime string, finish bool) {
	if in.Kind == Cancel {
		delete(m.sessions, ownerID)
		return Result{Outcome: Cancelled, State: Idle}, "", false
	}

	switch s.state {
	case AwaitingDescription:
		if in.Kind != Text {
			break
		}
		// Stored as typed, empty included.
		s.description = in.Text
		s.hasDescription = true
		s.state = AwaitingDate
		return s.result(AskDate), "", false

	case AwaitingDate:
		if in.Kind != Text {
			break
		}
		date, err := clock.ParseInputDate(in.Text)
		if err != nil {
			return s.result(InvalidDate), "", false
		}
		if clock.DaysBetween(clock.Today(m.clock), date) < 0 {
			return s.result(PastDate), "", false
		}
		s.eventDate = date.Format(clock.DateLayout)
		s.displayDate = strings.TrimSpace(in.Text)
		s.state = AwaitingTime
		return s.result(AskTime), "", false

	case AwaitingTime:
		switch in.Kind {
		case CustomTime:
			return s.result(AskCustomTime), "", false
		case ChooseTime:
			if !isTimeChoice(in.Text) {
				return s.result(InvalidTime), "", false
			}
			delete(m.sessions, ownerID)
			return Result{}, in.Text, true
		case Text:
			t, err := clock.ParseTimeOfDay(in.Text)
			if err != nil {
				return s.result(InvalidTime), "", false
			}
			delete(m.sessions, ownerID)
			return Result{}, t, true
		}
	}
	return s.result(Ignored), "", false
}

func (m *Machine) finalize(ownerID string, s session, notifyTime string) Result {
	if !s.hasDescription || s.eventDate == "" {
		log.Printf("wizard: session %s for %s is missing fields, discarding", s.id, ownerID)
		return Result{Outcome: Incomplete, State: Idle}
	}

	id, err := m.store.CreateEvent(ownerID, s.description, s.eventDate, notifyTime)
	if err != nil {
		log.Printf("wizard: creating event for %s: %v", ownerID, err)
		return Result{Outcome: StoreFailed, State: Idle, Err: err}
	}

	res := Result{
		Outcome:     Created,
		State:       Idle,
		EventID:     id,
		Description: s.description,
		EventDate:   s.eventDate,
		DisplayDate: s.displayDate,
		NotifyTime:  notifyTime,
	}
	if res.DisplayDate == "" {
		res.DisplayDate = s.eventDate
	}
	if days, err := clock.DaysUntil(m.clock, s.eventDate); err == nil {
		res.DaysLeft = days
		res.DaysKnown = true
	}
	return res
}

func isTimeChoice(t string) bool {
	for _, c := range TimeChoices {
		if c == t {
			return true
		}
	}
	return false
}

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chris/remindme/internal/assistant"
	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
	"github.com/chris/remindme/internal/wizard"
)

func TestCliTurn(t *testing.T) {
	tests := []struct {
		line    string
		state   wizard.State
		action  assistant.Action
		text    string
		eventID int64
	}{
		{"add", wizard.Idle, assistant.ActionText, "add", 0},
		{"Mom's birthday", wizard.Idle, assistant.ActionText, "Mom's birthday", 0},
		{"view 3", wizard.Idle, assistant.ActionView, "view 3", 3},
		{"view #3", wizard.Idle, assistant.ActionView, "view #3", 3},
		{"rm 3", wizard.Idle, assistant.ActionAskDelete, "rm 3", 3},
		{"confirm 3", wizard.Idle, assistant.ActionConfirmDelete, "confirm 3", 3},
		{"back", wizard.Idle, assistant.ActionBack, "back", 0},
		{"view soon", wizard.Idle, assistant.ActionText, "view soon", 0},
		{"pick 09:00", wizard.Idle, assistant.ActionText, "pick 09:00", 0},
		{"", wizard.Idle, assistant.ActionText, "", 0},

		// Mid-dialogue, typed lines answer the current question.
		{"view 3", wizard.AwaitingDescription, assistant.ActionText, "view 3", 0},
		{"back", wizard.AwaitingDescription, assistant.ActionText, "back", 0},
		{"rm 3", wizard.AwaitingDate, assistant.ActionText, "rm 3", 0},
		{"pick 09:00", wizard.AwaitingDate, assistant.ActionText, "pick 09:00", 0},
		{"pick 09:00", wizard.AwaitingTime, assistant.ActionChooseTime, "09:00", 0},
		{"pick custom", wizard.AwaitingTime, assistant.ActionCustomTime, "pick custom", 0},
		{"confirm 3", wizard.AwaitingTime, assistant.ActionText, "confirm 3", 0},
		{"9:30", wizard.AwaitingTime, assistant.ActionText, "9:30", 0},
	}
	for _, tt := range tests {
		got := cliTurn(tt.line, tt.state)
		if got.OwnerID != cliOwner || got.Action != tt.action || got.Text != tt.text || got.EventID != tt.eventID {
			t.Errorf("cliTurn(%q, %v) = %+v", tt.line, tt.state, got)
		}
	}
}

func TestRepl_ScriptedDialogue(t *testing.T) {
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer d.Close()

	now := clock.Func(func() time.Time { return time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC) })
	asst := assistant.New(d, now, nil)

	script := strings.Join([]string{
		"add",
		"Dentist",
		"20.06.2025",
		"pick 09:00",
		"list",
		"exit",
		"help",
	}, "\n")
	var out bytes.Buffer
	repl(context.Background(), strings.NewReader(script), &out, asst, false)

	events, _ := d.ListEvents(cliOwner)
	if len(events) != 1 || events[0].Description != "Dentist" || events[0].NotifyTime != "09:00" {
		t.Fatalf("unexpected events: %+v", events)
	}
	text := out.String()
	for _, want := range []string{"pick 07:00", "Event #1 added", "⏳ 5 days left", "view <id>"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "How to use") {
		t.Error("commands after exit should not run")
	}
}

func TestRepl_CommandWordsAsDescription(t *testing.T) {
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer d.Close()

	now := clock.Func(func() time.Time { return time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC) })
	asst := assistant.New(d, now, nil)

	script := strings.Join([]string{
		"add",
		"view 3",
		"20.06.2025",
		"pick 12:00",
	}, "\n")
	var out bytes.Buffer
	repl(context.Background(), strings.NewReader(script), &out, asst, false)

	events, _ := d.ListEvents(cliOwner)
	if len(events) != 1 || events[0].Description != "view 3" || events[0].NotifyTime != "12:00" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

// endless yields "x\n" forever.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		if i%2 == 0 {
			p[i] = 'x'
		} else {
			p[i] = '\n'
		}
	}
	return len(p) - len(p)%2, nil
}

func TestReadLines_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, endless{})
	<-lines
	cancel()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("reader kept running after cancellation")
		}
	}
}

func TestRepl_ReturnsOnCancel(t *testing.T) {
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		repl(ctx, endless{}, io.Discard, assistant.New(d, clock.New(time.UTC), nil), false)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("repl did not return after cancellation")
	}
}

func TestPrintReminder(t *testing.T) {
	var out bytes.Buffer
	if err := printReminder(&out)(context.Background(), "cli", "⏰ hello"); err != nil {
		t.Fatalf("printReminder: %v", err)
	}
	if !strings.Contains(out.String(), "⏰ hello") {
		t.Errorf("got %q", out.String())
	}
}

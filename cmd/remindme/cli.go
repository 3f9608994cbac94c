package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chris/remindme/internal/assistant"
	"github.com/chris/remindme/internal/scheduler"
	"github.com/chris/remindme/internal/wizard"
)

// cliOwner is the single owner ID used by the terminal interface.
const cliOwner = "cli"

// lockedWriter lets the sweep print reminders while the prompt is active.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

var stdout = &lockedWriter{w: os.Stdout}

func printReminder(w io.Writer) scheduler.SendFunc {
	return func(_ context.Context, ownerID, content string) error {
		_, err := fmt.Fprintf(w, "\n🔔 [%s]\n%s\n\n", ownerID, content)
		return err
	}
}

func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// repl reads commands until EOF, "exit" or ctx is cancelled.
func repl(ctx context.Context, in io.Reader, out io.Writer, asst *assistant.Assistant, prompt bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	var session string
	for {
		if prompt {
			fmt.Fprint(out, "remindme> ")
		}
		var line string
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}

		input := strings.TrimSpace(line)
		if input == "exit" || input == "quit" {
			return
		}

		turn := cliTurn(line, asst.DialogueState(cliOwner))
		if turn.Action == assistant.ActionChooseTime || turn.Action == assistant.ActionCustomTime {
			turn.Session = session
		}
		for _, r := range asst.Handle(turn) {
			if r.Keyboard == assistant.KeyboardTimes {
				session = r.Session
			}
			renderReply(out, r)
		}
	}
}

// readLines scans in on its own goroutine. The channel is closed at EOF or
// once ctx is cancelled.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// cliTurn maps a typed line to a turn. The button actions that exist as
// menus in chat are spelled out as short commands here. While a dialogue is
// open, typed text answers the current question; only "pick" is recognized,
// and only while a time is being chosen.
func cliTurn(line string, state wizard.State) assistant.Turn {
	turn := assistant.Turn{OwnerID: cliOwner, Action: assistant.ActionText, Text: line}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return turn
	}
	verb := strings.ToLower(fields[0])

	switch {
	case state == wizard.AwaitingTime:
		if verb != "pick" || len(fields) != 2 {
			return turn
		}
		if fields[1] == "custom" {
			turn.Action = assistant.ActionCustomTime
		} else {
			turn.Action = assistant.ActionChooseTime
			turn.Text = fields[1]
		}
	case state != wizard.Idle:
		return turn
	case verb == "back" && len(fields) == 1:
		turn.Action = assistant.ActionBack
	case len(fields) == 2:
		id, err := strconv.ParseInt(strings.TrimPrefix(fields[1], "#"), 10, 64)
		if err != nil {
			return turn
		}
		switch verb {
		case "view":
			turn.Action = assistant.ActionView
		case "rm":
			turn.Action = assistant.ActionAskDelete
		case "confirm":
			turn.Action = assistant.ActionConfirmDelete
		default:
			return turn
		}
		turn.EventID = id
	}
	return turn
}

func renderReply(w io.Writer, r assistant.Reply) {
	fmt.Fprintln(w, r.Text)
	if hint := keyboardHint(r); hint != "" {
		fmt.Fprintf(w, "  [%s]\n", hint)
	}
}

func keyboardHint(r assistant.Reply) string {
	switch r.Keyboard {
	case assistant.KeyboardMainMenu:
		return "add | list | delete | help"
	case assistant.KeyboardCancel:
		return "cancel"
	case assistant.KeyboardTimes:
		var opts []string
		for _, t := range wizard.TimeChoices {
			opts = append(opts, "pick "+t)
		}
		return strings.Join(append(opts, "pick custom", "cancel"), " | ")
	case assistant.KeyboardEventList:
		return "view <id>"
	case assistant.KeyboardEventActions:
		return fmt.Sprintf("rm %d | back", r.EventID)
	case assistant.KeyboardConfirmDelete:
		return fmt.Sprintf("confirm %d | view %d", r.EventID, r.EventID)
	}
	return ""
}

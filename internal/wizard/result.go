package wizard

type Outcome int

const (
	Ignored        Outcome = iota // input not applicable in the current state
	AskDescription                // dialogue started
	AskDate                       // description stored
	InvalidDate                   // date did not parse; still awaiting date
	PastDate                      // date before today; still awaiting date
	AskTime                       // date stored
	AskCustomTime                 // user wants to type a time; still awaiting time
	InvalidTime                   // time did not parse; still awaiting time
	Cancelled
	Created
	Incomplete  // session lacked description or date; discarded
	StoreFailed // event could not be saved; discarded
)

var outcomeNames = map[Outcome]string{
	Ignored:        "ignored",
	AskDescription: "ask_description",
	AskDate:        "ask_date",
	InvalidDate:    "invalid_date",
	PastDate:       "past_date",
	AskTime:        "ask_time",
	AskCustomTime:  "ask_custom_time",
	InvalidTime:    "invalid_time",
	Cancelled:      "cancelled",
	Created:        "created",
	Incomplete:     "incomplete",
	StoreFailed:    "store_failed",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return "unknown"
}

// Result describes the effect of one turn.
type Result struct {
	Outcome Outcome
	State   State  // state after the turn
	Session string // id of the open session, empty once idle

	DisplayDate string // date as the user typed it, once known

	// Filled in when Outcome is Created.
	EventID     int64
	Description string
	EventDate   string
	NotifyTime  string
	DaysLeft    int
	DaysKnown   bool

	Err error // set when Outcome is StoreFailed
}

package checkin

import (
	"time"

	"github.com/jrsteele09/go-library-checkin/availability"
)

// Action is the terminal state reached for one scanned barcode.
type Action string

const (
	ActionCheckedIn    Action = "CheckedIn"
	ActionInLibraryUse Action = "InLibraryUse"
	ActionRejected     Action = "Rejected"
	ActionErrored      Action = "Errored"
)

// Label is the text shown in the "action taken" column.
func (a Action) Label() string {
	switch a {
	case ActionCheckedIn:
		return "Checked In"
	case ActionInLibraryUse:
		return "In-Library Use"
	default:
		return "None"
	}
}

// IsError reports whether rows with this action are flagged to staff.
func (a Action) IsError() bool {
	return a == ActionRejected || a == ActionErrored
}

// Outcome is the result of processing one barcode.
type Outcome struct {
	Action     Action
	StatusText string
}

// Placeholders used when an attempt never produced bibliographic data.
const (
	ErrorStatusText = "Error"
	UnknownField    = "Unknown"
)

// Result is one row of the scan log.
type Result struct {
	ScanID      string    `json:"scanId"`
	Barcode     string    `json:"barcode"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	CallNumber  string    `json:"callNumber"`
	StatusText  string    `json:"status"`
	Action      Action    `json:"action"`
	ActionTaken string    `json:"actionTaken"`
	IsError     bool      `json:"isError"`
	Message     string    `json:"message,omitempty"`
	Attempts    int       `json:"attempts"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Outcome returns the action and status text of the row.
func (r Result) Outcome() Outcome {
	return Outcome{Action: r.Action, StatusText: r.StatusText}
}

func (r *Result) setOutcome(o Outcome) {
	r.Action = o.Action
	r.ActionTaken = o.Action.Label()
	r.StatusText = o.StatusText
	r.IsError = o.Action.IsError()
}

func (r *Result) setItem(status *availability.Status) {
	if status == nil {
		r.Title, r.Author, r.CallNumber = UnknownField, UnknownField, UnknownField
		return
	}
	r.Title = status.Title
	r.Author = status.Author
	r.CallNumber = status.CallNumber
}

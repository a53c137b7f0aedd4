package availability

// State is the availability of one copy as reported by the SRU service.
type State string

const (
	StateAvailable   State = "Available"
	StateUnavailable State = "Unavailable"
)

// Reasons reported in reasonUnavailable that matter to check-in.
const (
	ReasonOnLoan      = "ON_LOAN"
	ReasonOverdue     = "OVERDUE"
	ReasonLongOverdue = "LONG_OVERDUE"
	ReasonTransit     = "TRANSIT"
)

// Fallbacks for fields missing from the availability response.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	NotAvailable  = "N/A"
	NoReason      = "No reason"
)

// Status is the availability of a single item, identified by barcode.
// ReasonUnavailable and AvailabilityDate are only set when the item is unavailable,
// and CheckedOut is true only for unavailable items that are on loan or overdue.
type Status struct {
	Barcode           string  `json:"barcode"`
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	CallNumber        string  `json:"callNumber"`
	State             State   `json:"status"`
	ReasonUnavailable *string `json:"reasonUnavailable,omitempty"`
	AvailabilityDate  *string `json:"availabilityDate,omitempty"`
	CheckedOut        bool    `json:"checkedOut"`
}

// Reason returns ReasonUnavailable or "".
func (s Status) Reason() string {
	if s.ReasonUnavailable == nil {
		return ""
	}
	return *s.ReasonUnavailable
}

// DisplayStatus is the reason an item is unavailable, or its state when there is none.
func (s Status) DisplayStatus() string {
	if reason := s.Reason(); reason != "" {
		return reason
	}
	return string(s.State)
}

func isCheckedOut(reason string) bool {
	switch reason {
	case ReasonOnLoan, ReasonOverdue, ReasonLongOverdue:
		return true
	}
	return false
}

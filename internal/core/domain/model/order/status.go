package order

import (
	"fmt"
	"strings"

	"halforder/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	OPEN ──┬──> MATCHED ──┬──> PREPARING ──> SERVED
//	       │              │        │
//	       ├──────────────┘        │
//	       ├──> EXPIRED            │
//	       └──────────┬────────────┘
//	                  └──> CANCELLED (from OPEN, MATCHED or PREPARING)
//
// OPEN -> MATCHED happens only through matching and OPEN -> EXPIRED only through the
// sweeper. SERVED, EXPIRED and CANCELLED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Open is the initial status of full orders and of an unmatched half-order.
	Open

	// Matched is a half-order paired with a half-order from another table.
	Matched

	// Preparing is an order the kitchen has started.
	Preparing

	// Served is the terminal success state.
	Served

	// Expired is a half-order whose session ran out unmatched.
	Expired

	// Cancelled is an order withdrawn by the counter before it was served.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Open:      "OPEN",
		Matched:   "MATCHED",
		Preparing: "PREPARING",
		Served:    "SERVED",
		Expired:   "EXPIRED",
		Cancelled: "CANCELLED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Open:      "OPEN",
		Matched:   "MATCHED",
		Preparing: "PREPARING",
		Served:    "SERVED",
		Expired:   "EXPIRED",
		Cancelled: "CANCELLED",
	}
}

// ParseStatus maps the upper-case wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getValidStatusStrings() {
		if name == want {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case name of the status, e.g. "PREPARING".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Served || s == Expired || s == Cancelled
}

func (s Status) invalid(to Status) error {
	return errs.NewInvalidTransitionError("order", s.String(), to.String())
}

// Match transitions OPEN -> MATCHED.
func (s Status) Match() (Status, error) {
	if s != Open {
		return s, s.invalid(Matched)
	}
	return Matched, nil
}

// Prepare transitions OPEN or MATCHED -> PREPARING.
func (s Status) Prepare() (Status, error) {
	if s != Open && s != Matched {
		return s, s.invalid(Preparing)
	}
	return Preparing, nil
}

// Serve transitions PREPARING -> SERVED.
func (s Status) Serve() (Status, error) {
	if s != Preparing {
		return s, s.invalid(Served)
	}
	return Served, nil
}

// Cancel transitions any non-terminal status -> CANCELLED.
func (s Status) Cancel() (Status, error) {
	if s != Open && s != Matched && s != Preparing {
		return s, s.invalid(Cancelled)
	}
	return Cancelled, nil
}

// Expire transitions OPEN -> EXPIRED.
func (s Status) Expire() (Status, error) {
	if s != Open {
		return s, s.invalid(Expired)
	}
	return Expired, nil
}

// Advance applies a manual status change requested by staff. Only PREPARING, SERVED
// and CANCELLED are reachable this way; MATCHED and EXPIRED belong to matching and
// the sweeper, and nothing moves back to OPEN.
func (s Status) Advance(target Status) (Status, error) {
	switch target { //nolint:exhaustive // remaining targets are never manual
	case Preparing:
		return s.Prepare()
	case Served:
		return s.Serve()
	case Cancelled:
		return s.Cancel()
	default:
		return s, s.invalid(target)
	}
}

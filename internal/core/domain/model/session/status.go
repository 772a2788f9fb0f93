package session

import (
	"fmt"

	"halforder/internal/pkg/errs"
)

// Status of a half-order session. OPEN is the only live state; MATCHED and
// EXPIRED are final and the record is kept for listing and audit.
type Status int

const (
	Unknown Status = iota
	Open
	Matched
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "UNKNOWN",
		Open:    "OPEN",
		Matched: "MATCHED",
		Expired: "EXPIRED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s != Open && s != Matched && s != Expired {
		return errs.NewValueIsInvalidErrorWithCause("session status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

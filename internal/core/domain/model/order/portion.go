package order

import (
	"fmt"
	"strings"

	"halforder/internal/pkg/errs"
)

// Portion is the serving size of a line item.
type Portion int

const (
	PortionUnknown Portion = iota
	Full
	Half
)

// ParsePortion accepts "full" or "half".
func ParsePortion(s string) (Portion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full, nil
	case "half":
		return Half, nil
	default:
		return PortionUnknown, errs.NewValueIsInvalidErrorWithCause("portion", fmt.Errorf("%q is neither full nor half", s))
	}
}

func (p Portion) String() string {
	switch p {
	case Full:
		return "full"
	case Half:
		return "half"
	default:
		return "unknown"
	}
}

func (p Portion) Validate() error {
	if p != Full && p != Half {
		return errs.NewValueIsInvalidErrorWithCause("portion", fmt.Errorf("%d is not a valid portion", p))
	}
	return nil
}

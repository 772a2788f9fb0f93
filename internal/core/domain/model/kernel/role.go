package kernel

import (
	"fmt"
	"strings"

	"halforder/internal/pkg/errs"
)

// Role is the already-authenticated caller role handed to the core by the transport edge.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleCounter    Role = "counter"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole accepts the lower-case role names. The empty string is a customer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleCustomer:
		return RoleCustomer, nil
	case RoleCounter:
		return RoleCounter, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// CanAdvanceOrders reports whether the role may move orders through the kitchen workflow.
func (r Role) CanAdvanceOrders() bool {
	return r == RoleCounter || r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}

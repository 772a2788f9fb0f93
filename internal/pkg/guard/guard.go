// Package guard detects zero-value commands, queries and value objects that were
// not built through their constructor.
//
// Embed a ConstructorGuard, set it with NewConstructorGuard inside the constructor,
// and call Validate from the owning type's Validate method:
//
//	type JoinRequest struct {
//	    sessionID kernel.UUID
//	    guard     guard.ConstructorGuard
//	}
//
//	func (r JoinRequest) Validate() error {
//	    return r.guard.Validate(ErrJoinRequestIsNotConstructed)
//	}
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard carries a single flag that only a constructor sets.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}

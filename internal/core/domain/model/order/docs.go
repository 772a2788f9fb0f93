// Package order implements the Order aggregate and its lifecycle state machine.
//
// Orders are placed OPEN. A half-order (one half-portion line) is paired with a
// half-order of the same dish from another table through MatchWith, which moves
// both to MATCHED together. Staff advance orders to PREPARING, SERVED or CANCELLED;
// the sweeper expires OPEN half-orders whose session ran out. Orders are never deleted.
package order

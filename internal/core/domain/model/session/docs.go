// Package session implements the half-order session: the open invitation an
// unmatched half-order publishes so that another table can join it.
//
// A session is OPEN from creation until exactly one of:
//   - a join succeeds (MATCHED)
//   - the sweeper finds it past its deadline (EXPIRED, reason "timeout")
//   - its order is cancelled or sent to the kitchen (EXPIRED, reason "closed")
//
// Sessions are never reopened. A customer who wants to try again places a new
// half-order, which opens a new session.
package session

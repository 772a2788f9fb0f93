// Package services contains domain services that span more than one aggregate.
//
// HalfOrderMatcher opens half-order sessions and pairs a joining half-order with
// the order that owns a session.
package services

// Package kernel provides the value objects shared by the order and session aggregates:
//   - UUID: identifiers for orders, sessions, restaurants, tables and menu items
//   - Money: prices and totals in paise
//   - Role: the caller role resolved by the transport edge
//
// All types are immutable and safe for concurrent use.
package kernel

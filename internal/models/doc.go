// Package models defines the persisted records of a settle deployment.
//
// # Models
//
//   - Group: a named set of members who share expenses
//   - Expense: one payment event inside a group, with its line items
//   - Item: one line of an expense, owed jointly by its participants
//
// Members are identified by opaque strings (a user id or a display name)
// unique within their group.
//
// # Amounts
//
// Every amount is an int64 in the smallest currency unit of the group
// (whole won, cents). Models never carry floating point money.
//
// # Relationship to the calculator
//
// The calculator package owns the splitting rules and has no knowledge of
// these types. Services convert models into calculator inputs right before
// computing balances, so storage concerns (IDs, timestamps, titles) never
// reach the engine.
package models

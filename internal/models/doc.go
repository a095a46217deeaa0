// Package models defines the core domain models for the committee manager.
//
// A Pool is one rotating savings group ("committee"): a fixed roster of
// members, a face value, and a tenure of hands. Each hand one member wins the
// pooled payout through auction bidding; every member owes a contribution
// share for that hand, and every movement of money lands in a per-person
// append-only ledger.
//
// All money fields use shopspring decimal to keep the settlement arithmetic
// exact; float drift across a pool's lifetime is not acceptable in a ledger.
//
// Ownership follows the persistence schema: a Pool owns its Hands, a Hand owns
// its Contributions and Distributions (cascade on delete), while Persons are
// independent and only referenced.
package models

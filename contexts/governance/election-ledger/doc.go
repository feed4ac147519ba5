// Package electionledger implements the authoritative election ledger inside
// the governance context.
//
// The module owns election lifecycle (create/deactivate with a derived phase
// clock), per-election candidate rosters, voter registration, token-weighted
// vote casting with one-way double-vote latching, and eligibility/result
// reads. Every mutating intent runs as one all-or-nothing repository
// transaction and appends an audit event to the transactional outbox. It
// keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package electionledger

// Package pact defines the data model for Pact-style consumer contracts:
// contracts, interactions, HTTP requests/responses, matching rules and
// generators, plus their JSON (de)serialization across spec versions.
//
// The types here are intentionally closed tagged unions rather than open
// interfaces with runtime registration — MatchingRule and Generator each
// carry a Type discriminator and are switched on exhaustively by every
// consumer, mirroring how pkg/mock/types.go models Mock specs in the
// wider mockd codebase.
package pact

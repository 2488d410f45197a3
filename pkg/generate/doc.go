// Package generate implements the dynamic value generator engine: given
// a pact.GeneratorSet, it produces concrete values (UUIDs, random
// numbers/strings, regex-conformant strings, formatted dates/times,
// provider-state lookups, mock-server URLs) and splices them into a
// request or response body, headers, or query.
//
// Two modes are modeled, mirroring Pact's provider-verification vs.
// consumer-mock distinction: Provider regenerates values when replaying
// a contract against a real provider; Consumer (the only mode this mock
// server core exercises) regenerates values in the response returned to
// the client under test. Generator errors are always non-fatal: on
// failure the original value is left untouched.
package generate

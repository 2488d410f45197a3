// Package mockserver implements the in-process HTTP/TLS mock server
// core: the interaction matcher (choosing which expected interaction a
// live request corresponds to), the HTTP server loop that drives it, and
// the process-wide registry of running mock server instances.
//
// A Registry owns zero or more running instances, each bound to an
// ephemeral loopback address and backed by one pact.Contract. Instances
// are looked up and controlled by an opaque string id; the registry
// holds no reference back from an instance, and an instance holds no
// reference back to the registry it was started from (it only holds its
// own server handle and a shutdown flag) — this avoids the reference cycle a naive
// Registry<->Instance design would otherwise create.
package mockserver

// Package optype owns the operation wire-tag space.
//
// Ownership boundary:
// - closed operation catalog (name, payload marker, wire id)
// - payload sum type and empty-payload construction on receipt
// - sealed id <-> variant <-> marker registry
//
// Payload byte encoding and transport framing live outside this package.
// A Registry is built once at startup and passed by reference; there is
// no package-level registry.
package optype

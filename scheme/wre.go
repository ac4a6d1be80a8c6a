package scheme

// Package-level acknowledgment of the Weakly-Randomized-Encryption scheme
// (Pouliot, Griffy & Wright): the original Rust prototype
// (_examples/original_source/src/scheme/wre.rs) carries a partial
// implementation built around a Poisson salt allocator, but calls it
// "incomplete in the source" and excludes it explicitly. WREUnimplemented
// exists only so a caller introspecting on scheme kinds has a symbol to
// reference; there is no constructor and no operation attached to it.
type WREUnimplemented struct{}

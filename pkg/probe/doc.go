// Package probe implements brute-force detection of JTAG and SWD debug-port
// wiring on a target whose pinout is unknown.
//
// Three finders enumerate candidate pin-role assignments over a gpio.Port,
// drive a bit-banged protocol sequence on each candidate, and judge the
// sampled response with toggle-count heuristics:
//
//   - FindIDCode assumes the target clocks its identification register onto
//     the data-out line after a TAP reset, and searches
//     (clock, mode-select, data-out) triples plus a nested data-in search.
//   - FindBypass assumes the target falls into its single-bit pass-through
//     register after reset and searches full four-pin assignments.
//   - FindSWD emulates the two-wire protocol's line-reset and
//     interface-switch sequences over (clock, data) pairs and listens for an
//     identification response.
//
// Enumeration is role-by-role in ascending pin order, every structurally
// valid assignment is evaluated, and every match is reported in discovery
// order. A finder that exhausts its space simply returns no matches; that is
// a result, not an error.
//
// The acceptance bands in Config are empirically tuned against real targets.
// Treat them as behavioral constants: widening or "correcting" them changes
// which borderline targets are detected.
package probe

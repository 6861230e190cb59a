// Package ir provides the canonical value model used to journal and
// fingerprint object state.
//
// Object values are arbitrary Go values. Before they leave the process (the
// SQLite journal) or are compared across runs (determinism fingerprints) they
// are converted into IRValue trees and serialized as canonical JSON:
//
//   - object keys sorted by UTF-16 code units (RFC 8785)
//   - strings NFC normalized, no HTML escaping
//   - numbers in shortest round-trip form; integral values print without a
//     fraction, NaN and infinities are rejected
//
// ir imports nothing internal. All other internal packages may import it.
package ir

// Package rate provides Redis-backed fixed-window throttling for the
// credential exchange path.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on the first hit. Key
// prefixes:
//   - kx:  — exchange attempts per normalized username
//   - kxi: — exchange attempts per client IP
//
// Counters track failed attempts only; a successful exchange resets them.
//
// # What this package must NOT do
//
//   - Decide which failures count as attempts (the engine does).
//   - Be imported outside the keymint module.
package rate

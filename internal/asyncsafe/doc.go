// Package asyncsafe provides allocation-free string and number helpers for code
// that runs while the process is dying.
//
// Everything in this package must be callable from a signal-notified goroutine,
// from a deferred recover after heap corruption was detected, or from any other
// place where the allocator and library locks cannot be trusted:
//
//   - no heap allocation (verified with testing.AllocsPerRun)
//   - no locks and no package state that is mutated after init, except the
//     environment snapshot, which is replaced wholesale by RefreshEnviron
//   - bounded running time
//
// Strings handled here follow the terminator convention: a byte buffer holds a
// NUL-terminated value, and a buffer without a NUL is treated as terminated at
// its end. Callers size buffers for the worst case; helpers never grow them.
package asyncsafe

// Package generator produces passwords, passphrases and PINs under
// constraint sets, plus a heuristic strength estimator.
//
// Everything here is a pure function over crypto/rand: no shared state,
// no interaction with the vault's lock state. Constrained generation uses
// bounded rejection sampling; when the retry budget runs out, Password
// falls back to an unconstrained draw from a curated non-ambiguous
// character set. That trades strict constraint satisfaction for
// guaranteed termination.
//
// The strength estimator is advisory only, not a security boundary.
package generator

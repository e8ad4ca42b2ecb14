package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{};:,.<>?"

	// Characters easy to confuse with each other or with syntax.
	ambiguousChars = "{}[]()/\\'\"`~,;:.<>"
	similarChars   = "il1Lo0O"

	// Curated pool for the retry-exhaustion fallback: no ambiguous or
	// similar characters, all four classes represented.
	fallbackChars = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789!@#$%^&*"

	// maxAttempts bounds rejection sampling before falling back.
	maxAttempts = 100

	// DefaultPasswordLength is used when options leave Length zero.
	DefaultPasswordLength = 16
)

var (
	ErrEmptyPool     = errors.New("character pool is empty")
	ErrUnsatisfiable = errors.New("constraints cannot be satisfied")
)

// PasswordOptions control Password generation. Zero Length means
// DefaultPasswordLength; at least one character class must be selected.
type PasswordOptions struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool

	// ExcludeAmbiguous removes brackets, quotes and similar syntax-prone
	// characters; ExcludeSimilar removes look-alikes such as l/1/O/0.
	ExcludeAmbiguous bool
	ExcludeSimilar   bool

	// Require lists literal characters that must each appear; Exclude
	// lists literal characters that must not. Required characters are
	// added to the pool even when an exclusion filter would remove them.
	Require string
	Exclude string

	// NoConsecutive forbids identical adjacent characters; NoRepeats
	// forbids any character appearing twice.
	NoConsecutive bool
	NoRepeats     bool
}

// DefaultPasswordOptions selects all four classes at the default length.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		Length:    DefaultPasswordLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Password generates a random password satisfying the given options.
//
// Candidates are drawn from the pool and rejected until one contains at
// least one character of every selected class, every required character,
// and honors NoConsecutive/NoRepeats. After maxAttempts rejections it
// falls back to an unconstrained draw from fallbackChars so the call
// always terminates.
func Password(opts PasswordOptions) (string, error) {
	length := opts.Length
	if length <= 0 {
		length = DefaultPasswordLength
	}

	pool, classes, err := buildPool(opts)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := draw(pool, length)
		if err != nil {
			return "", err
		}
		if satisfies(candidate, opts, classes) {
			return candidate, nil
		}
	}

	return draw(fallbackChars, length)
}

// buildPool assembles the character pool and the class sets (post-filter)
// used for coverage checks.
func buildPool(opts PasswordOptions) (string, []string, error) {
	var classes []string
	if opts.Uppercase {
		classes = append(classes, uppercaseChars)
	}
	if opts.Lowercase {
		classes = append(classes, lowercaseChars)
	}
	if opts.Numbers {
		classes = append(classes, numberChars)
	}
	if opts.Symbols {
		classes = append(classes, symbolChars)
	}

	drop := opts.Exclude
	if opts.ExcludeAmbiguous {
		drop += ambiguousChars
	}
	if opts.ExcludeSimilar {
		drop += similarChars
	}

	var pool strings.Builder
	seen := make(map[rune]bool)
	filtered := make([]string, 0, len(classes))
	for _, class := range classes {
		var kept strings.Builder
		for _, r := range class {
			if strings.ContainsRune(drop, r) {
				continue
			}
			kept.WriteRune(r)
			if !seen[r] {
				seen[r] = true
				pool.WriteRune(r)
			}
		}
		if kept.Len() > 0 {
			filtered = append(filtered, kept.String())
		}
	}

	// Required literals join the pool even past the exclusion filters.
	for _, r := range opts.Require {
		if !seen[r] {
			seen[r] = true
			pool.WriteRune(r)
		}
	}

	if pool.Len() == 0 {
		return "", nil, ErrEmptyPool
	}
	return pool.String(), filtered, nil
}

func satisfies(candidate string, opts PasswordOptions, classes []string) bool {
	for _, class := range classes {
		if !strings.ContainsAny(candidate, class) {
			return false
		}
	}
	for _, r := range opts.Require {
		if !strings.ContainsRune(candidate, r) {
			return false
		}
	}
	if opts.NoConsecutive {
		runes := []rune(candidate)
		for i := 1; i < len(runes); i++ {
			if runes[i] == runes[i-1] {
				return false
			}
		}
	}
	if opts.NoRepeats {
		seen := make(map[rune]bool, len(candidate))
		for _, r := range candidate {
			if seen[r] {
				return false
			}
			seen[r] = true
		}
	}
	return true
}

// draw picks length characters uniformly from the pool.
func draw(pool string, length int) (string, error) {
	runes := []rune(pool)
	out := make([]rune, length)
	for i := range out {
		n, err := randInt(len(runes))
		if err != nil {
			return "", err
		}
		out[i] = runes[n]
	}
	return string(out), nil
}

// randInt returns a uniform random int in [0, n) from crypto/rand.
func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return int(v.Int64()), nil
}

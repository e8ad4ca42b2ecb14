package generator

import "fmt"

// DefaultPINLength is used when options leave Length zero.
const DefaultPINLength = 4

// PINOptions control PIN generation.
type PINOptions struct {
	Length int
	// NoRepeats forbids any digit appearing twice. With only ten
	// digits available, lengths above ten are unsatisfiable.
	NoRepeats bool
	// NoConsecutive forbids adjacent digits with numerically adjacent
	// values (e.g. "34" or "65"), not positional repeats.
	NoConsecutive bool
}

// PIN generates a random digit string. Constraint checking uses bounded
// retry; when the budget runs out the constraints are relaxed and a
// single unconstrained PIN is returned instead of looping forever.
func PIN(opts PINOptions) (string, error) {
	length := opts.Length
	if length <= 0 {
		length = DefaultPINLength
	}
	if opts.NoRepeats && length > 10 {
		return "", fmt.Errorf("%w: %d unique digits requested, only 10 exist", ErrUnsatisfiable, length)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		pin, err := drawDigits(length)
		if err != nil {
			return "", err
		}
		if pinSatisfies(pin, opts) {
			return pin, nil
		}
	}

	// Retry budget exhausted: relax the constraints and restart once.
	return drawDigits(length)
}

func drawDigits(length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		n, err := randInt(10)
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + n)
	}
	return string(out), nil
}

func pinSatisfies(pin string, opts PINOptions) bool {
	if opts.NoRepeats {
		var seen [10]bool
		for i := 0; i < len(pin); i++ {
			d := pin[i] - '0'
			if seen[d] {
				return false
			}
			seen[d] = true
		}
	}
	if opts.NoConsecutive {
		for i := 1; i < len(pin); i++ {
			diff := int(pin[i]) - int(pin[i-1])
			if diff == 1 || diff == -1 {
				return false
			}
		}
	}
	return true
}

package generator

import (
	"math"
	"strings"
	"unicode"
)

// Strength is the result of the heuristic password scorer. Score is a
// 0–4 band; Entropy is the estimated bits assuming a uniform draw from
// the observed character classes.
type Strength struct {
	Score    int
	Label    string
	Entropy  float64
	Feedback string
}

var strengthLabels = [5]string{"Very weak", "Weak", "Fair", "Strong", "Very strong"}

// Keyboard and alphabet runs checked (in both directions) for the
// sequence penalty.
var sequences = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

// EvaluateStrength scores a password by length, estimated entropy and
// character-class diversity, penalizing common sequences, repeated runs
// and single-class passwords. Advisory only.
func EvaluateStrength(password string) Strength {
	if password == "" {
		return Strength{Score: 0, Label: strengthLabels[0], Feedback: "Use a longer password."}
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	charset := 0
	classes := 0
	for _, c := range []struct {
		present bool
		size    int
	}{
		{hasLower, 26},
		{hasUpper, 26},
		{hasDigit, 10},
		{hasSymbol, 33},
	} {
		if c.present {
			charset += c.size
			classes++
		}
	}

	length := len([]rune(password))
	entropy := float64(length) * math.Log2(float64(charset))

	score := 0
	for _, threshold := range []int{8, 12, 16, 20} {
		if length >= threshold {
			score++
		}
	}
	for _, threshold := range []float64{40, 60, 80} {
		if entropy >= threshold {
			score++
		}
	}
	score += classes - 1

	var feedback string
	lower := strings.ToLower(password)

	if hasSequence(lower) {
		score -= 2
		feedback = "Avoid common sequences like abc or 123."
	}
	if hasRepeatedRun(password) {
		score -= 2
		if feedback == "" {
			feedback = "Avoid repeating the same character."
		}
	}
	if classes == 1 {
		if hasDigit {
			score -= 2
			if feedback == "" {
				feedback = "Add letters and symbols, not just digits."
			}
		} else if hasLower || hasUpper {
			score--
			if feedback == "" {
				feedback = "Mix in digits and symbols."
			}
		}
	}
	if length < 8 && feedback == "" {
		feedback = "Use at least 8 characters."
	}

	band := 0
	switch {
	case score <= 1:
		band = 0
	case score <= 3:
		band = 1
	case score <= 5:
		band = 2
	case score <= 7:
		band = 3
	default:
		band = 4
	}

	if feedback == "" {
		if band >= 3 {
			feedback = "Good password."
		} else {
			feedback = "Make it longer and more varied."
		}
	}

	return Strength{Score: band, Label: strengthLabels[band], Entropy: entropy, Feedback: feedback}
}

// hasSequence reports whether the lowercased password contains a 3+
// character run of a known alphabet or keyboard sequence, forward or
// backward.
func hasSequence(lower string) bool {
	for _, seq := range sequences {
		for i := 0; i+3 <= len(seq); i++ {
			chunk := seq[i : i+3]
			if strings.Contains(lower, chunk) || strings.Contains(lower, reverse(chunk)) {
				return true
			}
		}
	}
	return false
}

// hasRepeatedRun reports a character repeated three or more times in a row.
func hasRepeatedRun(s string) bool {
	runes := []rune(s)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

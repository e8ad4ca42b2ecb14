package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStrength_Bands(t *testing.T) {
	tests := []struct {
		password string
		maxScore int
		minScore int
	}{
		{"", 0, 0},
		{"cat", 0, 0},
		{"password", 1, 0},
		{"12345678", 0, 0},
		{"aaaaaaaaaaaa", 1, 0},
		{"Tr0ub4dor&3", 3, 2},
		{"kV9#mPw2$xQz7!Lr", 4, 3},
		{"correct-horse-battery-staple-91", 4, 3},
	}

	for _, tt := range tests {
		got := EvaluateStrength(tt.password)
		assert.GreaterOrEqual(t, got.Score, tt.minScore, "password %q", tt.password)
		assert.LessOrEqual(t, got.Score, tt.maxScore, "password %q", tt.password)
		assert.Equal(t, strengthLabels[got.Score], got.Label)
		assert.NotEmpty(t, got.Feedback)
	}
}

func TestEvaluateStrength_MonotoneOnLength(t *testing.T) {
	short := EvaluateStrength("kV9#m")
	long := EvaluateStrength("kV9#mPw2$xQz7!LrT5&n")
	assert.Greater(t, long.Score, short.Score)
	assert.Greater(t, long.Entropy, short.Entropy)
}

func TestEvaluateStrength_SequencePenalty(t *testing.T) {
	withSeq := EvaluateStrength("Xabc123YZ!")
	without := EvaluateStrength("Xkw938ZQp!")
	assert.Less(t, withSeq.Score, without.Score)
}

func TestEvaluateStrength_AllDigitsPenalized(t *testing.T) {
	digits := EvaluateStrength("8394017265483920")
	mixed := EvaluateStrength("a8T94p17x2K5s3!0")
	assert.Less(t, digits.Score, mixed.Score)
}

func TestEvaluateStrength_EntropyEstimate(t *testing.T) {
	// 10 lowercase chars: 10 * log2(26) ≈ 47 bits.
	got := EvaluateStrength("kwmzpqrvtn")
	assert.InDelta(t, 47.0, got.Entropy, 1.0)
}

package generator

import (
	"strconv"
	"strings"
)

// DefaultPassphraseWords is used when options leave Words zero.
const DefaultPassphraseWords = 4

// PassphraseOptions control Passphrase generation.
type PassphraseOptions struct {
	Words      int
	Capitalize bool
	// IncludeNumber appends a random number between 1 and 100.
	IncludeNumber bool
	// IncludeSymbol appends a random symbol character.
	IncludeSymbol bool
	// Separator joins the components; "-" when empty.
	Separator string
}

// Passphrase picks random words from the embedded word list and joins
// them with the separator, optionally capitalizing each word and
// appending a number and/or symbol component.
func Passphrase(opts PassphraseOptions) (string, error) {
	count := opts.Words
	if count <= 0 {
		count = DefaultPassphraseWords
	}
	sep := opts.Separator
	if sep == "" {
		sep = "-"
	}

	parts := make([]string, 0, count+1)
	for i := 0; i < count; i++ {
		n, err := randInt(len(wordList))
		if err != nil {
			return "", err
		}
		word := wordList[n]
		if opts.Capitalize {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		parts = append(parts, word)
	}

	if opts.IncludeNumber {
		n, err := randInt(100)
		if err != nil {
			return "", err
		}
		parts = append(parts, strconv.Itoa(n+1))
	}

	phrase := strings.Join(parts, sep)

	if opts.IncludeSymbol {
		n, err := randInt(len(symbolChars))
		if err != nil {
			return "", err
		}
		phrase += string(symbolChars[n])
	}

	return phrase, nil
}

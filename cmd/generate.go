package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dark-dev2475/secure--vault/internal/generator"
)

// Generate prints a password built from the given options.
func Generate(opts generator.PasswordOptions, show bool) {
	password, err := generator.Password(opts)
	if err != nil {
		if errors.Is(err, generator.ErrEmptyPool) {
			fmt.Fprintln(os.Stderr, "Error: no characters left to choose from")
			fmt.Fprintln(os.Stderr, "Enable at least one character class or relax exclusions")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(password)
	if show {
		printStrength(password)
	}
}

// GeneratePassphrase prints a word-based passphrase.
func GeneratePassphrase(opts generator.PassphraseOptions, show bool) {
	phrase, err := generator.Passphrase(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(phrase)
	if show {
		printStrength(phrase)
	}
}

// GeneratePIN prints a numeric PIN.
func GeneratePIN(opts generator.PINOptions) {
	pin, err := generator.PIN(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(pin)
}

// Strength scores a password supplied on the command line.
func Strength(password string) {
	printStrength(password)
}

func printStrength(password string) {
	s := generator.EvaluateStrength(password)
	fmt.Printf("Strength: %s (%d/4, ~%.0f bits)\n", s.Label, s.Score, s.Entropy)
	fmt.Printf("          %s\n", s.Feedback)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dark-dev2475/secure--vault/cmd"
	"github.com/dark-dev2475/secure--vault/internal/generator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "open":
		runOpen(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "generate", "gen":
		runGenerate(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// dbFlag registers the shared -db flag on a command's flag set.
func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", "", "Vault database path (default: user config dir)")
}

func runInit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init(ctx, *dbPath)
}

func runOpen(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Open(ctx, *dbPath)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(ctx, *dbPath)
}

func runGenerate(_ context.Context, args []string) {
	kind := "password"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		kind, args = args[0], args[1:]
	}

	switch kind {
	case "password":
		fs := flag.NewFlagSet("generate password", flag.ExitOnError)
		length := fs.Int("length", generator.DefaultPasswordLength, "Password length")
		noUpper := fs.Bool("no-upper", false, "Exclude uppercase letters")
		noLower := fs.Bool("no-lower", false, "Exclude lowercase letters")
		noNumbers := fs.Bool("no-numbers", false, "Exclude digits")
		noSymbols := fs.Bool("no-symbols", false, "Exclude symbols")
		excludeAmbiguous := fs.Bool("exclude-ambiguous", false, "Exclude brackets, quotes and other syntax-prone characters")
		excludeSimilar := fs.Bool("exclude-similar", false, "Exclude look-alike characters (l, 1, O, 0)")
		require := fs.String("require", "", "Characters that must appear")
		exclude := fs.String("exclude", "", "Characters that must not appear")
		noConsecutive := fs.Bool("no-consecutive", false, "No identical adjacent characters")
		noRepeats := fs.Bool("no-repeats", false, "No character appears twice")
		show := fs.Bool("show-strength", false, "Print the strength estimate")
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cmd.Generate(generator.PasswordOptions{
			Length:           *length,
			Uppercase:        !*noUpper,
			Lowercase:        !*noLower,
			Numbers:          !*noNumbers,
			Symbols:          !*noSymbols,
			ExcludeAmbiguous: *excludeAmbiguous,
			ExcludeSimilar:   *excludeSimilar,
			Require:          *require,
			Exclude:          *exclude,
			NoConsecutive:    *noConsecutive,
			NoRepeats:        *noRepeats,
		}, *show)

	case "phrase", "passphrase":
		fs := flag.NewFlagSet("generate phrase", flag.ExitOnError)
		words := fs.Int("words", 4, "Number of words")
		capitalize := fs.Bool("capitalize", false, "Capitalize each word")
		number := fs.Bool("number", false, "Append a random number")
		symbol := fs.Bool("symbol", false, "Append a random symbol")
		separator := fs.String("separator", "-", "Word separator")
		show := fs.Bool("show-strength", false, "Print the strength estimate")
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cmd.GeneratePassphrase(generator.PassphraseOptions{
			Words:         *words,
			Capitalize:    *capitalize,
			IncludeNumber: *number,
			IncludeSymbol: *symbol,
			Separator:     *separator,
		}, *show)

	case "pin":
		fs := flag.NewFlagSet("generate pin", flag.ExitOnError)
		length := fs.Int("length", 4, "PIN length")
		noRepeats := fs.Bool("no-repeats", false, "No digit appears twice")
		noConsecutive := fs.Bool("no-consecutive", false, "No numerically adjacent digits next to each other")
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cmd.GeneratePIN(generator.PINOptions{
			Length:        *length,
			NoRepeats:     *noRepeats,
			NoConsecutive: *noConsecutive,
		})

	case "strength":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: secure-vault generate strength <password>")
			os.Exit(1)
		}
		cmd.Strength(args[0])

	default:
		fmt.Fprintf(os.Stderr, "Unknown generate kind: %s\nSupported: password, phrase, pin, strength\n", kind)
		os.Exit(1)
	}
}

func runKeyring(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: secure-vault keyring <save|delete|status>")
		os.Exit(1)
	}
	sub := args[0]

	fs := flag.NewFlagSet("keyring "+sub, flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	switch sub {
	case "save":
		cmd.KeyringSave(ctx, *dbPath)
	case "delete":
		cmd.KeyringDelete(*dbPath)
	case "status":
		cmd.KeyringStatus(*dbPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact(*dbPath)
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: secure-vault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("secure-vault - Local encrypted credential vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  secure-vault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new vault and set the master password")
	fmt.Println("  open        Start an interactive vault session")
	fmt.Println("  status      Show vault status without unlocking")
	fmt.Println("  generate    Generate passwords, passphrases and PINs")
	fmt.Println("  keyring     Manage the master password in the OS keyring")
	fmt.Println("  compact     Compact the vault database to reclaim disk space")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  secure-vault init                # Create new vault")
	fmt.Println("  secure-vault open                # Unlock and work with credentials")
	fmt.Println("  secure-vault generate -length 24 # Generate a 24-character password")
	fmt.Println("  secure-vault status              # Check vault status")
	fmt.Println()
	fmt.Println("Use 'secure-vault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("secure-vault init [-db <path>]")
		fmt.Println()
		fmt.Println("Creates the vault database and sets its master password.")
		fmt.Println("Prompts for the password twice; it is never stored on disk.")
		fmt.Println("Set " + cmd.PasswordEnvVar + " to supply the password non-interactively.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  secure-vault init")
		fmt.Println("  secure-vault init -db ./test.db")
	case "open":
		fmt.Println("secure-vault open [-db <path>]")
		fmt.Println()
		fmt.Println("Unlocks the vault and starts an interactive session.")
		fmt.Println("The password comes from the OS keyring when stored there,")
		fmt.Println("otherwise from " + cmd.PasswordEnvVar + " or an interactive prompt.")
		fmt.Println("The session auto-locks after the configured idle timeout.")
		fmt.Println()
		fmt.Println("Session commands: list, show, add, edit, rm, find, gen,")
		fmt.Println("passwd, lock, unlock, help, exit.")
	case "status":
		fmt.Println("secure-vault status [-db <path>]")
		fmt.Println()
		fmt.Println("Shows vault status including:")
		fmt.Println("  - Initialization state and credential count")
		fmt.Println("  - Encryption parameters and auto-lock configuration")
		fmt.Println("  - Whether a password is cached in the OS keyring")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "generate", "gen":
		fmt.Println("secure-vault generate [password|phrase|pin|strength] [flags]")
		fmt.Println()
		fmt.Println("Generates a random password (default), a word-based passphrase,")
		fmt.Println("or a numeric PIN. 'strength' scores a password you provide.")
		fmt.Println("Works without a vault; nothing generated is stored.")
		fmt.Println()
		fmt.Println("Password flags:")
		fmt.Println("  -length N             Password length (default 16)")
		fmt.Println("  -no-upper, -no-lower, -no-numbers, -no-symbols")
		fmt.Println("  -exclude-ambiguous    Drop brackets, quotes and similar")
		fmt.Println("  -exclude-similar      Drop look-alikes (l, 1, O, 0)")
		fmt.Println("  -require <chars>      Characters that must appear")
		fmt.Println("  -exclude <chars>      Characters that must not appear")
		fmt.Println("  -no-consecutive       No identical adjacent characters")
		fmt.Println("  -no-repeats           No character appears twice")
		fmt.Println("  -show-strength        Print the strength estimate")
		fmt.Println()
		fmt.Println("Phrase flags: -words N, -capitalize, -number, -symbol, -separator S")
		fmt.Println("PIN flags:    -length N, -no-repeats, -no-consecutive")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  secure-vault generate -length 24 -exclude-similar")
		fmt.Println("  secure-vault generate phrase -words 5 -capitalize")
		fmt.Println("  secure-vault generate pin -length 6")
		fmt.Println("  secure-vault generate strength 'hunter2'")
	case "keyring":
		fmt.Println("secure-vault keyring <save|delete|status> [-db <path>]")
		fmt.Println()
		fmt.Println("Manages the master password in the OS keyring so that 'open'")
		fmt.Println("does not prompt. 'save' verifies the password before storing it.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  secure-vault keyring save")
		fmt.Println("  secure-vault keyring status")
		fmt.Println("  secure-vault keyring delete")
	case "compact":
		fmt.Println("secure-vault compact [-db <path>]")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim space left behind by")
		fmt.Println("deleted credentials and password rotations.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "completion":
		fmt.Println("secure-vault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(secure-vault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(secure-vault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  secure-vault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}

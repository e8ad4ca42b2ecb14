package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/generator"
	"github.com/dark-dev2475/secure--vault/internal/storage"
	"github.com/dark-dev2475/secure--vault/internal/vault"
)

// session holds the state of one interactive run: the unlocked manager,
// the scanner reading commands, and the result of the last listing so
// that show/edit/rm can address credentials by number.
type session struct {
	ctx      context.Context
	manager  *vault.Manager
	store    *storage.BoltStore
	scanner  *bufio.Scanner
	autoLock time.Duration
	lastList []vault.Credential
}

// Open unlocks the vault and runs the interactive command loop.
func Open(ctx context.Context, dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	m := vault.New(store,
		vault.WithLogger(newLogger()),
		vault.WithAutoLockNotify(func() {
			fmt.Println("\nVault locked after inactivity. Type 'unlock' to continue.")
		}),
	)
	defer m.Lock()

	s := &session{
		ctx:      ctx,
		manager:  m,
		store:    store,
		scanner:  bufio.NewScanner(os.Stdin),
		autoLock: autoLockDuration(ctx, store),
	}

	if err := s.unlock(); err != nil {
		HandleError(err)
	}
	fmt.Println("Vault unlocked. Type 'help' for commands.")

	s.loop()
}

// autoLockDuration reads the configured auto-lock timeout, 0 when disabled.
func autoLockDuration(ctx context.Context, store *storage.BoltStore) time.Duration {
	settings, err := store.GetSettings(ctx, storage.SettingsID)
	if err != nil || settings == nil {
		return 15 * time.Minute
	}
	if !settings.AutoLockEnabled || settings.AutoLockMinutes <= 0 {
		return 0
	}
	return time.Duration(settings.AutoLockMinutes) * time.Minute
}

// unlock tries the OS keyring first, then the environment, then prompts.
func (s *session) unlock() error {
	if password := keyringPassword(s.store); password != nil {
		err := s.manager.Unlock(s.ctx, password, s.autoLock)
		crypto.ClearBytes(password)
		if err == nil {
			fmt.Println("(password from OS keyring)")
			return nil
		}
		if !errors.Is(err, vault.ErrWrongPassword) {
			return err
		}
		fmt.Println("Keyring password no longer valid")
	}

	password, err := GetPassword("Enter master password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)
	return s.manager.Unlock(s.ctx, password, s.autoLock)
}

func (s *session) loop() {
	for {
		line, ok := readLine(s.scanner, "vault> ")
		if !ok {
			fmt.Println()
			return
		}
		if line == "" {
			continue
		}

		s.manager.ResetActivity()

		parts := strings.Fields(line)
		command, args := parts[0], parts[1:]

		switch command {
		case "list", "ls":
			s.list()
		case "show":
			s.show(args)
		case "add":
			s.add()
		case "edit":
			s.edit(args)
		case "rm", "delete":
			s.remove(args)
		case "find":
			s.find(args)
		case "gen", "generate":
			s.generate(args)
		case "passwd":
			s.changePassword()
		case "lock":
			s.manager.Lock()
			fmt.Println("Vault locked. Type 'unlock' to continue.")
		case "unlock":
			if !s.manager.IsLocked() {
				fmt.Println("Vault is already unlocked")
				continue
			}
			if err := s.unlock(); err != nil {
				s.report(err)
				continue
			}
			fmt.Println("Vault unlocked")
		case "help", "?":
			printSessionHelp()
		case "exit", "quit", "q":
			return
		default:
			fmt.Printf("Unknown command: %s (try 'help')\n", command)
		}
	}
}

// report prints an error without terminating the session.
func (s *session) report(err error) {
	switch {
	case errors.Is(err, vault.ErrVaultLocked):
		fmt.Println("Vault is locked. Type 'unlock' to continue.")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Println("Incorrect password")
	default:
		fmt.Printf("Error: %s\n", err)
	}
}

func (s *session) list() {
	creds, err := s.manager.List(s.ctx)
	if err != nil {
		s.report(err)
		return
	}
	s.lastList = creds

	if len(creds) == 0 {
		fmt.Println("Vault is empty. Use 'add' to store a credential.")
		return
	}
	for i, cred := range creds {
		name := cred.Name
		if name == "" {
			name = cred.URL
		}
		fmt.Printf("%3d. %-30s %s\n", i+1, name, cred.Username)
	}
}

// resolve maps a numeric argument to the last listing, or treats it as
// a credential id.
func (s *session) resolve(arg string) (*vault.Credential, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.lastList) {
			return nil, fmt.Errorf("no entry %d in the last listing (run 'list' first)", n)
		}
		cred := s.lastList[n-1]
		return &cred, nil
	}
	cred, err := s.manager.Get(s.ctx, arg)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, fmt.Errorf("no credential with id %s", arg)
	}
	return cred, nil
}

func (s *session) show(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: show <number|id>")
		return
	}
	cred, err := s.resolve(args[0])
	if err != nil {
		s.report(err)
		return
	}

	fmt.Printf("Id:       %s\n", cred.ID)
	if cred.Name != "" {
		fmt.Printf("Name:     %s\n", cred.Name)
	}
	fmt.Printf("URL:      %s\n", cred.URL)
	fmt.Printf("Username: %s\n", cred.Username)
	fmt.Printf("Password: %s\n", cred.Password)
	if cred.Notes != "" {
		fmt.Printf("Notes:    %s\n", cred.Notes)
	}
	fmt.Printf("Created:  %s\n", cred.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:  %s\n", cred.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
}

func (s *session) add() {
	url, ok := readLine(s.scanner, "URL: ")
	if !ok {
		return
	}
	username, ok := readLine(s.scanner, "Username: ")
	if !ok {
		return
	}
	name, ok := readLine(s.scanner, "Name (optional): ")
	if !ok {
		return
	}

	password, err := ReadPassword("Password (empty to generate): ")
	if err != nil {
		s.report(err)
		return
	}
	if len(password) == 0 {
		generated, err := generator.Password(generator.DefaultPasswordOptions())
		if err != nil {
			s.report(err)
			return
		}
		password = []byte(generated)
		fmt.Printf("Generated: %s\n", generated)
	}

	notes, ok := readLine(s.scanner, "Notes (optional): ")
	if !ok {
		return
	}

	id, err := s.manager.Add(s.ctx, vault.Credential{
		URL:      url,
		Username: username,
		Password: string(password),
		Name:     name,
		Notes:    notes,
	})
	crypto.ClearBytes(password)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Printf("✓ Added %s\n", id)
}

// edit prompts per field (empty keeps the current value), previews the
// changes as a colorized diff, and asks for confirmation before saving.
func (s *session) edit(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: edit <number|id>")
		return
	}
	cred, err := s.resolve(args[0])
	if err != nil {
		s.report(err)
		return
	}

	fmt.Println("Press Enter to keep the current value.")
	var patch vault.Patch
	var preview []string

	prompt := func(label, current string) (*string, bool) {
		value, ok := readLine(s.scanner, fmt.Sprintf("%s [%s]: ", label, current))
		if !ok {
			return nil, false
		}
		if value == "" || value == current {
			return nil, true
		}
		preview = append(preview, fmt.Sprintf("  %s: %s", label, fieldDiff(current, value)))
		return &value, true
	}

	var ok bool
	if patch.Name, ok = prompt("Name", cred.Name); !ok {
		return
	}
	if patch.URL, ok = prompt("URL", cred.URL); !ok {
		return
	}
	if patch.Username, ok = prompt("Username", cred.Username); !ok {
		return
	}

	password, err := ReadPassword("Password (empty to keep): ")
	if err != nil {
		s.report(err)
		return
	}
	if len(password) > 0 {
		value := string(password)
		patch.Password = &value
		preview = append(preview, "  Password: (changed)")
	}
	crypto.ClearBytes(password)

	if patch.Notes, ok = prompt("Notes", cred.Notes); !ok {
		return
	}

	if len(preview) == 0 {
		fmt.Println("Nothing changed")
		return
	}

	fmt.Println("Changes:")
	for _, line := range preview {
		fmt.Println(line)
	}
	answer, ok := readLine(s.scanner, "Save? [y/N]: ")
	if !ok || !strings.EqualFold(answer, "y") {
		fmt.Println("Discarded")
		return
	}

	found, err := s.manager.Update(s.ctx, cred.ID, patch)
	if err != nil {
		s.report(err)
		return
	}
	if !found {
		fmt.Println("Credential disappeared while editing")
		return
	}
	fmt.Println("✓ Saved")
}

// fieldDiff renders an inline old-vs-new diff with terminal colors,
// red for removed text and green for inserted.
func fieldDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return strings.TrimSuffix(dmp.DiffPrettyText(diffs), "\n")
}

func (s *session) remove(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: rm <number|id>")
		return
	}
	cred, err := s.resolve(args[0])
	if err != nil {
		s.report(err)
		return
	}

	label := cred.Name
	if label == "" {
		label = cred.URL
	}
	answer, ok := readLine(s.scanner, fmt.Sprintf("Delete '%s'? [y/N]: ", label))
	if !ok || !strings.EqualFold(answer, "y") {
		fmt.Println("Cancelled")
		return
	}

	found, err := s.manager.Delete(s.ctx, cred.ID)
	if err != nil {
		s.report(err)
		return
	}
	if !found {
		fmt.Println("Already deleted")
		return
	}
	s.lastList = nil
	fmt.Println("✓ Deleted")
}

func (s *session) find(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: find <url>")
		return
	}
	creds, err := s.manager.FindByURL(s.ctx, args[0])
	if err != nil {
		s.report(err)
		return
	}
	if len(creds) == 0 {
		fmt.Println("No matches")
		return
	}
	s.lastList = creds
	for i, cred := range creds {
		fmt.Printf("%3d. %-30s %s\n", i+1, cred.URL, cred.Username)
	}
}

// generate inside a session supports "gen", "gen phrase" and "gen pin".
func (s *session) generate(args []string) {
	kind := "password"
	if len(args) > 0 {
		kind = args[0]
	}

	switch kind {
	case "password":
		password, err := generator.Password(generator.DefaultPasswordOptions())
		if err != nil {
			s.report(err)
			return
		}
		fmt.Println(password)
		printStrength(password)
	case "phrase", "passphrase":
		phrase, err := generator.Passphrase(generator.PassphraseOptions{})
		if err != nil {
			s.report(err)
			return
		}
		fmt.Println(phrase)
	case "pin":
		pin, err := generator.PIN(generator.PINOptions{})
		if err != nil {
			s.report(err)
			return
		}
		fmt.Println(pin)
	default:
		fmt.Println("Usage: gen [password|phrase|pin]")
	}
}

func (s *session) changePassword() {
	current, err := ReadPassword("Current master password: ")
	if err != nil {
		s.report(err)
		return
	}
	defer crypto.ClearBytes(current)

	newPassword, err := ReadPasswordConfirm()
	if err != nil {
		s.report(err)
		return
	}
	defer crypto.ClearBytes(newPassword)

	if err := s.manager.ChangeMasterPassword(s.ctx, current, newPassword); err != nil {
		s.report(err)
		return
	}
	s.manager.ResetActivity()

	// Old-key ciphertext stays in free pages until the file is rewritten.
	if err := s.store.Compact(); err != nil {
		fmt.Printf("Warning: compaction failed: %s\n", err)
	}
	fmt.Println("✓ Master password changed, all credentials re-encrypted")
	fmt.Println("If the old password is stored in the keyring, run 'secure-vault keyring save' again.")
}

func printSessionHelp() {
	fmt.Println("Commands:")
	fmt.Println("  list              List credentials")
	fmt.Println("  show <n|id>       Show one credential (including the password)")
	fmt.Println("  add               Add a credential")
	fmt.Println("  edit <n|id>       Edit a credential (shows a diff before saving)")
	fmt.Println("  rm <n|id>         Delete a credential")
	fmt.Println("  find <url>        Find credentials matching a URL")
	fmt.Println("  gen [kind]        Generate a password, passphrase or pin")
	fmt.Println("  passwd            Change the master password")
	fmt.Println("  lock / unlock     Lock or unlock the vault")
	fmt.Println("  exit              Lock and leave")
}

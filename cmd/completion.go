package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_secure_vault() {
    local cur prev words cword
    _init_completion || return

    local commands="init open status generate keyring compact help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        generate)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-length -no-upper -no-lower -no-numbers -no-symbols -exclude-ambiguous -exclude-similar -show-strength" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "password phrase pin strength" -- "$cur"))
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _secure_vault secure-vault
`

const zshCompletion = `#compdef secure-vault

_secure_vault() {
    local -a commands
    commands=(
        'init:Create a new vault and set the master password'
        'open:Start an interactive vault session'
        'status:Show vault status without unlocking'
        'generate:Generate passwords, passphrases and PINs'
        'keyring:Manage the master password in the OS keyring'
        'compact:Compact the vault database'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'secure-vault commands' commands
            ;;
        args)
            case "${words[2]}" in
                generate)
                    _values 'kind' password phrase pin strength
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'secure-vault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_secure_vault "$@"
`

const fishCompletion = `# secure-vault fish completions

set -l commands init open status generate keyring compact help completion

complete -c secure-vault -f

# Commands
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new vault'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a open -d 'Start an interactive session'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a generate -d 'Generate passwords'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault database'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c secure-vault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# generate kinds
complete -c secure-vault -n "__fish_seen_subcommand_from generate" -a "password phrase pin strength"

# keyring subcommands
complete -c secure-vault -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c secure-vault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c secure-vault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`

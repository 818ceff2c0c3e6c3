package config

import (
	"regexp"
	"strings"
)

// Scheme names the store a placeholder is resolved against
type Scheme string

const (
	SchemeEnv   Scheme = "env"
	SchemeVault Scheme = "vault"
)

var (
	// ${VAR_NAME}, the form foundry.toml and .env users already write
	bracePattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)
	// env(VAR_NAME)
	envPattern = regexp.MustCompile(`^env\(([A-Za-z_][A-Za-z0-9_]*)\)$`)
	// vault(path/to/secret#key)
	vaultPattern = regexp.MustCompile(`^vault\(([^()#\s]+(?:#[^()#\s]+)?)\)$`)
)

// Placeholder is a parsed secret reference
type Placeholder struct {
	Scheme Scheme
	Name   string
}

func (p Placeholder) String() string {
	if p.Scheme == SchemeVault {
		return "vault(" + p.Name + ")"
	}
	return "${" + p.Name + "}"
}

// ParsePlaceholder recognizes ${VAR}, env(VAR) and vault(path#key)
func ParsePlaceholder(raw string) (Placeholder, bool) {
	raw = strings.TrimSpace(raw)
	if m := bracePattern.FindStringSubmatch(raw); len(m) == 2 {
		return Placeholder{Scheme: SchemeEnv, Name: m[1]}, true
	}
	if m := envPattern.FindStringSubmatch(raw); len(m) == 2 {
		return Placeholder{Scheme: SchemeEnv, Name: m[1]}, true
	}
	if m := vaultPattern.FindStringSubmatch(raw); len(m) == 2 {
		return Placeholder{Scheme: SchemeVault, Name: m[1]}, true
	}
	return Placeholder{}, false
}

// IsPlaceholder reports whether raw is a secret reference rather than a literal
func IsPlaceholder(raw string) bool {
	_, ok := ParsePlaceholder(raw)
	return ok
}

// PlaceholderName derives the conventional env var for a network's signer.
// mainnet -> MAINNET_PRIVATE_KEY, bsc-testnet -> BSC_TESTNET_PRIVATE_KEY
func PlaceholderName(networkName, suffix string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_" + suffix
}

package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ManifestPath string
	DataDir      string

	// Context settings
	Network         string // empty means the manifest default
	CompilerVersion string
	Target          string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Secret source settings
	SecretTimeout  time.Duration
	MemoizeSecrets bool
	EnvFiles       []string
	Vault          VaultSettings

	// Endpoint pre-check settings
	CheckEndpoint   bool
	EndpointTimeout time.Duration
}

// VaultSettings configures the Vault KV v2 secret store; empty Address disables it
type VaultSettings struct {
	Address   string
	Token     string //nolint:gosec // read from the environment, never written
	MountPath string
}

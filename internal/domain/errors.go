package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a configuration failure
type ErrorKind string

const (
	KindUnknownNetwork         ErrorKind = "UnknownNetwork"
	KindUnknownCompilerVersion ErrorKind = "UnknownCompilerVersion"
	KindDuplicateProfile       ErrorKind = "DuplicateProfile"
	KindInvalidNetworkProfile  ErrorKind = "InvalidNetworkProfile"
	KindMissingSigner          ErrorKind = "MissingSigner"
	KindAmbiguousChainID       ErrorKind = "AmbiguousChainId"
	KindInvalidOptimizerRuns   ErrorKind = "InvalidOptimizerRuns"
	KindUnreachableEndpoint    ErrorKind = "UnreachableEndpoint"
	KindSecretUnavailable      ErrorKind = "SecretUnavailable"
)

// Sentinel errors, one per kind. Match with errors.Is.
var (
	ErrUnknownNetwork         = &ConfigurationError{Kind: KindUnknownNetwork}
	ErrUnknownCompilerVersion = &ConfigurationError{Kind: KindUnknownCompilerVersion}
	ErrDuplicateProfile       = &ConfigurationError{Kind: KindDuplicateProfile}
	ErrInvalidNetworkProfile  = &ConfigurationError{Kind: KindInvalidNetworkProfile}
	ErrMissingSigner          = &ConfigurationError{Kind: KindMissingSigner}
	ErrAmbiguousChainID       = &ConfigurationError{Kind: KindAmbiguousChainID}
	ErrInvalidOptimizerRuns   = &ConfigurationError{Kind: KindInvalidOptimizerRuns}
	ErrUnreachableEndpoint    = &ConfigurationError{Kind: KindUnreachableEndpoint}
	ErrSecretUnavailable      = &ConfigurationError{Kind: KindSecretUnavailable}
)

// ErrRegistrySealed is returned when a registry is modified after population
var ErrRegistrySealed = errors.New("registry is sealed")

// ConfigurationError is the single error type surfaced at the resolver boundary.
// Network and Profile name the offending entries, either may be empty.
type ConfigurationError struct {
	Kind        ErrorKind
	Network     string
	Profile     string
	Detail      string
	Suggestions []string
	Err         error
}

// NewConfigurationError builds a ConfigurationError with a formatted detail
func NewConfigurationError(kind ErrorKind, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

// ForNetwork returns a copy scoped to a network
func (e *ConfigurationError) ForNetwork(name string) *ConfigurationError {
	cp := *e
	cp.Network = name
	return &cp
}

// ForProfile returns a copy scoped to a compiler profile
func (e *ConfigurationError) ForProfile(version string) *ConfigurationError {
	cp := *e
	cp.Profile = version
	return &cp
}

// WithSuggestions returns a copy carrying "did you mean" candidates
func (e *ConfigurationError) WithSuggestions(names ...string) *ConfigurationError {
	cp := *e
	cp.Suggestions = append([]string(nil), names...)
	return &cp
}

// Wrap returns a copy carrying an underlying cause
func (e *ConfigurationError) Wrap(err error) *ConfigurationError {
	cp := *e
	cp.Err = err
	return &cp
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	var scope []string
	if e.Network != "" {
		scope = append(scope, fmt.Sprintf("network=%q", e.Network))
	}
	if e.Profile != "" {
		scope = append(scope, fmt.Sprintf("compiler=%q", e.Profile))
	}
	if len(scope) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(scope, ", "))
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?)")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports kind equality so sentinels match any instance of the same kind
func (e *ConfigurationError) Is(target error) bool {
	var other *ConfigurationError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind of a configuration error, or "" for any other error
func KindOf(err error) ErrorKind {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind
	}
	return ""
}

package secrets

import (
	"context"
	"os"
	"strings"
)

// EnvStore reads secrets from process environment variables
type EnvStore struct{}

// NewEnvStore creates an environment variable secret store
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// Lookup treats an exported but empty variable as unset, so later stores in a
// chain still get a chance to answer
func (s *EnvStore) Lookup(_ context.Context, name string) (string, bool, error) {
	value, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false, nil
	}
	return value, true, nil
}

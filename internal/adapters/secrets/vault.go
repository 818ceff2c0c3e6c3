package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// VaultStore reads secrets from a Vault-compatible KV v2 HTTP store.
// Names have the form "path/to/secret#key"; without "#key" the "value" key is read.
type VaultStore struct {
	Address   string
	Token     string
	MountPath string

	client *http.Client
}

// NewVaultStore creates a Vault store
func NewVaultStore(address, token string) *VaultStore {
	return &VaultStore{
		Address:   strings.TrimRight(address, "/"),
		Token:     token,
		MountPath: "secret",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewVaultStoreFromSettings returns nil when no address is configured
func NewVaultStoreFromSettings(s config.VaultSettings) *VaultStore {
	if s.Address == "" {
		return nil
	}
	store := NewVaultStore(s.Address, s.Token)
	if s.MountPath != "" {
		store.MountPath = strings.Trim(s.MountPath, "/")
	}
	return store
}

func (v *VaultStore) Lookup(ctx context.Context, name string) (string, bool, error) {
	path, key := name, "value"
	if idx := strings.Index(name, "#"); idx >= 0 {
		path = name[:idx]
		key = name[idx+1:]
	}
	if path == "" || key == "" {
		return "", false, nil
	}

	// KV v2 read: GET /v1/{mount}/data/{path}
	url := fmt.Sprintf("%s/v1/%s/data/%s", v.Address, v.MountPath, strings.TrimLeft(path, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Vault-Token", v.Token)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("vault request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// body is not echoed, it may carry secret data
		return "", false, fmt.Errorf("vault error (status %d)", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Data map[string]any `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", false, fmt.Errorf("parse vault response: %w", err)
	}

	val, ok := result.Data.Data[key]
	if !ok {
		return "", false, nil
	}

	s, ok := val.(string)
	if !ok {
		return "", false, fmt.Errorf("vault key %q at %s is not a string", key, path)
	}

	return s, true, nil
}

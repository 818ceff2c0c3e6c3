// Package secrets resolves signer and API-key placeholders against out-of-band stores.
package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Store is a single lookup from a placeholder name to a raw secret.
// A missing secret is reported with ok=false and a nil error.
type Store interface {
	Lookup(ctx context.Context, name string) (value string, ok bool, err error)
}

// ChainStore returns the first hit across its stores, in order
type ChainStore []Store

func (c ChainStore) Lookup(ctx context.Context, name string) (string, bool, error) {
	var errs []string
	for _, store := range c {
		value, ok, err := store.Lookup(ctx, name)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if ok {
			return value, true, nil
		}
	}
	if len(errs) > 0 {
		return "", false, fmt.Errorf("secret lookup failed: %s", strings.Join(errs, "; "))
	}
	return "", false, nil
}

// MapStore serves secrets from a fixed map
type MapStore map[string]string

func (m MapStore) Lookup(_ context.Context, name string) (string, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

// Names returns the stored names, sorted
func (m MapStore) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

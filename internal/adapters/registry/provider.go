package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	internalconfig "github.com/trebuchet-org/trebcfg/internal/config"
)

// ProvideNetworkRegistry registers every manifest network and seals the
// registry. All registration failures are reported together.
func ProvideNetworkRegistry(m *internalconfig.Manifest) (*NetworkRegistry, error) {
	r := NewNetworkRegistry(m.LocalChainIDs...)

	var errs []error
	for _, profile := range m.Networks {
		if err := r.Register(profile); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid network configuration: %w", errors.Join(errs...))
	}

	r.Seal()
	return r, nil
}

// ProvideCompilerRegistry registers manifest compilers and overrides and seals the registry
func ProvideCompilerRegistry(m *internalconfig.Manifest) (*CompilerRegistry, error) {
	r := NewCompilerRegistry()

	for _, profile := range m.Compilers {
		if err := r.Register(profile); err != nil {
			return nil, err
		}
	}
	sources := lo.Keys(m.CompilerOverrides)
	sort.Strings(sources)
	for _, source := range sources {
		if err := r.Override(source, m.CompilerOverrides[source]); err != nil {
			return nil, err
		}
	}

	r.Seal()
	return r, nil
}

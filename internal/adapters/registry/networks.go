// Package registry holds the compiler and network profiles declared by a
// manifest. Registries are populated once, sealed, and then only read, so a
// sealed registry can be shared between goroutines without locking.
package registry

import (
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// maxSuggestions bounds the "did you mean" list of UnknownNetwork
const maxSuggestions = 3

// NetworkRegistry stores network profiles by name.
// Register must not be called concurrently.
type NetworkRegistry struct {
	networks map[string]config.NetworkProfile
	byChain  map[uint64][]string
	local    map[uint64]bool
	sealed   bool
}

// NewNetworkRegistry creates an empty registry. With no local chain IDs the
// in-process simulation chain (31337) is the only local one.
func NewNetworkRegistry(localChainIDs ...uint64) *NetworkRegistry {
	if len(localChainIDs) == 0 {
		localChainIDs = []uint64{config.LocalChainID}
	}
	r := &NetworkRegistry{
		networks: make(map[string]config.NetworkProfile),
		byChain:  make(map[uint64][]string),
		local:    make(map[uint64]bool, len(localChainIDs)),
	}
	for _, id := range localChainIDs {
		r.local[id] = true
	}
	return r
}

// Register validates and stores a profile. A name that is already
// registered is rejected; the first definition is kept.
func (r *NetworkRegistry) Register(profile config.NetworkProfile) error {
	if r.sealed {
		return domain.ErrRegistrySealed
	}

	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return domain.NewConfigurationError(domain.KindInvalidNetworkProfile, "network name is required")
	}
	if _, exists := r.networks[profile.Name]; exists {
		return domain.NewConfigurationError(domain.KindDuplicateProfile,
			"network %q is defined more than once", profile.Name).ForNetwork(profile.Name)
	}
	if err := r.validate(profile); err != nil {
		return err
	}

	stored := profile.Clone()
	r.networks[stored.Name] = stored
	r.byChain[stored.ChainID] = append(r.byChain[stored.ChainID], stored.Name)
	return nil
}

func (r *NetworkRegistry) validate(p config.NetworkProfile) error {
	invalid := func(format string, args ...any) error {
		return domain.NewConfigurationError(domain.KindInvalidNetworkProfile, format, args...).ForNetwork(p.Name)
	}

	if p.ChainID == 0 {
		return invalid("chain id is required")
	}
	if err := config.ValidateRPCURL(p.RPCURL, r.IsLocal(p.ChainID)); err != nil {
		return invalid("%v", err)
	}
	if err := config.ValidateGas(p.GasLimit, p.GasPrice); err != nil {
		return invalid("%v", err)
	}
	for _, ref := range p.Accounts {
		if !ref.IsEmpty() && !config.IsPlaceholder(ref.Placeholder) {
			return invalid("account slot %d is not a secret placeholder", ref.Slot)
		}
	}
	if p.Verification.Placeholder != "" && !config.IsPlaceholder(p.Verification.Placeholder) {
		return invalid("verification api key is not a secret placeholder")
	}
	return nil
}

// Get returns a copy of the named profile
func (r *NetworkRegistry) Get(name string) (config.NetworkProfile, error) {
	if p, ok := r.networks[name]; ok {
		return p.Clone(), nil
	}
	return config.NetworkProfile{}, domain.NewConfigurationError(domain.KindUnknownNetwork,
		"network is not defined").ForNetwork(name).WithSuggestions(r.suggest(name)...)
}

// suggest returns close names: a case-insensitive match first, then fuzzy matches
func (r *NetworkRegistry) suggest(name string) []string {
	if name == "" {
		return nil
	}
	names := r.Names()
	var out []string
	for _, n := range names {
		if strings.EqualFold(n, name) {
			out = append(out, n)
		}
	}
	for _, m := range fuzzy.Find(name, names) {
		out = append(out, m.Str)
	}
	out = lo.Uniq(out)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// Names returns the registered names, sorted
func (r *NetworkRegistry) Names() []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// List returns copies of all profiles sorted by name
func (r *NetworkRegistry) List() []config.NetworkProfile {
	return lo.Map(r.Names(), func(name string, _ int) config.NetworkProfile {
		return r.networks[name].Clone()
	})
}

// ByChainID returns every profile declaring chainID, sorted by name
func (r *NetworkRegistry) ByChainID(chainID uint64) []config.NetworkProfile {
	names := slices.Clone(r.byChain[chainID])
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) config.NetworkProfile {
		return r.networks[name].Clone()
	})
}

// IsLocal reports whether chainID is a local development chain
func (r *NetworkRegistry) IsLocal(chainID uint64) bool {
	return r.local[chainID]
}

// Seal freezes the registry
func (r *NetworkRegistry) Seal() {
	r.sealed = true
}


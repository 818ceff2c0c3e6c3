package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// ChainID limits the listing to one chain when non-zero
	ChainID uint64
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents a declared network and what it would need to resolve
type NetworkStatus struct {
	Profile config.NetworkProfile
	Local   bool
	// SharedWith names other non-alias networks on the same chain ID
	SharedWith []string
}

// ListNetworks is a use case for listing declared networks
type ListNetworks struct {
	networks NetworkCatalog
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(networks NetworkCatalog) *ListNetworks {
	return &ListNetworks{
		networks: networks,
	}
}

// Run executes the use case. It never reads secrets.
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	profiles := uc.networks.List()
	if params.ChainID != 0 {
		profiles = uc.networks.ByChainID(params.ChainID)
	}

	networks := make([]NetworkStatus, 0, len(profiles))
	for _, p := range profiles {
		status := NetworkStatus{
			Profile: p,
			Local:   uc.networks.IsLocal(p.ChainID),
		}
		if !p.Alias {
			status.SharedWith = lo.FilterMap(uc.networks.ByChainID(p.ChainID), func(other config.NetworkProfile, _ int) (string, bool) {
				return other.Name, other.Name != p.Name && !other.Alias
			})
		}
		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}

package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// DefaultProbeTimeout bounds one endpoint probe
const DefaultProbeTimeout = 10 * time.Second

// CheckerAdapter probes an RPC endpoint with eth_chainId
type CheckerAdapter struct {
	timeout time.Duration
}

// NewCheckerAdapter creates a new endpoint checker
func NewCheckerAdapter(cfg *config.RuntimeConfig) *CheckerAdapter {
	timeout := DefaultProbeTimeout
	if cfg != nil && cfg.EndpointTimeout > 0 {
		timeout = cfg.EndpointTimeout
	}
	return &CheckerAdapter{timeout: timeout}
}

// CheckEndpoint dials rpcURL and verifies that it serves chainID
func (c *CheckerAdapter) CheckEndpoint(ctx context.Context, rpcURL string, chainID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	// Verify chain ID matches
	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if networkChainID.Uint64() != chainID {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	}

	return nil
}

// Ensure the adapter implements the interface
var _ usecase.EndpointChecker = (*CheckerAdapter)(nil)

package usecase

import (
	"context"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// NetworkCatalog is the read side of the network profile registry
type NetworkCatalog interface {
	Get(name string) (config.NetworkProfile, error)
	Names() []string
	List() []config.NetworkProfile
	ByChainID(chainID uint64) []config.NetworkProfile
	IsLocal(chainID uint64) bool
}

// CompilerCatalog is the read side of the compiler profile registry
type CompilerCatalog interface {
	Active(target config.BuildTarget) (config.CompilerProfile, error)
	List() []config.CompilerProfile
	Overrides() map[string]string
}

// SecretSource resolves signer and API-key placeholders
type SecretSource interface {
	Resolve(ctx context.Context, placeholder string) config.SecretResolution
}

// EndpointChecker probes an RPC endpoint for the expected chain
type EndpointChecker interface {
	CheckEndpoint(ctx context.Context, rpcURL string, chainID uint64) error
}

// Progress tracking interfaces

// ProgressStage names what a long-running step is doing
type ProgressStage string

const (
	StageResolving       ProgressStage = "resolving"
	StageProbingEndpoint ProgressStage = "probing_endpoint"
	StageDone            ProgressStage = "done"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ProgressStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

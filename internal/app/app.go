package app

import (
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	ResolveConfig *usecase.ResolveConfig
	ListNetworks  *usecase.ListNetworks
	ListCompilers *usecase.ListCompilers

	// Shared dependencies
	Progress usecase.ProgressSink
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	resolveConfig *usecase.ResolveConfig,
	listNetworks *usecase.ListNetworks,
	listCompilers *usecase.ListCompilers,
	progress usecase.ProgressSink,
) (*App, error) {
	return &App{
		Config:        cfg,
		ResolveConfig: resolveConfig,
		ListNetworks:  listNetworks,
		ListCompilers: listCompilers,
		Progress:      progress,
	}, nil
}

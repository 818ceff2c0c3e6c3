//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/trebcfg/internal/adapters"
	internalconfig "github.com/trebuchet-org/trebcfg/internal/config"
	"github.com/trebuchet-org/trebcfg/internal/logging"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		internalconfig.Provider,
		internalconfig.ProvideManifest,

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewValidateConfig,
		usecase.NewResolveConfig,
		usecase.NewListNetworks,
		usecase.NewListCompilers,

		// App
		NewApp,
	)
	return nil, nil
}

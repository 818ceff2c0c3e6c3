package adapters

import (
	"github.com/google/wire"

	"github.com/trebuchet-org/trebcfg/internal/adapters/blockchain"
	"github.com/trebuchet-org/trebcfg/internal/adapters/progress"
	"github.com/trebuchet-org/trebcfg/internal/adapters/registry"
	"github.com/trebuchet-org/trebcfg/internal/adapters/secrets"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// RegistrySet provides the sealed profile registries
var RegistrySet = wire.NewSet(
	registry.ProvideNetworkRegistry,
	wire.Bind(new(usecase.NetworkCatalog), new(*registry.NetworkRegistry)),

	registry.ProvideCompilerRegistry,
	wire.Bind(new(usecase.CompilerCatalog), new(*registry.CompilerRegistry)),
)

// SecretsSet provides the placeholder resolver
var SecretsSet = wire.NewSet(
	secrets.ProvideSource,
	wire.Bind(new(usecase.SecretSource), new(*secrets.Source)),
)

// BlockchainSet provides the endpoint pre-check
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.EndpointChecker), new(*blockchain.CheckerAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.ProvideProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RegistrySet,
	SecretsSet,
	BlockchainSet,
	ProgressSet,
)

package secrets

import (
	"log/slog"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/logging"
)

// ProvideSource builds the Source for the runtime configuration. ${VAR}
// placeholders are read from the process environment first, then from the
// configured dotenv files; vault(...) placeholders need a Vault address.
func ProvideSource(cfg *config.RuntimeConfig, redactor *logging.RedactHandler, log *slog.Logger) (*Source, error) {
	dotenv, err := NewDotenvStore(cfg.EnvFiles...)
	if err != nil {
		return nil, err
	}

	stores := map[config.Scheme]Store{
		config.SchemeEnv: ChainStore{NewEnvStore(), dotenv},
	}
	if vault := NewVaultStoreFromSettings(cfg.Vault); vault != nil {
		stores[config.SchemeVault] = vault
	}

	opts := []Option{
		WithTimeout(cfg.SecretTimeout),
		WithLogger(log.With("component", "secrets")),
	}
	if redactor != nil {
		opts = append(opts, WithRedactor(redactor))
	}
	if cfg.MemoizeSecrets {
		opts = append(opts, WithMemoization())
	}

	log.Debug("secret source ready", "dotenv_entries", dotenv.Len(), "vault", cfg.Vault.Address != "")
	return NewSource(stores, opts...), nil
}

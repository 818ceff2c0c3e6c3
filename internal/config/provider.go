package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// DataDirName holds local, uncommitted settings next to the manifest
const DataDirName = ".trebcfg"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	manifestPath := v.GetString("manifest")
	projectRoot := v.GetString("project_root")

	switch {
	case manifestPath != "":
		abs, err := filepath.Abs(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
		}
		manifestPath = abs
		if projectRoot == "" {
			projectRoot = filepath.Dir(abs)
		}
	default:
		start := projectRoot
		if start == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			start = wd
		}
		// a missing manifest is reported by the commands that need one
		if found, err := FindManifest(start); err == nil {
			manifestPath = found
			projectRoot = filepath.Dir(found)
		} else if projectRoot == "" {
			projectRoot = start
		}
	}

	var envFiles []string
	for _, f := range v.GetStringSlice("env_files") {
		if !filepath.IsAbs(f) {
			f = filepath.Join(projectRoot, f)
		}
		envFiles = append(envFiles, f)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		ManifestPath:    manifestPath,
		DataDir:         filepath.Join(projectRoot, DataDirName),
		Network:         v.GetString("network"),
		CompilerVersion: v.GetString("compiler_version"),
		Target:          v.GetString("target"),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		SecretTimeout:   v.GetDuration("secret_timeout"),
		MemoizeSecrets:  v.GetBool("memoize_secrets"),
		EnvFiles:        envFiles,
		Vault: config.VaultSettings{
			Address:   v.GetString("vault.address"),
			Token:     v.GetString("vault.token"),
			MountPath: v.GetString("vault.mount"),
		},
		CheckEndpoint:   v.GetBool("check_endpoint"),
		EndpointTimeout: v.GetDuration("endpoint_timeout"),
	}

	return cfg, nil
}

// SetupViper creates and configures a viper instance. Precedence, lowest
// first: defaults, .trebcfg/config.local.json, TREBCFG_* environment, flags.
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	if projectRoot != "" {
		v.AddConfigPath(filepath.Join(projectRoot, DataDirName))
	}

	// Set up environment variables
	v.SetEnvPrefix("TREBCFG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Standard Vault variables are honoured as well
	_ = v.BindEnv("vault.address", "TREBCFG_VAULT_ADDRESS", "VAULT_ADDR")
	_ = v.BindEnv("vault.token", "TREBCFG_VAULT_TOKEN", "VAULT_TOKEN")

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("timeout", "1m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("secret_timeout", "5s")
	v.SetDefault("memoize_secrets", true)
	v.SetDefault("env_files", []string{".env", ".env.local"})
	v.SetDefault("vault.mount", "secret")
	v.SetDefault("endpoint_timeout", "10s")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}

// FindProjectRoot walks up from the working directory to the manifest
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := FindManifest(dir)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// ProvideManifest loads the manifest named by the runtime configuration
func ProvideManifest(cfg *config.RuntimeConfig) (*Manifest, error) {
	if cfg.ManifestPath == "" {
		return nil, fmt.Errorf("no manifest found (looked for %s); pass --manifest", strings.Join(ManifestNames, ", "))
	}

	env, err := readEnvFiles(cfg.EnvFiles)
	if err != nil {
		return nil, err
	}
	return LoadManifest(cfg.ManifestPath, WithEnv(env))
}

// readEnvFiles parses dotenv files without exporting them; later files win
func readEnvFiles(files []string) (map[string]string, error) {
	env := make(map[string]string)
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, val := range values {
			env[k] = val
		}
	}
	return env, nil
}

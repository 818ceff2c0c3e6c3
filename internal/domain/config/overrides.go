package config

// Overrides are caller-supplied values that win over registry defaults.
// A nil pointer leaves the registry value untouched.
type Overrides struct {
	RPCURL        *string
	GasLimit      *GasValue
	GasPrice      *GasValue
	OptimizerRuns *RunCount

	// CheckEndpoint enables the connectivity pre-check
	CheckEndpoint bool
}

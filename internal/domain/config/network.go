package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// LocalChainID is the reserved chain ID of the in-process simulation network
const LocalChainID uint64 = 31337

// NetworkProfile is a named blockchain endpoint definition
type NetworkProfile struct {
	Name         string          `json:"name"`
	ChainID      uint64          `json:"chainId"`
	RPCURL       string          `json:"rpcUrl,omitempty"`
	GasLimit     GasValue        `json:"gasLimit"`
	GasPrice     GasValue        `json:"gasPrice"`
	Accounts     []SignerRef     `json:"accounts"`
	Alias        bool            `json:"alias,omitempty"`
	ExplorerURL  string          `json:"explorerUrl,omitempty"`
	Verification VerificationRef `json:"verification"`
}

// Clone returns a deep copy
func (n NetworkProfile) Clone() NetworkProfile {
	n.Accounts = slices.Clone(n.Accounts)
	return n
}

// SignerRef points at key material that is looked up only at resolution time.
// An empty Placeholder is an unfilled slot.
type SignerRef struct {
	Slot        int    `json:"slot"`
	Placeholder string `json:"placeholder"`
}

// IsEmpty reports whether the slot carries no placeholder
func (s SignerRef) IsEmpty() bool {
	return strings.TrimSpace(s.Placeholder) == ""
}

// VerificationRef points at the block explorer API key for a network
type VerificationRef struct {
	APIURL      string `json:"apiUrl,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// GasValue is either "auto" (the zero value) or a fixed amount
type GasValue struct {
	fixed  bool
	amount int64
}

// AutoGas lets the deployment pipeline estimate the value
func AutoGas() GasValue {
	return GasValue{}
}

// FixedGas returns a fixed gas value
func FixedGas(amount int64) GasValue {
	return GasValue{fixed: true, amount: amount}
}

// ParseGasValue parses "auto" or a decimal integer
func ParseGasValue(s string) (GasValue, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoGas(), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return GasValue{}, fmt.Errorf("gas value must be \"auto\" or an integer, got %q", s)
	}
	return FixedGas(n), nil
}

// IsAuto reports whether the value is left to estimation
func (g GasValue) IsAuto() bool {
	return !g.fixed
}

// Amount returns the fixed amount, 0 for auto
func (g GasValue) Amount() int64 {
	return g.amount
}

func (g GasValue) String() string {
	if !g.fixed {
		return "auto"
	}
	return strconv.FormatInt(g.amount, 10)
}

func (g GasValue) MarshalJSON() ([]byte, error) {
	if !g.fixed {
		return []byte(`"auto"`), nil
	}
	return []byte(strconv.FormatInt(g.amount, 10)), nil
}

func (g *GasValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseGasValue(s)
		if err != nil {
			return err
		}
		*g = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("gas value must be \"auto\" or an integer: %w", err)
	}
	*g = FixedGas(n)
	return nil
}

// Set implements pflag.Value
func (g *GasValue) Set(s string) error {
	v, err := ParseGasValue(s)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Type implements pflag.Value
func (g *GasValue) Type() string {
	return "gas"
}

// ValidateRPCURL requires an absolute http(s) or ws(s) URL. An empty URL is
// only accepted for local chains, where it names the in-process chain.
func ValidateRPCURL(raw string, local bool) error {
	if raw == "" {
		if local {
			return nil
		}
		return errors.New("rpc url is required for non-local networks")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("rpc url is malformed")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss":
	default:
		return errors.New("rpc url must use http, https, ws or wss")
	}
	if u.Host == "" {
		return errors.New("rpc url has no host")
	}
	return nil
}

// ValidateGas rejects negative values; a numeric gas limit must be positive
func ValidateGas(limit, price GasValue) error {
	if !limit.IsAuto() && limit.Amount() <= 0 {
		return fmt.Errorf("gas limit must be positive, got %s", limit)
	}
	if !price.IsAuto() && price.Amount() < 0 {
		return fmt.Errorf("gas price must not be negative, got %s", price)
	}
	return nil
}

// DisplayURL reduces an RPC URL to scheme and host. Provider URLs often carry
// an API key in the path, query or userinfo.
func DisplayURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}
	return u.Scheme + "://" + u.Host
}

package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// DefaultSolidityVersion is used when a manifest declares no compilers
const DefaultSolidityVersion = "0.8.4"

// CompilerProfile is one compiler version plus optimizer settings
type CompilerProfile struct {
	Version          string   `json:"version"`
	OptimizerEnabled bool     `json:"optimizerEnabled"`
	OptimizerRuns    RunCount `json:"optimizerRuns"`
}

// BuildTarget selects the compiler profile for one build invocation.
// CompilerVersion wins over Source, which is matched against per-source overrides.
type BuildTarget struct {
	Name            string `json:"name,omitempty"`
	Source          string `json:"source,omitempty"`
	CompilerVersion string `json:"compilerVersion,omitempty"`
}

// RunCount holds the optimizer run count exactly as parsed, so that negative
// or fractional values survive until validation decides whether they matter.
type RunCount struct {
	value float64
	set   bool
}

// NewRunCount returns a RunCount for an integral value
func NewRunCount(n int64) RunCount {
	return RunCount{value: float64(n), set: true}
}

// RawRunCount returns a RunCount for any parsed number
func RawRunCount(v float64) RunCount {
	return RunCount{value: v, set: true}
}

// ParseRunCount parses a decimal number
func ParseRunCount(s string) (RunCount, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RunCount{}, fmt.Errorf("invalid optimizer runs %q: %w", s, err)
	}
	return RawRunCount(v), nil
}

// Raw returns the parsed value
func (r RunCount) Raw() float64 {
	return r.value
}

// Uint returns the run count if it is a non-negative integer
func (r RunCount) Uint() (uint64, bool) {
	if !r.set {
		return 0, true
	}
	if r.value < 0 || math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value != math.Trunc(r.value) {
		return 0, false
	}
	return uint64(r.value), true
}

func (r RunCount) String() string {
	if !r.set {
		return "-"
	}
	return strconv.FormatFloat(r.value, 'f', -1, 64)
}

func (r RunCount) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.value, 'f', -1, 64)), nil
}

func (r *RunCount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RunCount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("optimizer runs must be a number: %w", err)
	}
	*r = RawRunCount(v)
	return nil
}

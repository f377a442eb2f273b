// Package quantity converts Kubernetes resource quantity strings into
// canonical numeric values: cores for CPU, gigabytes for memory.
//
// The suffix table is deliberately fixed. Decimal SI suffixes (k, M, G)
// and exponent forms are rejected rather than guessed at, so a typo in a
// manifest surfaces as an error instead of a silently wrong cost estimate.
package quantity

import (
	"fmt"
	"strconv"
	"strings"
)

// memoryMultipliers maps binary suffixes to gigabytes
var memoryMultipliers = []struct {
	suffix     string
	multiplier float64
}{
	{"Ki", 1.0 / (1024 * 1024)},
	{"Mi", 1.0 / 1024},
	{"Gi", 1},
	{"Ti", 1024},
}

// ParseCPU parses a CPU quantity string into cores.
// "500m" -> 0.5, "2" -> 2.
func ParseCPU(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cpu quantity")
	}

	if strings.HasSuffix(s, "m") {
		milli, err := strconv.ParseFloat(strings.TrimSuffix(s, "m"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cpu quantity %q: %w", s, err)
		}
		return milli / 1000, nil
	}

	cores, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cpu quantity %q: %w", s, err)
	}
	return cores, nil
}

// ParseMemory parses a memory or storage quantity string into gigabytes.
// "2Gi" -> 2, "1024Mi" -> 1, a bare number is taken as already being GB.
func ParseMemory(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty memory quantity")
	}

	for _, m := range memoryMultipliers {
		if strings.HasSuffix(s, m.suffix) {
			value, err := strconv.ParseFloat(strings.TrimSuffix(s, m.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid memory quantity %q: %w", s, err)
			}
			return value * m.multiplier, nil
		}
	}

	gb, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory quantity %q: unrecognized suffix", s)
	}
	return gb, nil
}

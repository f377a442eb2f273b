// Package pricing defines the fixed cost tables used by the cost analyzer.
// Tables are explicit values threaded in at construction time so tests and
// alternate deployments can substitute their own rates.
package pricing

import "github.com/k1dory/telecom-deploy/pkg/config"

// Table holds monthly rates in currency units.
type Table struct {
	CPUCoreMonthly   float64 // per CPU core
	MemoryGBMonthly  float64 // per GB of RAM
	StorageGBMonthly float64 // per GB of persistent storage
	SpotDiscount     float64 // price multiplier for spot capacity
}

// Default returns the fallback on-prem rate card.
func Default() Table {
	return Table{
		CPUCoreMonthly:   1500,
		MemoryGBMonthly:  600,
		StorageGBMonthly: 50,
		SpotDiscount:     0.65,
	}
}

// FromConfig builds a table from the application configuration.
func FromConfig(cfg *config.Config) Table {
	return Table{
		CPUCoreMonthly:   cfg.CPUCostMonthly,
		MemoryGBMonthly:  cfg.MemoryCostMonthly,
		StorageGBMonthly: cfg.StorageCostMonthly,
		SpotDiscount:     cfg.SpotDiscount,
	}
}

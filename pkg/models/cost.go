package models

import "time"

// ChangeType represents the type of optimization change
type ChangeType string

const (
	ChangeReduceCPU      ChangeType = "reduce_cpu"
	ChangeReduceMemory   ChangeType = "reduce_memory"
	ChangeReduceReplicas ChangeType = "reduce_replicas"
	ChangeEnableSpot     ChangeType = "enable_spot"
	ChangeOptimizeHPA    ChangeType = "optimize_hpa"
)

// OptimizationChange is a single proposed edit to a named manifest.
// Changes are produced by a decision source (the built-in advisor or an
// external caller) and applied verbatim by the cost analyzer.
type OptimizationChange struct {
	ID             string     `json:"id,omitempty"`
	Type           ChangeType `json:"type"`
	Target         string     `json:"target"`
	From           string     `json:"from"`
	To             string     `json:"to"`
	SavingsMonthly float64    `json:"savings"`
	Reason         string     `json:"reason"`
}

// DocumentSummary is the plain-data view of one manifest document handed to
// the optimization decision source.
type DocumentSummary struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Replicas int    `json:"replicas,omitempty"`
	CPU      string `json:"cpu,omitempty"`
	Memory   string `json:"memory,omitempty"`
}

// CostReport is the result of one cost analysis run
type CostReport struct {
	ID                 string               `json:"id,omitempty"`
	CurrentMonthlyCost float64              `json:"current_cost_monthly"`
	OptimizedMonthly   float64              `json:"optimized_cost_monthly"`
	SavingsMonthly     float64              `json:"savings_monthly"`
	SavingsYearly      float64              `json:"savings_yearly"`
	SavingsPercent     float64              `json:"savings_percentage"`
	Changes            []OptimizationChange `json:"optimizations"`
	Recommendations    []string             `json:"recommendations"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

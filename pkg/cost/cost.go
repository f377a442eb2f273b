// Package cost estimates monthly infrastructure cost for a set of manifests
// and applies proposed optimization edits. The analyzer is deliberately
// tolerant of partial data: one corrupt file never invalidates the aggregate
// estimate.
package cost

import (
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/pricing"
	"github.com/k1dory/telecom-deploy/pkg/quantity"
	"github.com/k1dory/telecom-deploy/pkg/telemetry"
)

// Defaults assumed when a container omits its requests, matching the
// scheduler's practical floor for unconstrained pods.
const (
	defaultCPURequest    = "100m"
	defaultMemoryRequest = "128Mi"
	defaultStorage       = "1Gi"
)

// Analyzer computes manifest costs against a fixed pricing table.
type Analyzer struct {
	pricing pricing.Table
}

// New creates a cost analyzer with the given pricing table.
func New(table pricing.Table) *Analyzer {
	return &Analyzer{pricing: table}
}

// CurrentCost computes the total monthly cost of a manifest set. Deployments
// contribute per-replica CPU and memory request cost; PersistentVolumeClaims
// contribute storage cost. Malformed files and unrecognized kinds are
// skipped with a warning. An empty set costs exactly zero.
func (a *Analyzer) CurrentCost(manifests map[string]string) float64 {
	total := 0.0

	for filename, content := range manifests {
		if !manifest.IsYAML(filename) {
			continue
		}

		docs, err := manifest.DecodeAll(content)
		if err != nil {
			slog.Warn("skipping malformed manifest in cost calculation", "file", filename, "error", err)
			telemetry.DocumentsSkipped.WithLabelValues("cost").Inc()
			continue
		}

		for _, doc := range docs {
			switch manifest.Kind(doc) {
			case "Deployment":
				total += a.deploymentCost(filename, doc)
			case "PersistentVolumeClaim":
				total += a.claimCost(filename, doc)
			}
		}
	}

	return round2(total)
}

func (a *Analyzer) deploymentCost(filename string, doc manifest.Document) float64 {
	replicas := float64(manifest.Int(doc, 1, "spec", "replicas"))
	cost := 0.0

	for _, container := range manifest.Maps(doc, "spec", "template", "spec", "containers") {
		cpu := manifest.String(container, "resources", "requests", "cpu")
		if cpu == "" {
			cpu = defaultCPURequest
		}
		cores, err := quantity.ParseCPU(cpu)
		if err != nil {
			slog.Warn("skipping container with bad cpu request", "file", filename, "cpu", cpu, "error", err)
			telemetry.DocumentsSkipped.WithLabelValues("cost").Inc()
			continue
		}

		memory := manifest.String(container, "resources", "requests", "memory")
		if memory == "" {
			memory = defaultMemoryRequest
		}
		gb, err := quantity.ParseMemory(memory)
		if err != nil {
			slog.Warn("skipping container with bad memory request", "file", filename, "memory", memory, "error", err)
			telemetry.DocumentsSkipped.WithLabelValues("cost").Inc()
			continue
		}

		cost += cores*a.pricing.CPUCoreMonthly*replicas + gb*a.pricing.MemoryGBMonthly*replicas
	}

	return cost
}

func (a *Analyzer) claimCost(filename string, doc manifest.Document) float64 {
	storage := manifest.String(doc, "spec", "resources", "requests", "storage")
	if storage == "" {
		storage = defaultStorage
	}
	gb, err := quantity.ParseMemory(storage)
	if err != nil {
		slog.Warn("skipping claim with bad storage request", "file", filename, "storage", storage, "error", err)
		telemetry.DocumentsSkipped.WithLabelValues("cost").Inc()
		return 0
	}
	return gb * a.pricing.StorageGBMonthly
}

// Summarize extracts the plain-data view of every document, for the
// optimization decision source. Malformed files are skipped.
func (a *Analyzer) Summarize(manifests map[string]string) []models.DocumentSummary {
	var summaries []models.DocumentSummary

	for filename, content := range manifests {
		if !manifest.IsYAML(filename) {
			continue
		}
		docs, err := manifest.DecodeAll(content)
		if err != nil {
			slog.Warn("skipping malformed manifest in summary", "file", filename, "error", err)
			continue
		}
		for _, doc := range docs {
			summary := models.DocumentSummary{
				Kind: manifest.Kind(doc),
				Name: manifest.Name(doc),
			}
			if summary.Kind == "Deployment" {
				summary.Replicas = manifest.Int(doc, 1, "spec", "replicas")
				if containers := manifest.Maps(doc, "spec", "template", "spec", "containers"); len(containers) > 0 {
					summary.CPU = manifest.String(containers[0], "resources", "requests", "cpu")
					summary.Memory = manifest.String(containers[0], "resources", "requests", "memory")
				}
			}
			summaries = append(summaries, summary)
		}
	}

	return summaries
}

// Analyze runs the full optimize-and-recost loop: current cost, apply the
// proposed changes, recost, report.
func (a *Analyzer) Analyze(manifests map[string]string, changes []models.OptimizationChange, recommendations []string) (*models.CostReport, map[string]string, error) {
	current := a.CurrentCost(manifests)

	optimized, err := a.ApplyChanges(manifests, changes)
	if err != nil {
		return nil, nil, err
	}
	optimizedCost := a.CurrentCost(optimized)

	savings := round2(current - optimizedCost)
	report := &models.CostReport{
		ID:                 uuid.New().String(),
		CurrentMonthlyCost: current,
		OptimizedMonthly:   optimizedCost,
		SavingsMonthly:     savings,
		SavingsYearly:      round2(savings * 12),
		Changes:            changes,
		Recommendations:    recommendations,
		GeneratedAt:        time.Now(),
	}
	if current > 0 {
		report.SavingsPercent = math.Round(savings/current*1000) / 10
	}

	telemetry.AnalysesTotal.WithLabelValues("cost").Inc()
	return report, optimized, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

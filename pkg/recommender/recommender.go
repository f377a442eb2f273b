package recommender

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/k1dory/telecom-deploy/pkg/catalog"
	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/pricing"
	"github.com/k1dory/telecom-deploy/pkg/quantity"
	"github.com/k1dory/telecom-deploy/pkg/telemetry"
)

// ClusterType selects which rule set applies when advising on a manifest set.
type ClusterType string

const (
	Production  ClusterType = "production"
	Staging     ClusterType = "staging"
	Development ClusterType = "development"
)

const (
	productionMinReplicas = 3
	stagingMaxReplicas    = 2
	stagingRequestTrim    = 0.7
	developmentTrim       = 0.5
)

// Recommender produces optimization changes from fixed per-environment rules:
// production keeps critical components at full replica count, staging caps
// replicas at 2 and trims requests by 30%, development runs single replicas
// with halved requests and flags non-critical workloads for spot capacity.
type Recommender struct {
	pricing pricing.Table
}

func New(table pricing.Table) *Recommender {
	return &Recommender{pricing: table}
}

// ParseClusterType validates a user-supplied cluster type string.
func ParseClusterType(s string) (ClusterType, error) {
	switch ClusterType(s) {
	case Production, Staging, Development:
		return ClusterType(s), nil
	}
	return "", fmt.Errorf("unknown cluster type %q (expected production, staging or development)", s)
}

// Advise walks every Deployment in the manifest set and returns the changes
// the rules call for, plus human-readable notes explaining what was left
// alone and why. Files are visited in filename order so output is stable.
func (r *Recommender) Advise(clusterType ClusterType, manifests map[string]string) ([]models.OptimizationChange, []string) {
	var changes []models.OptimizationChange
	var notes []string

	filenames := make([]string, 0, len(manifests))
	for filename := range manifests {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		if !manifest.IsYAML(filename) {
			continue
		}
		docs, err := manifest.DecodeAll(manifests[filename])
		if err != nil {
			slog.Warn("skipping malformed manifest in advisor", "file", filename, "error", err)
			telemetry.DocumentsSkipped.WithLabelValues("advisor").Inc()
			continue
		}
		for _, doc := range docs {
			if manifest.Kind(doc) != "Deployment" {
				continue
			}
			c, n := r.adviseDeployment(clusterType, doc)
			changes = append(changes, c...)
			notes = append(notes, n...)
		}
	}

	telemetry.AnalysesTotal.WithLabelValues("advisor").Inc()
	return changes, notes
}

func (r *Recommender) adviseDeployment(clusterType ClusterType, doc manifest.Document) ([]models.OptimizationChange, []string) {
	name := manifest.Name(doc)
	if name == "" {
		return nil, nil
	}
	replicas := manifest.Int(doc, 1, "spec", "replicas")
	critical := isCritical(doc)
	cpu, mem := containerRequests(doc)

	var changes []models.OptimizationChange
	var notes []string

	switch clusterType {
	case Production:
		if critical {
			notes = append(notes, fmt.Sprintf(
				"%s: critical component, keeping %d replicas and current requests for HA", name, replicas))
			break
		}
		if spot := r.spotChange(name, replicas, cpu, mem); spot != nil {
			changes = append(changes, *spot)
		}

	case Staging:
		newReplicas := replicas
		if replicas > stagingMaxReplicas {
			newReplicas = stagingMaxReplicas
			changes = append(changes, r.replicaChange(name, replicas, newReplicas, cpu, mem))
		}
		changes = append(changes, r.requestChanges(name, newReplicas, cpu, mem, stagingRequestTrim,
			"staging environment does not need production headroom")...)

	case Development:
		newReplicas := replicas
		if replicas > 1 {
			newReplicas = 1
			changes = append(changes, r.replicaChange(name, replicas, newReplicas, cpu, mem))
		}
		changes = append(changes, r.requestChanges(name, newReplicas, cpu, mem, developmentTrim,
			"development workloads run at half requests")...)
		if !critical {
			if spot := r.spotChange(name, newReplicas, cpu*developmentTrim, mem*developmentTrim); spot != nil {
				changes = append(changes, *spot)
			}
		}
	}

	return changes, notes
}

func (r *Recommender) replicaChange(name string, from, to int, cpu, mem float64) models.OptimizationChange {
	perReplica := cpu*r.pricing.CPUCoreMonthly + mem*r.pricing.MemoryGBMonthly
	return models.OptimizationChange{
		ID:             uuid.NewString(),
		Type:           models.ChangeReduceReplicas,
		Target:         name,
		From:           strconv.Itoa(from),
		To:             strconv.Itoa(to),
		SavingsMonthly: round2(perReplica * float64(from-to)),
		Reason:         "replica count above the environment baseline",
	}
}

func (r *Recommender) requestChanges(name string, replicas int, cpu, mem, factor float64, reason string) []models.OptimizationChange {
	var changes []models.OptimizationChange

	newCPU := cpu * factor
	if cpuSavings := (cpu - newCPU) * r.pricing.CPUCoreMonthly * float64(replicas); cpuSavings >= 1 {
		changes = append(changes, models.OptimizationChange{
			ID:             uuid.NewString(),
			Type:           models.ChangeReduceCPU,
			Target:         name,
			From:           formatCPU(cpu),
			To:             formatCPU(newCPU),
			SavingsMonthly: round2(cpuSavings),
			Reason:         reason,
		})
	}

	newMem := mem * factor
	if memSavings := (mem - newMem) * r.pricing.MemoryGBMonthly * float64(replicas); memSavings >= 1 {
		changes = append(changes, models.OptimizationChange{
			ID:             uuid.NewString(),
			Type:           models.ChangeReduceMemory,
			Target:         name,
			From:           formatMemory(mem),
			To:             formatMemory(newMem),
			SavingsMonthly: round2(memSavings),
			Reason:         reason,
		})
	}

	return changes
}

func (r *Recommender) spotChange(name string, replicas int, cpu, mem float64) *models.OptimizationChange {
	monthly := (cpu*r.pricing.CPUCoreMonthly + mem*r.pricing.MemoryGBMonthly) * float64(replicas)
	savings := monthly * (1 - r.pricing.SpotDiscount)
	if savings < 1 {
		return nil
	}
	return &models.OptimizationChange{
		ID:             uuid.NewString(),
		Type:           models.ChangeEnableSpot,
		Target:         name,
		From:           "on-demand",
		To:             "spot",
		SavingsMonthly: round2(savings),
		Reason:         "non-critical workload can tolerate spot interruption",
	}
}

// isCritical resolves the component label against the catalog; deployments
// without a known component label are treated as non-critical.
func isCritical(doc manifest.Document) bool {
	component := manifest.String(doc, "metadata", "labels", "component")
	if component == "" {
		return false
	}
	if !catalog.Known(component) {
		return false
	}
	return catalog.Lookup(component).Critical
}

// containerRequests sums the cpu (cores) and memory (GB) requests across all
// containers in a Deployment's pod template, using the same defaults as the
// cost model for containers that declare nothing.
func containerRequests(doc manifest.Document) (float64, float64) {
	var cpu, mem float64
	for _, c := range manifest.Maps(doc, "spec", "template", "spec", "containers") {
		cpuStr := manifest.String(c, "resources", "requests", "cpu")
		if cpuStr == "" {
			cpuStr = "100m"
		}
		memStr := manifest.String(c, "resources", "requests", "memory")
		if memStr == "" {
			memStr = "128Mi"
		}
		if v, err := quantity.ParseCPU(cpuStr); err == nil {
			cpu += v
		}
		if v, err := quantity.ParseMemory(memStr); err == nil {
			mem += v
		}
	}
	return cpu, mem
}

func formatCPU(cores float64) string {
	millis := int64(math.Round(cores * 1000))
	if millis%1000 == 0 {
		return strconv.FormatInt(millis/1000, 10)
	}
	return fmt.Sprintf("%dm", millis)
}

func formatMemory(gb float64) string {
	mi := int64(math.Round(gb * 1024))
	if mi%1024 == 0 {
		return fmt.Sprintf("%dGi", mi/1024)
	}
	return fmt.Sprintf("%dMi", mi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1dory/telecom-deploy/pkg/config"
	"github.com/k1dory/telecom-deploy/pkg/cost"
	"github.com/k1dory/telecom-deploy/pkg/generator"
	"github.com/k1dory/telecom-deploy/pkg/pricing"
	"github.com/k1dory/telecom-deploy/pkg/recommender"
	"github.com/k1dory/telecom-deploy/pkg/security"
)

// The full pipeline needs no cluster: generate manifests for a telecom
// component, feed them through the advisor and cost model, re-scan the
// optimized set, and confirm the reports are consistent with each other.

func testConfig() *config.Config {
	return &config.Config{
		NetworkBase:        "10.100",
		DockerRegistry:     "registry.telecom.local",
		DockerOrganization: "telecom",
		DefaultImageTag:    "latest",
		TrustedRegistries:  []string{"registry.telecom.local", "docker.io/library"},
		CPUCostMonthly:     1500,
		MemoryCostMonthly:  600,
		StorageCostMonthly: 50,
		SpotDiscount:       0.65,
		OutputDir:          "./output",
	}
}

func TestGenerateCostSecurityPipeline(t *testing.T) {
	cfg := testConfig()
	gen, err := generator.New(cfg)
	require.NoError(t, err)

	manifests, err := gen.Generate("5g_upf", "moscow-upf", "telecom", nil)
	require.NoError(t, err)
	require.Contains(t, manifests, "deployment.yaml")
	require.Contains(t, manifests, "service.yaml")
	require.Contains(t, manifests, "hpa.yaml")
	require.Contains(t, manifests, "pvc.yaml")

	table := pricing.FromConfig(cfg)
	analyzer := cost.New(table)

	baseline := analyzer.CurrentCost(manifests)
	require.Greater(t, baseline, 0.0)

	// Staging rules must find something to trim on a production-grade UPF.
	changes, notes := recommender.New(table).Advise(recommender.Staging, manifests)
	require.NotEmpty(t, changes)

	report, optimized, err := analyzer.Analyze(manifests, changes, notes)
	require.NoError(t, err)
	assert.Equal(t, baseline, report.CurrentMonthlyCost)
	assert.Less(t, report.OptimizedMonthly, report.CurrentMonthlyCost)
	assert.InDelta(t, report.SavingsMonthly*12, report.SavingsYearly, 0.1)

	// The optimized set must still be valid YAML the security scanner accepts.
	scanner := security.New(cfg.TrustedRegistries)
	secReport := scanner.Analyze(optimized, nil, nil, nil)
	assert.GreaterOrEqual(t, secReport.Score, 0)
	assert.LessOrEqual(t, secReport.Score, 100)
	assert.True(t, secReport.Checks.ResourceLimitsSet, "generated deployments always carry limits")
	assert.NotEmpty(t, secReport.Checks.TrustedImages, "generated images come from the configured registry")

	// Re-costing the optimized set reproduces the optimized figure.
	assert.InDelta(t, report.OptimizedMonthly, analyzer.CurrentCost(optimized), 0.01)
}

func TestBillingPipelineKeepsSecretsPlaceholder(t *testing.T) {
	cfg := testConfig()
	gen, err := generator.New(cfg)
	require.NoError(t, err)

	manifests, err := gen.Generate("billing", "billing", "telecom", nil)
	require.NoError(t, err)
	require.Contains(t, manifests, "secret.yaml")

	scanner := security.New(cfg.TrustedRegistries)
	checks := scanner.Scan(manifests)
	assert.Empty(t, checks.SecretsInEnv, "generated env wiring must reference secrets, never inline values")
}

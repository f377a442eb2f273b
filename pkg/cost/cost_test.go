package cost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/pricing"
)

const billingDeployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: billing
  namespace: telecom
spec:
  replicas: 3
  template:
    spec:
      containers:
      - name: billing
        image: registry.telecom.local/telecom/billing:latest
        resources:
          requests:
            cpu: "1"
            memory: 2Gi
`

const storageClaim = `apiVersion: v1
kind: PersistentVolumeClaim
metadata:
  name: billing-pvc
spec:
  resources:
    requests:
      storage: 10Gi
`

func testAnalyzer() *Analyzer {
	return New(pricing.Table{
		CPUCoreMonthly:   1500,
		MemoryGBMonthly:  600,
		StorageGBMonthly: 50,
		SpotDiscount:     0.65,
	})
}

func TestCurrentCostEmptySet(t *testing.T) {
	a := testAnalyzer()
	assert.Equal(t, 0.0, a.CurrentCost(map[string]string{}))
	assert.Equal(t, 0.0, a.CurrentCost(nil))
}

func TestCurrentCostSingleDeployment(t *testing.T) {
	a := testAnalyzer()

	cost := a.CurrentCost(map[string]string{"deployment.yaml": billingDeployment})
	// (1 core * 1500 + 2 GB * 600) * 3 replicas
	assert.Equal(t, 8100.0, cost)
}

func TestCurrentCostWithStorage(t *testing.T) {
	a := testAnalyzer()

	cost := a.CurrentCost(map[string]string{
		"deployment.yaml": billingDeployment,
		"pvc.yaml":        storageClaim,
	})
	assert.Equal(t, 8100.0+500.0, cost)
}

func TestCurrentCostDefaultsWhenAbsent(t *testing.T) {
	a := testAnalyzer()

	minimal := `kind: Deployment
metadata:
  name: tiny
spec:
  template:
    spec:
      containers:
      - name: tiny
`
	// replicas default 1, cpu 100m, memory 128Mi
	want := 0.1*1500 + 0.125*600
	assert.InDelta(t, want, a.CurrentCost(map[string]string{"d.yaml": minimal}), 0.01)
}

func TestCurrentCostSkipsMalformed(t *testing.T) {
	a := testAnalyzer()

	cost := a.CurrentCost(map[string]string{
		"deployment.yaml": billingDeployment,
		"broken.yaml":     "kind: [unterminated\n",
		"notes.txt":       "not a manifest",
	})
	assert.Equal(t, 8100.0, cost, "corrupt and non-YAML files must not poison the aggregate")
}

func TestSummarize(t *testing.T) {
	a := testAnalyzer()

	summaries := a.Summarize(map[string]string{
		"deployment.yaml": billingDeployment,
		"pvc.yaml":        storageClaim,
	})
	require.Len(t, summaries, 2)

	byName := map[string]models.DocumentSummary{}
	for _, s := range summaries {
		byName[s.Name] = s
	}
	assert.Equal(t, "Deployment", byName["billing"].Kind)
	assert.Equal(t, 3, byName["billing"].Replicas)
	assert.Equal(t, "1", byName["billing"].CPU)
	assert.Equal(t, "2Gi", byName["billing"].Memory)
	assert.Equal(t, "PersistentVolumeClaim", byName["billing-pvc"].Kind)
}

func TestApplyChangesMissingTargetIsNoop(t *testing.T) {
	a := testAnalyzer()

	input := map[string]string{"deployment.yaml": billingDeployment, "pvc.yaml": storageClaim}
	out, err := a.ApplyChanges(input, []models.OptimizationChange{
		{Type: models.ChangeReduceReplicas, Target: "not-here", To: "1"},
	})
	require.NoError(t, err)

	for filename, content := range input {
		assert.Equal(t, content, out[filename], "untouched file %s must stay byte-identical", filename)
	}
}

func TestApplyChangesReduceReplicas(t *testing.T) {
	a := testAnalyzer()

	out, err := a.ApplyChanges(map[string]string{"deployment.yaml": billingDeployment},
		[]models.OptimizationChange{
			{Type: models.ChangeReduceReplicas, Target: "billing", From: "3", To: "2"},
		})
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(out["deployment.yaml"])
	require.NoError(t, err)
	assert.Equal(t, 2, manifest.Int(docs[0], 0, "spec", "replicas"))
	// Unrelated fields survive the round trip.
	assert.Equal(t, "telecom", manifest.String(docs[0], "metadata", "namespace"))
	assert.Equal(t, "2Gi", manifest.String(
		manifest.Maps(docs[0], "spec", "template", "spec", "containers")[0],
		"resources", "requests", "memory"))
}

func TestApplyChangesReduceResources(t *testing.T) {
	a := testAnalyzer()

	out, err := a.ApplyChanges(map[string]string{"deployment.yaml": billingDeployment},
		[]models.OptimizationChange{
			{Type: models.ChangeReduceCPU, Target: "billing", To: "500m"},
			{Type: models.ChangeReduceMemory, Target: "billing", To: "1Gi"},
		})
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(out["deployment.yaml"])
	require.NoError(t, err)
	c := manifest.Maps(docs[0], "spec", "template", "spec", "containers")[0]
	assert.Equal(t, "500m", manifest.String(c, "resources", "requests", "cpu"))
	assert.Equal(t, "1Gi", manifest.String(c, "resources", "requests", "memory"))
}

func TestApplyChangesCreatesRequestsMap(t *testing.T) {
	a := testAnalyzer()

	bare := `kind: Deployment
metadata:
  name: bare
spec:
  template:
    spec:
      containers:
      - name: app
`
	out, err := a.ApplyChanges(map[string]string{"d.yaml": bare},
		[]models.OptimizationChange{{Type: models.ChangeReduceCPU, Target: "bare", To: "250m"}})
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(out["d.yaml"])
	require.NoError(t, err)
	c := manifest.Maps(docs[0], "spec", "template", "spec", "containers")[0]
	assert.Equal(t, "250m", manifest.String(c, "resources", "requests", "cpu"))
}

func TestApplyChangesUnknownTypeFails(t *testing.T) {
	a := testAnalyzer()

	input := map[string]string{"deployment.yaml": billingDeployment}
	_, err := a.ApplyChanges(input, []models.OptimizationChange{
		{Type: "teleport_pods", Target: "billing", To: "1"},
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "teleport_pods"))
}

func TestApplyChangesSpotIsAdvisory(t *testing.T) {
	a := testAnalyzer()

	input := map[string]string{"deployment.yaml": billingDeployment}
	out, err := a.ApplyChanges(input, []models.OptimizationChange{
		{Type: models.ChangeEnableSpot, Target: "billing", To: "spot"},
	})
	require.NoError(t, err)
	assert.Equal(t, input["deployment.yaml"], out["deployment.yaml"])
}

func TestAnalyzeReport(t *testing.T) {
	a := testAnalyzer()

	manifests := map[string]string{"deployment.yaml": billingDeployment}
	report, optimized, err := a.Analyze(manifests, []models.OptimizationChange{
		{Type: models.ChangeReduceReplicas, Target: "billing", From: "3", To: "1"},
	}, []string{"consider spot for staging"})
	require.NoError(t, err)

	assert.Equal(t, 8100.0, report.CurrentMonthlyCost)
	assert.Equal(t, 2700.0, report.OptimizedMonthly)
	assert.Equal(t, 5400.0, report.SavingsMonthly)
	assert.Equal(t, 64800.0, report.SavingsYearly)
	assert.InDelta(t, 66.7, report.SavingsPercent, 0.01)
	assert.NotEmpty(t, report.ID)
	assert.Len(t, report.Recommendations, 1)

	// Input map untouched.
	assert.Equal(t, billingDeployment, manifests["deployment.yaml"])
	assert.NotEqual(t, manifests["deployment.yaml"], optimized["deployment.yaml"])
}

func TestAnalyzeZeroCostNoDivisionByZero(t *testing.T) {
	a := testAnalyzer()

	report, _, err := a.Analyze(map[string]string{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.CurrentMonthlyCost)
	assert.Equal(t, 0.0, report.SavingsPercent)
}

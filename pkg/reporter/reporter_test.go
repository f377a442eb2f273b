package reporter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

func sampleCostReport() *models.CostReport {
	return &models.CostReport{
		ID:                 "11111111-2222-3333-4444-555555555555",
		CurrentMonthlyCost: 8100,
		OptimizedMonthly:   5400,
		SavingsMonthly:     2700,
		SavingsYearly:      32400,
		SavingsPercent:     33.3,
		Changes: []models.OptimizationChange{
			{Type: models.ChangeReduceReplicas, Target: "billing", From: "3", To: "2", SavingsMonthly: 2700, Reason: "staging baseline"},
		},
		Recommendations: []string{"move batch jobs to spot"},
		GeneratedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleSecurityReport() *models.SecurityReport {
	return &models.SecurityReport{
		ID:    "66666666-7777-8888-9999-000000000000",
		Score: 75,
		Grade: "B",
		Checks: &models.SecurityChecks{
			SecurityContextPresent: true,
		},
		CriticalIssues: []models.SecurityIssue{
			{Issue: "Resource limits missing", Severity: "high", Affected: "billing", Mitigation: "set limits"},
		},
		Warnings: []models.SecurityWarning{{Warning: "image tag not pinned", Recommendation: "pin to digest"}},
		AutoFixes: []models.AutoFix{
			{Issue: "Resource limits missing", FixType: models.FixAddResourceLimits, AutoApplicable: true,
				KubectlCommand: "kubectl set resources deployment billing --limits=cpu=1,memory=1Gi --requests=cpu=100m,memory=128Mi"},
		},
		Compliance: map[string]bool{
			"pod_security_baseline":   true,
			"pod_security_restricted": false,
			"zero_trust_ready":        false,
		},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "markdown", "json"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(f))
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCostText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatText).WriteCost(&buf, sampleCostReport()))

	out := buf.String()
	assert.Contains(t, out, "$8100.00/month")
	assert.Contains(t, out, "$5400.00/month")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "reduce_replicas")
	assert.Contains(t, out, "move batch jobs to spot")
}

func TestWriteCostMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatMarkdown).WriteCost(&buf, sampleCostReport()))

	out := buf.String()
	assert.Contains(t, out, "# Cost Analysis")
	assert.Contains(t, out, "| Current cost | $8100.00/month |")
	assert.Contains(t, out, "| reduce_replicas | billing | 3 | 2 |")
}

func TestWriteCostJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON).WriteCost(&buf, sampleCostReport()))

	var decoded models.CostReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 8100.0, decoded.CurrentMonthlyCost)
	assert.Len(t, decoded.Changes, 1)
}

func TestWriteSecurityText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatText).WriteSecurity(&buf, sampleSecurityReport()))

	out := buf.String()
	assert.Contains(t, out, "75/100")
	assert.Contains(t, out, "grade B")
	assert.Contains(t, out, "pod_security_baseline")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Resource limits missing")
	assert.Contains(t, out, "1 auto-applicable")
}

func TestWriteSecurityMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatMarkdown).WriteSecurity(&buf, sampleSecurityReport()))

	out := buf.String()
	assert.Contains(t, out, "# Security Analysis")
	assert.Contains(t, out, "grade B")
	assert.Contains(t, out, "| pod_security_baseline | ✅ |")
	assert.Contains(t, out, "kubectl set resources")
}

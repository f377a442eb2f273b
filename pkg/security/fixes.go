package security

import (
	"fmt"
	"strings"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

// DetermineFixType classifies an issue by keyword matching on its text.
func DetermineFixType(issue models.SecurityIssue) models.FixType {
	text := strings.ToLower(issue.Issue)

	switch {
	case strings.Contains(text, "security context") || strings.Contains(text, "runasnonroot"):
		return models.FixAddSecurityContext
	case strings.Contains(text, "privileged"):
		return models.FixRemovePrivileged
	case strings.Contains(text, "secret") || strings.Contains(text, "password"):
		return models.FixMoveToSecret
	case strings.Contains(text, "network policy"):
		return models.FixAddNetworkPolicy
	case strings.Contains(text, "resource limit"):
		return models.FixAddResourceLimits
	default:
		return models.FixManualReview
	}
}

// autoApplicable fix types can be rolled out without a human deciding what
// the replacement value should be.
func autoApplicable(fixType models.FixType) bool {
	switch fixType {
	case models.FixAddSecurityContext, models.FixAddResourceLimits, models.FixAddNetworkPolicy:
		return true
	}
	return false
}

// kubectlCommand renders the remediation command for fix types that have a
// mechanical patch. Fix types needing judgement return an empty string.
func kubectlCommand(fixType models.FixType, affected string) string {
	switch fixType {
	case models.FixAddSecurityContext:
		return fmt.Sprintf(`kubectl patch deployment %s --type=json -p='[{"op":"add","path":"/spec/template/spec/securityContext","value":{"runAsNonRoot":true,"runAsUser":1000}}]'`, affected)
	case models.FixRemovePrivileged:
		return fmt.Sprintf(`kubectl patch deployment %s --type=json -p='[{"op":"remove","path":"/spec/template/spec/containers/0/securityContext/privileged"}]'`, affected)
	case models.FixAddResourceLimits:
		return fmt.Sprintf("kubectl set resources deployment %s --limits=cpu=1,memory=1Gi --requests=cpu=100m,memory=128Mi", affected)
	}
	return ""
}

// BuildFixes derives a remediation candidate from every critical issue.
func BuildFixes(critical []models.SecurityIssue) []models.AutoFix {
	fixes := make([]models.AutoFix, 0, len(critical))
	for _, issue := range critical {
		fixType := DetermineFixType(issue)
		fixes = append(fixes, models.AutoFix{
			Issue:          issue.Issue,
			Severity:       issue.Severity,
			Affected:       issue.Affected,
			FixType:        fixType,
			AutoApplicable: autoApplicable(fixType),
			KubectlCommand: kubectlCommand(fixType, issue.Affected),
		})
	}
	return fixes
}

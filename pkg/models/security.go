package models

import "time"

// SecurityChecks is the record of structural facts extracted from a manifest
// set. List fields name the offending deployment/container; boolean fields
// say whether at least one scanned container satisfies the check, except
// ServiceAccountSet which requires every scanned deployment to declare a
// non-default service account.
type SecurityChecks struct {
	SecurityContextPresent bool     `json:"security_context_present"`
	RunAsNonRoot           bool     `json:"run_as_non_root"`
	PrivilegedContainers   []string `json:"privileged_containers"`
	HostNetworkUsage       []string `json:"host_network_usage"`
	HostPathVolumes        []string `json:"host_path_volumes"`
	SecretsInEnv           []string `json:"secrets_in_env"`
	CapabilitiesAdded      []string `json:"capabilities_added"`
	ResourceLimitsSet      bool     `json:"resource_limits_set"`
	ReadinessProbesSet     bool     `json:"readiness_probes_set"`
	LivenessProbesSet      bool     `json:"liveness_probes_set"`
	NetworkPoliciesPresent bool     `json:"network_policies_present"`
	ServiceAccountSet      bool     `json:"service_account_set"`
	TrustedImages          []string `json:"trusted_registry"`
	UntrustedImages        []string `json:"untrusted_images"`
}

// SecurityIssue is one externally-supplied critical finding
type SecurityIssue struct {
	Issue      string `json:"issue"`
	Severity   string `json:"severity"`
	Affected   string `json:"affected"`
	Mitigation string `json:"mitigation,omitempty"`
}

// SecurityWarning is a lower-severity finding
type SecurityWarning struct {
	Warning        string `json:"warning"`
	Recommendation string `json:"recommendation,omitempty"`
}

// FixType classifies how a security issue can be remediated
type FixType string

const (
	FixAddSecurityContext FixType = "add_security_context"
	FixRemovePrivileged   FixType = "remove_privileged"
	FixMoveToSecret       FixType = "move_to_secret"
	FixAddNetworkPolicy   FixType = "add_network_policy"
	FixAddResourceLimits  FixType = "add_resource_limits"
	FixManualReview       FixType = "manual_review_required"
)

// AutoFix is a remediation candidate derived from a critical issue
type AutoFix struct {
	Issue          string  `json:"issue"`
	Severity       string  `json:"severity"`
	Affected       string  `json:"affected"`
	FixType        FixType `json:"fix_type"`
	AutoApplicable bool    `json:"auto_applicable"`
	KubectlCommand string  `json:"kubectl_command,omitempty"`
}

// SecurityReport is the result of one security analysis run
type SecurityReport struct {
	ID              string            `json:"id,omitempty"`
	Score           int               `json:"security_score"`
	Grade           string            `json:"grade"`
	Checks          *SecurityChecks   `json:"basic_checks"`
	CriticalIssues  []SecurityIssue   `json:"critical_issues"`
	Warnings        []SecurityWarning `json:"warnings"`
	Recommendations []string          `json:"recommendations"`
	AutoFixes       []AutoFix         `json:"auto_fixes"`
	Compliance      map[string]bool   `json:"compliance"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

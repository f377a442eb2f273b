// Package security extracts structural security facts from a manifest set
// and turns them into a bounded score, a letter grade and compliance flags.
// It never talks to a cluster; everything is computed from the YAML text.
package security

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/telemetry"
)

// Analyzer scans manifest sets against a fixed registry allow-list.
type Analyzer struct {
	trustedRegistries []string
}

func New(trustedRegistries []string) *Analyzer {
	return &Analyzer{trustedRegistries: trustedRegistries}
}

// Scan walks every Deployment and NetworkPolicy in the set and records the
// structural facts scoring is based on. Malformed files are logged and
// skipped so one corrupt manifest cannot sink the whole scan.
func (a *Analyzer) Scan(manifests map[string]string) *models.SecurityChecks {
	checks := &models.SecurityChecks{
		PrivilegedContainers: []string{},
		HostNetworkUsage:     []string{},
		HostPathVolumes:      []string{},
		SecretsInEnv:         []string{},
		CapabilitiesAdded:    []string{},
		TrustedImages:        []string{},
		UntrustedImages:      []string{},
	}

	deployments := 0
	withServiceAccount := 0

	for filename, content := range manifests {
		if !manifest.IsYAML(filename) {
			continue
		}
		docs, err := manifest.DecodeAll(content)
		if err != nil {
			slog.Warn("skipping malformed manifest in security scan", "file", filename, "error", err)
			telemetry.DocumentsSkipped.WithLabelValues("security").Inc()
			continue
		}

		for _, doc := range docs {
			switch manifest.Kind(doc) {
			case "Deployment":
				deployments++
				if a.scanDeployment(doc, checks) {
					withServiceAccount++
				}
			case "NetworkPolicy":
				checks.NetworkPoliciesPresent = true
			}
		}
	}

	// Every scanned deployment must carry a dedicated service account.
	checks.ServiceAccountSet = deployments > 0 && withServiceAccount == deployments

	return checks
}

// scanDeployment records per-deployment facts and reports whether the pod
// template declares a non-default service account.
func (a *Analyzer) scanDeployment(doc manifest.Document, checks *models.SecurityChecks) bool {
	name := manifest.Name(doc)
	if name == "" {
		name = "unnamed"
	}
	podSpec := manifest.Map(doc, "spec", "template", "spec")
	if podSpec == nil {
		return false
	}

	if podSecurity := manifest.Map(podSpec, "securityContext"); podSecurity != nil {
		checks.SecurityContextPresent = true
		if manifest.Bool(podSecurity, "runAsNonRoot") {
			checks.RunAsNonRoot = true
		}
	}

	for _, container := range manifest.Maps(podSpec, "containers") {
		containerName := manifest.String(container, "name")
		if containerName == "" {
			containerName = "unnamed"
		}
		ref := name + "/" + containerName

		if manifest.Bool(container, "securityContext", "privileged") {
			checks.PrivilegedContainers = append(checks.PrivilegedContainers, ref)
		}
		for _, added := range manifest.Strings(container, "securityContext", "capabilities", "add") {
			checks.CapabilitiesAdded = append(checks.CapabilitiesAdded, fmt.Sprintf("%s: %s", ref, added))
		}
		if manifest.Map(container, "resources", "limits") != nil {
			checks.ResourceLimitsSet = true
		}
		if manifest.Map(container, "readinessProbe") != nil {
			checks.ReadinessProbesSet = true
		}
		if manifest.Map(container, "livenessProbe") != nil {
			checks.LivenessProbesSet = true
		}

		if image := manifest.String(container, "image"); image != "" {
			if a.trustedImage(image) {
				checks.TrustedImages = append(checks.TrustedImages, image)
			} else {
				checks.UntrustedImages = append(checks.UntrustedImages, fmt.Sprintf("%s: %s", name, image))
			}
		}

		for _, env := range manifest.Maps(container, "env") {
			envName := strings.ToUpper(manifest.String(env, "name"))
			if !strings.Contains(envName, "SECRET") && !strings.Contains(envName, "PASSWORD") {
				continue
			}
			// A secretKeyRef is fine; a literal value is a finding.
			if _, hardcoded := env["value"]; hardcoded {
				checks.SecretsInEnv = append(checks.SecretsInEnv, fmt.Sprintf("%s: %s", ref, manifest.String(env, "name")))
			}
		}
	}

	if manifest.Bool(podSpec, "hostNetwork") {
		checks.HostNetworkUsage = append(checks.HostNetworkUsage, name)
	}
	for _, volume := range manifest.Maps(podSpec, "volumes") {
		if hostPath := manifest.Map(volume, "hostPath"); hostPath != nil {
			checks.HostPathVolumes = append(checks.HostPathVolumes,
				fmt.Sprintf("%s: %s", name, manifest.String(hostPath, "path")))
		}
	}

	sa := manifest.String(podSpec, "serviceAccountName")
	return sa != "" && sa != "default"
}

func (a *Analyzer) trustedImage(image string) bool {
	for _, registry := range a.trustedRegistries {
		if strings.Contains(image, registry) {
			return true
		}
	}
	return false
}

// Score starts at 100, subtracts fixed penalties per finding and per missing
// structural safeguard, and clamps to [0, 100].
func Score(checks *models.SecurityChecks, critical []models.SecurityIssue, warnings []models.SecurityWarning) int {
	score := 100

	score -= len(critical) * 15
	score -= len(warnings) * 5

	if !checks.SecurityContextPresent {
		score -= 10
	}
	if !checks.RunAsNonRoot {
		score -= 10
	}
	if len(checks.PrivilegedContainers) > 0 {
		score -= 20
	}
	if len(checks.SecretsInEnv) > 0 {
		score -= 15
	}
	if !checks.ResourceLimitsSet {
		score -= 10
	}
	if !checks.NetworkPoliciesPresent {
		score -= 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Grade maps a score to a letter band.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// Compliance derives the standard flags from a basic-checks record.
func Compliance(checks *models.SecurityChecks) map[string]bool {
	baseline := checks.SecurityContextPresent && len(checks.PrivilegedContainers) == 0
	restricted := baseline &&
		checks.RunAsNonRoot &&
		checks.ResourceLimitsSet &&
		len(checks.HostNetworkUsage) == 0

	return map[string]bool{
		"pod_security_baseline":   baseline,
		"pod_security_restricted": restricted,
		"zero_trust_ready":        checks.NetworkPoliciesPresent && checks.ServiceAccountSet,
	}
}

// Analyze runs the full pipeline: scan, score, grade, compliance and fix
// derivation. Critical issues, warnings and recommendations come from an
// external decision source and are folded into the report as-is.
func (a *Analyzer) Analyze(manifests map[string]string, critical []models.SecurityIssue, warnings []models.SecurityWarning, recommendations []string) *models.SecurityReport {
	checks := a.Scan(manifests)
	score := Score(checks, critical, warnings)

	telemetry.AnalysesTotal.WithLabelValues("security").Inc()

	return &models.SecurityReport{
		ID:              uuid.NewString(),
		Score:           score,
		Grade:           Grade(score),
		Checks:          checks,
		CriticalIssues:  critical,
		Warnings:        warnings,
		Recommendations: recommendations,
		AutoFixes:       BuildFixes(critical),
		Compliance:      Compliance(checks),
		GeneratedAt:     time.Now().UTC(),
	}
}

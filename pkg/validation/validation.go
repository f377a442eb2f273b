// Package validation checks caller-supplied identifiers and lints manifest
// text for obvious security problems before deeper analysis.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// RFC 1123 DNS label: lowercase alphanumeric plus hyphens, alphanumeric at
// both ends.
var dnsLabelPattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

const maxNameLength = 253

// ResourceName validates a Kubernetes resource name. resourceType only
// flavors the error message.
func ResourceName(name, resourceType string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", resourceType)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%s name too long: %d chars (max %d)", resourceType, len(name), maxNameLength)
	}
	if !dnsLabelPattern.MatchString(name) {
		return fmt.Errorf(
			"invalid %s name %q: must be lowercase alphanumeric with hyphens, starting and ending with an alphanumeric character",
			resourceType, name)
	}
	return nil
}

// Namespace validates a Kubernetes namespace name.
func Namespace(namespace string) error {
	return ResourceName(namespace, "namespace")
}

// LintResult collects warnings from a quick textual manifest check.
type LintResult struct {
	Warnings        []string
	Recommendations []string
}

// Clean reports whether the lint found nothing.
func (r *LintResult) Clean() bool {
	return len(r.Warnings) == 0
}

var hardcodedPasswordPattern = regexp.MustCompile(`(?i)(stringData|data):\s*\n\s*password:\s*["']?[^"'\s]{5,}`)

// LintManifest runs cheap textual checks over one manifest blob. It is a
// fast pre-filter, not a substitute for the structural security scan.
func LintManifest(content string) *LintResult {
	result := &LintResult{}

	if hardcodedPasswordPattern.MatchString(content) {
		result.Warnings = append(result.Warnings, "hardcoded password found in manifest")
		result.Recommendations = append(result.Recommendations, "store credentials in a managed secret, not manifest text")
	}

	if strings.Contains(content, "runAsNonRoot: false") {
		result.Warnings = append(result.Warnings, "container runs as root")
		result.Recommendations = append(result.Recommendations, "set runAsNonRoot: true unless the workload genuinely needs root")
	}

	if !strings.Contains(content, "resources:") || !strings.Contains(content, "limits:") {
		result.Warnings = append(result.Warnings, "resource limits missing")
		result.Recommendations = append(result.Recommendations, "add CPU and memory limits")
	}

	if strings.Contains(content, "privileged: true") {
		result.Warnings = append(result.Warnings, "privileged mode in use")
		result.Recommendations = append(result.Recommendations, "grant specific capabilities instead of privileged mode")
	}

	return result
}

// Package reporter renders cost and security reports for humans and for
// machine consumers. Three formats are supported: plain text for terminals,
// markdown for tickets and wikis, JSON for anything downstream.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

// Format represents the output format
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q (expected text, markdown or json)", s)
}

// Reporter renders reports in a fixed format
type Reporter struct {
	format Format
}

// New creates a new reporter
func New(format Format) *Reporter {
	return &Reporter{format: format}
}

// WriteCost renders a cost report
func (r *Reporter) WriteCost(w io.Writer, report *models.CostReport) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatMarkdown:
		return writeCostMarkdown(w, report)
	default:
		return writeCostText(w, report)
	}
}

// WriteSecurity renders a security report
func (r *Reporter) WriteSecurity(w io.Writer, report *models.SecurityReport) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatMarkdown:
		return writeSecurityMarkdown(w, report)
	default:
		return writeSecurityText(w, report)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCostText(w io.Writer, report *models.CostReport) error {
	fmt.Fprintf(w, "Cost Analysis %s\n", report.ID)
	fmt.Fprintf(w, "  Current:   $%.2f/month\n", report.CurrentMonthlyCost)
	fmt.Fprintf(w, "  Optimized: $%.2f/month\n", report.OptimizedMonthly)
	fmt.Fprintf(w, "  Savings:   $%.2f/month ($%.2f/year, %.1f%%)\n",
		report.SavingsMonthly, report.SavingsYearly, report.SavingsPercent)

	if len(report.Changes) > 0 {
		fmt.Fprintf(w, "\nChanges (%d):\n", len(report.Changes))
		for _, change := range report.Changes {
			fmt.Fprintf(w, "  - [%s] %s: %s -> %s (saves $%.2f/month)\n",
				change.Type, change.Target, change.From, change.To, change.SavingsMonthly)
			if change.Reason != "" {
				fmt.Fprintf(w, "    %s\n", change.Reason)
			}
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}

	return nil
}

func writeSecurityText(w io.Writer, report *models.SecurityReport) error {
	fmt.Fprintf(w, "Security Analysis %s\n", report.ID)
	fmt.Fprintf(w, "  Score: %d/100 (grade %s)\n", report.Score, report.Grade)

	fmt.Fprintf(w, "\nCompliance:\n")
	for _, name := range complianceOrder {
		status := "FAIL"
		if report.Compliance[name] {
			status = "PASS"
		}
		fmt.Fprintf(w, "  %-26s %s\n", name, status)
	}

	if len(report.CriticalIssues) > 0 {
		fmt.Fprintf(w, "\nCritical issues (%d):\n", len(report.CriticalIssues))
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(w, "  - [%s] %s (%s)\n", issue.Severity, issue.Issue, issue.Affected)
			if issue.Mitigation != "" {
				fmt.Fprintf(w, "    mitigation: %s\n", issue.Mitigation)
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(report.Warnings))
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning.Warning)
		}
	}

	autoFixable := 0
	for _, fix := range report.AutoFixes {
		if fix.AutoApplicable {
			autoFixable++
		}
	}
	if len(report.AutoFixes) > 0 {
		fmt.Fprintf(w, "\nFixes (%d, %d auto-applicable):\n", len(report.AutoFixes), autoFixable)
		for _, fix := range report.AutoFixes {
			fmt.Fprintf(w, "  - %s: %s\n", fix.FixType, fix.Issue)
			if fix.KubectlCommand != "" {
				fmt.Fprintf(w, "    %s\n", fix.KubectlCommand)
			}
		}
	}

	return nil
}

// complianceOrder keeps compliance output stable across runs.
var complianceOrder = []string{
	"pod_security_baseline",
	"pod_security_restricted",
	"zero_trust_ready",
}

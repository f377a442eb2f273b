package reporter

import (
	"fmt"
	"io"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

func writeCostMarkdown(w io.Writer, report *models.CostReport) error {
	fmt.Fprintf(w, "# Cost Analysis\n\n")
	fmt.Fprintf(w, "Report `%s`, generated %s\n\n", report.ID, report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(w, "| Current cost | $%.2f/month |\n", report.CurrentMonthlyCost)
	fmt.Fprintf(w, "| Optimized cost | $%.2f/month |\n", report.OptimizedMonthly)
	fmt.Fprintf(w, "| Monthly savings | $%.2f |\n", report.SavingsMonthly)
	fmt.Fprintf(w, "| Yearly savings | $%.2f |\n", report.SavingsYearly)
	fmt.Fprintf(w, "| Savings | %.1f%% |\n", report.SavingsPercent)

	if len(report.Changes) > 0 {
		fmt.Fprintf(w, "\n## Changes\n\n")
		fmt.Fprintf(w, "| Type | Target | From | To | Savings/month | Reason |\n|---|---|---|---|---|---|\n")
		for _, change := range report.Changes {
			fmt.Fprintf(w, "| %s | %s | %s | %s | $%.2f | %s |\n",
				change.Type, change.Target, change.From, change.To, change.SavingsMonthly, change.Reason)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\n## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "- %s\n", rec)
		}
	}

	return nil
}

func writeSecurityMarkdown(w io.Writer, report *models.SecurityReport) error {
	fmt.Fprintf(w, "# Security Analysis\n\n")
	fmt.Fprintf(w, "Report `%s`, generated %s\n\n", report.ID, report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "**Score: %d/100 — grade %s**\n\n", report.Score, report.Grade)

	fmt.Fprintf(w, "## Compliance\n\n")
	fmt.Fprintf(w, "| Standard | Status |\n|---|---|\n")
	for _, name := range complianceOrder {
		status := "❌"
		if report.Compliance[name] {
			status = "✅"
		}
		fmt.Fprintf(w, "| %s | %s |\n", name, status)
	}

	if len(report.CriticalIssues) > 0 {
		fmt.Fprintf(w, "\n## Critical issues\n\n")
		fmt.Fprintf(w, "| Severity | Issue | Affected | Mitigation |\n|---|---|---|---|\n")
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				issue.Severity, issue.Issue, issue.Affected, issue.Mitigation)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\n## Warnings\n\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "- %s", warning.Warning)
			if warning.Recommendation != "" {
				fmt.Fprintf(w, " (%s)", warning.Recommendation)
			}
			fmt.Fprintln(w)
		}
	}

	if len(report.AutoFixes) > 0 {
		fmt.Fprintf(w, "\n## Fixes\n\n")
		for _, fix := range report.AutoFixes {
			marker := "manual"
			if fix.AutoApplicable {
				marker = "auto"
			}
			fmt.Fprintf(w, "- **%s** (%s): %s\n", fix.FixType, marker, fix.Issue)
			if fix.KubectlCommand != "" {
				fmt.Fprintf(w, "  ```\n  %s\n  ```\n", fix.KubectlCommand)
			}
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\n## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "- %s\n", rec)
		}
	}

	return nil
}

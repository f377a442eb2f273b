package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/k1dory/telecom-deploy/pkg/catalog"
	"github.com/k1dory/telecom-deploy/pkg/config"
	"github.com/k1dory/telecom-deploy/pkg/cost"
	"github.com/k1dory/telecom-deploy/pkg/generator"
	"github.com/k1dory/telecom-deploy/pkg/logging"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/output"
	"github.com/k1dory/telecom-deploy/pkg/pricing"
	"github.com/k1dory/telecom-deploy/pkg/recommender"
	"github.com/k1dory/telecom-deploy/pkg/reporter"
	"github.com/k1dory/telecom-deploy/pkg/security"
	"github.com/k1dory/telecom-deploy/pkg/storage"
	"github.com/k1dory/telecom-deploy/pkg/telemetry"
	"github.com/k1dory/telecom-deploy/pkg/validation"
)

var (
	// Generate flags
	serviceName  string
	namespace    string
	outputDir    string
	replicas     int32
	cpuMin       string
	cpuMax       string
	memoryMin    string
	memoryMax    string
	storageSize  string
	storageClass string
	image        string

	// Basic flags
	basicImage    string
	basicReplicas int32
	basicPort     int32

	// Analysis flags
	clusterType  string
	changesFile  string
	issuesFile   string
	outputFormat string
	saveResults  bool
	writeDir     string

	// History flags
	historyKind  string
	historyLimit int

	// Global
	verbose bool
	cfg     *config.Config
	store   storage.Store
)

func main() {
	cfg = config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "telecom-deploy",
		Short: "Kubernetes manifest generator and analyzer for telecom components",
		Long: `Generate production-grade Kubernetes manifests for 5G core and telecom
infrastructure components, estimate their monthly cost and score their
security posture — all offline, from YAML alone.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose || cfg.Verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			telemetry.LogCounters()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	generateCmd := &cobra.Command{
		Use:   "generate <component-type>",
		Short: "Generate manifests for a telecom component",
		Long: "Generate Deployment, Service and supporting manifests for a telecom component.\n" +
			"Known component types: " + fmt.Sprint(catalog.Types()),
		Args: cobra.ExactArgs(1),
		Run:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&serviceName, "name", "n", "", "Service name (defaults to the component type)")
	generateCmd.Flags().StringVar(&namespace, "namespace", "telecom", "Target namespace")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write manifests to (default: config OUTPUT_DIR)")
	generateCmd.Flags().Int32Var(&replicas, "replicas", 0, "Override replica count")
	generateCmd.Flags().StringVar(&cpuMin, "cpu-min", "", "Override CPU request")
	generateCmd.Flags().StringVar(&cpuMax, "cpu-max", "", "Override CPU limit")
	generateCmd.Flags().StringVar(&memoryMin, "memory-min", "", "Override memory request")
	generateCmd.Flags().StringVar(&memoryMax, "memory-max", "", "Override memory limit")
	generateCmd.Flags().StringVar(&storageSize, "storage", "", "Override persistent storage size")
	generateCmd.Flags().StringVar(&storageClass, "storage-class", "", "Override storage class")
	generateCmd.Flags().StringVar(&image, "image", "", "Override container image")

	basicCmd := &cobra.Command{
		Use:   "basic <service-name>",
		Short: "Generate a plain Deployment/Service/ConfigMap stack",
		Args:  cobra.ExactArgs(1),
		Run:   runBasic,
	}
	basicCmd.Flags().StringVar(&basicImage, "image", "", "Container image (required)")
	basicCmd.Flags().Int32Var(&basicReplicas, "replicas", 1, "Replica count")
	basicCmd.Flags().Int32Var(&basicPort, "port", 8080, "Container port")
	basicCmd.Flags().StringVar(&namespace, "namespace", "default", "Target namespace")
	basicCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write manifests to (default: config OUTPUT_DIR)")
	basicCmd.MarkFlagRequired("image")

	costCmd := &cobra.Command{
		Use:   "cost <manifest-dir>",
		Short: "Estimate monthly cost and apply optimizations",
		Args:  cobra.ExactArgs(1),
		Run:   runCost,
	}
	costCmd.Flags().StringVar(&clusterType, "cluster-type", "production", "Cluster type: production, staging, development")
	costCmd.Flags().StringVar(&changesFile, "changes", "", "JSON file with optimization changes (default: built-in advisor)")
	costCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, markdown, json")
	costCmd.Flags().BoolVar(&saveResults, "save", false, "Save the report to the database")
	costCmd.Flags().StringVar(&writeDir, "write-optimized", "", "Directory to write optimized manifests to")

	securityCmd := &cobra.Command{
		Use:   "security <manifest-dir>",
		Short: "Score the security posture of a manifest set",
		Args:  cobra.ExactArgs(1),
		Run:   runSecurity,
	}
	securityCmd.Flags().StringVar(&issuesFile, "issues", "", "JSON file with externally-sourced issues and warnings")
	securityCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, markdown, json")
	securityCmd.Flags().BoolVar(&saveResults, "save", false, "Save the report to the database")

	lintCmd := &cobra.Command{
		Use:   "lint <manifest-dir>",
		Short: "Run fast textual checks over a manifest set",
		Args:  cobra.ExactArgs(1),
		Run:   runLint,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View past analysis reports",
		Run:   runHistory,
	}
	historyCmd.Flags().StringVar(&historyKind, "kind", "cost", "Report kind: cost, security")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of reports to show")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(basicCmd)
	rootCmd.AddCommand(costCmd)
	rootCmd.AddCommand(securityCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func buildOverrides(cmd *cobra.Command) *models.Overrides {
	overrides := &models.Overrides{}
	touched := false

	set := func(flag string, assign func()) {
		if cmd.Flags().Changed(flag) {
			assign()
			touched = true
		}
	}

	set("replicas", func() { overrides.Replicas = &replicas })
	set("cpu-min", func() { overrides.CPUMin = &cpuMin })
	set("cpu-max", func() { overrides.CPUMax = &cpuMax })
	set("memory-min", func() { overrides.MemoryMin = &memoryMin })
	set("memory-max", func() { overrides.MemoryMax = &memoryMax })
	set("storage", func() { overrides.Storage = &storageSize })
	set("storage-class", func() { overrides.StorageClass = &storageClass })
	set("image", func() { overrides.Image = &image })

	if !touched {
		return nil
	}
	return overrides
}

func runGenerate(cmd *cobra.Command, args []string) {
	componentType := args[0]

	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	gen, err := generator.New(cfg)
	if err != nil {
		fatal("%v", err)
	}

	name := serviceName
	if name == "" {
		name = componentType
	}

	manifests, err := gen.Generate(componentType, name, namespace, buildOverrides(cmd))
	if err != nil {
		fatal("%v", err)
	}

	writeManifestSet(manifests)
}

func runBasic(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	gen, err := generator.New(cfg)
	if err != nil {
		fatal("%v", err)
	}

	manifests, err := gen.Basic(args[0], basicImage, basicReplicas, basicPort, namespace)
	if err != nil {
		fatal("%v", err)
	}

	writeManifestSet(manifests)
}

func writeManifestSet(manifests map[string]string) {
	dir := outputDir
	if dir == "" {
		dir = cfg.OutputDir
	}

	if err := output.WriteManifests(dir, manifests); err != nil {
		fatal("%v", err)
	}

	filenames := make([]string, 0, len(manifests))
	for filename := range manifests {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	fmt.Printf("Wrote %d manifests to %s\n", len(manifests), dir)
	for _, filename := range filenames {
		fmt.Printf("  %s\n", filename)
	}
}

func runCost(cmd *cobra.Command, args []string) {
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		fatal("%v", err)
	}

	cluster, err := recommender.ParseClusterType(clusterType)
	if err != nil {
		fatal("%v", err)
	}

	manifests, err := output.ReadManifests(args[0])
	if err != nil {
		fatal("%v", err)
	}

	table := pricing.FromConfig(cfg)
	analyzer := cost.New(table)

	var changes []models.OptimizationChange
	var recommendations []string

	if changesFile != "" {
		if err := readJSONFile(changesFile, &changes); err != nil {
			fatal("failed to read changes file: %v", err)
		}
	} else {
		changes, recommendations = recommender.New(table).Advise(cluster, manifests)
	}

	report, optimized, err := analyzer.Analyze(manifests, changes, recommendations)
	if err != nil {
		fatal("%v", err)
	}

	if writeDir != "" {
		if err := output.WriteManifests(writeDir, optimized); err != nil {
			fatal("%v", err)
		}
	}

	if saveResults {
		saveCostReport(report)
	}

	if err := reporter.New(format).WriteCost(os.Stdout, report); err != nil {
		fatal("%v", err)
	}
}

func runSecurity(cmd *cobra.Command, args []string) {
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		fatal("%v", err)
	}

	manifests, err := output.ReadManifests(args[0])
	if err != nil {
		fatal("%v", err)
	}

	var external struct {
		CriticalIssues  []models.SecurityIssue   `json:"critical_issues"`
		Warnings        []models.SecurityWarning `json:"warnings"`
		Recommendations []string                 `json:"recommendations"`
	}
	if issuesFile != "" {
		if err := readJSONFile(issuesFile, &external); err != nil {
			fatal("failed to read issues file: %v", err)
		}
	}

	analyzer := security.New(cfg.TrustedRegistries)
	report := analyzer.Analyze(manifests, external.CriticalIssues, external.Warnings, external.Recommendations)

	if saveResults {
		saveSecurityReport(report)
	}

	if err := reporter.New(format).WriteSecurity(os.Stdout, report); err != nil {
		fatal("%v", err)
	}
}

func runLint(cmd *cobra.Command, args []string) {
	manifests, err := output.ReadManifests(args[0])
	if err != nil {
		fatal("%v", err)
	}

	filenames := make([]string, 0, len(manifests))
	for filename := range manifests {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	dirty := false
	for _, filename := range filenames {
		result := validation.LintManifest(manifests[filename])
		if result.Clean() {
			continue
		}
		dirty = true
		fmt.Printf("%s:\n", filename)
		for i, warning := range result.Warnings {
			fmt.Printf("  warning: %s\n", warning)
			if i < len(result.Recommendations) {
				fmt.Printf("    hint: %s\n", result.Recommendations[i])
			}
		}
	}

	if !dirty {
		fmt.Println("No issues found")
		return
	}
	os.Exit(1)
}

func runHistory(cmd *cobra.Command, args []string) {
	if err := initStorage(); err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	ctx := context.Background()

	switch historyKind {
	case "cost":
		reports, err := store.ListCostReports(ctx, historyLimit)
		if err != nil {
			fatal("%v", err)
		}
		if len(reports) == 0 {
			fmt.Println("No cost reports found")
			return
		}
		for i, report := range reports {
			fmt.Printf("%d. %s\n", i+1, report.ID)
			fmt.Printf("   Current: $%.2f/mo, optimized: $%.2f/mo (%.1f%% savings)\n",
				report.CurrentMonthlyCost, report.OptimizedMonthly, report.SavingsPercent)
			fmt.Printf("   Created: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
	case "security":
		reports, err := store.ListSecurityReports(ctx, historyLimit)
		if err != nil {
			fatal("%v", err)
		}
		if len(reports) == 0 {
			fmt.Println("No security reports found")
			return
		}
		for i, report := range reports {
			fmt.Printf("%d. %s\n", i+1, report.ID)
			fmt.Printf("   Score: %d/100 (grade %s)\n", report.Score, report.Grade)
			fmt.Printf("   Created: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
	default:
		fatal("unknown history kind %q (expected cost or security)", historyKind)
	}
}

func initStorage() error {
	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return nil
}

func saveCostReport(report *models.CostReport) {
	if err := initStorage(); err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	if err := store.SaveCostReport(context.Background(), report, clusterType); err != nil {
		fatal("failed to save report: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Saved cost report %s\n", report.ID)
}

func saveSecurityReport(report *models.SecurityReport) {
	if err := initStorage(); err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	if err := store.SaveSecurityReport(context.Background(), report); err != nil {
		fatal("failed to save report: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Saved security report %s\n", report.ID)
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

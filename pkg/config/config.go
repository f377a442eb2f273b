package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	// Addressing
	NetworkBase string // first two octets of the telecom network, e.g. "10.100"

	// Container images
	DockerRegistry     string
	DockerOrganization string
	DefaultImageTag    string

	// Registries the security analyzer considers trusted
	TrustedRegistries []string

	// Pricing (currency units per month)
	CPUCostMonthly     float64 // per core
	MemoryCostMonthly  float64 // per GB
	StorageCostMonthly float64 // per GB
	SpotDiscount       float64 // price multiplier for spot capacity

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Output
	OutputDir string
	Verbose   bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		NetworkBase:        getEnv("TELECOM_NETWORK_BASE", "10.100"),
		DockerRegistry:     getEnv("DOCKER_REGISTRY", "registry.telecom.local"),
		DockerOrganization: getEnv("DOCKER_ORGANIZATION", "telecom"),
		DefaultImageTag:    getEnv("DOCKER_DEFAULT_TAG", "latest"),
		TrustedRegistries:  getEnvList("TRUSTED_REGISTRIES", []string{"registry.telecom.local", "docker.io/library"}),
		CPUCostMonthly:     getEnvFloat("CPU_COST_MONTHLY", 1500),
		MemoryCostMonthly:  getEnvFloat("MEMORY_COST_MONTHLY", 600),
		StorageCostMonthly: getEnvFloat("STORAGE_COST_MONTHLY", 50),
		SpotDiscount:       getEnvFloat("SPOT_DISCOUNT", 0.65),
		StorageEnabled:     getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost port=5432 user=deploy dbname=telecomdeploy sslmode=disable"),
		OutputDir:          getEnv("OUTPUT_DIR", "./output"),
		Verbose:            getEnvBool("VERBOSE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if strings.Count(c.NetworkBase, ".") != 1 {
		return fmt.Errorf("TELECOM_NETWORK_BASE must be two octets (e.g. 10.100), got %q", c.NetworkBase)
	}
	if c.CPUCostMonthly <= 0 || c.MemoryCostMonthly <= 0 || c.StorageCostMonthly <= 0 {
		return fmt.Errorf("pricing values must be positive")
	}
	if c.SpotDiscount <= 0 || c.SpotDiscount > 1 {
		return fmt.Errorf("SPOT_DISCOUNT must be in (0, 1], got %.2f", c.SpotDiscount)
	}
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if len(c.TrustedRegistries) == 0 {
		return fmt.Errorf("at least one trusted registry is required")
	}
	return nil
}

// ImageName returns the fully qualified image reference for a component type.
func (c *Config) ImageName(componentType, tag string) string {
	if tag == "" {
		tag = c.DefaultImageTag
	}
	return fmt.Sprintf("%s/%s/%s:%s", c.DockerRegistry, c.DockerOrganization, componentType, tag)
}

// Package catalog holds the static table of deployable telecom component
// types. The table is fixed data compiled into the binary; Lookup never
// fails, unknown types resolve to a minimal generic descriptor.
package catalog

import "github.com/k1dory/telecom-deploy/pkg/models"

var components = map[string]models.ComponentSpec{
	"5g_upf": {
		Description: "5G User Plane Function - user traffic processing",
		Resources: models.Resources{
			CPUMin:    "4",
			CPUMax:    "8",
			MemoryMin: "8Gi",
			MemoryMax: "16Gi",
		},
		Replicas:     3,
		Networks:     []string{"n3", "n4", "n6"},
		Capabilities: []string{"NET_ADMIN", "SYS_ADMIN"},
		Storage:      "100Gi",
		StorageClass: "fast-ssd",
		Critical:     true,
		Priority:     "system-cluster-critical",
	},
	"5g_amf": {
		Description: "5G Access and Mobility Management Function",
		Resources: models.Resources{
			CPUMin:    "2",
			CPUMax:    "4",
			MemoryMin: "4Gi",
			MemoryMax: "8Gi",
		},
		Replicas:     3,
		Networks:     []string{"n1", "n2"},
		Capabilities: []string{"NET_ADMIN"},
		Critical:     true,
		Priority:     "system-cluster-critical",
	},
	"5g_smf": {
		Description: "5G Session Management Function",
		Resources: models.Resources{
			CPUMin:    "2",
			CPUMax:    "4",
			MemoryMin: "4Gi",
			MemoryMax: "8Gi",
		},
		Replicas:     3,
		Networks:     []string{"n4", "n7"},
		Capabilities: []string{"NET_ADMIN"},
		Critical:     true,
		Priority:     "system-cluster-critical",
	},
	"billing": {
		Description: "Billing and rating system",
		Resources: models.Resources{
			CPUMin:    "1",
			CPUMax:    "4",
			MemoryMin: "2Gi",
			MemoryMax: "8Gi",
		},
		Replicas:      3,
		NeedsDatabase: true,
		NeedsCache:    true,
		NeedsQueue:    true,
		Critical:      true,
		Priority:      "high-priority",
	},
	"rabbitmq": {
		Description: "Message broker for inter-service communication",
		Resources: models.Resources{
			CPUMin:    "1",
			CPUMax:    "2",
			MemoryMin: "2Gi",
			MemoryMax: "4Gi",
		},
		Replicas:     3,
		Storage:      "100Gi",
		StorageClass: "fast-ssd",
		Ports:        []int32{5672, 15672, 25672},
	},
	"redis": {
		Description: "In-memory cache",
		Resources: models.Resources{
			CPUMin:    "500m",
			CPUMax:    "2",
			MemoryMin: "1Gi",
			MemoryMax: "4Gi",
		},
		Replicas:     3,
		Storage:      "20Gi",
		StorageClass: "fast-ssd",
	},
}

// generic is the fallback for unknown component types: a minimal deployment
// with no optional artifacts.
var generic = models.ComponentSpec{
	Description: "Generic application component",
	Resources: models.Resources{
		CPUMin:    "100m",
		CPUMax:    "500m",
		MemoryMin: "128Mi",
		MemoryMax: "512Mi",
	},
	Replicas: 1,
}

// Lookup returns the descriptor for a component type. Unknown types resolve
// to the generic descriptor; Lookup never errors.
func Lookup(componentType string) models.ComponentSpec {
	if spec, ok := components[componentType]; ok {
		return spec
	}
	return generic
}

// Known reports whether the component type has a catalog entry.
func Known(componentType string) bool {
	_, ok := components[componentType]
	return ok
}

// Types returns the names of all cataloged component types.
func Types() []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	return names
}

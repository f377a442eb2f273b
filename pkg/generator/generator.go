// Package generator synthesizes Kubernetes manifest sets for cataloged
// telecom components. Documents are built as typed API objects and
// serialized once, so every emitted manifest is valid YAML by construction.
package generator

import (
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/k1dory/telecom-deploy/pkg/catalog"
	"github.com/k1dory/telecom-deploy/pkg/config"
	"github.com/k1dory/telecom-deploy/pkg/models"
	"github.com/k1dory/telecom-deploy/pkg/netalloc"
	"github.com/k1dory/telecom-deploy/pkg/telemetry"
	"github.com/k1dory/telecom-deploy/pkg/validation"
)

// Interface subnets start at this allocator index, clear of the default
// management range.
const networkIndexOffset = 100

// Generator synthesizes manifest sets from catalog descriptors.
type Generator struct {
	cfg   *config.Config
	alloc *netalloc.Allocator
}

// New creates a generator. Fails when the configured network base prefix is
// not a valid two-octet IPv4 prefix.
func New(cfg *config.Config) (*Generator, error) {
	alloc, err := netalloc.New(cfg.NetworkBase)
	if err != nil {
		return nil, fmt.Errorf("network allocator: %w", err)
	}
	return &Generator{cfg: cfg, alloc: alloc}, nil
}

// Generate produces the full manifest set for a component type. Always emits
// deployment.yaml and service.yaml; hpa.yaml, pvc.yaml,
// network-attachment.yaml and secret.yaml are included only when the
// descriptor calls for them.
func (g *Generator) Generate(componentType, serviceName, namespace string, overrides *models.Overrides) (map[string]string, error) {
	if err := validation.ResourceName(serviceName, "service"); err != nil {
		return nil, err
	}
	if err := validation.Namespace(namespace); err != nil {
		return nil, err
	}

	spec := overrides.Apply(catalog.Lookup(componentType))

	manifests := make(map[string]string)

	deployment, err := g.buildDeployment(componentType, serviceName, namespace, spec, overrides)
	if err != nil {
		return nil, fmt.Errorf("deployment for %s: %w", serviceName, err)
	}
	manifests["deployment.yaml"] = deployment

	service, err := g.buildService(componentType, serviceName, namespace, spec)
	if err != nil {
		return nil, fmt.Errorf("service for %s: %w", serviceName, err)
	}
	manifests["service.yaml"] = service

	if spec.Critical {
		hpa, err := g.buildHPA(serviceName, namespace, spec.Replicas)
		if err != nil {
			return nil, fmt.Errorf("hpa for %s: %w", serviceName, err)
		}
		manifests["hpa.yaml"] = hpa
	}

	if spec.Storage != "" {
		pvc, err := g.buildPVC(serviceName, namespace, spec)
		if err != nil {
			return nil, fmt.Errorf("pvc for %s: %w", serviceName, err)
		}
		manifests["pvc.yaml"] = pvc
	}

	if len(spec.Networks) > 0 {
		attachments := make([]string, 0, len(spec.Networks))
		for i, network := range spec.Networks {
			subnet := g.alloc.Subnet(networkIndexOffset + i)
			nad, err := g.buildNetworkAttachment(network, namespace, subnet)
			if err != nil {
				return nil, fmt.Errorf("network attachment %s: %w", network, err)
			}
			attachments = append(attachments, nad)
		}
		manifests["network-attachment.yaml"] = strings.Join(attachments, "\n---\n")
	}

	if spec.NeedsDatabase || spec.NeedsQueue {
		secret, err := g.buildSecret(serviceName, namespace, spec)
		if err != nil {
			return nil, fmt.Errorf("secret for %s: %w", serviceName, err)
		}
		manifests["secret.yaml"] = secret
	}

	telemetry.ManifestsGenerated.WithLabelValues(componentType).Inc()
	return manifests, nil
}

// Placeholder formats a secret placeholder ("__PLACEHOLDER_PASSWORD__").
// Generated secrets never contain real or random values.
func Placeholder(name string) string {
	return "__PLACEHOLDER_" + strings.ToUpper(name) + "__"
}

// sanitizeName turns a component type into a valid DNS-1123 label for use as
// a container name ("5g_upf" -> "5g-upf").
func sanitizeName(componentType string) string {
	return strings.ReplaceAll(strings.ToLower(componentType), "_", "-")
}

// toYAML serializes a typed API object into a single manifest document.
func toYAML(obj interface{}) (string, error) {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	return string(data), nil
}

package generator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1dory/telecom-deploy/pkg/config"
	"github.com/k1dory/telecom-deploy/pkg/manifest"
	"github.com/k1dory/telecom-deploy/pkg/models"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(config.NewConfig())
	require.NoError(t, err)
	return g
}

func TestGenerateUPFFullStack(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("5g_upf", "moscow-upf", "telecom", nil)
	require.NoError(t, err)

	for _, name := range []string{"deployment.yaml", "service.yaml", "hpa.yaml", "pvc.yaml", "network-attachment.yaml"} {
		assert.Contains(t, manifests, name)
	}
	assert.NotContains(t, manifests, "secret.yaml", "UPF needs no database or queue")

	// Every emitted document must parse.
	for name, content := range manifests {
		_, err := manifest.DecodeAll(content)
		assert.NoError(t, err, "manifest %s should be valid YAML", name)
	}
}

func TestGenerateDeploymentStructure(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("5g_upf", "moscow-upf", "telecom", nil)
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(manifests["deployment.yaml"])
	require.NoError(t, err)
	require.Len(t, docs, 1)
	dep := docs[0]

	assert.Equal(t, "Deployment", manifest.Kind(dep))
	assert.Equal(t, "moscow-upf", manifest.Name(dep))
	assert.Equal(t, "telecom", manifest.String(dep, "metadata", "namespace"))
	assert.Equal(t, "moscow-upf", manifest.String(dep, "metadata", "labels", "app"))
	assert.Equal(t, "5g_upf", manifest.String(dep, "metadata", "labels", "component"))
	assert.Equal(t, "telecom", manifest.String(dep, "metadata", "labels", "tier"))
	assert.Equal(t, 3, manifest.Int(dep, 0, "spec", "replicas"))
	assert.Equal(t, "v1", manifest.String(dep, "spec", "template", "metadata", "labels", "version"))
	assert.Equal(t, "system-cluster-critical",
		manifest.String(dep, "spec", "template", "spec", "priorityClassName"))

	containers := manifest.Maps(dep, "spec", "template", "spec", "containers")
	require.Len(t, containers, 1)
	c := containers[0]
	assert.Equal(t, "5g-upf", manifest.String(c, "name"))
	assert.Equal(t, "4", manifest.String(c, "resources", "requests", "cpu"))
	assert.Equal(t, "8Gi", manifest.String(c, "resources", "requests", "memory"))
	assert.Equal(t, "8", manifest.String(c, "resources", "limits", "cpu"))
	assert.Equal(t, "16Gi", manifest.String(c, "resources", "limits", "memory"))
	assert.NotNil(t, manifest.Map(c, "livenessProbe"))
	assert.NotNil(t, manifest.Map(c, "readinessProbe"))
	assert.Contains(t, manifest.Strings(c, "securityContext", "capabilities", "add"), "NET_ADMIN")
}

func TestGenerateNetworkAnnotation(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("5g_upf", "moscow-upf", "telecom", nil)
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(manifests["deployment.yaml"])
	require.NoError(t, err)

	raw := manifest.String(docs[0], "spec", "template", "metadata", "annotations", networksAnnotation)
	require.NotEmpty(t, raw, "multi-network deployment must carry the networks annotation")

	var refs []attachmentRef
	require.NoError(t, json.Unmarshal([]byte(raw), &refs))
	require.Len(t, refs, 3)

	seen := map[string]bool{}
	for i, want := range []string{"n3", "n4", "n6"} {
		assert.Equal(t, want, refs[i].Interface)
		assert.Equal(t, want+"-network", refs[i].Name)
		require.Len(t, refs[i].IPs, 1)
		assert.True(t, strings.HasSuffix(refs[i].IPs[0], "/24"))
		assert.False(t, seen[refs[i].IPs[0]], "allocated IPs must be distinct")
		seen[refs[i].IPs[0]] = true
	}
}

func TestGenerateNetworkAttachments(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("5g_upf", "moscow-upf", "telecom", nil)
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(manifests["network-attachment.yaml"])
	require.NoError(t, err)
	require.Len(t, docs, 3, "one attachment per declared interface")

	subnets := map[string]bool{}
	for _, doc := range docs {
		assert.Equal(t, "NetworkAttachmentDefinition", manifest.Kind(doc))

		var cni cniConfig
		require.NoError(t, json.Unmarshal([]byte(manifest.String(doc, "spec", "config")), &cni))
		assert.Equal(t, "macvlan", cni.Type)
		assert.False(t, subnets[cni.IPAM.Subnet], "subnets must be distinct")
		subnets[cni.IPAM.Subnet] = true

		base := strings.TrimSuffix(cni.IPAM.Subnet, ".0/24")
		assert.Equal(t, base+".10", cni.IPAM.RangeStart)
		assert.Equal(t, base+".100", cni.IPAM.RangeEnd)
		assert.Equal(t, base+".1", cni.IPAM.Gateway)
	}
}

func TestGenerateBillingSecret(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("billing", "billing-prod", "telecom", nil)
	require.NoError(t, err)

	require.Contains(t, manifests, "secret.yaml")
	assert.NotContains(t, manifests, "pvc.yaml", "billing is stateless")
	assert.Contains(t, manifests, "hpa.yaml", "billing is critical")

	docs, err := manifest.DecodeAll(manifests["secret.yaml"])
	require.NoError(t, err)
	secret := docs[0]

	assert.Equal(t, "Secret", manifest.Kind(secret))
	assert.Equal(t, "billing-prod-secrets", manifest.Name(secret))

	stringData := manifest.Map(secret, "stringData")
	require.NotNil(t, stringData, "secret must use stringData, not base64 data")
	assert.Nil(t, secret["data"])

	dbURL, _ := stringData["database-url"].(string)
	mqURL, _ := stringData["rabbitmq-url"].(string)
	assert.Contains(t, dbURL, Placeholder("PASSWORD"))
	assert.Contains(t, mqURL, Placeholder("PASSWORD"))

	// No literal credential anywhere in the output.
	for name, content := range manifests {
		assert.NotContains(t, content, "devpassword", "manifest %s leaks a literal password", name)
	}
}

func TestGenerateHPABounds(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("5g_amf", "amf-main", "telecom", nil)
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(manifests["hpa.yaml"])
	require.NoError(t, err)
	hpa := docs[0]

	assert.Equal(t, "HorizontalPodAutoscaler", manifest.Kind(hpa))
	assert.Equal(t, 3, manifest.Int(hpa, 0, "spec", "minReplicas"))
	assert.Equal(t, 9, manifest.Int(hpa, 0, "spec", "maxReplicas"))

	down := manifest.Map(hpa, "spec", "behavior", "scaleDown")
	up := manifest.Map(hpa, "spec", "behavior", "scaleUp")
	require.NotNil(t, down)
	require.NotNil(t, up)
	assert.Greater(t, manifest.Int(down, 0, "stabilizationWindowSeconds"),
		manifest.Int(up, 0, "stabilizationWindowSeconds"),
		"scale-down must be more conservative than scale-up")
}

func TestGenerateUnknownTypeMinimal(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Generate("mystery-service", "mystery", "default", nil)
	require.NoError(t, err)

	assert.Contains(t, manifests, "deployment.yaml")
	assert.Contains(t, manifests, "service.yaml")
	assert.NotContains(t, manifests, "hpa.yaml")
	assert.NotContains(t, manifests, "pvc.yaml")
	assert.NotContains(t, manifests, "network-attachment.yaml")
	assert.NotContains(t, manifests, "secret.yaml")
}

func TestGenerateOverrides(t *testing.T) {
	g := newTestGenerator(t)

	replicas := int32(5)
	storage := "200Gi"
	overrides := &models.Overrides{Replicas: &replicas, Storage: &storage}

	manifests, err := g.Generate("redis", "cache-main", "telecom", overrides)
	require.NoError(t, err)

	docs, err := manifest.DecodeAll(manifests["deployment.yaml"])
	require.NoError(t, err)
	assert.Equal(t, 5, manifest.Int(docs[0], 0, "spec", "replicas"))

	docs, err = manifest.DecodeAll(manifests["pvc.yaml"])
	require.NoError(t, err)
	assert.Equal(t, "200Gi", manifest.String(docs[0], "spec", "resources", "requests", "storage"))
	assert.Equal(t, "fast-ssd", manifest.String(docs[0], "spec", "storageClassName"))
}

func TestGenerateRejectsBadNames(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate("billing", "Bad_Name", "telecom", nil)
	assert.Error(t, err)

	_, err = g.Generate("billing", "billing", "Bad Namespace", nil)
	assert.Error(t, err)
}

func TestBuildNetworkAttachmentInvalidSubnet(t *testing.T) {
	g := newTestGenerator(t)

	for _, subnet := range []string{"10.100.0.0", "10.100.x.0/24", "garbage"} {
		_, err := g.buildNetworkAttachment("n3", "telecom", subnet)
		assert.Error(t, err, "subnet %q should be rejected", subnet)
	}
}

func TestBasicStack(t *testing.T) {
	g := newTestGenerator(t)

	manifests, err := g.Basic("web-app", "docker.io/library/nginx:1.25", 3, 8080, "default")
	require.NoError(t, err)

	for _, name := range []string{"deployment.yaml", "service.yaml", "configmap.yaml"} {
		require.Contains(t, manifests, name)
		_, err := manifest.DecodeAll(manifests[name])
		assert.NoError(t, err)
	}

	docs, err := manifest.DecodeAll(manifests["deployment.yaml"])
	require.NoError(t, err)
	assert.Equal(t, 3, manifest.Int(docs[0], 0, "spec", "replicas"))

	_, err = g.Basic("web-app", "nginx", 0, 8080, "default")
	assert.Error(t, err, "zero replicas should be rejected")
}

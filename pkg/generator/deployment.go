package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

// networksAnnotation is the Multus CNI annotation granting secondary
// interfaces.
const networksAnnotation = "k8s.v1.cni.cncf.io/networks"

// attachmentRef is one entry of the networks annotation JSON array.
type attachmentRef struct {
	Name      string   `json:"name"`
	Interface string   `json:"interface"`
	IPs       []string `json:"ips"`
}

func (g *Generator) buildDeployment(componentType, serviceName, namespace string, spec models.ComponentSpec, overrides *models.Overrides) (string, error) {
	resources, err := buildResources(spec.Resources)
	if err != nil {
		return "", err
	}

	annotations := map[string]string{
		"prometheus.io/scrape": "true",
		"prometheus.io/port":   "9090",
		"prometheus.io/path":   "/metrics",
	}

	// One allocator-issued address per declared interface, offset past the
	// management range.
	ips := make([]string, len(spec.Networks))
	for i := range spec.Networks {
		ips[i] = g.alloc.IP(networkIndexOffset + i)
	}

	if len(spec.Networks) > 0 {
		refs := make([]attachmentRef, len(spec.Networks))
		for i, network := range spec.Networks {
			refs[i] = attachmentRef{
				Name:      network + "-network",
				Interface: network,
				IPs:       []string{ips[i] + "/24"},
			}
		}
		encoded, err := json.Marshal(refs)
		if err != nil {
			return "", fmt.Errorf("encode networks annotation: %w", err)
		}
		annotations[networksAnnotation] = string(encoded)
	}

	image := g.cfg.ImageName(componentType, "")
	if overrides != nil && overrides.Image != nil {
		image = *overrides.Image
	}

	container := corev1.Container{
		Name:            sanitizeName(componentType),
		Image:           image,
		ImagePullPolicy: corev1.PullIfNotPresent,
		Resources:       resources,
		Env:             buildEnv(serviceName, componentType, spec, ips),
		Ports:           buildContainerPorts(spec),
		LivenessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{Path: "/health", Port: intstr.FromInt32(8080)},
			},
			InitialDelaySeconds: 60,
			PeriodSeconds:       30,
			TimeoutSeconds:      5,
			FailureThreshold:    3,
		},
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{Path: "/ready", Port: intstr.FromInt32(8080)},
			},
			InitialDelaySeconds: 30,
			PeriodSeconds:       10,
			TimeoutSeconds:      3,
			FailureThreshold:    3,
		},
	}

	if len(spec.Capabilities) > 0 {
		caps := make([]corev1.Capability, len(spec.Capabilities))
		for i, c := range spec.Capabilities {
			caps[i] = corev1.Capability(c)
		}
		// Elevated capabilities imply root; scored accordingly by the
		// security analyzer.
		container.SecurityContext = &corev1.SecurityContext{
			Capabilities: &corev1.Capabilities{Add: caps},
			RunAsNonRoot: boolPtr(false),
		}
	}

	podSpec := corev1.PodSpec{
		Containers: []corev1.Container{container},
	}

	if spec.Storage != "" {
		podSpec.Containers[0].VolumeMounts = []corev1.VolumeMount{
			{Name: "data", MountPath: "/var/lib/" + sanitizeName(componentType)},
		}
		podSpec.Volumes = []corev1.Volume{
			{
				Name: "data",
				VolumeSource: corev1.VolumeSource{
					PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
						ClaimName: serviceName + "-pvc",
					},
				},
			},
		}
	}

	if spec.Critical {
		// One pod per node.
		podSpec.Affinity = &corev1.Affinity{
			PodAntiAffinity: &corev1.PodAntiAffinity{
				RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{
					{
						LabelSelector: &metav1.LabelSelector{
							MatchExpressions: []metav1.LabelSelectorRequirement{
								{Key: "app", Operator: metav1.LabelSelectorOpIn, Values: []string{serviceName}},
							},
						},
						TopologyKey: "kubernetes.io/hostname",
					},
				},
			},
		}
	}

	if spec.Priority != "" {
		podSpec.PriorityClassName = spec.Priority
	}

	deployment := appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName,
			Namespace: namespace,
			Labels: map[string]string{
				"app":       serviceName,
				"component": componentType,
				"tier":      "telecom",
			},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &spec.Replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": serviceName},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"app":       serviceName,
						"component": componentType,
						"version":   "v1",
					},
					Annotations: annotations,
				},
				Spec: podSpec,
			},
		},
	}

	return toYAML(&deployment)
}

// buildResources maps descriptor bounds onto requests (min) and limits (max).
func buildResources(r models.Resources) (corev1.ResourceRequirements, error) {
	requests, err := resourceList(r.CPUMin, r.MemoryMin)
	if err != nil {
		return corev1.ResourceRequirements{}, fmt.Errorf("requests: %w", err)
	}
	limits, err := resourceList(r.CPUMax, r.MemoryMax)
	if err != nil {
		return corev1.ResourceRequirements{}, fmt.Errorf("limits: %w", err)
	}
	return corev1.ResourceRequirements{Requests: requests, Limits: limits}, nil
}

func resourceList(cpu, memory string) (corev1.ResourceList, error) {
	list := corev1.ResourceList{}
	if cpu != "" {
		q, err := resource.ParseQuantity(cpu)
		if err != nil {
			return nil, fmt.Errorf("cpu %q: %w", cpu, err)
		}
		list[corev1.ResourceCPU] = q
	}
	if memory != "" {
		q, err := resource.ParseQuantity(memory)
		if err != nil {
			return nil, fmt.Errorf("memory %q: %w", memory, err)
		}
		list[corev1.ResourceMemory] = q
	}
	return list, nil
}

// buildEnv assembles the container environment. Components without networks
// or backing services get no environment block at all.
func buildEnv(serviceName, componentType string, spec models.ComponentSpec, ips []string) []corev1.EnvVar {
	if len(spec.Networks) == 0 && !spec.NeedsDatabase && !spec.NeedsCache && !spec.NeedsQueue {
		return nil
	}

	var env []corev1.EnvVar
	for i, network := range spec.Networks {
		env = append(env, corev1.EnvVar{
			Name:  strings.ToUpper(network) + "_IP",
			Value: ips[i],
		})
	}

	env = append(env,
		corev1.EnvVar{Name: "COMPONENT_TYPE", Value: componentType},
		corev1.EnvVar{Name: "LOG_LEVEL", Value: "INFO"},
	)

	if spec.NeedsDatabase {
		env = append(env, corev1.EnvVar{
			Name: "DATABASE_URL",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: serviceName + "-secrets"},
					Key:                  "database-url",
				},
			},
		})
	}
	if spec.NeedsCache {
		env = append(env, corev1.EnvVar{Name: "REDIS_URL", Value: "redis://redis-service:6379"})
	}
	if spec.NeedsQueue {
		env = append(env, corev1.EnvVar{
			Name: "RABBITMQ_URL",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: serviceName + "-secrets"},
					Key:                  "rabbitmq-url",
				},
			},
		})
	}

	return env
}

func buildContainerPorts(spec models.ComponentSpec) []corev1.ContainerPort {
	ports := []corev1.ContainerPort{
		{ContainerPort: 8080, Name: "http", Protocol: corev1.ProtocolTCP},
		{ContainerPort: 9090, Name: "metrics", Protocol: corev1.ProtocolTCP},
	}
	for _, p := range spec.Ports {
		ports = append(ports, corev1.ContainerPort{
			ContainerPort: p,
			Name:          fmt.Sprintf("port-%d", p),
			Protocol:      corev1.ProtocolTCP,
		})
	}
	return ports
}

func boolPtr(b bool) *bool { return &b }

package generator

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/k1dory/telecom-deploy/pkg/telemetry"
	"github.com/k1dory/telecom-deploy/pkg/validation"
)

// Basic synthesizes a plain Deployment + Service + ConfigMap for an
// application with no telecom-specific needs.
func (g *Generator) Basic(serviceName, image string, replicas int32, port int32, namespace string) (map[string]string, error) {
	if err := validation.ResourceName(serviceName, "service"); err != nil {
		return nil, err
	}
	if err := validation.Namespace(namespace); err != nil {
		return nil, err
	}
	if replicas < 1 {
		return nil, fmt.Errorf("replicas must be at least 1, got %d", replicas)
	}

	manifests := map[string]string{}

	deployment := appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName,
			Namespace: namespace,
			Labels:    map[string]string{"app": serviceName},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": serviceName}},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{"app": serviceName},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  serviceName,
							Image: image,
							Ports: []corev1.ContainerPort{
								{ContainerPort: port, Name: "http"},
							},
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("100m"),
									corev1.ResourceMemory: resource.MustParse("128Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("500m"),
									corev1.ResourceMemory: resource.MustParse("512Mi"),
								},
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{Path: "/health", Port: intstr.FromInt32(port)},
								},
								InitialDelaySeconds: 30,
								PeriodSeconds:       10,
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{Path: "/ready", Port: intstr.FromInt32(port)},
								},
								InitialDelaySeconds: 5,
								PeriodSeconds:       5,
							},
						},
					},
				},
			},
		},
	}
	out, err := toYAML(&deployment)
	if err != nil {
		return nil, err
	}
	manifests["deployment.yaml"] = out

	service := corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName,
			Namespace: namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{"app": serviceName},
			Ports: []corev1.ServicePort{
				{Port: 80, TargetPort: intstr.FromInt32(port), Protocol: corev1.ProtocolTCP},
			},
			Type: corev1.ServiceTypeClusterIP,
		},
	}
	out, err = toYAML(&service)
	if err != nil {
		return nil, err
	}
	manifests["service.yaml"] = out

	configMap := corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName + "-config",
			Namespace: namespace,
		},
		Data: map[string]string{
			"app.conf": fmt.Sprintf("PORT=%d\nLOG_LEVEL=INFO\n", port),
		},
	}
	out, err = toYAML(&configMap)
	if err != nil {
		return nil, err
	}
	manifests["configmap.yaml"] = out

	telemetry.ManifestsGenerated.WithLabelValues("basic").Inc()
	return manifests, nil
}

package generator

import (
	"fmt"

	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

// defaultStorageClass is the low-cost tier used when a descriptor does not
// ask for anything faster.
const defaultStorageClass = "standard"

func (g *Generator) buildService(componentType, serviceName, namespace string, spec models.ComponentSpec) (string, error) {
	ports := []corev1.ServicePort{
		{Name: "http", Port: 8080, TargetPort: intstr.FromInt32(8080), Protocol: corev1.ProtocolTCP},
		{Name: "metrics", Port: 9090, TargetPort: intstr.FromInt32(9090), Protocol: corev1.ProtocolTCP},
	}
	for _, p := range spec.Ports {
		ports = append(ports, corev1.ServicePort{
			Name:       fmt.Sprintf("port-%d", p),
			Port:       p,
			TargetPort: intstr.FromInt32(p),
			Protocol:   corev1.ProtocolTCP,
		})
	}

	service := corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName + "-service",
			Namespace: namespace,
			Labels: map[string]string{
				"app":       serviceName,
				"component": componentType,
			},
		},
		Spec: corev1.ServiceSpec{
			Selector:        map[string]string{"app": serviceName},
			Ports:           ports,
			Type:            corev1.ServiceTypeClusterIP,
			SessionAffinity: corev1.ServiceAffinityClientIP,
		},
	}

	return toYAML(&service)
}

// buildHPA bounds a critical component between its descriptor replica count
// and three times that. Scale-down is rate-limited much harder than
// scale-up: a 5-minute stabilization window shedding at most 10% per minute,
// against immediate scale-up at 50% per minute.
func (g *Generator) buildHPA(serviceName, namespace string, replicas int32) (string, error) {
	maxReplicas := replicas * 3

	hpa := autoscalingv2.HorizontalPodAutoscaler{
		TypeMeta: metav1.TypeMeta{APIVersion: "autoscaling/v2", Kind: "HorizontalPodAutoscaler"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName + "-hpa",
			Namespace: namespace,
		},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       serviceName,
			},
			MinReplicas: &replicas,
			MaxReplicas: maxReplicas,
			Metrics: []autoscalingv2.MetricSpec{
				{
					Type: autoscalingv2.ResourceMetricSourceType,
					Resource: &autoscalingv2.ResourceMetricSource{
						Name: corev1.ResourceCPU,
						Target: autoscalingv2.MetricTarget{
							Type:               autoscalingv2.UtilizationMetricType,
							AverageUtilization: int32Ptr(70),
						},
					},
				},
				{
					Type: autoscalingv2.ResourceMetricSourceType,
					Resource: &autoscalingv2.ResourceMetricSource{
						Name: corev1.ResourceMemory,
						Target: autoscalingv2.MetricTarget{
							Type:               autoscalingv2.UtilizationMetricType,
							AverageUtilization: int32Ptr(80),
						},
					},
				},
			},
			Behavior: &autoscalingv2.HorizontalPodAutoscalerBehavior{
				ScaleDown: &autoscalingv2.HPAScalingRules{
					StabilizationWindowSeconds: int32Ptr(300),
					Policies: []autoscalingv2.HPAScalingPolicy{
						{Type: autoscalingv2.PercentScalingPolicy, Value: 10, PeriodSeconds: 60},
					},
				},
				ScaleUp: &autoscalingv2.HPAScalingRules{
					StabilizationWindowSeconds: int32Ptr(0),
					Policies: []autoscalingv2.HPAScalingPolicy{
						{Type: autoscalingv2.PercentScalingPolicy, Value: 50, PeriodSeconds: 60},
					},
				},
			},
		},
	}

	return toYAML(&hpa)
}

func (g *Generator) buildPVC(serviceName, namespace string, spec models.ComponentSpec) (string, error) {
	storage, err := resource.ParseQuantity(spec.Storage)
	if err != nil {
		return "", fmt.Errorf("storage %q: %w", spec.Storage, err)
	}

	storageClass := spec.StorageClass
	if storageClass == "" {
		storageClass = defaultStorageClass
	}

	pvc := corev1.PersistentVolumeClaim{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolumeClaim"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName + "-pvc",
			Namespace: namespace,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			StorageClassName: &storageClass,
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: storage},
			},
		},
	}

	return toYAML(&pvc)
}

// buildSecret emits placeholder credentials only. Generated manifests are
// templates; an operator substitutes real values before applying them.
func (g *Generator) buildSecret(serviceName, namespace string, spec models.ComponentSpec) (string, error) {
	stringData := map[string]string{}

	if spec.NeedsDatabase {
		stringData["database-url"] = fmt.Sprintf(
			"postgresql://billing_user:%s@postgres:5432/billing_db", Placeholder("PASSWORD"))
	}
	if spec.NeedsQueue {
		stringData["rabbitmq-url"] = fmt.Sprintf(
			"amqp://billing_user:%s@rabbitmq:5672/", Placeholder("PASSWORD"))
	}

	secret := corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName + "-secrets",
			Namespace: namespace,
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: stringData,
	}

	return toYAML(&secret)
}

func int32Ptr(v int32) *int32 { return &v }

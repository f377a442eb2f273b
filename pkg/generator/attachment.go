package generator

import (
	"encoding/json"
	"fmt"

	"github.com/k1dory/telecom-deploy/pkg/netalloc"
)

// cniIPAM is the host-local address pool of one attachment.
type cniIPAM struct {
	Type       string `json:"type"`
	Subnet     string `json:"subnet"`
	RangeStart string `json:"rangeStart"`
	RangeEnd   string `json:"rangeEnd"`
	Gateway    string `json:"gateway"`
}

// cniConfig is the CNI plugin configuration embedded in a
// NetworkAttachmentDefinition.
type cniConfig struct {
	CNIVersion string  `json:"cniVersion"`
	Type       string  `json:"type"`
	Master     string  `json:"master"`
	Mode       string  `json:"mode"`
	IPAM       cniIPAM `json:"ipam"`
}

// networkAttachment mirrors the k8s.cni.cncf.io/v1 resource. The type is not
// part of k8s.io/api, so it is declared here just for serialization.
type networkAttachment struct {
	APIVersion string                `json:"apiVersion"`
	Kind       string                `json:"kind"`
	Metadata   attachmentMeta        `json:"metadata"`
	Spec       networkAttachmentSpec `json:"spec"`
}

type attachmentMeta struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

type networkAttachmentSpec struct {
	Config string `json:"config"`
}

// buildNetworkAttachment emits one NetworkAttachmentDefinition bound to the
// given subnet. The pool offered to the attachment spans .10-.100 of the
// subnet with the gateway fixed at .1. An unparseable subnet aborts the
// whole synthesis call.
func (g *Generator) buildNetworkAttachment(network, namespace, subnet string) (string, error) {
	base, err := netalloc.SplitSubnet(subnet)
	if err != nil {
		return "", err
	}

	cni := cniConfig{
		CNIVersion: "0.3.1",
		Type:       "macvlan",
		Master:     "eth1",
		Mode:       "bridge",
		IPAM: cniIPAM{
			Type:       "host-local",
			Subnet:     subnet,
			RangeStart: base + ".10",
			RangeEnd:   base + ".100",
			Gateway:    base + ".1",
		},
	}

	encoded, err := json.MarshalIndent(cni, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode CNI config: %w", err)
	}

	nad := networkAttachment{
		APIVersion: "k8s.cni.cncf.io/v1",
		Kind:       "NetworkAttachmentDefinition",
		Metadata: attachmentMeta{
			Name:      network + "-network",
			Namespace: namespace,
		},
		Spec: networkAttachmentSpec{Config: string(encoded)},
	}

	return toYAML(&nad)
}

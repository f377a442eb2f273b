package models

// Resources holds the CPU/memory bounds of a component as quantity strings
// ("500m", "2Gi"). Min maps to container requests, max to limits.
type Resources struct {
	CPUMin    string `json:"cpu_min"`
	CPUMax    string `json:"cpu_max"`
	MemoryMin string `json:"memory_min"`
	MemoryMax string `json:"memory_max"`
}

// ComponentSpec describes one catalog entry for a deployable component.
// Optional fields are zero-valued when the component does not need them;
// an all-zero ComponentSpec is the "generic" descriptor used for unknown
// component types.
type ComponentSpec struct {
	Description string    `json:"description"`
	Resources   Resources `json:"resources"`
	Replicas    int32     `json:"replicas"`

	// Networks lists secondary interface names (n3, n4, ...) in order.
	// Each gets its own NetworkAttachmentDefinition and allocated subnet.
	Networks []string `json:"networks,omitempty"`

	// Capabilities are elevated kernel capabilities required by the
	// component (NET_ADMIN for 5G data plane and similar).
	Capabilities []string `json:"capabilities,omitempty"`

	// Storage is a quantity string; empty means stateless.
	Storage      string `json:"storage,omitempty"`
	StorageClass string `json:"storage_class,omitempty"`

	Critical      bool   `json:"critical,omitempty"`
	NeedsDatabase bool   `json:"needs_database,omitempty"`
	NeedsCache    bool   `json:"needs_cache,omitempty"`
	NeedsQueue    bool   `json:"needs_queue,omitempty"`
	Priority      string `json:"priority,omitempty"`

	Ports []int32 `json:"ports,omitempty"`
}

// Overrides carries caller-supplied values merged shallowly over a catalog
// descriptor before synthesis. Nil pointers leave the catalog value alone.
type Overrides struct {
	Replicas     *int32
	CPUMin       *string
	CPUMax       *string
	MemoryMin    *string
	MemoryMax    *string
	Storage      *string
	StorageClass *string
	Image        *string
}

// Apply merges the overrides into a copy of the descriptor.
func (o *Overrides) Apply(spec ComponentSpec) ComponentSpec {
	if o == nil {
		return spec
	}
	if o.Replicas != nil {
		spec.Replicas = *o.Replicas
	}
	if o.CPUMin != nil {
		spec.Resources.CPUMin = *o.CPUMin
	}
	if o.CPUMax != nil {
		spec.Resources.CPUMax = *o.CPUMax
	}
	if o.MemoryMin != nil {
		spec.Resources.MemoryMin = *o.MemoryMin
	}
	if o.MemoryMax != nil {
		spec.Resources.MemoryMax = *o.MemoryMax
	}
	if o.Storage != nil {
		spec.Storage = *o.Storage
	}
	if o.StorageClass != nil {
		spec.StorageClass = *o.StorageClass
	}
	return spec
}

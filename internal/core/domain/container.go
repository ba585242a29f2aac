package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ContainerObservation is a container as reported by an inventory source,
// before any filtering or normalization.
type ContainerObservation struct {
	Name     string              `json:"name" yaml:"name"`
	Tags     []string            `json:"tags" yaml:"tags"`
	Status   string              `json:"status" yaml:"status"`
	Ports    []PortPublication   `json:"ports" yaml:"ports"`
	Networks []NetworkMembership `json:"networks" yaml:"networks"`
	Labels   map[string]string   `json:"labels" yaml:"labels"`
}

// PortPublication lists the host ports an exposed port is published on.
// A nil HostPorts means the port is exposed but not published.
type PortPublication struct {
	Expose    string   `json:"expose" yaml:"expose"`
	HostPorts []string `json:"host_ports" yaml:"host_ports"`
}

// NetworkMembership is one network a container is attached to, with the
// legacy links declared on it (name or name:alias).
type NetworkMembership struct {
	Name  string   `json:"name" yaml:"name"`
	Links []string `json:"links" yaml:"links"`
}

// ContainerDescriptor is the canonical view of one running container.
type ContainerDescriptor struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	// Ports maps an exposed port to the host ports it is published on,
	// in first-seen order.
	Ports       *orderedmap.OrderedMap[string, []string] `json:"ports"`
	Networks    []string                                 `json:"networks"`
	Links       []string                                 `json:"links"`
	URL         *string                                  `json:"url,omitempty"`
	BackendPort string                                   `json:"backend_port"`
}

// NewContainerDescriptor returns a descriptor with an empty port mapping.
func NewContainerDescriptor(name string) ContainerDescriptor {
	return ContainerDescriptor{
		Name:  name,
		Ports: orderedmap.New[string, []string](),
	}
}

// PortKeys returns the exposed ports in mapping order.
func (c ContainerDescriptor) PortKeys() []string {
	if c.Ports == nil {
		return nil
	}
	keys := make([]string, 0, c.Ports.Len())
	for pair := c.Ports.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// HostPorts returns the host ports bound to an exposed port.
func (c ContainerDescriptor) HostPorts(expose string) []string {
	if c.Ports == nil {
		return nil
	}
	ports, _ := c.Ports.Get(expose)
	return ports
}

// Routed reports whether the container carries a proxy routing rule.
func (c ContainerDescriptor) Routed() bool {
	return c.URL != nil
}

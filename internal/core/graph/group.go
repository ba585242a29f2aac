package graph

import (
	"github.com/melih/graphbot/internal/core/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NetworkGroups maps a network name to its member containers. Networks are
// kept in the order they were first seen.
type NetworkGroups = orderedmap.OrderedMap[string, []domain.ContainerDescriptor]

// GroupByNetwork partitions descriptors by network membership. A container
// attached to several networks appears in each of their groups.
func GroupByNetwork(descriptors []domain.ContainerDescriptor) *NetworkGroups {
	groups := orderedmap.New[string, []domain.ContainerDescriptor]()
	for _, d := range descriptors {
		for _, n := range d.Networks {
			members, _ := groups.Get(n)
			groups.Set(n, append(members, d))
		}
	}
	return groups
}

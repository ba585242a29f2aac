package graph

import "github.com/melih/graphbot/internal/core/domain"

// Scope salts identifiers with the name of the host that owns them, so that
// graphs of several hosts can share one diagram.
type Scope string

// ID returns the identifier of a named element: name_scope.
func (s Scope) ID(name string) string {
	return name + "_" + string(s)
}

// Ref addresses an element, or one slot of it when slot is not empty.
func (s Scope) Ref(name, slot string) domain.Ref {
	return domain.Ref{Node: s.ID(name), Slot: slot}
}

// Identifier is the string form of Ref: name_scope[:slot].
func (s Scope) Identifier(name, slot string) string {
	return s.Ref(name, slot).String()
}

// ClusterID names a cluster. Graphviz only draws subgraphs whose name
// starts with "cluster".
func (s Scope) ClusterID(name, slot string) string {
	return "cluster_" + s.Identifier(name, slot)
}

// VMClusterID names the cluster of the host itself. Container, network and
// image names never start with '@', so ClusterID cannot produce it.
func (s Scope) VMClusterID() string {
	return "cluster_@" + string(s)
}

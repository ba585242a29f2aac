package graph

import (
	"context"
	"fmt"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/melih/graphbot/internal/core/ports"
)

type buildState int

const (
	unbuilt buildState = iota
	building
	built
)

// HostOptions describe one host to graph.
type HostOptions struct {
	// Label is shown on the virtual machine cluster.
	Label string
	// Name salts every identifier of the host graph. It must be unique
	// among hosts drawn in the same diagram.
	Name    string
	Exclude []string
	Scheme  domain.ColorScheme
	Proxy   ProxyRule
}

// HostGraph is the clustered graph of one host. It is built on first
// access to Graph and cached afterwards, errors included.
type HostGraph struct {
	inventory ports.InventoryService
	opts      HostOptions
	scope     Scope

	state buildState
	graph *domain.Graph
	err   error
	inv   Inventory
}

// NewHostGraph prepares the graph of a host. Nothing is queried until
// Graph is called.
func NewHostGraph(inventory ports.InventoryService, opts HostOptions) *HostGraph {
	opts.Proxy = opts.Proxy.withDefaults()
	return &HostGraph{
		inventory: inventory,
		opts:      opts,
		scope:     Scope(opts.Name),
	}
}

// VMName returns the scope name of the host.
func (h *HostGraph) VMName() string { return h.opts.Name }

// VMLabel returns the display label of the host.
func (h *HostGraph) VMLabel() string { return h.opts.Label }

// Scope returns the identifier scope of the host.
func (h *HostGraph) Scope() Scope { return h.scope }

// HasProxy reports whether a reverse proxy was recognized. Only meaningful
// once the graph is built.
func (h *HostGraph) HasProxy() bool { return h.inv.HasProxy }

// ProxyContainer returns the name of the recognized proxy container.
func (h *HostGraph) ProxyContainer() string { return h.inv.ProxyContainer }

// Descriptors returns the containers drawn on the graph.
func (h *HostGraph) Descriptors() []domain.ContainerDescriptor { return h.inv.Descriptors }

// Graph returns the host graph, building it on first call.
func (h *HostGraph) Graph(ctx context.Context) (*domain.Graph, error) {
	switch h.state {
	case built:
		return h.graph, h.err
	case building:
		return nil, domain.ErrReentrantBuild
	}

	h.state = building
	h.graph, h.err = h.build(ctx)
	h.state = built
	return h.graph, h.err
}

func (h *HostGraph) build(ctx context.Context) (*domain.Graph, error) {
	observations, err := h.inventory.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	h.inv = Normalize(observations, h.opts.Proxy, h.opts.Exclude)

	a, err := newAssembler(h.scope, h.opts.Scheme)
	if err != nil {
		return nil, err
	}

	g := &domain.Graph{
		Name:    h.opts.Label,
		Comment: "Virtual machine : " + h.opts.Label,
	}
	vm := g.AddCluster(&domain.Cluster{
		ID:    h.scope.VMClusterID(),
		Label: "Virtual machine : " + h.opts.Label,
		Attrs: a.style[domain.VirtualMachine],
	})

	a.addNetworks(vm, GroupByNetwork(h.inv.Descriptors), h.inv.HasProxy)
	for _, c := range h.inv.Descriptors {
		if h.inv.HasProxy && c.Routed() {
			a.addProxyRoute(vm, h.inv.ProxyContainer, h.opts.Proxy.DefaultPort, c)
		}
		a.addLinks(vm, c)
		a.addHostPorts(vm, c)
	}
	return g, nil
}

// assembler places the elements of one host graph. Styles are resolved once
// per kind, when it is created.
type assembler struct {
	scope Scope
	style map[domain.ElementKind]domain.Attributes
	// declared tracks node ids already placed; a node is declared once even
	// when several containers or networks refer to it.
	declared map[string]bool
}

func newAssembler(scope Scope, scheme domain.ColorScheme) (*assembler, error) {
	a := &assembler{
		scope:    scope,
		style:    make(map[domain.ElementKind]domain.Attributes, len(domain.ElementKinds)),
		declared: make(map[string]bool),
	}
	for _, kind := range domain.ElementKinds {
		attrs, err := Style(kind, scheme)
		if err != nil {
			return nil, err
		}
		a.style[kind] = attrs
	}
	return a, nil
}

func (a *assembler) declare(b *domain.Body, n *domain.Node) {
	if a.declared[n.ID] {
		return
	}
	a.declared[n.ID] = true
	b.AddNode(n)
}

func (a *assembler) addNetworks(vm *domain.Cluster, groups *NetworkGroups, hasProxy bool) {
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		network := vm.AddCluster(&domain.Cluster{
			ID:    a.scope.ClusterID(pair.Key, ""),
			Label: "Network : " + pair.Key,
			Attrs: a.style[domain.Network],
		})

		images := make(map[string]*domain.Cluster)
		for _, c := range pair.Value {
			id := a.scope.ID(c.Name)
			if !a.declared[id] {
				image, ok := images[c.Image]
				if !ok {
					image = network.AddCluster(&domain.Cluster{
						ID:    a.scope.ClusterID(c.Image, pair.Key),
						Label: c.Image,
						Attrs: a.style[domain.Image],
					})
					images[c.Image] = image
				}
				a.declare(&image.Body, &domain.Node{
					ID:    id,
					Label: NewRecordLabel(c).String(),
					Attrs: a.style[domain.Container],
				})
			}

			// The url node sits beside the image clusters so several
			// routes can point at it.
			if hasProxy && c.Routed() {
				a.declare(&network.Body, &domain.Node{
					ID:    a.scope.ID(*c.URL),
					Label: *c.URL,
					Attrs: a.style[domain.ProxyRoute],
				})
			}
		}
	}
}

func (a *assembler) addProxyRoute(vm *domain.Cluster, proxy, proxyPort string, c domain.ContainerDescriptor) {
	url := a.scope.Ref(*c.URL, "")
	vm.AddEdge(&domain.Edge{
		From:  a.scope.Ref(proxy, proxyPort),
		To:    url,
		Attrs: a.style[domain.ProxyRoute],
	})
	vm.AddEdge(&domain.Edge{
		From:  url,
		To:    a.scope.Ref(c.Name, c.BackendPort),
		Attrs: a.style[domain.ProxyRoute],
	})
}

// addLinks wires container links. The target may not be drawn at all
// (excluded, stopped); the edge still names it.
func (a *assembler) addLinks(vm *domain.Cluster, c domain.ContainerDescriptor) {
	for _, l := range c.Links {
		vm.AddEdge(&domain.Edge{
			From:  a.scope.Ref(c.Name, c.Name),
			To:    a.scope.Ref(l, l),
			Attrs: a.style[domain.Link],
		})
	}
}

func (a *assembler) addHostPorts(vm *domain.Cluster, c domain.ContainerDescriptor) {
	for pair := c.Ports.Oldest(); pair != nil; pair = pair.Next() {
		for _, port := range pair.Value {
			a.declare(&vm.Body, &domain.Node{
				ID:    a.scope.ID(port),
				Label: port,
				Attrs: a.style[domain.HostPort],
			})
			vm.AddEdge(&domain.Edge{
				From:  a.scope.Ref(port, ""),
				To:    a.scope.Ref(c.Name, pair.Key),
				Attrs: a.style[domain.HostPort],
			})
		}
	}
}

package domain

// Ref addresses a node, or one slot of a record node when Slot is set.
// Edges hold refs, not nodes, so a ref may name a node that was never
// declared.
type Ref struct {
	Node string
	Slot string
}

func (r Ref) String() string {
	if r.Slot == "" {
		return r.Node
	}
	return r.Node + ":" + r.Slot
}

// Node is a graph node. HTML labels are emitted as <...> instead of a
// quoted string.
type Node struct {
	ID    string
	Label string
	HTML  bool
	Attrs Attributes
}

// Edge is a directed edge between two refs.
type Edge struct {
	From  Ref
	To    Ref
	Attrs Attributes
}

// Body holds the statements of a graph or cluster, in declaration order.
type Body struct {
	Clusters []*Cluster
	Nodes    []*Node
	Edges    []*Edge
}

// AddCluster appends a cluster and returns it.
func (b *Body) AddCluster(c *Cluster) *Cluster {
	b.Clusters = append(b.Clusters, c)
	return c
}

// AddNode appends a node and returns it.
func (b *Body) AddNode(n *Node) *Node {
	b.Nodes = append(b.Nodes, n)
	return n
}

// AddEdge appends an edge and returns it.
func (b *Body) AddEdge(e *Edge) *Edge {
	b.Edges = append(b.Edges, e)
	return e
}

// Cluster is a nested, labelled group.
type Cluster struct {
	ID    string
	Label string
	Attrs Attributes
	Body
}

// Graph is a complete diagram description handed to a renderer.
type Graph struct {
	Name      string
	Comment   string
	Attrs     Attributes
	NodeAttrs Attributes
	Body
}

// Merge folds the statements of another graph into g.
func (g *Graph) Merge(other *Graph) {
	g.Clusters = append(g.Clusters, other.Clusters...)
	g.Nodes = append(g.Nodes, other.Nodes...)
	g.Edges = append(g.Edges, other.Edges...)
}

// WithBody returns a copy of g's header carrying the statements of other.
func (g *Graph) WithBody(other *Graph) *Graph {
	return &Graph{
		Name:      g.Name,
		Comment:   g.Comment,
		Attrs:     g.Attrs,
		NodeAttrs: g.NodeAttrs,
		Body:      other.Body,
	}
}

// Walk calls fn for the body of g and every nested cluster, depth first.
func (g *Graph) Walk(fn func(c *Cluster, b *Body)) {
	walk(nil, &g.Body, fn)
}

func walk(c *Cluster, b *Body, fn func(c *Cluster, b *Body)) {
	fn(c, b)
	for _, child := range b.Clusters {
		walk(child, &child.Body, fn)
	}
}

// NodeIDs returns the ids of all declared nodes.
func (g *Graph) NodeIDs() []string {
	var ids []string
	g.Walk(func(_ *Cluster, b *Body) {
		for _, n := range b.Nodes {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

// ClusterIDs returns the ids of all clusters.
func (g *Graph) ClusterIDs() []string {
	var ids []string
	g.Walk(func(c *Cluster, _ *Body) {
		if c != nil {
			ids = append(ids, c.ID)
		}
	})
	return ids
}

// AllEdges returns every edge of the graph.
func (g *Graph) AllEdges() []*Edge {
	var edges []*Edge
	g.Walk(func(_ *Cluster, b *Body) {
		edges = append(edges, b.Edges...)
	})
	return edges
}

// FindNode returns the node with the given id.
func (g *Graph) FindNode(id string) (*Node, bool) {
	var found *Node
	g.Walk(func(_ *Cluster, b *Body) {
		for _, n := range b.Nodes {
			if found == nil && n.ID == id {
				found = n
			}
		}
	})
	return found, found != nil
}

// FindCluster returns the cluster with the given id.
func (g *Graph) FindCluster(id string) (*Cluster, bool) {
	var found *Cluster
	g.Walk(func(c *Cluster, _ *Body) {
		if found == nil && c != nil && c.ID == id {
			found = c
		}
	})
	return found, found != nil
}

package graph

// Node is one entity in the assembled knowledge graph. Attributes carry the
// entity's free-form attribute map serialized to a single JSON string so that
// every persisted format can hold it as a flat value.
type Node struct {
	Key         string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SourceDoc   string `json:"source_doc"`
	Description string `json:"description"`
	Attributes  string `json:"attributes"`
}

// Edge is one directed relation between two nodes, referenced by node key.
type Edge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// Graph is a directed knowledge graph with insertion-ordered nodes. Lookups
// and traversals are read-only after assembly; the builder owns all writes.
type Graph struct {
	nodes map[string]*Node
	order []string

	edges []*Edge
	out   map[string][]*Edge
	in    map[string][]*Edge
}

func NewGraph() *Graph {
	return &Graph{
		nodes: map[string]*Node{},
		order: []string{},
		edges: []*Edge{},
		out:   map[string][]*Edge{},
		in:    map[string][]*Edge{},
	}
}

// AddNode inserts a node, replacing any node already stored under the same
// key without disturbing its position in insertion order.
func (g *Graph) AddNode(n *Node) {
	if _, exists := g.nodes[n.Key]; !exists {
		g.order = append(g.order, n.Key)
	}
	g.nodes[n.Key] = n
}

// AddEdge inserts a directed edge. It reports false when either endpoint is
// not present in the graph; such edges are not stored.
func (g *Graph) AddEdge(e *Edge) bool {
	if _, ok := g.nodes[e.Source]; !ok {
		return false
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return false
	}

	g.edges = append(g.edges, e)
	g.out[e.Source] = append(g.out[e.Source], e)
	g.in[e.Target] = append(g.in[e.Target], e)
	return true
}

// GetEntity returns the node stored under the given key.
func (g *Graph) GetEntity(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// ListEntities returns nodes in insertion order, optionally filtered by exact
// entity type. A limit <= 0 means no limit.
func (g *Graph) ListEntities(entityType string, limit int) []*Node {
	result := []*Node{}
	for _, key := range g.order {
		n := g.nodes[key]
		if entityType != "" && n.Type != entityType {
			continue
		}
		result = append(result, n)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	result := make([]*Node, 0, len(g.order))
	for _, key := range g.order {
		result = append(result, g.nodes[key])
	}
	return result
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

func (g *Graph) OutEdges(key string) []*Edge {
	return g.out[key]
}

func (g *Graph) InEdges(key string) []*Edge {
	return g.in[key]
}

func (g *Graph) NodeCount() int {
	return len(g.order)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// FindByName returns the first node, in insertion order, whose name equals
// the given name exactly.
func (g *Graph) FindByName(name string) (*Node, bool) {
	for _, key := range g.order {
		if g.nodes[key].Name == name {
			return g.nodes[key], true
		}
	}
	return nil, false
}

// Subgraph extracts the bounded neighborhood around the entity with the given
// name. Expansion is a breadth-first walk over the undirected neighbor union,
// one depth level at a time, capped at maxNodes total nodes. The center is
// always included; truncation follows insertion order within each level so
// the result is deterministic for a fixed graph. Edges are kept when both
// endpoints made it into the subgraph.
func (g *Graph) Subgraph(centerName string, depth int, maxNodes int) *Graph {
	sub := NewGraph()

	center, ok := g.FindByName(centerName)
	if !ok {
		return sub
	}

	included := map[string]bool{center.Key: true}
	frontier := []string{center.Key}

	for level := 0; level < depth; level++ {
		next := []string{}
		for _, key := range frontier {
			for _, neighbor := range g.neighbors(key) {
				if maxNodes > 0 && len(included) >= maxNodes {
					break
				}
				if included[neighbor] {
					continue
				}
				included[neighbor] = true
				next = append(next, neighbor)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	for _, key := range g.order {
		if included[key] {
			sub.AddNode(g.nodes[key])
		}
	}
	for _, e := range g.edges {
		if included[e.Source] && included[e.Target] {
			sub.AddEdge(e)
		}
	}

	return sub
}

// neighbors returns the undirected neighbor union of a node in deterministic
// order: edge targets first, then edge sources, following edge insertion
// order, without duplicates.
func (g *Graph) neighbors(key string) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, e := range g.out[key] {
		if !seen[e.Target] {
			seen[e.Target] = true
			result = append(result, e.Target)
		}
	}
	for _, e := range g.in[key] {
		if !seen[e.Source] {
			seen[e.Source] = true
			result = append(result, e.Source)
		}
	}
	return result
}

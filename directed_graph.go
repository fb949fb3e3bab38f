package pcfg

// DirectedGraph represents a directed graph over grammar symbols. Vertices and
// arcs keep their insertion order so every traversal is deterministic
type DirectedGraph struct {
	vertices []Symbol
	index    map[Symbol]int
	arcs     [][]int
	hasArc   map[[2]int]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		index:  map[Symbol]int{},
		hasArc: map[[2]int]bool{},
	}
}

func (g *DirectedGraph) vertex(s Symbol) int {
	if v, ok := g.index[s]; ok {
		return v
	}
	v := len(g.vertices)
	g.index[s] = v
	g.vertices = append(g.vertices, s)
	g.arcs = append(g.arcs, nil)
	return v
}

// AddVertex adds s without any arc
func (g *DirectedGraph) AddVertex(s Symbol) {
	g.vertex(s)
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Symbol) {
	sv, tv := g.vertex(s), g.vertex(t)
	if g.hasArc[[2]int{sv, tv}] {
		return
	}
	g.hasArc[[2]int{sv, tv}] = true
	g.arcs[sv] = append(g.arcs[sv], tv)
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t Symbol) bool {
	sv, ok := g.index[s]
	if !ok {
		return false
	}
	tv, ok := g.index[t]
	if !ok {
		return false
	}
	return g.hasArc[[2]int{sv, tv}]
}

// Vertices returns all vertices in insertion order
func (g *DirectedGraph) Vertices() []Symbol {
	return append([]Symbol(nil), g.vertices...)
}

// DFS runs depth-first search on graph and returns the vertices visited by
// deep-first order.
// It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s Symbol, visited map[Symbol]bool) []Symbol {
	v, ok := g.index[s]
	if visited[s] || !ok {
		return []Symbol{}
	}
	visited[s] = true

	order := []Symbol{s}
	for _, next := range g.arcs[v] {
		order = append(order, g.DFS(g.vertices[next], visited)...)
	}
	return order
}

// Reachable returns the set of vertices reachable from s, s included
func (g *DirectedGraph) Reachable(s Symbol) map[Symbol]bool {
	visited := map[Symbol]bool{}
	g.DFS(s, visited)
	return visited
}

// postorder appends v and everything below it in depth-first post-order
func (g *DirectedGraph) postorder(v int, visited []bool, order []Symbol) []Symbol {
	visited[v] = true
	for _, next := range g.arcs[v] {
		if !visited[next] {
			order = g.postorder(next, visited, order)
		}
	}
	return append(order, g.vertices[v])
}

// TopologicalSort sorts the graph by topological order. Vertices on a cycle
// keep a depth-first order among themselves
func (g *DirectedGraph) TopologicalSort() []Symbol {
	visited := make([]bool, len(g.vertices))
	order := []Symbol{}
	for v := range g.vertices {
		if !visited[v] {
			order = g.postorder(v, visited, order)
		}
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for _, s := range g.vertices {
		reversed.AddVertex(s)
	}
	for sv, targets := range g.arcs {
		for _, tv := range targets {
			reversed.Add(g.vertices[tv], g.vertices[sv])
		}
	}
	return reversed
}

// StrongComponents find strong connected components with more than one
// vertex, using Kosaraju's algorithm
func (g *DirectedGraph) StrongComponents() [][]Symbol {
	visited := map[Symbol]bool{}
	components := [][]Symbol{}
	topologicalOrder := g.TopologicalSort()
	gt := g.Transpose()
	for _, v := range topologicalOrder {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) <= 1 {
			continue
		}
		components = append(components, component)
	}
	return components
}

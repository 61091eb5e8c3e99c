package world

// Graph is an in-memory index of the route topology. Routes are
// undirected: one stored edge serves both directions. The topology only
// changes at world initialization, so a built graph is shared freely.
type Graph struct {
	edges map[string]map[string]*Route
	all   []*Route
}

// NewGraph indexes the given routes in both directions.
func NewGraph(routes []*Route) *Graph {
	g := &Graph{
		edges: make(map[string]map[string]*Route),
		all:   routes,
	}
	for _, r := range routes {
		g.index(r.FromZoneID, r.ToZoneID, r)
		g.index(r.ToZoneID, r.FromZoneID, r)
	}
	return g
}

func (g *Graph) index(from, to string, r *Route) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]*Route)
	}
	g.edges[from][to] = r
}

// RouteBetween returns the edge connecting two zones in either
// orientation.
func (g *Graph) RouteBetween(a, b string) (*Route, bool) {
	r, ok := g.edges[a][b]
	return r, ok
}

// Distance returns the edge length in ticks, satisfying the shipment
// path lookup signature.
func (g *Graph) Distance(a, b string) (int, bool) {
	r, ok := g.edges[a][b]
	if !ok {
		return 0, false
	}
	return r.Distance, true
}

// Touching returns every edge incident to a zone.
func (g *Graph) Touching(zoneID string) []*Route {
	neighbors := g.edges[zoneID]
	out := make([]*Route, 0, len(neighbors))
	seen := make(map[string]bool, len(neighbors))
	for _, r := range neighbors {
		if !seen[r.ID] {
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

// Routes returns every stored edge.
func (g *Graph) Routes() []*Route {
	return g.all
}

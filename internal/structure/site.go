package structure

// Location is a minimal node descriptor: a named place.
type Location struct {
	Name string
}

// ID implements NodeData.
func (l Location) ID() string { return l.Name }

// Passage is a minimal edge descriptor: a named connection.
type Passage struct {
	Name string
}

// ID implements EdgeData.
func (p Passage) ID() string { return p.Name }

// Site is a ready-made Structure implementation: a graph plus explicitly
// marked start, end and visitable node sets.
type Site struct {
	graph *Graph
	start []int64
	end   []int64
	visit []int64
}

// NewSite wraps a graph into a Site with empty node sets.
func NewSite(g *Graph) *Site {
	return &Site{graph: g}
}

// MarkStart adds spawn nodes.
func (s *Site) MarkStart(ids ...int64) {
	s.start = append(s.start, ids...)
}

// MarkEnd adds despawn nodes.
func (s *Site) MarkEnd(ids ...int64) {
	s.end = append(s.end, ids...)
}

// MarkVisitable adds legal destination nodes.
func (s *Site) MarkVisitable(ids ...int64) {
	s.visit = append(s.visit, ids...)
}

// Graph implements Structure.
func (s *Site) Graph() *Graph { return s.graph }

// StartNodes implements Structure.
func (s *Site) StartNodes() []int64 { return s.start }

// EndNodes implements Structure.
func (s *Site) EndNodes() []int64 { return s.end }

// VisitableNodes implements Structure.
func (s *Site) VisitableNodes() []int64 { return s.visit }

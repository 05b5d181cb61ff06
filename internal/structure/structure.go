// Package structure models the physical layout a simulation runs on: an
// undirected graph of locations whose nodes and edges carry opaque
// descriptors and attached sensors.
//
// The graph itself is backed by gonum's simple.UndirectedGraph; nodes are
// addressed by their gonum id everywhere else in the simulator.
package structure

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/bweide/sensim/internal/sensor"
)

// NodeData is the user-supplied descriptor of a location.
type NodeData interface {
	ID() string
}

// EdgeData is the user-supplied descriptor of a connection between two
// locations.
type EdgeData interface {
	ID() string
}

// Structure is the capability a simulation needs from its topology provider:
// the graph plus the three distinguished node sets. The sets may overlap.
type Structure interface {
	// Graph returns the location graph.
	Graph() *Graph
	// StartNodes are the nodes movable objects spawn at.
	StartNodes() []int64
	// EndNodes are the nodes movable objects despawn at.
	EndNodes() []int64
	// VisitableNodes are legal intermediate and destination nodes.
	VisitableNodes() []int64
}

// Node is a graph vertex with a descriptor and an ordered sensor list.
type Node struct {
	id      int64
	Data    NodeData
	sensors []sensor.Sensor
}

// ID implements gonum's graph.Node.
func (n *Node) ID() int64 { return n.id }

// AddSensor appends a sensor to the node.
func (n *Node) AddSensor(s sensor.Sensor) {
	n.sensors = append(n.sensors, s)
}

// AddSensors appends several sensors, keeping order.
func (n *Node) AddSensors(ss ...sensor.Sensor) {
	n.sensors = append(n.sensors, ss...)
}

// Sensors returns the node's sensors in attachment order.
func (n *Node) Sensors() []sensor.Sensor {
	return n.sensors
}

// Edge is an undirected connection with a descriptor and its own sensor list.
type Edge struct {
	f, t    *Node
	Data    EdgeData
	sensors []sensor.Sensor
}

// From implements gonum's graph.Edge.
func (e *Edge) From() graph.Node { return e.f }

// To implements gonum's graph.Edge.
func (e *Edge) To() graph.Node { return e.t }

// ReversedEdge implements gonum's graph.Edge. The graph is undirected, so the
// reversed edge carries the same descriptor and sensors.
func (e *Edge) ReversedEdge() graph.Edge {
	return &Edge{f: e.t, t: e.f, Data: e.Data, sensors: e.sensors}
}

// AddSensor appends a sensor to the edge.
func (e *Edge) AddSensor(s sensor.Sensor) {
	e.sensors = append(e.sensors, s)
}

// Sensors returns the edge's sensors in attachment order.
func (e *Edge) Sensors() []sensor.Sensor {
	return e.sensors
}

// Graph is an undirected location graph.
type Graph struct {
	g *simple.UndirectedGraph
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{g: simple.NewUndirectedGraph()}
}

// AddNode creates a node for the descriptor and returns it.
func (g *Graph) AddNode(data NodeData) *Node {
	n := &Node{id: g.g.NewNode().ID(), Data: data}
	g.g.AddNode(n)
	return n
}

// Connect links two nodes with an undirected edge carrying the descriptor.
func (g *Graph) Connect(a, b *Node, data EdgeData) *Edge {
	e := &Edge{f: a, t: b, Data: data}
	g.g.SetEdge(e)
	return e
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int64) *Node {
	n := g.g.Node(id)
	if n == nil {
		return nil
	}
	return n.(*Node)
}

// Nodes returns all nodes ordered by id. Iteration order matters: the uplink
// scheduler walks nodes in this order and sensor numbering must be stable.
func (g *Graph) Nodes() []*Node {
	it := g.g.Nodes()
	nodes := make([]*Node, 0, it.Len())
	for it.Next() {
		nodes = append(nodes, it.Node().(*Node))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	return nodes
}

// Edges returns all edges.
func (g *Graph) Edges() []*Edge {
	it := g.g.Edges()
	edges := make([]*Edge, 0)
	for it.Next() {
		edges = append(edges, it.Edge().(*Edge))
	}
	return edges
}

func (g *Graph) neighborIDs(id int64) []int64 {
	it := g.g.From(id)
	ids := make([]int64, 0, it.Len())
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

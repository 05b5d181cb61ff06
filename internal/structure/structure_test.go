package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bweide/sensim/internal/sensor"
)

// line builds a -- b -- c.
func line(t *testing.T) (*Graph, *Node, *Node, *Node) {
	t.Helper()
	g := NewGraph()
	a := g.AddNode(Location{Name: "a"})
	b := g.AddNode(Location{Name: "b"})
	c := g.AddNode(Location{Name: "c"})
	g.Connect(a, b, Passage{Name: "ab"})
	g.Connect(b, c, Passage{Name: "bc"})
	return g, a, b, c
}

func TestAllSimplePathsLine(t *testing.T) {
	g, a, b, c := line(t)
	paths := g.AllSimplePaths(a.ID(), c.ID())
	require.Len(t, paths, 1)
	assert.Equal(t, []int64{a.ID(), b.ID(), c.ID()}, paths[0])
}

func TestAllSimplePathsDiamond(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(Location{Name: "a"})
	b := g.AddNode(Location{Name: "b"})
	c := g.AddNode(Location{Name: "c"})
	d := g.AddNode(Location{Name: "d"})
	g.Connect(a, b, Passage{Name: "ab"})
	g.Connect(a, c, Passage{Name: "ac"})
	g.Connect(b, d, Passage{Name: "bd"})
	g.Connect(c, d, Passage{Name: "cd"})

	paths := g.AllSimplePaths(a.ID(), d.ID())
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, a.ID(), p[0])
		assert.Equal(t, d.ID(), p[len(p)-1])
		seen := map[int64]int{}
		for _, id := range p {
			seen[id]++
		}
		for id, count := range seen {
			assert.Equal(t, 1, count, "node %d repeated", id)
		}
	}
}

func TestAllSimplePathsDisconnected(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(Location{Name: "a"})
	b := g.AddNode(Location{Name: "b"})
	assert.Empty(t, g.AllSimplePaths(a.ID(), b.ID()))
}

func TestAllSimplePathsSameNodeYieldsCycles(t *testing.T) {
	g, a, b, _ := line(t)
	// a -- b only reaches back to a through b, so the single cycle is a,b,a.
	paths := g.AllSimplePaths(a.ID(), a.ID())
	require.Len(t, paths, 1)
	assert.Equal(t, []int64{a.ID(), b.ID(), a.ID()}, paths[0])
}

func TestAllSimplePathsMissingNode(t *testing.T) {
	g, a, _, _ := line(t)
	assert.Nil(t, g.AllSimplePaths(a.ID(), 99))
}

func TestNodesSortedAndSensorsOrdered(t *testing.T) {
	g, a, b, _ := line(t)
	st := sensor.NewSensorType("SensorType_0", "DevProf_1", 60)
	first := sensor.New(sensor.FormatID("a", 0, st.ID), st, 0)
	second := sensor.New(sensor.FormatID("a", 1, st.ID), st, 1)
	a.AddSensors(first, second)
	b.AddSensor(sensor.New(sensor.FormatID("b", 0, st.ID), st, 2))

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	for i := 1; i < len(nodes); i++ {
		assert.Less(t, nodes[i-1].ID(), nodes[i].ID())
	}
	require.Len(t, nodes[0].Sensors(), 2)
	assert.Equal(t, first.ID, nodes[0].Sensors()[0].ID)
	assert.Equal(t, second.ID, nodes[0].Sensors()[1].ID)
}

func TestSite(t *testing.T) {
	g, a, b, c := line(t)
	site := NewSite(g)
	site.MarkStart(a.ID())
	site.MarkEnd(c.ID())
	site.MarkVisitable(b.ID(), c.ID())

	assert.Equal(t, []int64{a.ID()}, site.StartNodes())
	assert.Equal(t, []int64{c.ID()}, site.EndNodes())
	assert.Equal(t, []int64{b.ID(), c.ID()}, site.VisitableNodes())
	assert.Same(t, g, site.Graph())
}

func TestEdgeSensors(t *testing.T) {
	g, _, _, _ := line(t)
	st := sensor.NewSensorType("SensorType_0", "DevProf_1", 60)
	edges := g.Edges()
	require.NotEmpty(t, edges)
	edges[0].AddSensor(sensor.New(sensor.FormatID("ab", 0, st.ID), st, 3))
	assert.Len(t, edges[0].Sensors(), 1)
}

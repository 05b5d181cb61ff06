package structure

// AllSimplePaths enumerates every simple path between two nodes, each path a
// node-id sequence starting at from and ending at to. No path visits an
// intermediate node twice. When from equals to the enumeration yields the
// cycles through from, if any. The result is nil when either node is missing
// or the nodes are not connected; callers decide whether that is an error.
//
// Enumeration is exponential on dense graphs. The movement generator picks
// one path uniformly from the full set, so the set must be complete.
func (g *Graph) AllSimplePaths(from, to int64) [][]int64 {
	if g.g.Node(from) == nil || g.g.Node(to) == nil {
		return nil
	}

	var paths [][]int64
	visited := map[int64]bool{from: true}
	path := []int64{from}

	var walk func(current int64)
	walk = func(current int64) {
		for _, next := range g.neighborIDs(current) {
			if next == to {
				found := make([]int64, len(path)+1)
				copy(found, path)
				found[len(path)] = to
				paths = append(paths, found)
				continue
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			delete(visited, next)
		}
	}
	walk(from)

	return paths
}

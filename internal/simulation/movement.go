package simulation

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/bweide/sensim/internal/daytime"
	"github.com/bweide/sensim/internal/event"
	"github.com/bweide/sensim/internal/structure"
)

// Dwell times, in minutes, a movable object stays at an excursion target
// before heading home.
var dwellMinutes = []int{6, 13, 25}

// generateMovement synthesizes the creation, movement and deletion events for
// every movable object. Each object spawns at a random start node around the
// creation time, walks to a randomly chosen home among the visitable nodes,
// roams between home and random targets, and finally walks to a random end
// node so that its last step lands one step-duration before its deletion.
//
// The length parameter is reserved as a termination bound and currently
// ignored.
func (s *Simulator) generateMovement(length int) error {
	_ = length

	st, err := s.params.Structure()
	if err != nil {
		return err
	}
	mov := s.params.Movables()

	g := st.Graph()
	startNodes := st.StartNodes()
	endNodes := st.EndNodes()
	visitable := st.VisitableNodes()
	if len(startNodes) == 0 || len(endNodes) == 0 || len(visitable) == 0 {
		return fmt.Errorf("%w: start, end and visitable node sets must be non-empty", ErrConfig)
	}

	speed := mov.Speed()

	for i := 0; i < mov.NumberOfObjects(); i++ {
		// Spawn around the creation time, normally distributed with a
		// spread of half an hour expressed in milliseconds.
		creationTime := mov.TimeOfCreation().Add(s.normalHourOffset())
		startNode := startNodes[s.rng.Intn(len(startNodes))]
		s.events.Add(event.New(event.MovableCreationID(i), creationTime, event.CreateAt(startNode)))

		// First walk establishes the object's home anchor.
		path, err := s.pickPath(g, startNode, visitable, nil)
		if err != nil {
			return err
		}
		home := path[len(path)-1]
		s.homes = append(s.homes, objectHome{node: home, object: i})

		moves := 0
		next := creationTime
		moves, next = s.emitMoves(i, moves, path, next, speed)

		for m := 0; m < mov.NumberOfRandomMoves(); m++ {
			target := visitable[s.rng.Intn(len(visitable))]
			path, err = s.pickPath(g, home, visitable, &target)
			if err != nil {
				return err
			}
			next = next.Add(90 * time.Minute)
			last := path[len(path)-1]
			moves, next = s.emitMoves(i, moves, path, next, speed)

			wait := dwellMinutes[s.rng.Intn(len(dwellMinutes))]
			next = next.Add(time.Duration(wait) * time.Minute)
			path, err = s.pickPath(g, last, visitable, &home)
			if err != nil {
				return err
			}
			moves, next = s.emitMoves(i, moves, path, next, speed)
		}

		// Despawn around the deletion time, walking out so the final step
		// lands one step-duration before the deletion itself.
		deletionTime := mov.TimeOfDeletion().Add(s.normalHourOffset())
		endNode := endNodes[s.rng.Intn(len(endNodes))]
		s.events.Add(event.New(event.MovableDeletionID(i), deletionTime, event.DeleteAt(endNode)))

		path, err = s.pickPath(g, home, visitable, &endNode)
		if err != nil {
			return err
		}
		remaining := int64(len(path))
		stepSeconds := int64(speed / time.Second)
		for _, node := range path {
			at := deletionTime.Add(-time.Duration(remaining*stepSeconds) * time.Second)
			s.events.Add(event.New(event.MovableMoveID(i, moves), at, event.MoveTo(node)))
			moves++
			remaining--
		}
	}

	log.Printf("movement generated; objects=%d events=%d", mov.NumberOfObjects(), s.events.Len())
	return nil
}

// normalHourOffset draws from Normal(0, 0.5) hours, rounded to milliseconds.
func (s *Simulator) normalHourOffset() time.Duration {
	v := s.rng.NormFloat64() * 0.5
	return time.Duration(math.Round(v*3_600_000)) * time.Millisecond
}

// pickPath enumerates the simple paths from a node to the target and picks
// one uniformly. With a nil target a destination is drawn uniformly from the
// candidates first. An empty enumeration means the structure cannot carry the
// walk and is fatal.
func (s *Simulator) pickPath(g *structure.Graph, from int64, candidates []int64, to *int64) ([]int64, error) {
	var target int64
	if to == nil {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: no candidate nodes to move to", ErrConfig)
		}
		target = candidates[s.rng.Intn(len(candidates))]
	} else {
		target = *to
	}

	paths := g.AllSimplePaths(from, target)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no simple path from node %d to node %d", ErrTopology, from, target)
	}
	return paths[s.rng.Intn(len(paths))], nil
}

// emitMoves schedules a Move event for every path vertex after the first,
// spaced by the step speed, and returns the updated move counter and cursor.
func (s *Simulator) emitMoves(object, moves int, path []int64, next daytime.Time, speed time.Duration) (int, daytime.Time) {
	for _, node := range path[1:] {
		next = next.Add(speed)
		s.events.Add(event.New(event.MovableMoveID(object, moves), next, event.MoveTo(node)))
		moves++
	}
	return moves, next
}

// Package simulation runs discrete-event simulations of rule-driven sensor
// networks: movable objects traverse an undirected structure, sensors emit
// periodic uplinks, and a rule engine sweeps the resulting event log,
// injecting downlink commands and rewriting later uplinks.
package simulation

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bweide/sensim/internal/daytime"
	"github.com/bweide/sensim/internal/event"
	"github.com/bweide/sensim/internal/sensor"
)

// Stay records a movable object entering a node.
type Stay struct {
	Object int
	Time   daytime.Time
	Node   int64
}

type objectHome struct {
	node   int64
	object int
}

// Simulator owns the event list and drives the simulation phases:
//
//	StartUp -> InjectStandardValues -> RunRules -> Finish
//
// The simulator is single-threaded; nothing here is safe for concurrent use.
type Simulator struct {
	runID  uuid.UUID
	params *Parameters
	events *event.List
	eval   *Evaluation
	homes  []objectHome
	rng    *rand.Rand
}

// Option customizes Simulator creation.
type Option func(*Simulator)

// WithRand overrides the simulator's random source. Useful for deterministic
// tests; reproducibility is otherwise not a contract.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New creates a Simulator around prepared parameters.
func New(params *Parameters, opts ...Option) *Simulator {
	sim := &Simulator{
		runID:  uuid.New(),
		params: params,
		events: event.NewList(),
		eval:   NewEvaluation(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(sim)
	}
	return sim
}

// RunID identifies this simulation run in logs and exported data.
func (s *Simulator) RunID() uuid.UUID {
	return s.runID
}

// Parameters returns the run's parameters.
func (s *Simulator) Parameters() *Parameters {
	return s.params
}

// EventList returns the live event list.
func (s *Simulator) EventList() *event.List {
	return s.events
}

// Evaluation returns the run's evaluation record.
func (s *Simulator) Evaluation() *Evaluation {
	return s.eval
}

// StartUp populates the event list: movement events for every movable object,
// then periodic uplink events for every sensor spanning the movement window.
// The length parameter is accepted as a future termination bound and is not
// consulted.
func (s *Simulator) StartUp(length int) error {
	s.eval.SimulationStarted = time.Now()
	log.Printf("simulation %s starting; objects=%d sensorTypes=%d rules=%d",
		s.runID, s.params.Movables().NumberOfObjects(), len(s.params.SensorTypes()), len(s.params.Rules()))

	if err := s.generateMovement(length); err != nil {
		return err
	}
	if err := s.scheduleUplinks(); err != nil {
		return err
	}
	log.Printf("simulation %s start-up complete; events=%d", s.runID, s.events.Len())
	return nil
}

// InjectStandardValues fills the ** placeholders of scheduled uplink
// messages. sensorTypes holds sensor-type indices as strings ("0", "1", ...);
// data[i] holds the replacement values for events of that type, applied
// leftmost placeholder first.
func (s *Simulator) InjectStandardValues(sensorTypes []string, data [][]string) {
	events := s.events.Events()
	for i, ev := range events {
		if ev.Action.Kind != event.KindMessage || ev.Action.Message == "" {
			continue
		}
		message := ev.Action.Message
		for sens := range sensorTypes {
			if !strings.Contains(ev.ID, sensor.TypeIDPrefix+sensorTypes[sens]) {
				continue
			}
			for _, replacement := range data[sens] {
				message = strings.Replace(message, "**", replacement, 1)
			}
		}
		s.events.Replace(i, event.New(ev.ID, ev.Time, event.MessageOf(message)))
	}
}

// Finish closes the run: stamps the end time, tallies message counts and
// writes the evaluation report into dir. It returns the final event list.
func (s *Simulator) Finish(dir string) (*event.List, error) {
	s.eval.SimulationEnded = time.Now()

	counts := make([]MessageCounts, len(s.params.SensorTypes()))
	var uplinks, downlinks uint64
	for _, ev := range s.events.Events() {
		if ev.Action.Kind != event.KindMessage {
			continue
		}
		typeIndex, err := sensor.TypeIndexFromID(ev.ID)
		if err != nil {
			return nil, err
		}
		if typeIndex < 0 || typeIndex >= len(counts) {
			return nil, fmt.Errorf("%w: sensor type index %d out of range", ErrConfig, typeIndex)
		}
		switch {
		case strings.Contains(ev.Action.Message, "Downlink"):
			counts[typeIndex].Downlinks++
			downlinks++
		case strings.Contains(ev.Action.Message, "Uplink"):
			counts[typeIndex].Uplinks++
			uplinks++
		}
	}
	s.eval.UplinkMessages = uplinks
	s.eval.DownlinkMessages = downlinks
	s.eval.PerSensorType = counts

	if err := s.eval.WriteReport(dir, s.events.Len()); err != nil {
		return nil, err
	}
	log.Printf("simulation %s finished; events=%d uplinks=%d downlinks=%d",
		s.runID, s.events.Len(), uplinks, downlinks)
	return s.events, nil
}

// HomeOf returns the anchor node a movable object returns to between
// excursions, recorded when its first walk was generated.
func (s *Simulator) HomeOf(object int) (int64, bool) {
	for _, h := range s.homes {
		if h.object == object {
			return h.node, true
		}
	}
	return 0, false
}

// MovableObjectMatrix groups the Move events by movable object, in event-list
// order.
func (s *Simulator) MovableObjectMatrix() ([][]Stay, error) {
	matrix := make([][]Stay, s.params.Movables().NumberOfObjects())
	for _, ev := range s.events.Events() {
		if ev.Action.Kind != event.KindMove {
			continue
		}
		object, err := event.MovableIndexFromID(ev.ID)
		if err != nil {
			return nil, err
		}
		if object < 0 || object >= len(matrix) {
			return nil, fmt.Errorf("%w: movable object %d out of range", ErrConfig, object)
		}
		matrix[object] = append(matrix[object], Stay{Object: object, Time: ev.Time, Node: ev.Action.Node})
	}
	return matrix, nil
}

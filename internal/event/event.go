// Package event holds the simulation event record and the time-ordered event
// list every simulation phase works on.
package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bweide/sensim/internal/daytime"
)

// Kind discriminates the action variants of an event.
type Kind int

const (
	// KindCreate is the first appearance of a movable object on the graph.
	KindCreate Kind = iota
	// KindMove is a movable object entering a node.
	KindMove
	// KindDelete is the last appearance of a movable object on the graph.
	KindDelete
	// KindMessage is a sensor uplink or downlink message.
	KindMessage
)

// Action is the payload of an event: a node for Create/Move/Delete, a message
// string for Message.
type Action struct {
	Kind    Kind
	Node    int64
	Message string
}

// CreateAt builds a creation action at the given node.
func CreateAt(node int64) Action { return Action{Kind: KindCreate, Node: node} }

// MoveTo builds a move action to the given node.
func MoveTo(node int64) Action { return Action{Kind: KindMove, Node: node} }

// DeleteAt builds a deletion action at the given node.
func DeleteAt(node int64) Action { return Action{Kind: KindDelete, Node: node} }

// MessageOf builds a message action with the given payload.
func MessageOf(payload string) Action { return Action{Kind: KindMessage, Message: payload} }

// String renders the action the way the event-list dump expects it, e.g.
// "Move(3)" or "Message(Uplink_Message_temperature:21,)".
func (a Action) String() string {
	switch a.Kind {
	case KindCreate:
		return fmt.Sprintf("Create(%d)", a.Node)
	case KindMove:
		return fmt.Sprintf("Move(%d)", a.Node)
	case KindDelete:
		return fmt.Sprintf("Delete(%d)", a.Node)
	case KindMessage:
		return "Message(" + a.Message + ")"
	}
	return fmt.Sprintf("Unknown(%d)", int(a.Kind))
}

// Event is a scheduled simulation step. The id encodes the owning movable
// object or sensor; see the id helpers below.
type Event struct {
	ID     string
	Time   daytime.Time
	Action Action
}

// New builds an event.
func New(id string, t daytime.Time, action Action) Event {
	return Event{ID: id, Time: t, Action: action}
}

// String renders one event-list dump line (without the trailing newline).
func (e Event) String() string {
	return "Time: " + e.Time.String() + ", id: " + e.ID + ", action: " + e.Action.String()
}

// List is a weakly time-ordered sequence of events. The zero value is ready
// to use.
type List struct {
	events []Event
}

// NewList returns an empty event list.
func NewList() *List {
	return &List{}
}

// Add inserts the event before the first entry whose time is strictly later
// than the event's own, appending otherwise. Equal-time events therefore keep
// insertion order; the rule engine depends on that to keep downlinks emitted
// by several rules off the same trigger in rule order.
func (l *List) Add(e Event) {
	i := 0
	for ; i < len(l.events); i++ {
		if l.events[i].Time.After(e.Time) {
			break
		}
	}
	l.events = append(l.events, Event{})
	copy(l.events[i+1:], l.events[i:])
	l.events[i] = e
}

// Events returns the underlying slice. The rule engine mutates entries in
// place through it.
func (l *List) Events() []Event {
	return l.events
}

// Len returns the number of events.
func (l *List) Len() int {
	return len(l.events)
}

// Replace overwrites the event at position i.
func (l *List) Replace(i int, e Event) {
	l.events[i] = e
}

// Event id conventions. These strings cross internal boundaries: the rule
// engine and the reporter parse indices back out of them.
const (
	movablePrefix = "Movable_object_"
	messagePrefix = "Message_of_"
)

// MovableCreationID renders "Movable_object_<i>_Creation".
func MovableCreationID(object int) string {
	return movablePrefix + strconv.Itoa(object) + "_Creation"
}

// MovableMoveID renders "Movable_object_<i>_Move_no._<k>".
func MovableMoveID(object, move int) string {
	return movablePrefix + strconv.Itoa(object) + "_Move_no._" + strconv.Itoa(move)
}

// MovableDeletionID renders "Movable_object_<i>_Deletion".
func MovableDeletionID(object int) string {
	return movablePrefix + strconv.Itoa(object) + "_Deletion"
}

// MessageID renders "Message_of_<sensorNumber>_<sensorId>".
func MessageID(sensorNumber int64, sensorID string) string {
	return messagePrefix + strconv.FormatInt(sensorNumber, 10) + "_" + sensorID
}

// MovableIndexFromID recovers <i> from any "Movable_object_<i>_..." id.
func MovableIndexFromID(id string) (int, error) {
	trimmed := strings.TrimPrefix(id, movablePrefix)
	if trimmed == id {
		return 0, fmt.Errorf("not a movable-object event id: %q", id)
	}
	end := strings.Index(trimmed, "_")
	if end < 0 {
		return 0, fmt.Errorf("malformed movable-object event id: %q", id)
	}
	index, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0, fmt.Errorf("movable-object index in %q: %w", id, err)
	}
	return index, nil
}

// SensorNumberFromID recovers <sensorNumber> from a "Message_of_<n>_..." id.
func SensorNumberFromID(id string) (int64, error) {
	trimmed := strings.TrimPrefix(id, messagePrefix)
	if trimmed == id {
		return 0, fmt.Errorf("not a message event id: %q", id)
	}
	end := strings.Index(trimmed, "_")
	if end < 0 {
		return 0, fmt.Errorf("malformed message event id: %q", id)
	}
	number, err := strconv.ParseInt(trimmed[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sensor number in %q: %w", id, err)
	}
	return number, nil
}

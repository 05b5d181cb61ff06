// Package rule models the automation rules the engine sweeps the event log
// with: boolean combinations of device and time conditions that trigger
// downlink actions on target devices.
package rule

import (
	"fmt"
	"time"

	"github.com/bweide/sensim/internal/daytime"
)

// Condition is either a DeviceCondition or a TimeCondition.
type Condition interface {
	isCondition()
}

// DeviceCondition compares one payload of a sensor's latest uplink against a
// threshold.
type DeviceCondition struct {
	// SensorID is the full sensor id; the engine recovers the sensor-type
	// index from it.
	SensorID string
	// SensorNumber indexes the latest-reading table.
	SensorNumber int64
	// PayloadIndex selects the payload within the uplink schema.
	PayloadIndex int
	// Operator is one of < <= > >= == !=.
	Operator string
	// Threshold is the right-hand side of the comparison.
	Threshold RefValue
}

func (DeviceCondition) isCondition() {}

// TimeCondition restricts firing to a daily time window. The window may wrap
// around midnight. Weekday is kept for model completeness; the engine
// evaluates the window only.
type TimeCondition struct {
	Weekday   *time.Weekday
	SpanStart daytime.Time
	SpanEnd   daytime.Time
}

func (TimeCondition) isCondition() {}

// Matches tests a time against the window. All three sub-predicates use
// strict inequalities, so a window with SpanStart == SpanEnd matches nothing.
func (c TimeCondition) Matches(t daytime.Time) bool {
	start, end := c.SpanStart, c.SpanEnd
	// Plain window, e.g. 15:00 in 12:00-16:00.
	if start.Before(t) && t.Before(end) && start.Before(end) {
		return true
	}
	// Wrapped window, time after midnight, e.g. 15:00 in 23:00-16:00.
	if start.After(t) && t.Before(end) && start.After(end) {
		return true
	}
	// Wrapped window, time before midnight, e.g. 15:00 in 14:00-02:00.
	if start.Before(t) && t.After(end) && start.After(end) {
		return true
	}
	return false
}

// Action names the device a firing rule commands and which downlink payloads
// to send.
type Action struct {
	SensorID       string
	SensorNumber   int64
	PayloadIndices []int
}

// SensorRef identifies one sensor a rule reads.
type SensorRef struct {
	ID     string
	Number int64
}

// Rule combines conditions with left-associative boolean connectives and the
// actions to run when the combination holds. len(Connectives) must be
// len(Conditions)-1 for a non-empty condition list.
type Rule struct {
	ID          string
	Conditions  []Condition
	Connectives []string
	Actions     []Action
}

// New builds a rule.
func New(id string, conditions []Condition, connectives []string, actions []Action) Rule {
	return Rule{ID: id, Conditions: conditions, Connectives: connectives, Actions: actions}
}

// SensorRefs lists the sensors referenced by the rule's device conditions, in
// declaration order. Time conditions contribute nothing.
func (r Rule) SensorRefs() []SensorRef {
	var refs []SensorRef
	for _, c := range r.Conditions {
		if dc, ok := c.(DeviceCondition); ok {
			refs = append(refs, SensorRef{ID: dc.SensorID, Number: dc.SensorNumber})
		}
	}
	return refs
}

// ParseConnectives maps connective symbols to boolean functions. Only
// & (and), | (or) and ^ (xor) are valid.
func ParseConnectives(connectives []string) ([]func(bool, bool) bool, error) {
	fns := make([]func(bool, bool) bool, 0, len(connectives))
	for _, c := range connectives {
		switch c {
		case "&":
			fns = append(fns, func(a, b bool) bool { return a && b })
		case "|":
			fns = append(fns, func(a, b bool) bool { return a || b })
		case "^":
			fns = append(fns, func(a, b bool) bool { return a != b })
		default:
			return nil, fmt.Errorf("unknown boolean connective %q", c)
		}
	}
	return fns, nil
}

// Fold applies the connectives to the condition results left to right, with
// no precedence. The connectives are consumed positionally: connective i
// joins the accumulator with values[i+1].
func Fold(values []bool, connectives []string) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}
	fns, err := ParseConnectives(connectives)
	if err != nil {
		return false, err
	}
	result := values[0]
	for i := 1; i < len(values); i++ {
		if i-1 >= len(fns) {
			return false, fmt.Errorf("connective %d missing for %d condition results", i-1, len(values))
		}
		result = fns[i-1](result, values[i])
	}
	return result, nil
}

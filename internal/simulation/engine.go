package simulation

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bweide/sensim/internal/daytime"
	"github.com/bweide/sensim/internal/device"
	"github.com/bweide/sensim/internal/event"
	"github.com/bweide/sensim/internal/rule"
	"github.com/bweide/sensim/internal/sensor"
)

// noReadingPlaceholder marks a sensor that has not reported yet. A rule
// touching such a sensor is held back until every input has a real sample.
const noReadingPlaceholder = "Ü_Ü"

const downlinkMessagePrefix = "Downlink_Message_command:"

// reading is the latest known state of one sensor: which rules consumed the
// current sample, when it arrived and its raw payload.
type reading struct {
	usedBy  []string
	at      daytime.Time
	payload string
}

func (r reading) consumedBy(ruleID string) bool {
	for _, id := range r.usedBy {
		if id == ruleID {
			return true
		}
	}
	return false
}

// RunRules sweeps the event list once, in time order, evaluating every rule
// against the latest per-sensor readings. A firing rule injects downlink
// events one millisecond after its freshest input sample and rewrites all
// later uplinks of the commanded sensor to reflect the commanded state.
// Events injected during the sweep extend the list and are themselves swept.
func (s *Simulator) RunRules() error {
	s.eval.RuleExecutionStarted = time.Now()
	log.Printf("rule execution started; rules=%d events=%d", len(s.params.Rules()), s.events.Len())

	table := make([]reading, s.params.NumberOfSensors()+1)
	for i := range table {
		table[i] = reading{payload: noReadingPlaceholder}
	}

	for i := 0; i < s.events.Len(); i++ {
		ev := s.events.Events()[i]
		if ev.Action.Kind != event.KindMessage {
			continue
		}

		number, err := event.SensorNumberFromID(ev.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPayloadFormat, err)
		}
		if number < 0 || int(number) >= len(table) {
			return fmt.Errorf("%w: sensor number %d outside reading table", ErrConfig, number)
		}
		// A new sample resets the freshness marks of the sensor.
		table[number] = reading{at: ev.Time, payload: ev.Action.Message}

		if err := s.evaluateRules(i, table); err != nil {
			return err
		}
	}

	s.eval.RuleExecutionEnded = time.Now()
	log.Printf("rule execution ended; events=%d", s.events.Len())
	return nil
}

// evaluateRules runs every rule, in registration order, against the reading
// table as it stands after the event at index i was absorbed.
func (s *Simulator) evaluateRules(i int, table []reading) error {
rules:
	for _, r := range s.params.Rules() {
		refs := r.SensorRefs()

		// Freshness gate: every input sensor must hold a real sample the
		// rule has not consumed yet.
		var times []daytime.Time
		for _, ref := range refs {
			if ref.Number < 0 || int(ref.Number) >= len(table) {
				return fmt.Errorf("%w: rule %s references sensor number %d outside reading table", ErrConfig, r.ID, ref.Number)
			}
			sample := table[ref.Number]
			if sample.consumedBy(r.ID) || sample.payload == noReadingPlaceholder {
				continue rules
			}
			times = append(times, sample.at)
		}

		var values []bool
		for _, c := range r.Conditions {
			switch cond := c.(type) {
			case rule.DeviceCondition:
				holds, skip, err := s.evalDeviceCondition(cond, table)
				if err != nil {
					return fmt.Errorf("rule %s: %w", r.ID, err)
				}
				if skip {
					continue rules
				}
				values = append(values, holds)
				table[cond.SensorNumber].usedBy = append(table[cond.SensorNumber].usedBy, r.ID)
			case rule.TimeCondition:
				matched := false
				for _, at := range times {
					if cond.Matches(at) {
						matched = true
					}
				}
				if !matched {
					continue rules
				}
				values = append(values, true)
			default:
				return fmt.Errorf("%w: rule %s has a condition of unknown type %T", ErrConfig, r.ID, c)
			}
		}

		if len(values) == 0 {
			continue rules
		}
		fired, err := rule.Fold(values, r.Connectives)
		if err != nil {
			return fmt.Errorf("rule %s: %w", r.ID, err)
		}
		if !fired {
			continue rules
		}

		fireAt := times[0]
		for _, at := range times[1:] {
			if at.After(fireAt) {
				fireAt = at
			}
		}

		for _, action := range r.Actions {
			if err := s.executeAction(i, r, action, fireAt); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalDeviceCondition compares the referenced sensor's latest payload field
// against the condition's threshold. skip means the rule as a whole must be
// abandoned without firing (no uplink schema, or the payload name does not
// match the schema); an error aborts the sweep.
func (s *Simulator) evalDeviceCondition(cond rule.DeviceCondition, table []reading) (holds, skip bool, err error) {
	profile, err := s.profileForSensorID(cond.SensorID)
	if err != nil {
		return false, false, err
	}
	if profile.Uplink == nil {
		return false, true, nil
	}
	if cond.PayloadIndex < 0 || cond.PayloadIndex >= len(profile.Uplink.Payloads) {
		return false, false, fmt.Errorf("%w: payload index %d outside uplink schema of %s", ErrConfig, cond.PayloadIndex, profile.ID)
	}
	declared := profile.Uplink.Payloads[cond.PayloadIndex]

	if cond.SensorNumber < 0 || int(cond.SensorNumber) >= len(table) {
		return false, false, fmt.Errorf("%w: sensor number %d outside reading table", ErrConfig, cond.SensorNumber)
	}
	name, value, err := payloadField(table[cond.SensorNumber].payload, cond.PayloadIndex)
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", ErrPayloadFormat, err)
	}
	if name != declared {
		return false, true, nil
	}

	holds, err = cond.Threshold.Compare(cond.Operator, value)
	if err != nil {
		if errors.Is(err, rule.ErrUnsupportedThreshold) {
			return false, false, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		return false, false, fmt.Errorf("%w: %v", ErrPayloadFormat, err)
	}
	return holds, false, nil
}

// executeAction injects the downlink for one action one millisecond after the
// firing time and rewrites every later non-downlink event with the same id
// into an uplink reporting the commanded state.
func (s *Simulator) executeAction(i int, r rule.Rule, action rule.Action, fireAt daytime.Time) error {
	profile, err := s.profileForSensorID(action.SensorID)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	if profile.Downlink == nil {
		return fmt.Errorf("%w: profile %s has no downlink schema", ErrProfileLookup, profile.ID)
	}
	if profile.Uplink == nil {
		return fmt.Errorf("%w: profile %s has no uplink schema to rewrite", ErrProfileLookup, profile.ID)
	}

	message := downlinkMessagePrefix
	commands := make([]string, 0, len(action.PayloadIndices))
	for _, index := range action.PayloadIndices {
		if index < 0 || index >= len(profile.Downlink.Payloads) {
			return fmt.Errorf("%w: payload index %d outside downlink schema of %s", ErrConfig, index, profile.ID)
		}
		command := profile.Downlink.Payloads[index].CommandName
		commands = append(commands, command)
		message += command + ","
	}

	id := event.MessageID(action.SensorNumber, action.SensorID)
	s.events.Add(event.New(id, fireAt.Add(time.Millisecond), event.MessageOf(message)))

	rewrite := uplinkMessagePrefix
	pairs := len(profile.Uplink.Payloads)
	if len(commands) < pairs {
		pairs = len(commands)
	}
	for j := 0; j < pairs; j++ {
		rewrite += profile.Uplink.Payloads[j] + ":" + commands[j] + ","
	}

	events := s.events.Events()
	for k := i + 1; k < len(events); k++ {
		later := events[k]
		if strings.Contains(later.Action.Message, "Downlink_") {
			continue
		}
		if later.ID == id {
			s.events.Replace(k, event.New(later.ID, later.Time, event.MessageOf(rewrite)))
		}
	}
	return nil
}

// profileForSensorID resolves the device profile behind a sensor id by
// recovering the sensor-type index embedded in it.
func (s *Simulator) profileForSensorID(sensorID string) (device.Profile, error) {
	typeIndex, err := sensor.TypeIndexFromID(sensorID)
	if err != nil {
		return device.Profile{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	types := s.params.SensorTypes()
	if typeIndex < 0 || typeIndex >= len(types) {
		return device.Profile{}, fmt.Errorf("%w: sensor type index %d not registered", ErrConfig, typeIndex)
	}
	profile, err := s.params.Profiles().ByID(types[typeIndex].DeviceProfileID)
	if err != nil {
		return device.Profile{}, fmt.Errorf("%w: %v", ErrProfileLookup, err)
	}
	return profile, nil
}

// payloadField extracts the name:value pair at the given index from an uplink
// message body.
func payloadField(message string, index int) (name, value string, err error) {
	body := strings.TrimPrefix(message, uplinkMessagePrefix)
	body = strings.TrimSuffix(body, ",")
	fields := strings.Split(body, ",")
	if index < 0 || index >= len(fields) {
		return "", "", fmt.Errorf("payload index %d outside message %q", index, message)
	}
	parts := strings.SplitN(fields[index], ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("payload %q has no name:value separator", fields[index])
	}
	return parts[0], parts[1], nil
}

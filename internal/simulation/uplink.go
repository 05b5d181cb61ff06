package simulation

import (
	"fmt"
	"log"
	"time"

	"github.com/bweide/sensim/internal/daytime"
	"github.com/bweide/sensim/internal/event"
)

// uplinkMessagePrefix starts every scheduled uplink template; the rule engine
// strips it before parsing payload fields.
const uplinkMessagePrefix = "Uplink_Message_"

// dummyUplinkMessage is scheduled for sensors whose profile has no uplink
// schema.
const dummyUplinkMessage = uplinkMessagePrefix + "dummy_message"

// scheduleUplinks adds a periodic uplink event series for every sensor on
// every node, covering one interval before the earliest and one interval
// after the latest event currently in the list. Each sensor's series carries
// a small phase offset taken from the wall clock's subsecond component; the
// offset only keeps series apart and callers must not rely on its value.
func (s *Simulator) scheduleUplinks() error {
	st, err := s.params.Structure()
	if err != nil {
		return err
	}
	events := s.events.Events()
	if len(events) == 0 {
		return fmt.Errorf("%w: no movement events to span the uplink window", ErrConfig)
	}
	windowStart := events[0].Time.Offset()
	windowEnd := events[len(events)-1].Time.Offset()

	scheduled := 0
	for _, node := range st.Graph().Nodes() {
		for _, sn := range node.Sensors() {
			interval := time.Duration(sn.Type.UplinkIntervalSec) * time.Second
			if interval <= 0 {
				return fmt.Errorf("%w: sensor %s has uplink interval 0", ErrConfig, sn.ID)
			}
			template, err := s.uplinkTemplate(sn.Type.DeviceProfileID)
			if err != nil {
				return err
			}

			phase := time.Duration(time.Now().Nanosecond()/1_000_000) * time.Millisecond
			limit := windowEnd + interval + phase
			for at := windowStart - interval + phase; at <= limit; at += interval {
				id := event.MessageID(sn.Number, sn.ID)
				s.events.Add(event.New(id, daytime.FromDuration(at), event.MessageOf(template)))
				scheduled++
			}
		}
	}

	log.Printf("uplinks scheduled; messages=%d", scheduled)
	return nil
}

// uplinkTemplate renders the empty uplink message for a device profile:
// "Uplink_Message_<payload>:**,..." with one placeholder per payload, or the
// dummy message when the profile has no uplink schema.
func (s *Simulator) uplinkTemplate(deviceProfileID string) (string, error) {
	profile, err := s.params.Profiles().ByID(deviceProfileID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProfileLookup, err)
	}
	if profile.Uplink == nil {
		return dummyUplinkMessage, nil
	}
	message := uplinkMessagePrefix
	for _, payload := range profile.Uplink.Payloads {
		message += payload + ":**,"
	}
	return message, nil
}

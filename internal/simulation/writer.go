package simulation

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bweide/sensim/internal/event"
)

// WriteEventList dumps the full event list into a timestamp-named text file
// in dir, one "Time: ..., id: ..., action: ..." line per event.
func (s *Simulator) WriteEventList(dir string) error {
	now := time.Now()
	name := fmt.Sprintf("Event_List_%s_%d_%d_%d.txt",
		now.Format("2006-01-02"), now.Hour(), now.Minute(), now.Second())
	return s.writeFiltered(filepath.Join(dir, name), func(event.Event) bool { return true })
}

// WriteEventsOf dumps only the events whose id contains the given id, e.g.
// one movable object's events or one sensor's messages.
func (s *Simulator) WriteEventsOf(dir, id string) error {
	now := time.Now()
	name := fmt.Sprintf("%s%s_%d_%d_%d.txt",
		id, now.Format("2006-01-02"), now.Hour(), now.Minute(), now.Second())
	return s.writeFiltered(filepath.Join(dir, name), func(e event.Event) bool {
		return strings.Contains(e.ID, id)
	})
}

// WriteDownlinkMessages dumps only the downlink message events.
func (s *Simulator) WriteDownlinkMessages(dir string) error {
	now := time.Now()
	name := fmt.Sprintf("Downlink_Messages_%d_%d_%d.txt", now.Hour(), now.Minute(), now.Second())
	return s.writeFiltered(filepath.Join(dir, name), func(e event.Event) bool {
		return strings.Contains(e.Action.Message, "Downlink_Message_")
	})
}

func (s *Simulator) writeFiltered(path string, keep func(event.Event) bool) error {
	var b strings.Builder
	for _, ev := range s.events.Events() {
		if keep(ev) {
			b.WriteString(ev.String())
			b.WriteByte('\n')
		}
	}
	if err := appendFile(path, b.String()); err != nil {
		return fmt.Errorf("write event list: %w", err)
	}
	return nil
}

// PrintEventList prints every event followed by the list length.
func (s *Simulator) PrintEventList() {
	for _, ev := range s.events.Events() {
		fmt.Println(ev.String())
	}
	fmt.Printf("Length: %d\n", s.events.Len())
}

// PrintEventsOf prints the events whose id contains the given id.
func (s *Simulator) PrintEventsOf(id string) {
	for _, ev := range s.events.Events() {
		if strings.Contains(ev.ID, id) {
			fmt.Println(ev.String())
		}
	}
}

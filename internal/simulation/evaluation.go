package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const reportTimeLayout = "2006-01-02 15:04:05.000000 -07:00"

// MessageCounts tallies the messages of one sensor type.
type MessageCounts struct {
	Uplinks   uint64
	Downlinks uint64
}

// Evaluation captures the timing and message statistics of one run. It is
// filled in by the simulator and written out once at teardown.
type Evaluation struct {
	SimulationStarted    time.Time
	SimulationEnded      time.Time
	RuleExecutionStarted time.Time
	RuleExecutionEnded   time.Time

	UplinkMessages   uint64
	DownlinkMessages uint64
	// PerSensorType has one entry per registered sensor type, indexed by the
	// sensor-type number.
	PerSensorType []MessageCounts
}

// NewEvaluation returns an Evaluation with all timestamps set to now.
func NewEvaluation() *Evaluation {
	now := time.Now()
	return &Evaluation{
		SimulationStarted:    now,
		SimulationEnded:      now,
		RuleExecutionStarted: now,
		RuleExecutionEnded:   now,
	}
}

// WriteReport writes the timestamped evaluation file into dir.
func (e *Evaluation) WriteReport(dir string, eventListLength int) error {
	now := time.Now()
	name := fmt.Sprintf("Evaluation_%s_%d_%d_%d.txt",
		now.Format("2006-01-02"), now.Hour(), now.Minute(), now.Second())

	var b strings.Builder
	fmt.Fprintf(&b, "Start of the simulation: %s\n", e.SimulationStarted.Format(reportTimeLayout))
	fmt.Fprintf(&b, "End of the simulation: %s\n", e.SimulationEnded.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Length of simulation: %s\n\n", formatSeconds(e.SimulationEnded.Sub(e.SimulationStarted)))

	fmt.Fprintf(&b, "Start of rule execution: %s\n", e.RuleExecutionStarted.Format(reportTimeLayout))
	fmt.Fprintf(&b, "End of rule execution: %s\n", e.RuleExecutionEnded.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Length of rule execution: %s\n\n", formatSeconds(e.RuleExecutionEnded.Sub(e.RuleExecutionStarted)))

	fmt.Fprintf(&b, "Length of event list: %d\n\n", eventListLength)

	fmt.Fprintf(&b, "Number of messages: %d\n", e.UplinkMessages+e.DownlinkMessages)
	fmt.Fprintf(&b, "Number of uplink messages: %d\n", e.UplinkMessages)
	fmt.Fprintf(&b, "Number of downlink messages: %d\n\n", e.DownlinkMessages)

	b.WriteString("Number of downlink and uplink messages per sensor type:")
	for i, counts := range e.PerSensorType {
		fmt.Fprintf(&b, "\n\t Sensor type %d: %d uplink messages, %d downlink messages,", i, counts.Uplinks, counts.Downlinks)
	}

	if err := appendFile(filepath.Join(dir, name), b.String()); err != nil {
		return fmt.Errorf("write evaluation report: %w", err)
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + " sec"
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

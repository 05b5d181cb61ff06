// Package sensor holds the sensor and sensor-type model.
//
// Sensor identifiers are load-bearing strings: the rule engine and the
// evaluation reporter recover the sensor-type index and the sensor number by
// substring parsing, so the formats produced here must stay stable.
package sensor

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeIDPrefix starts every sensor-type id; the numeric suffix is the
// registration index of the type.
const TypeIDPrefix = "SensorType_"

// SensorType describes a class of sensors sharing a device profile and an
// uplink cadence.
type SensorType struct {
	ID                string
	DeviceProfileID   string
	UplinkIntervalSec uint64
}

// NewSensorType builds a SensorType. The id has to follow the pattern
// "SensorType_<k>" where k is the registration index of the type.
func NewSensorType(id, deviceProfileID string, uplinkIntervalSec uint64) SensorType {
	return SensorType{
		ID:                id,
		DeviceProfileID:   deviceProfileID,
		UplinkIntervalSec: uplinkIntervalSec,
	}
}

// Sensor is a single device attached to a node or edge of the structure.
// Number is a dense, globally unique index used by the rule engine to address
// the latest-reading table.
type Sensor struct {
	ID     string
	Number int64
	Type   SensorType
}

// New builds a Sensor. The id should come from FormatID so that it is
// recoverable by the parsers below.
func New(id string, typ SensorType, number int64) Sensor {
	return Sensor{ID: id, Number: number, Type: typ}
}

// FormatID renders the canonical sensor id:
// "Sensor_<nodeId>_no._<k>_of_type_SensorType_<t>".
// The sensor-type id already carries the "SensorType_" prefix.
func FormatID(nodeID string, ordinal int, typeID string) string {
	return fmt.Sprintf("Sensor_%s_no._%d_of_type_%s", nodeID, ordinal, typeID)
}

// TypeIndexFromID recovers the numeric sensor-type index from any string that
// ends with "SensorType_<t>", such as a sensor id or a message event id.
func TypeIndexFromID(id string) (int, error) {
	marker := strings.LastIndex(id, TypeIDPrefix)
	if marker < 0 {
		return 0, fmt.Errorf("no %q marker in %q", TypeIDPrefix, id)
	}
	suffix := id[marker+len(TypeIDPrefix):]
	index, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("sensor type index in %q: %w", id, err)
	}
	return index, nil
}

package simulation

import (
	"fmt"
	"strconv"

	"github.com/bweide/sensim/internal/device"
	"github.com/bweide/sensim/internal/rule"
	"github.com/bweide/sensim/internal/sensor"
	"github.com/bweide/sensim/internal/structure"
)

// Parameters aggregates everything a simulation run needs: the structure to
// move on, the movable-object capability, the rule list, the device-profile
// registry and the sensor-type registry. All of it is built before startup
// and stays immutable while the simulation runs.
type Parameters struct {
	structure       structure.Structure
	movables        MovableObjects
	rules           []rule.Rule
	profiles        *device.Container
	sensorTypes     []sensor.SensorType
	numberOfSensors int64
}

// NewParameters builds Parameters around a movable-objects provider. The
// structure has to be set before startup.
func NewParameters(movables MovableObjects) *Parameters {
	return &Parameters{
		movables: movables,
		profiles: device.NewContainer(),
	}
}

// SetStructure installs the topology provider.
func (p *Parameters) SetStructure(s structure.Structure) {
	p.structure = s
}

// Structure returns the topology provider, or ErrConfig when none was set.
func (p *Parameters) Structure() (structure.Structure, error) {
	if p.structure == nil {
		return nil, fmt.Errorf("%w: no structure set", ErrConfig)
	}
	return p.structure, nil
}

// Movables returns the movable-objects provider.
func (p *Parameters) Movables() MovableObjects {
	return p.movables
}

// SetRules installs the rule list.
func (p *Parameters) SetRules(rules []rule.Rule) {
	p.rules = rules
}

// Rules returns the rules in registration order.
func (p *Parameters) Rules() []rule.Rule {
	return p.rules
}

// Profiles returns the device-profile registry.
func (p *Parameters) Profiles() *device.Container {
	return p.profiles
}

// SensorTypes returns the sensor types in registration order.
func (p *Parameters) SensorTypes() []sensor.SensorType {
	return p.sensorTypes
}

// SetNumberOfSensors records the total sensor count; it sizes the rule
// engine's latest-reading table.
func (p *Parameters) SetNumberOfSensors(n int64) {
	p.numberOfSensors = n
}

// NumberOfSensors returns the total sensor count.
func (p *Parameters) NumberOfSensors() int64 {
	return p.numberOfSensors
}

// AddDeviceProfile registers a device profile together with the sensor type
// using it. Profile ids follow "DevProf_<k>" counting from 1, sensor-type ids
// "SensorType_<k>" counting from 0. At least one of the two schemas must be
// given and the uplink interval must be positive.
func (p *Parameters) AddDeviceProfile(uplinkIntervalSec uint64, uplink *device.Uplink, downlink *device.Downlink) (sensor.SensorType, error) {
	if uplink == nil && downlink == nil {
		return sensor.SensorType{}, fmt.Errorf("%w: device profile needs an uplink or downlink specification", ErrConfig)
	}
	if uplinkIntervalSec == 0 {
		return sensor.SensorType{}, fmt.Errorf("%w: uplink interval must be positive", ErrConfig)
	}

	profileID := "DevProf_" + strconv.Itoa(p.profiles.Len()+1)
	typeID := sensor.TypeIDPrefix + strconv.Itoa(len(p.sensorTypes))

	p.profiles.Add(device.NewProfile(profileID, uplink, downlink))
	st := sensor.NewSensorType(typeID, profileID, uplinkIntervalSec)
	p.sensorTypes = append(p.sensorTypes, st)
	return st, nil
}

// AddDeviceProfileViaFiles registers a device profile from JSON specification
// files. Either path may be empty, but not both.
func (p *Parameters) AddDeviceProfileViaFiles(uplinkIntervalSec uint64, downlinkSpecFile, uplinkSpecFile string) (sensor.SensorType, error) {
	if downlinkSpecFile == "" && uplinkSpecFile == "" {
		return sensor.SensorType{}, fmt.Errorf("%w: no specification file was given", ErrConfig)
	}

	var profile device.Profile
	if downlinkSpecFile != "" {
		if err := profile.ReadDownlink(downlinkSpecFile); err != nil {
			return sensor.SensorType{}, err
		}
	}
	if uplinkSpecFile != "" {
		if err := profile.ReadUplink(uplinkSpecFile); err != nil {
			return sensor.SensorType{}, err
		}
	}
	return p.AddDeviceProfile(uplinkIntervalSec, profile.Uplink, profile.Downlink)
}

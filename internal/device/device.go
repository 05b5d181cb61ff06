// Package device holds uplink/downlink payload schemas for sensor hardware
// and the registry the simulation looks them up in.
package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnknownProfile is returned when a profile id is not registered.
var ErrUnknownProfile = errors.New("unknown device profile")

// Uplink describes the payload names a device reports, in schema order.
// Payload indices are stable identifiers.
type Uplink struct {
	Payloads []string `json:"payloads"`
}

// DownlinkPayload is one command a device accepts.
type DownlinkPayload struct {
	CommandName string `json:"commandName"`
}

// Downlink describes the commands a device accepts, in schema order.
type Downlink struct {
	Payloads []DownlinkPayload `json:"payloads"`
}

// Profile couples the optional uplink and downlink schemas of a device class.
type Profile struct {
	ID       string
	Uplink   *Uplink
	Downlink *Downlink
}

// NewProfile builds a profile. Either schema may be nil.
func NewProfile(id string, uplink *Uplink, downlink *Downlink) Profile {
	return Profile{ID: id, Uplink: uplink, Downlink: downlink}
}

// ReadUplink parses an uplink specification file into the profile.
func (p *Profile) ReadUplink(path string) error {
	var up Uplink
	if err := readSpec(path, &up); err != nil {
		return fmt.Errorf("uplink specification %s: %w", path, err)
	}
	p.Uplink = &up
	return nil
}

// ReadDownlink parses a downlink specification file into the profile.
func (p *Profile) ReadDownlink(path string) error {
	var down Downlink
	if err := readSpec(path, &down); err != nil {
		return fmt.Errorf("downlink specification %s: %w", path, err)
	}
	p.Downlink = &down
	return nil
}

func readSpec(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}

// Container registers device profiles, keeps them in registration order and
// resolves ids to positions. Each profile carries its own uplink and downlink
// schemas.
type Container struct {
	profiles []Profile
}

// NewContainer returns an empty registry.
func NewContainer() *Container {
	return &Container{}
}

// Add appends a profile.
func (c *Container) Add(p Profile) {
	c.profiles = append(c.profiles, p)
}

// Profiles returns the registered profiles in registration order.
func (c *Container) Profiles() []Profile {
	return c.profiles
}

// Len returns the number of registered profiles.
func (c *Container) Len() int {
	return len(c.profiles)
}

// IndexOf resolves a profile id to its registration index.
func (c *Container) IndexOf(id string) (int, error) {
	for i, p := range c.profiles {
		if p.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownProfile, id)
}

// ByID resolves a profile id to the profile itself.
func (c *Container) ByID(id string) (Profile, error) {
	i, err := c.IndexOf(id)
	if err != nil {
		return Profile{}, err
	}
	return c.profiles[i], nil
}

package simulation

import "errors"

// Failure kinds surfaced by the simulation phases. Setup mistakes and I/O
// failures propagate to the caller; an error out of the movement or rule
// hot loops is fatal to the run and the event list is undefined afterwards.
var (
	// ErrConfig covers missing topology, empty node sets, profiles without
	// any schema, zero uplink intervals and rules referencing sensors or
	// payload indices that do not exist.
	ErrConfig = errors.New("invalid simulation configuration")

	// ErrTopology is returned when no simple path connects two required
	// nodes of the structure.
	ErrTopology = errors.New("no path through structure")

	// ErrPayloadFormat is returned when an uplink message does not follow
	// the name:value,... schema or a value does not parse under the
	// threshold's type.
	ErrPayloadFormat = errors.New("malformed message payload")

	// ErrProfileLookup is returned when a sensor type references an
	// unknown device profile, or a fired action needs a schema the profile
	// does not carry.
	ErrProfileLookup = errors.New("device profile lookup failed")
)

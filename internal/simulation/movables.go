package simulation

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/bweide/sensim/internal/daytime"
)

// MovableObjects is the capability describing the actors that traverse the
// structure: how many there are, how often they roam, when they appear and
// disappear, and how long one step between adjacent nodes takes.
type MovableObjects interface {
	NumberOfObjects() int
	NumberOfRandomMoves() int
	TimeOfCreation() daytime.Time
	TimeOfDeletion() daytime.Time
	Speed() time.Duration
}

// MovableObjectSet is the plain-value MovableObjects provider.
type MovableObjectSet struct {
	Count       int
	RandomMoves int
	Creation    daytime.Time
	Deletion    daytime.Time
	StepSpeed   time.Duration
}

// NumberOfObjects implements MovableObjects.
func (m MovableObjectSet) NumberOfObjects() int { return m.Count }

// NumberOfRandomMoves implements MovableObjects.
func (m MovableObjectSet) NumberOfRandomMoves() int { return m.RandomMoves }

// TimeOfCreation implements MovableObjects.
func (m MovableObjectSet) TimeOfCreation() daytime.Time { return m.Creation }

// TimeOfDeletion implements MovableObjects.
func (m MovableObjectSet) TimeOfDeletion() daytime.Time { return m.Deletion }

// Speed implements MovableObjects.
func (m MovableObjectSet) Speed() time.Duration { return m.StepSpeed }

const (
	countEnvKey    = "SENSIM_MOVABLE_COUNT"
	movesEnvKey    = "SENSIM_RANDOM_MOVES"
	creationEnvKey = "SENSIM_CREATION_TIME"
	deletionEnvKey = "SENSIM_DELETION_TIME"
	speedEnvKey    = "SENSIM_SPEED"

	defaultCount    = 3
	defaultMoves    = 2
	defaultSpeed    = 30 * time.Second
	clockLayout     = "15:04:05"
	defaultCreation = "08:00:00"
	defaultDeletion = "18:00:00"
)

// MovablesFromEnv builds a MovableObjectSet from the environment, falling
// back to defaults for unset or invalid values.
func MovablesFromEnv() MovableObjectSet {
	return MovableObjectSet{
		Count:       intFromEnv(countEnvKey, defaultCount),
		RandomMoves: intFromEnv(movesEnvKey, defaultMoves),
		Creation:    clockFromEnv(creationEnvKey, defaultCreation),
		Deletion:    clockFromEnv(deletionEnvKey, defaultDeletion),
		StepSpeed:   durationFromEnv(speedEnvKey, defaultSpeed),
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("invalid %s value %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

func clockFromEnv(key, fallback string) daytime.Time {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		log.Printf("invalid %s value %q: %v, using default %s", key, raw, err, fallback)
		parsed, _ = time.Parse(clockLayout, fallback)
	}
	return daytime.Of(parsed.Hour(), parsed.Minute(), parsed.Second())
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	dur, err := time.ParseDuration(raw)
	if err != nil || dur <= 0 {
		log.Printf("invalid %s value %q, using default %s", key, raw, fallback)
		return fallback
	}
	return dur
}

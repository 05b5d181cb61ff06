package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatID(t *testing.T) {
	id := FormatID("Lobby", 2, "SensorType_7")
	assert.Equal(t, "Sensor_Lobby_no._2_of_type_SensorType_7", id)
}

func TestTypeIndexFromID(t *testing.T) {
	id := FormatID("Hall", 0, "SensorType_3")
	index, err := TypeIndexFromID(id)
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	// Message event ids embed the full sensor id and must parse the same way.
	index, err = TypeIndexFromID("Message_of_4_" + id)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
}

func TestTypeIndexFromIDErrors(t *testing.T) {
	_, err := TypeIndexFromID("Sensor_without_marker")
	assert.Error(t, err)

	_, err = TypeIndexFromID("Sensor_x_of_type_SensorType_abc")
	assert.Error(t, err)
}

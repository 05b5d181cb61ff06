package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bweide/sensim/internal/device"
)

func TestAddDeviceProfileNumbering(t *testing.T) {
	params := NewParameters(MovableObjectSet{})

	first, err := params.AddDeviceProfile(60, &device.Uplink{Payloads: []string{"a"}}, nil)
	require.NoError(t, err)
	second, err := params.AddDeviceProfile(120, nil, &device.Downlink{Payloads: []device.DownlinkPayload{{CommandName: "GO"}}})
	require.NoError(t, err)

	// Profile ids count from 1, sensor-type ids from 0.
	assert.Equal(t, "SensorType_0", first.ID)
	assert.Equal(t, "DevProf_1", first.DeviceProfileID)
	assert.Equal(t, "SensorType_1", second.ID)
	assert.Equal(t, "DevProf_2", second.DeviceProfileID)
	assert.Equal(t, uint64(120), second.UplinkIntervalSec)

	require.Len(t, params.SensorTypes(), 2)
	assert.Equal(t, 2, params.Profiles().Len())

	p, err := params.Profiles().ByID("DevProf_2")
	require.NoError(t, err)
	assert.Nil(t, p.Uplink)
	require.NotNil(t, p.Downlink)
}

func TestAddDeviceProfileValidation(t *testing.T) {
	params := NewParameters(MovableObjectSet{})

	_, err := params.AddDeviceProfile(60, nil, nil)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = params.AddDeviceProfile(0, &device.Uplink{Payloads: []string{"a"}}, nil)
	assert.ErrorIs(t, err, ErrConfig)

	assert.Empty(t, params.SensorTypes())
	assert.Equal(t, 0, params.Profiles().Len())
}

func TestAddDeviceProfileViaFiles(t *testing.T) {
	dir := t.TempDir()
	uplinkPath := filepath.Join(dir, "uplink.json")
	require.NoError(t, os.WriteFile(uplinkPath, []byte(`{"payloads": ["temperature"]}`), 0o644))
	downlinkPath := filepath.Join(dir, "downlink.json")
	require.NoError(t, os.WriteFile(downlinkPath, []byte(`{"payloads": [{"commandName": "HEAT_OFF"}]}`), 0o644))

	params := NewParameters(MovableObjectSet{})
	st, err := params.AddDeviceProfileViaFiles(60, downlinkPath, uplinkPath)
	require.NoError(t, err)
	assert.Equal(t, "SensorType_0", st.ID)

	p, err := params.Profiles().ByID(st.DeviceProfileID)
	require.NoError(t, err)
	require.NotNil(t, p.Uplink)
	assert.Equal(t, []string{"temperature"}, p.Uplink.Payloads)
	require.NotNil(t, p.Downlink)
	assert.Equal(t, "HEAT_OFF", p.Downlink.Payloads[0].CommandName)
}

func TestAddDeviceProfileViaFilesValidation(t *testing.T) {
	params := NewParameters(MovableObjectSet{})

	_, err := params.AddDeviceProfileViaFiles(60, "", "")
	assert.ErrorIs(t, err, ErrConfig)

	_, err = params.AddDeviceProfileViaFiles(60, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Equal(t, 0, params.Profiles().Len())
}

func TestStructureAccessor(t *testing.T) {
	params := NewParameters(MovableObjectSet{})
	_, err := params.Structure()
	assert.ErrorIs(t, err, ErrConfig)
}

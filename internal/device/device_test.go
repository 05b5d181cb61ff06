package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadUplink(t *testing.T) {
	path := writeFile(t, "uplink.json", `{"payloads": ["temperature", "humidity"]}`)
	p := NewProfile("DevProf_1", nil, nil)
	require.NoError(t, p.ReadUplink(path))
	require.NotNil(t, p.Uplink)
	assert.Equal(t, []string{"temperature", "humidity"}, p.Uplink.Payloads)
	assert.Nil(t, p.Downlink)
}

func TestReadDownlink(t *testing.T) {
	path := writeFile(t, "downlink.json", `{"payloads": [{"commandName": "ON"}, {"commandName": "OFF"}]}`)
	p := NewProfile("DevProf_1", nil, nil)
	require.NoError(t, p.ReadDownlink(path))
	require.NotNil(t, p.Downlink)
	require.Len(t, p.Downlink.Payloads, 2)
	assert.Equal(t, "OFF", p.Downlink.Payloads[1].CommandName)
}

func TestReadSpecErrors(t *testing.T) {
	p := NewProfile("DevProf_1", nil, nil)
	assert.Error(t, p.ReadUplink(filepath.Join(t.TempDir(), "missing.json")))

	bad := writeFile(t, "bad.json", `{"payloads": `)
	assert.Error(t, p.ReadDownlink(bad))
}

func TestContainerLookup(t *testing.T) {
	c := NewContainer()
	c.Add(NewProfile("DevProf_1", &Uplink{Payloads: []string{"t"}}, nil))
	c.Add(NewProfile("DevProf_2", nil, &Downlink{Payloads: []DownlinkPayload{{CommandName: "X"}}}))

	i, err := c.IndexOf("DevProf_2")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	p, err := c.ByID("DevProf_1")
	require.NoError(t, err)
	assert.Equal(t, "DevProf_1", p.ID)

	_, err = c.IndexOf("DevProf_9")
	assert.ErrorIs(t, err, ErrUnknownProfile)
	assert.Equal(t, 2, c.Len())
}

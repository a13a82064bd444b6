package packument

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByline(t *testing.T) {
	m := ParseByline("Jane Doe <jane@example.com> (https://example.com)")
	assert.Equal(t, "Jane Doe", m.Name)
	assert.Equal(t, "jane@example.com", m.Email)
	assert.Equal(t, "https://example.com", m.URL)
}

func TestParseByline_NameOnly(t *testing.T) {
	m := ParseByline("Jane Doe")
	assert.Equal(t, "Jane Doe", m.Name)
	assert.Empty(t, m.Email)
	assert.Empty(t, m.URL)
}

func TestMaintainer_UnmarshalObject(t *testing.T) {
	var m Maintainer
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Jane","email":"jane@example.com"}`), &m))
	assert.Equal(t, "Jane", m.Name)
	assert.Equal(t, "jane@example.com", m.Email)
}

func TestMaintainer_UnmarshalByline(t *testing.T) {
	var m Maintainer
	require.NoError(t, json.Unmarshal([]byte(`"Jane Doe <jane@example.com>"`), &m))
	assert.Equal(t, "Jane Doe", m.Name)
	assert.Equal(t, "jane@example.com", m.Email)
}

func TestMaintainer_RoundTripByline(t *testing.T) {
	var m Maintainer
	require.NoError(t, json.Unmarshal([]byte(`"Jane Doe <jane@example.com> (https://example.com)"`), &m))
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"Jane Doe <jane@example.com> (https://example.com)"`, string(data))
}

func TestMaintainer_RoundTripObject(t *testing.T) {
	m := Maintainer{Name: "Jane", Email: "jane@example.com"}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Jane", decoded["name"])
}

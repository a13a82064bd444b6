package packument

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistTags_RoundTrip(t *testing.T) {
	data := []byte(`{"latest":"1.0.0","beta":"1.1.0-beta.0"}`)
	var tags DistTags
	require.NoError(t, json.Unmarshal(data, &tags))
	require.NotNil(t, tags.Latest)
	assert.Equal(t, "1.0.0", *tags.Latest)
	assert.Equal(t, "1.1.0-beta.0", tags.Tags["beta"])

	out, err := json.Marshal(tags)
	require.NoError(t, err)
	var roundTripped map[string]string
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	assert.Equal(t, "1.0.0", roundTripped["latest"])
	assert.Equal(t, "1.1.0-beta.0", roundTripped["beta"])
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "foo-1.0.1.tgz", AttachmentName("foo", "1.0.1"))
}

func TestPackumentVersion_PreservesUnknownFields(t *testing.T) {
	data := []byte(`{"name":"foo","version":"1.0.0","dist":{"tarball":"https://x/foo.tgz","shasum":"abc"},"extra_field":"kept"}`)
	var v PackumentVersion
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal(t, "foo", v.Name)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "kept", decoded["extra_field"])
	assert.Equal(t, "1.0.0", decoded["version"])
}

func TestPackument_RoundTrip(t *testing.T) {
	data := []byte(`{"name":"foo","versions":{"1.0.0":{"_id":"foo@1.0.0","dist":{"tarball":"https://upstream/foo/-/foo-1.0.0.tgz","shasum":"abc"}}}}`)
	var p Packument
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "foo", p.Name)
	v, ok := p.Versions["1.0.0"]
	require.True(t, ok)
	assert.Equal(t, "https://upstream/foo/-/foo-1.0.0.tgz", v.Dist.Tarball)
}

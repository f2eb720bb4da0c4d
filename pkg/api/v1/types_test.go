package v1

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/yaml"
)

func TestByteSize_UnmarshalJSON(t *testing.T) {
	var cases = []struct {
		in  string
		out ByteSize
		ok  bool
	}{
		{`2638217216`, 2638217216, true},
		{`"2638217216"`, 2638217216, true},
		{`"1GiB"`, 1 << 30, true},
		{`-1`, 0, false},
		{`1.5`, 0, false},
		{`true`, 0, false},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			var b ByteSize
			err := json.Unmarshal([]byte(tt.in), &b)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.out, b)
		})
	}
}

func TestOutputSize(t *testing.T) {
	var o OutputSize
	require.NoError(t, json.Unmarshal([]byte(`"auto"`), &o))
	assert.True(t, o.IsAuto())

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.EqualValues(t, `"auto"`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`"8GiB"`), &o))
	assert.EqualValues(t, 8<<30, o)

	data, err = json.Marshal(o)
	require.NoError(t, err)
	assert.EqualValues(t, "8589934592", string(data))
}

const request = `
apiVersion: offspot.kiwix.org/v1
kind: Hotspot
metadata:
  name: my-offspot
spec:
  name: My Offspot
  base:
    source: 1.2.0
    rootfsSize: 2.5GiB
  output:
    size: auto
  domain: my-offspot
  environ:
    - name: ADMIN_PASSWORD
      value: s3cret
  features:
    - type: dashboard
      options:
        allowZimDownloads: true
    - type: reverse-proxy
`

func TestHotspot_Decode(t *testing.T) {
	var h Hotspot
	err := yaml.NewYAMLOrJSONDecoder(strings.NewReader(request), 4).Decode(&h)
	require.NoError(t, err)

	assert.EqualValues(t, "my-offspot", h.Name)
	assert.EqualValues(t, "Hotspot", h.Kind)
	assert.EqualValues(t, "1.2.0", h.Spec.Base.Source)
	assert.EqualValues(t, 2684354560, h.Spec.Base.RootfsSize)
	assert.True(t, h.Spec.Output.Size.IsAuto())
	require.Len(t, h.Spec.Features, 2)
	assert.EqualValues(t, true, h.Spec.Features[0].Options["allowZimDownloads"])
	assert.Empty(t, h.Spec.Features[1].Options)
}

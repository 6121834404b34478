package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-binout/binout"
	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/testutil"
)

func openSample(t *testing.T) *binout.Binout {
	t.Helper()
	b, err := binout.Open(testutil.Sample(testutil.Default()).WriteFile(t, "binout0000"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestPrintTree(t *testing.T) {
	b := openSample(t)

	var buf bytes.Buffer
	require.NoError(t, printTree(&buf, b, newPalette(&buf, true)))

	want := `metadata/
  version string[5]
nodout/
  metadata/
    ids int32[2]
    title string[12]
  d000001/
    time float64[1]
    x_displacement float64[1]
    y_displacement float64[1]
  d000002/
    time float64[1]
    x_displacement float64[1]
  d000003/
    time float64[1]
    x_displacement float64[1]
    y_displacement float64[1]
glstat/
  d000001/
    time float32[1]
    kinetic_energy float32[1]
  d000002/
    time float32[1]
    kinetic_energy float32[1]
`
	assert.Equal(t, want, buf.String())
}

func TestWriteResultText(t *testing.T) {
	b := openSample(t)

	tests := []struct {
		path []string
		want string
	}{
		{nil, "metadata\nnodout\nglstat\n"},
		{[]string{"glstat"}, "time\nkinetic_energy\n"},
		{[]string{"nodout", "x_displacement"}, "1\t10\n3\t30\n5\t50\n"},
		{[]string{"nodout", "ids"}, "101\n102\n"},
		{[]string{"nodout", "title"}, "nodal output\n"},
	}

	for _, tt := range tests {
		t.Run(binout.JoinPath(tt.path...), func(t *testing.T) {
			res, err := b.Read(tt.path...)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, writeResult(&buf, res, formatText))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteResultTextSeries(t *testing.T) {
	path := testutil.Default().Dir("swforc", func(b *testutil.Builder) {
		b.Dir("d000001", func(b *testutil.Builder) {
			b.Value("time", dtype.MustOf([]float64{2}))
			b.Value("status", dtype.OfString("failed"))
		})
		b.Dir("d000002", func(b *testutil.Builder) {
			b.Value("time", dtype.MustOf([]float64{1}))
			b.Value("status", dtype.OfString("ok"))
		})
	}).WriteFile(t, "binout0000")

	b, err := binout.Open(path)
	require.NoError(t, err)
	defer b.Close()

	res, err := b.Read("swforc", "status")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, formatText))
	assert.Equal(t, "1\tok\n2\tfailed\n", buf.String())
}

func TestWriteResultJSON(t *testing.T) {
	b := openSample(t)
	res, err := b.Read("nodout", "x_displacement")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, formatJSON))
	assert.JSONEq(t, `{
		"category": "nodout",
		"variable": "x_displacement",
		"type": "float64",
		"time": [1, 3, 5],
		"values": [10, 30, 50]
	}`, buf.String())

	res, err = b.Read("nodout")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeResult(&buf, res, formatJSON))

	var names []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &names))
	assert.Equal(t, []string{"ids", "title", "time", "x_displacement", "y_displacement"}, names)
}

func TestWriteResultYAML(t *testing.T) {
	b := openSample(t)
	res, err := b.Read("nodout", "ids")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, formatYAML))

	var doc struct {
		Category string  `yaml:"category"`
		Type     string  `yaml:"type"`
		Metadata bool    `yaml:"metadata"`
		Values   []int32 `yaml:"values"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "nodout", doc.Category)
	assert.Equal(t, "int32", doc.Type)
	assert.True(t, doc.Metadata)
	assert.Equal(t, []int32{101, 102}, doc.Values)
}

package switches

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rfsend/pkg/rf"
)

const sample = `
lamp:
  on: [5393]
  off: [5396]
fan:
  on: [4436, 4437]
  off: [4444]
`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"fan", "lamp"}, b.Names())

	codes, err := b.Codes("fan", StateOn)
	require.NoError(t, err)
	assert.Equal(t, []rf.Code{4436, 4437}, codes)
	codes, err = b.Codes("lamp", StateOff)
	require.NoError(t, err)
	assert.Equal(t, []rf.Code{5396}, codes)
}

func TestCodesInvalid(t *testing.T) {
	b, err := Parse([]byte(sample))
	require.NoError(t, err)
	_, err = b.Codes("heater", StateOn)
	assert.True(t, errors.Is(err, rf.ErrInvalidArgument))
	_, err = b.Codes("lamp", "dim")
	assert.True(t, errors.Is(err, rf.ErrInvalidArgument))
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"missing off":   "lamp:\n  on: [1]\n",
		"code too big":  "lamp:\n  on: [4294967295]\n  off: [1]\n",
		"unknown field": "lamp:\n  on: [1]\n  off: [2]\n  dim: [3]\n",
		"not a map":     "- lamp\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "switches")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "switches.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(sample), 0644))
	b, err := Load(fn)
	require.NoError(t, err)
	assert.Len(t, b, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

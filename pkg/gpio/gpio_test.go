package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	assert.Contains(t, Drivers(), "null")
	assert.Contains(t, Drivers(), "rpio")
	assert.Contains(t, Drivers(), "periph")

	drv, err := Config{Driver: "null"}.NewDriver()
	require.NoError(t, err)
	assert.Equal(t, "null", drv.Name())

	_, err = Config{Driver: "nonexist"}.NewDriver()
	assert.Error(t, err)
}

func TestNullDriver(t *testing.T) {
	drv := &NullDriver{}
	pin, err := drv.OpenOutput(17)
	require.NoError(t, err)
	require.NoError(t, pin.Set(true))
	require.NoError(t, pin.Set(true))
	require.NoError(t, pin.Set(false))
	require.NoError(t, pin.Close())
	np := pin.(*NullPin)
	assert.Equal(t, 2, np.Changes)
	assert.True(t, np.Closed)
	assert.Equal(t, 1, drv.Opens(17))

	_, err = drv.Watch(27, func(Edge) {})
	assert.Equal(t, ErrWatchNotSupported, err)
}

func TestRPIODriverPinRange(t *testing.T) {
	drv := &RPIODriver{}
	for _, pin := range []int{-1, 54, 256 + 17} {
		p, err := drv.OpenOutput(pin)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPin), "GPIO%d: %v", pin, err)
	}
	assert.Zero(t, drv.users)
}

func TestDelay(t *testing.T) {
	start := time.Now()
	Delay(200 * time.Microsecond)
	assert.True(t, time.Since(start) >= 200*time.Microsecond)
}

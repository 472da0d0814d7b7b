//go:build linux
// +build linux

package sched

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestHostCurrentRoundTrip(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	host := Host()
	policy, priority, err := host.Current()
	if errors.Is(err, unix.ENOSYS) {
		t.Skip("sched_getattr not available")
	}
	require.NoError(t, err)
	min, err := host.MinPriority(policy)
	require.NoError(t, err)
	max, err := host.MaxPriority(policy)
	require.NoError(t, err)
	assert.True(t, priority >= min && priority <= max, "%s priority %d not within [%d, %d]", policy, priority, min, max)

	// setting the same attributes needs no privilege
	require.NoError(t, host.SetCurrent(policy, priority))
	p, n, err := host.Current()
	require.NoError(t, err)
	assert.Equal(t, policy, p)
	assert.Equal(t, priority, n)
}

func TestHostRRRange(t *testing.T) {
	host := Host()
	min, err := host.MinPriority(PolicyRR)
	require.NoError(t, err)
	max, err := host.MaxPriority(PolicyRR)
	require.NoError(t, err)
	assert.Equal(t, 1, min)
	assert.Equal(t, 99, max)
}

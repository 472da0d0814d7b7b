package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineIDStable(t *testing.T) {
	id := MachineID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, MachineID())
}

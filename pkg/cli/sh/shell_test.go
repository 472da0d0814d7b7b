package sh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveArgs(t *testing.T) {
	names := []string{"send", "test", "sniff"}
	assert.Equal(t, []string{"send", "12345", "54321"}, ResolveArgs([]string{"12345", "54321"}, names...))
	assert.Equal(t, []string{"test"}, ResolveArgs([]string{"test"}, names...))
	assert.Equal(t, []string{"send", "1"}, ResolveArgs([]string{"send", "1"}, names...))
	assert.Equal(t, []string{"send", "bogus"}, ResolveArgs([]string{"bogus"}, names...))
	assert.Empty(t, ResolveArgs(nil, names...))
}

package rfsend

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rfsend/pkg/cli/sh"
	"github.com/robotalks/rfsend/pkg/radio"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

type fakeSender struct {
	lock   sync.Mutex
	sent   [][]rf.Code
	onSend func(n int)
}

func (s *fakeSender) Send(req rf.Request) (sched.Elevation, error) {
	s.lock.Lock()
	s.sent = append(s.sent, req.Codes)
	n := len(s.sent)
	s.lock.Unlock()
	if s.onSend != nil {
		s.onSend(n)
	}
	return sched.Elevated, nil
}

func (s *fakeSender) sends() [][]rf.Code {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([][]rf.Code(nil), s.sent...)
}

func newTestShell(sender radio.Sender, out *bytes.Buffer) *sh.Shell {
	s := sh.New(radio.NewConfig()).UseSender(sender)
	s.Interactive = false
	s.OutputJSON = false
	s.Out = out
	return s
}

func TestSendCmdRejectsNonCodes(t *testing.T) {
	for _, args := range [][]string{
		{"bogus"},
		{"12345", "lamp"},
		{"send", "-1"},
		{"send"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			sender := &fakeSender{}
			err := newTestShell(sender, &out).Run(args...)
			assert.Equal(t, sh.ErrFailed, err)
			assert.Equal(t, "Error: "+UsageCodes+"\n", out.String())
			assert.Empty(t, sender.sends())
		})
	}
}

func TestSendCmdSendsCodes(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	require.NoError(t, newTestShell(sender, &out).Run("5393", "5396"))
	assert.Equal(t, [][]rf.Code{{5393, 5396}}, sender.sends())
	assert.Empty(t, out.String())
}

func TestTestCmdInterrupted(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &fakeSender{onSend: func(n int) {
		// second cycle turned on
		if n == 3 {
			cancel()
		}
	}}
	s := newTestShell(sender, &out)
	s.Context = ctx
	s.Ask = answers(t,
		PromptOnCodes, "",
		PromptCount, "")
	require.NoError(t, s.Run("test"))
	assert.Len(t, sender.sends(), 3)
	assert.True(t, strings.HasSuffix(out.String(), "\nThat ran 1 times.\n"), out.String())
}

func TestTestCmdCounted(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	s := newTestShell(sender, &out)
	s.Ask = answers(t,
		PromptOnCodes, "5393",
		PromptOffCodes, "5388",
		PromptCount, "1")
	require.NoError(t, s.Run("test"))
	assert.Equal(t, [][]rf.Code{{5393}, {5388}}, sender.sends())
	assert.Equal(t, "Turning on...\nTurning off...\n", out.String())
}

func TestTestCmdInvalidPlan(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	s := newTestShell(sender, &out)
	s.Ask = answers(t,
		PromptOnCodes, "",
		PromptCount, "many")
	assert.Equal(t, sh.ErrFailed, s.Run("test"))
	assert.Empty(t, sender.sends())
	assert.Contains(t, out.String(), "Error: ")
}

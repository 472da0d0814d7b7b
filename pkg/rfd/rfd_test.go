package rfd

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rfsend/pkg/gpio"
	"github.com/robotalks/rfsend/pkg/msgs"
	"github.com/robotalks/rfsend/pkg/radio"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

type fakeSender struct {
	lock      sync.Mutex
	requests  []rf.Request
	elevation sched.Elevation
	err       error
}

func (s *fakeSender) Send(req rf.Request) (sched.Elevation, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.requests = append(s.requests, req)
	return s.elevation, s.err
}

func (s *fakeSender) setErr(err error) {
	s.lock.Lock()
	s.err = err
	s.lock.Unlock()
}

func (s *fakeSender) sent() []rf.Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]rf.Request(nil), s.requests...)
}

type eventRecorder struct {
	events []msgs.Message
}

func (r *eventRecorder) SendEvent(msg msgs.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func TestServerSendCodes(t *testing.T) {
	sender := &fakeSender{elevation: sched.Elevated}
	events := &eventRecorder{}
	s := NewServer(sender, rf.NewRequest()).AddEventSender(events)

	reply := s.HandleCommand(context.Background(), &msgs.SendCodes{Codes: []uint32{1, 2}, Pin: 4})
	result, ok := reply.(*msgs.SendResult)
	require.True(t, ok)
	assert.Equal(t, "elevated", result.Elevation)

	require.Len(t, sender.requests, 1)
	req := sender.requests[0]
	assert.Equal(t, []rf.Code{1, 2}, req.Codes)
	assert.Equal(t, 4, req.Pin)
	assert.Equal(t, rf.DefaultRepeat, req.Repeat)
	assert.Equal(t, rf.DefaultPulseLength, req.PulseLength)

	require.Len(t, events.events, 1)
	event := events.events[0].(*msgs.Transmitted)
	assert.Equal(t, []uint32{1, 2}, event.Codes)
	assert.EqualValues(t, 4, event.Pin)
	assert.Empty(t, event.Error)
}

func TestServerSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("gpio busy")}
	events := &eventRecorder{}
	s := NewServer(sender, rf.NewRequest()).AddEventSender(events)

	reply := s.HandleCommand(context.Background(), &msgs.SendCodes{Codes: []uint32{1}})
	cmdErr, ok := reply.(*msgs.CommandErr)
	require.True(t, ok)
	assert.Equal(t, "gpio busy", cmdErr.Message)
	require.Len(t, events.events, 1)
	assert.Equal(t, "gpio busy", events.events[0].(*msgs.Transmitted).Error)
}

type unsupportedScheduler struct{}

func (unsupportedScheduler) MinPriority(sched.Policy) (int, error) { return 0, sched.ErrNotSupported }
func (unsupportedScheduler) MaxPriority(sched.Policy) (int, error) { return 0, sched.ErrNotSupported }
func (unsupportedScheduler) Current() (sched.Policy, int, error) {
	return sched.PolicyOther, 0, sched.ErrNotSupported
}
func (unsupportedScheduler) SetCurrent(sched.Policy, int) error { return sched.ErrNotSupported }
func (unsupportedScheduler) Yield() error                       { return sched.ErrNotSupported }

func TestServerRejectsOversizedRequests(t *testing.T) {
	drv := &gpio.NullDriver{}
	tx := radio.NewTransmitter(drv, &sched.Guard{Scheduler: unsupportedScheduler{}})
	tx.Delay = func(time.Duration) {}
	events := &eventRecorder{}
	s := NewServer(tx, rf.NewRequest()).AddEventSender(events)

	for name, m := range map[string]*msgs.SendCodes{
		"repeat":       {Codes: []uint32{1}, Repeat: 4000000000},
		"codes":        {Codes: make([]uint32, rf.MaxCodes+1)},
		"pin":          {Codes: []uint32{1}, Pin: 256 + 17},
		"pulse length": {Codes: []uint32{1}, PulseLength: 1 << 31},
	} {
		t.Run(name, func(t *testing.T) {
			reply := s.HandleCommand(context.Background(), m)
			cmdErr, ok := reply.(*msgs.CommandErr)
			require.True(t, ok, "reply %#v", reply)
			assert.NotEmpty(t, cmdErr.Message)
		})
	}
	assert.Zero(t, drv.Opens(rf.DefaultPin))

	reply := s.HandleCommand(context.Background(), &msgs.SendCodes{Codes: []uint32{1}})
	_, ok := reply.(*msgs.SendResult)
	require.True(t, ok, "reply %#v", reply)
	assert.Equal(t, 1, drv.Opens(rf.DefaultPin))
	assert.Len(t, events.events, 5)
}

func TestServerUnsupported(t *testing.T) {
	s := NewServer(&fakeSender{}, rf.NewRequest())
	assert.Nil(t, s.HandleCommand(context.Background(), &msgs.SendResult{}))
}

func TestRemoteOverStream(t *testing.T) {
	sender := &fakeSender{elevation: sched.DeniedPermission}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &StreamServer{Listener: ln, Handler: NewServer(sender, rf.NewRequest())}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	remote, err := Dial(ctx, "tcp://"+ln.Addr().String())
	require.NoError(t, err)
	req := rf.NewRequest(5393, 5396)
	req.Repeat = 2
	elevation, err := remote.Send(req)
	require.NoError(t, err)
	assert.Equal(t, sched.DeniedPermission, elevation)
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, req, sender.sent()[0])

	_, err = remote.Send(rf.NewRequest())
	assert.True(t, errors.Is(err, rf.ErrInvalidArgument))
	assert.Len(t, sender.sent(), 1)

	sender.setErr(errors.New("no pin"))
	_, err = remote.Send(rf.NewRequest(1))
	require.Error(t, err)
	assert.Equal(t, "no pin", err.Error())

	remote.Close()
	cancel()
	assert.Equal(t, context.Canceled, <-done)
}

func TestRemoteOverWebsocket(t *testing.T) {
	sender := &fakeSender{elevation: sched.Elevated}
	ws := &WebsocketServer{Handler: NewServer(sender, rf.NewRequest())}
	httpSrv := httptest.NewServer(ws.HTTPHandler())
	defer httpSrv.Close()

	remote, err := Dial(context.Background(), "ws://"+strings.TrimPrefix(httpSrv.URL, "http://"))
	require.NoError(t, err)
	defer remote.Close()
	elevation, err := remote.Send(rf.NewRequest(12345))
	require.NoError(t, err)
	assert.Equal(t, sched.Elevated, elevation)
	require.Len(t, sender.sent(), 1)
}

func TestDialUnknownScheme(t *testing.T) {
	_, err := Dial(context.Background(), "udp://localhost:1")
	require.Error(t, err)
}

func TestDaemonRequiresTransport(t *testing.T) {
	conf := &Config{}
	_, err := conf.NewDaemonWith(&fakeSender{}, radio.NewConfig())
	require.Error(t, err)
}

func TestDaemonRunnables(t *testing.T) {
	conf := &Config{Listen: "127.0.0.1:0", WebsocketListen: "127.0.0.1:0"}
	d, err := conf.NewDaemonWith(&fakeSender{}, radio.NewConfig())
	require.NoError(t, err)
	require.Len(t, d.Runnables(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}

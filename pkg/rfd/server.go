// Package rfd serves transmission commands from remote peers.
package rfd

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rfsend/pkg/msgs"
	"github.com/robotalks/rfsend/pkg/radio"
	"github.com/robotalks/rfsend/pkg/rf"
)

// EventSender publishes events.
type EventSender interface {
	SendEvent(msgs.Message) error
}

// Server handles commands using a Sender.
type Server struct {
	Sender radio.Sender
	// Defaults provides the parameters a command leaves zero.
	Defaults rf.Request

	eventsLock sync.RWMutex
	events     []EventSender
}

// NewServer creates a Server.
func NewServer(sender radio.Sender, defaults rf.Request) *Server {
	return &Server{Sender: sender, Defaults: defaults}
}

// AddEventSender publishes Transmitted events to s.
func (s *Server) AddEventSender(senders ...EventSender) *Server {
	s.eventsLock.Lock()
	s.events = append(s.events, senders...)
	s.eventsLock.Unlock()
	return s
}

// HandleCommand implements comm.CommandHandler.
func (s *Server) HandleCommand(ctx context.Context, msg msgs.Message) msgs.Message {
	switch m := msg.(type) {
	case *msgs.SendCodes:
		return s.sendCodes(m)
	}
	return nil
}

func (s *Server) sendCodes(m *msgs.SendCodes) msgs.Message {
	req := m.Request(s.Defaults)
	start := time.Now()
	elevation, err := s.Sender.Send(req)
	elapsed := time.Since(start)

	event := &msgs.Transmitted{
		Codes:     m.Codes,
		Pin:       uint32(req.Pin),
		Elevation: elevation.String(),
	}
	if err != nil {
		glog.Errorf("send %v error: %v", m.Codes, err)
		event.Error = err.Error()
	}
	s.publish(event)

	if err != nil {
		return msgs.NewCommandErr(err)
	}
	return &msgs.SendResult{
		Elevation:  elevation.String(),
		DurationUs: uint64(elapsed / time.Microsecond),
	}
}

func (s *Server) publish(event msgs.Message) {
	s.eventsLock.RLock()
	defer s.eventsLock.RUnlock()
	for _, sender := range s.events {
		if err := sender.SendEvent(event); err != nil {
			glog.Warningf("publish event error: %v", err)
		}
	}
}

package mqtt

import (
	"context"
	"io"
	"os"
	"sync"
	"time"
)

// Topic names of an endpoint, relative to the queue prefix.
const (
	TopicCmd  = "cmd"
	TopicMsg  = "msg"
	TopicMeta = "meta"
)

// EndpointTopic returns the topic of an rf endpoint.
func EndpointTopic(id, name string) string {
	return "rf/" + id + "/" + name
}

// ReadWriter implements PacketReadWriter.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	done      chan struct{}
	openOnce  sync.Once
	closeOnce sync.Once
	sub       *Subscription

	deadlineLock sync.Mutex
	deadline     time.Time
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForClient sets topics using default convention for the command sender:
// SubTopic = rf/id/msg
// PubTopic = rf/id/cmd
func (p *ReadWriter) ForClient(id string) *ReadWriter {
	return p.WithTopics(EndpointTopic(id, TopicMsg), EndpointTopic(id, TopicCmd))
}

// ForServer sets topics using default convention for the daemon:
// SubTopic = rf/id/cmd
// PubTopic = rf/id/msg
func (p *ReadWriter) ForServer(id string) *ReadWriter {
	return p.WithTopics(EndpointTopic(id, TopicCmd), EndpointTopic(id, TopicMsg))
}

// Open subscribes SubTopic. It's safe to call more than once.
func (p *ReadWriter) Open() *Subscription {
	p.openOnce.Do(func() {
		p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	})
	return p.sub
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var timeout <-chan time.Time
	p.deadlineLock.Lock()
	deadline := p.deadline
	p.deadlineLock.Unlock()
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	case <-timeout:
		return nil, os.ErrDeadlineExceeded
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// SetDeadline limits ReadPacket. Zero time removes the limit.
func (p *ReadWriter) SetDeadline(t time.Time) error {
	p.deadlineLock.Lock()
	p.deadline = t
	p.deadlineLock.Unlock()
	return nil
}

// Close unsubscribes and stops pending reads.
func (p *ReadWriter) Close() (err error) {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.sub != nil {
			err = p.sub.Close()
		}
	})
	return
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	p.Open()
	defer p.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return nil
	}
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}

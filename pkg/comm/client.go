package comm

import (
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rfsend/pkg/msgs"
)

// Deadliner limits blocking reads and writes, as net.Conn does.
type Deadliner interface {
	SetDeadline(time.Time) error
}

// DefaultTimeout is the default time to wait for a reply.
const DefaultTimeout = 10 * time.Second

// Client sends commands over a PacketReadWriter, one at a time.
type Client struct {
	ReadWriter PacketReadWriter
	// Deadliner is optional, it enforces Timeout when present.
	Deadliner Deadliner
	Timeout   time.Duration

	seq  uint32
	lock sync.Mutex
}

// NewClient creates a Client.
func NewClient(rw PacketReadWriter) *Client {
	c := &Client{ReadWriter: rw, Timeout: DefaultTimeout}
	if d, ok := rw.(Deadliner); ok {
		c.Deadliner = d
	}
	return c
}

// Do sends the command and waits for its reply. A CommandErr reply is
// returned as error.
func (c *Client) Do(cmd msgs.Message) (msgs.Message, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.seq++; c.seq == 0 {
		c.seq++
	}
	if c.Deadliner != nil && c.Timeout > 0 {
		c.Deadliner.SetDeadline(time.Now().Add(c.Timeout))
		defer c.Deadliner.SetDeadline(time.Time{})
	}
	typed, err := msgs.TypedFrom(cmd, c.seq)
	if err != nil {
		return nil, err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return nil, err
	}
	if err := c.ReadWriter.WritePacket(pkt); err != nil {
		return nil, err
	}
	for {
		pkt, err := c.ReadWriter.ReadPacket()
		if err != nil {
			return nil, err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			return nil, err
		}
		if !typed.IsReply() || typed.Sequence != c.seq {
			glog.V(2).Infof("skip packet %x seq %d", typed.TypeID, typed.Sequence)
			continue
		}
		reply, err := typed.Decode()
		if err != nil {
			return nil, err
		}
		if cmdErr, ok := reply.(*msgs.CommandErr); ok {
			return nil, cmdErr
		}
		return reply, nil
	}
}

// Close closes the underlying ReadWriter if possible.
func (c *Client) Close() error {
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package comm

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/rfsend/pkg/framework"
	"github.com/robotalks/rfsend/pkg/msgs"
)

// CommandHandler handles a command and returns the reply.
type CommandHandler interface {
	HandleCommand(context.Context, msgs.Message) msgs.Message
}

// HandleCommandFunc is the func form of CommandHandler.
type HandleCommandFunc func(context.Context, msgs.Message) msgs.Message

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, msg msgs.Message) msgs.Message {
	return f(ctx, msg)
}

// Pipe serves commands arriving on a PacketReadWriter.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    CommandHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe.
func NewPipe(rw PacketReadWriter, handler CommandHandler) *Pipe {
	return &Pipe{ReadWriter: rw, Handler: handler}
}

// SendEvent sends an event message.
func (p *Pipe) SendEvent(msg msgs.Message) error {
	return p.send(msg, 0)
}

func (p *Pipe) send(msg msgs.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg, seq)
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. It returns when ctx is done or the
// ReadWriter fails.
func (p *Pipe) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p, func() error {
		return p.serve(ctx)
	})
}

func (p *Pipe) serve(ctx context.Context) error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.Warningf("bad packet: %v", err)
			continue
		}
		if !typed.IsCommand() {
			glog.V(2).Infof("ignore non-command %x", typed.TypeID)
			continue
		}
		var reply msgs.Message
		if msg, err := typed.Decode(); err != nil {
			reply = msgs.NewCommandErr(err)
		} else if reply = p.Handler.HandleCommand(ctx, msg); reply == nil {
			reply = msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
		}
		if err := p.send(reply, typed.Sequence); err != nil {
			return err
		}
	}
}

// Close implements Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

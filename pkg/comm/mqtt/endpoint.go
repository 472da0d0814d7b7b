package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"
)

// Meta is published retained on the meta topic while an endpoint is online.
type Meta struct {
	Driver      string `json:"driver,omitempty"`
	Pin         int    `json:"pin"`
	PulseLength int    `json:"pulse-length"`
	BitLength   int    `json:"bit-length"`
}

// Endpoint exposes an rf transmitter on MQTT.
// The meta topic is cleared by the broker (will) when the connection is lost.
type Endpoint struct {
	Queue      *Queue
	ID         string
	Meta       Meta
	ReadWriter *ReadWriter

	metaJSON []byte
}

// NewEndpoint creates an Endpoint.
func NewEndpoint(brokerURL, id string, meta Meta) (*Endpoint, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+EndpointTopic(id, TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rfd:" + id)
	}
	e := &Endpoint{
		Queue:    NewQueue(opts, topicPrefix),
		ID:       id,
		Meta:     meta,
		metaJSON: metaJSON,
	}
	e.Queue.OnConnect = func(*Queue) { e.onConnected() }
	e.ReadWriter = NewPacketReadWriter(e.Queue).ForServer(id)
	return e, nil
}

// ReadPacket implements PacketReader.
func (e *Endpoint) ReadPacket() ([]byte, error) {
	return e.ReadWriter.ReadPacket()
}

// WritePacket implements PacketWriter.
func (e *Endpoint) WritePacket(pkt []byte) error {
	return e.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. It connects the broker and keeps the
// subscription until ctx is done.
func (e *Endpoint) Run(ctx context.Context) error {
	e.ReadWriter.Open()
	token := e.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		e.ReadWriter.Close()
		return err
	}
	<-ctx.Done()
	e.ReadWriter.Close()
	e.Queue.PubWith(EndpointTopic(e.ID, TopicMeta), nil, 1, true).Wait()
	e.Queue.Close()
	return ctx.Err()
}

func (e *Endpoint) onConnected() {
	glog.Infof("endpoint %s online", e.ID)
	e.Queue.PubWith(EndpointTopic(e.ID, TopicMeta), e.metaJSON, 1, true)
}

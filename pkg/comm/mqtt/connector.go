package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// EndpointInfo describes an online endpoint.
type EndpointInfo struct {
	ID   string
	Meta Meta
}

// Connector finds and connects rf endpoints.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMetaTopic extracts the endpoint id from a meta topic.
func ParseMetaTopic(topic string) (string, bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[0] != "rf" || items[2] != TopicMeta || items[1] == "" {
		return "", false
	}
	return items[1], true
}

// Discover collects retained meta of online endpoints.
func (c *Connector) Discover(ctx context.Context) (res []EndpointInfo, err error) {
	q := NewQueue(c.options, c.topicPrefix)
	resCh := make(chan EndpointInfo, 1)
	q.Sub(EndpointTopic("+", TopicMeta), Handler(func(topic string, payload []byte) {
		id, ok := ParseMetaTopic(topic)
		// an empty payload is a cleared registration.
		if !ok || len(payload) == 0 {
			return
		}
		info := EndpointInfo{ID: id}
		json.Unmarshal(payload, &info.Meta)
		select {
		case resCh <- info:
		case <-time.After(time.Second):
		}
	}))
	token := q.Connect()
	token.Wait()
	if err = token.Error(); err != nil {
		return
	}
	defer q.Close()

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Conn is a client connection to an endpoint.
type Conn struct {
	*ReadWriter
}

// Connect connects the endpoint with id.
func (c *Connector) Connect(ctx context.Context, id string) (*Conn, error) {
	q := NewQueue(c.options, c.topicPrefix)
	conn := &Conn{ReadWriter: NewPacketReadWriter(q).ForClient(id)}
	conn.Open()
	token := q.Connect()
	connected := make(chan struct{})
	go func() {
		token.Wait()
		close(connected)
	}()
	select {
	case <-connected:
	case <-ctx.Done():
		q.Close()
		return nil, ctx.Err()
	}
	if err := token.Error(); err != nil {
		q.Close()
		return nil, err
	}
	return conn, nil
}

// Close closes the subscription and the broker connection.
func (c *Conn) Close() error {
	err := c.ReadWriter.Close()
	c.Queue.Close()
	return err
}

// Package mqtt carries packets over an MQTT broker.
package mqtt

import (
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler receives a message. The topic is relative to the queue prefix.
type Handler func(topic string, payload []byte)

// Queue shares one client among handlers of topic filters. Sessions are
// clean, so every filter is subscribed again on reconnect.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
	// OnConnect runs after every successful connect.
	OnConnect func(*Queue)

	lock    sync.RWMutex
	filters map[string][]*Subscription
}

// Subscription is a handler of a topic filter.
type Subscription struct {
	queue   *Queue
	filter  string
	handler Handler
}

// MatchTopic tells if topic is matched by filter with + and # wildcards.
func MatchTopic(topic, filter string) bool {
	levels, filterLevels := strings.Split(topic, "/"), strings.Split(filter, "/")
	for n, level := range filterLevels {
		if level == "#" && n+1 == len(filterLevels) {
			return true
		}
		if n >= len(levels) || (level != "+" && level != levels[n]) {
			return false
		}
	}
	return len(levels) == len(filterLevels)
}

// ClientOptionsFromURL parses mqtt://[user:password@]host:port/prefix.
// The scheme mqtt maps to tcp, others (ssl, tcps, ws) are kept. Query
// client-id sets the client ID.
func ClientOptionsFromURL(brokerURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, "", err
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}
	opts := paho.NewClientOptions().
		AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if password, ok := u.User.Password(); ok {
			opts.SetPassword(password)
		}
	}
	if id := u.Query().Get("client-id"); id != "" {
		opts.SetClientID(id)
	}
	return opts, strings.TrimPrefix(u.Path, "/"), nil
}

// NewQueue creates a Queue with a client of options.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.connected)
	options.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("broker connection lost: %v", err)
	})
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the broker.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close disconnects immediately.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub adds handler of filter. The broker is asked only for the first
// handler of a filter.
func (q *Queue) Sub(filter string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, filter: filter, handler: handler}
	q.lock.Lock()
	if q.filters == nil {
		q.filters = make(map[string][]*Subscription)
	}
	first := len(q.filters[filter]) == 0
	q.filters[filter] = append(q.filters[filter], sub)
	q.lock.Unlock()
	if first {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		q.Client.Subscribe(q.TopicPrefix+filter, 0, q.dispatch)
	}
	return sub
}

// Pub publishes payload with QoS 0.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes payload with qos and retain flag.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

func (q *Queue) connected(c paho.Client) {
	glog.Info("broker connected")
	q.lock.RLock()
	filters := make(map[string]byte, len(q.filters))
	for filter := range q.filters {
		filters[q.TopicPrefix+filter] = 0
	}
	q.lock.RUnlock()
	if len(filters) > 0 {
		glog.V(2).Infof("SUB %v", filters)
		c.SubscribeMultiple(filters, q.dispatch)
	}
	if q.OnConnect != nil {
		q.OnConnect(q)
	}
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(3).Infof("RCV %q", topic)
	var handlers []Handler
	q.lock.RLock()
	for filter, subs := range q.filters {
		if MatchTopic(topic, filter) {
			for _, sub := range subs {
				handlers = append(handlers, sub.handler)
			}
		}
	}
	q.lock.RUnlock()
	payload := msg.Payload()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close removes the handler. The broker is asked to unsubscribe when no
// handler of the filter remains.
func (s *Subscription) Close() error {
	q := s.queue
	q.lock.Lock()
	var removed bool
	subs := q.filters[s.filter]
	for n, sub := range subs {
		if sub == s {
			subs, removed = append(subs[:n], subs[n+1:]...), true
			break
		}
	}
	last := removed && len(subs) == 0
	if last {
		delete(q.filters, s.filter)
	} else if removed {
		q.filters[s.filter] = subs
	}
	q.lock.Unlock()
	if !last {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.filter)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.filter)
	token.Wait()
	return token.Error()
}

package rfd

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/robotalks/rfsend/pkg/comm"
	"github.com/robotalks/rfsend/pkg/comm/mqtt"
	"github.com/robotalks/rfsend/pkg/comm/stream"
	cws "github.com/robotalks/rfsend/pkg/comm/websocket"
	"github.com/robotalks/rfsend/pkg/msgs"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

// RemoteSender implements radio.Sender by commanding a daemon.
type RemoteSender struct {
	Client *comm.Client
}

// Dial connects a daemon by URL:
//
//	tcp://host:port
//	ws://host:port/ws
//	mqtt://host:port/topic-prefix?id=endpoint-id
//
// Without id, the first endpoint discovered on MQTT is used.
func Dial(ctx context.Context, remoteURL string) (*RemoteSender, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	var rw comm.PacketReadWriter
	switch u.Scheme {
	case "tcp":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, err
		}
		rw = stream.New(conn)
	case "ws", "wss":
		if u.Path == "" {
			u.Path = DefaultWebsocketPath
		}
		origin := "http://" + u.Host + "/"
		if u.Scheme == "wss" {
			origin = "https://" + u.Host + "/"
		}
		if rw, err = cws.Dial(u.String(), origin); err != nil {
			return nil, err
		}
	case "mqtt", "mqtts", "ssl":
		if rw, err = dialMQTT(ctx, u); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown remote URL scheme: %q", u.Scheme)
	}
	return &RemoteSender{Client: comm.NewClient(rw)}, nil
}

func dialMQTT(ctx context.Context, u *url.URL) (*mqtt.Conn, error) {
	query := u.Query()
	id := query.Get("id")
	query.Del("id")
	u.RawQuery = query.Encode()
	if u.Scheme == "mqtts" {
		u.Scheme = "ssl"
	}
	connector, err := mqtt.NewConnector(u.String())
	if err != nil {
		return nil, err
	}
	if id == "" {
		endpoints, err := connector.Discover(ctx)
		if err != nil {
			return nil, err
		}
		if len(endpoints) == 0 {
			return nil, fmt.Errorf("no rf endpoint found")
		}
		id = endpoints[0].ID
	}
	return connector.Connect(ctx, id)
}

// Send implements radio.Sender.
func (s *RemoteSender) Send(req rf.Request) (sched.Elevation, error) {
	if err := req.Validate(); err != nil {
		return sched.NotAttempted, err
	}
	reply, err := s.Client.Do(msgs.SendCodesFrom(req))
	if err != nil {
		return sched.NotAttempted, err
	}
	result, ok := reply.(*msgs.SendResult)
	if !ok {
		return sched.NotAttempted, fmt.Errorf("unexpected reply %x", reply.TypeID())
	}
	return sched.ParseElevation(result.Elevation), nil
}

// Close disconnects the daemon.
func (s *RemoteSender) Close() error {
	return s.Client.Close()
}

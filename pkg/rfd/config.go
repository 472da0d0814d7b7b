package rfd

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/robotalks/rfsend/pkg/comm"
	"github.com/robotalks/rfsend/pkg/comm/mqtt"
	"github.com/robotalks/rfsend/pkg/env"
	"github.com/robotalks/rfsend/pkg/radio"
)

// Config defines the transports of the daemon.
type Config struct {
	// ID names the endpoint on MQTT.
	ID string

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string

	// Listen is the TCP address for length-prefixed streams.
	Listen string

	// WebsocketListen is the HTTP address serving websocket on /ws.
	WebsocketListen string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/",
	Listen:        ":8433",
}

func init() {
	if val := os.Getenv("RFD_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Endpoint ID, machine ID by default.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "TCP listen address, empty to disable.")
	flag.StringVar(&defaultConfig.WebsocketListen, "ws-listen", defaultConfig.WebsocketListen, "Websocket listen address, empty to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewDaemon creates the Daemon sending with the radio config.
func (c *Config) NewDaemon(radioConf *radio.Config) (*Daemon, error) {
	tx, err := radioConf.NewTransmitter()
	if err != nil {
		return nil, fmt.Errorf("create transmitter error: %w", err)
	}
	return c.NewDaemonWith(tx, radioConf)
}

// NewDaemonWith creates the Daemon with an existing Sender.
func (c *Config) NewDaemonWith(sender radio.Sender, radioConf *radio.Config) (*Daemon, error) {
	d := &Daemon{
		Config: c,
		Server: NewServer(sender, radioConf.Request()),
	}
	if c.MQTTBrokerURL != "" {
		id := c.ID
		if id == "" {
			id = env.MachineID()
		}
		endpoint, err := mqtt.NewEndpoint(c.MQTTBrokerURL, id, mqtt.Meta{
			Driver:      radioConf.GPIO.Driver,
			Pin:         radioConf.Pin,
			PulseLength: radioConf.PulseLength,
			BitLength:   radioConf.BitLength,
		})
		if err != nil {
			return nil, fmt.Errorf("create MQTT endpoint error: %w", err)
		}
		d.Endpoint = endpoint
		d.Pipe = comm.NewPipe(endpoint, d.Server)
		d.Server.AddEventSender(d.Pipe)
	}
	if c.Listen != "" {
		ln, err := net.Listen("tcp", c.Listen)
		if err != nil {
			return nil, err
		}
		d.Stream = &StreamServer{Listener: ln, Handler: d.Server}
	}
	if c.WebsocketListen != "" {
		d.Websocket = &WebsocketServer{Addr: c.WebsocketListen, Handler: d.Server}
	}
	if d.Endpoint == nil && d.Stream == nil && d.Websocket == nil {
		return nil, fmt.Errorf("at least one transport is required")
	}
	return d, nil
}

// MustNewDaemon creates the Daemon and fails on error.
func (c *Config) MustNewDaemon(radioConf *radio.Config) *Daemon {
	d, err := c.NewDaemon(radioConf)
	if err != nil {
		log.Fatalln(err)
	}
	return d
}

package rfd

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/rfsend/pkg/comm"
	"github.com/robotalks/rfsend/pkg/comm/mqtt"
	fx "github.com/robotalks/rfsend/pkg/framework"
)

// Daemon runs the Server on the configured transports.
type Daemon struct {
	Config    *Config
	Server    *Server
	Endpoint  *mqtt.Endpoint
	Pipe      *comm.Pipe
	Stream    *StreamServer
	Websocket *WebsocketServer
}

// Runnables lists what Run starts.
func (d *Daemon) Runnables() (runnables []fx.Runnable) {
	if d.Endpoint != nil {
		runnables = append(runnables,
			fx.NamedRun("mqtt", d.Endpoint),
			fx.NamedRun("mqtt-pipe", d.Pipe))
	}
	if d.Stream != nil {
		runnables = append(runnables, fx.NamedRun("stream", d.Stream))
	}
	if d.Websocket != nil {
		runnables = append(runnables, fx.NamedRun("websocket", d.Websocket))
	}
	return
}

// Run implements Runnable. A failing transport stops the others.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := fx.NewRunnerWith(ctx)
	for _, r := range d.Runnables() {
		runner.Go(fx.NamedRun(r.(fx.Named).Name(), stopOnError(r, cancel)))
	}
	return runner.Wait()
}

func stopOnError(r fx.Runnable, cancel context.CancelFunc) fx.RunFunc {
	return func(ctx context.Context) error {
		err := r.Run(ctx)
		if err != nil && err != context.Canceled {
			glog.Errorf("%s stopped: %v", r.(fx.Named).Name(), err)
			cancel()
		}
		return err
	}
}

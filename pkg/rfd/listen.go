package rfd

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rfsend/pkg/comm"
	"github.com/robotalks/rfsend/pkg/comm/stream"
	cws "github.com/robotalks/rfsend/pkg/comm/websocket"
	fx "github.com/robotalks/rfsend/pkg/framework"
)

// StreamServer serves a Pipe on each accepted connection.
type StreamServer struct {
	Listener net.Listener
	Handler  comm.CommandHandler

	conns sync.WaitGroup
}

// Run implements Runnable.
func (s *StreamServer) Run(ctx context.Context) error {
	glog.Infof("listening on %s", s.Listener.Addr())
	err := fx.RunWithContextCloser(ctx, s.Listener, func() error {
		for {
			conn, err := s.Listener.Accept()
			if err != nil {
				return err
			}
			s.conns.Add(1)
			go func() {
				defer s.conns.Done()
				s.serve(ctx, conn)
			}()
		}
	})
	s.conns.Wait()
	return err
}

func (s *StreamServer) serve(ctx context.Context, conn net.Conn) {
	addr := conn.RemoteAddr()
	glog.Infof("client %s connected", addr)
	err := comm.NewPipe(stream.New(conn), s.Handler).Run(ctx)
	glog.Infof("client %s disconnected: %v", addr, err)
}

// DefaultWebsocketPath is where websocket clients connect.
const DefaultWebsocketPath = "/ws"

// WebsocketServer serves a Pipe on each websocket connection.
type WebsocketServer struct {
	Addr    string
	Path    string
	Handler comm.CommandHandler
}

// HTTPHandler returns the handler serving websocket upgrades on Path.
func (s *WebsocketServer) HTTPHandler() http.Handler {
	path := s.Path
	if path == "" {
		path = DefaultWebsocketPath
	}
	mux := http.NewServeMux()
	// non-browser clients send no Origin, so it's not checked.
	mux.Handle(path, websocket.Server{Handler: s.serve})
	return mux
}

func (s *WebsocketServer) serve(conn *websocket.Conn) {
	addr := conn.Request().RemoteAddr
	glog.Infof("websocket client %s connected", addr)
	err := comm.NewPipe(cws.New(conn), s.Handler).Run(conn.Request().Context())
	glog.Infof("websocket client %s disconnected: %v", addr, err)
}

// Run implements Runnable.
func (s *WebsocketServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.Addr,
		Handler:     s.HTTPHandler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("websocket listening on %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	<-errCh
	return ctx.Err()
}

// Package web serves a simulation to browsers: binary RGBA frames and JSON
// state over a websocket, JSON control messages back, and Prometheus
// metrics.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"image"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/sim"
)

//go:embed static
var staticFiles embed.FS

const (
	sendBuffer   = 4
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxMessage   = 4096
	stateEvery   = 10
	shutdownWait = 5 * time.Second
)

type Options struct {
	FPS    int
	Logger *zap.Logger
}

// Server owns the simulation. Only the loop started by Run touches it;
// websocket readers go through sim.Send.
type Server struct {
	sim     *sim.Simulation
	hub     *hub
	metrics *Collectors
	log     *zap.Logger
	fps     int

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	state StateMessage
	buf   []byte
}

// New builds a server around s. The caller must not use s afterwards.
func New(s *sim.Simulation, collectors *Collectors, opts Options) *Server {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	srv := &Server{
		sim:     s,
		metrics: collectors,
		log:     opts.Logger.Named("web"),
		fps:     opts.FPS,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
	srv.hub = newHub(collectors.Dropped.Inc)
	srv.snapshot(true)
	return srv
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/api/state", s.serveState)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

// snapshot copies everything readers may ask for. It runs on the
// simulation goroutine.
func (s *Server) snapshot(withProfile bool) {
	w, h := s.sim.Config().Dims()
	st := StateMessage{
		Type:   "state",
		Solver: s.sim.Config().Solver,
		Steps:  s.sim.Steps(),
		Width:  w,
		Height: h,
		Params: s.sim.Params(),
		Values: s.sim.Solver().GetParams(),
	}
	if withProfile {
		st.Profile = s.sim.Profile()
	}
	if err := s.sim.Stability().Err(); err != nil {
		st.Error = err.Error()
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Server) State() StateMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Server) present(frame *image.RGBA) error {
	s.buf = EncodeFrame(s.buf, frame)
	s.hub.broadcast(websocket.BinaryMessage, s.buf)

	full := s.sim.Frames()%stateEvery == 0
	s.snapshot(full)
	if full {
		data, err := json.Marshal(s.State())
		if err != nil {
			return err
		}
		s.hub.broadcast(websocket.TextMessage, data)
	}
	return nil
}

// Run drives the simulation at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	ticks := make(chan time.Time)
	go func() {
		defer close(ticks)
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				select {
				case ticks <- t:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	err := s.sim.Run(ctx, ticks, func(frame *image.RGBA) error {
		start := time.Now()
		err := s.present(frame)
		s.metrics.FrameSeconds.Observe(time.Since(start).Seconds())
		return err
	})
	s.hub.closeAll()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe runs the simulation loop and the HTTP server until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	errc := make(chan error, 2)
	go func() { errc <- s.Run(ctx) }()
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}

func (s *Server) serveState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.State()); err != nil {
		s.log.Warn("state encode failed", zap.Error(err))
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan outbound, sendBuffer)}
	s.metrics.Clients.Set(float64(s.hub.add(c)))
	s.log.Info("client connected", zap.String("remote_addr", r.RemoteAddr))

	if data, err := json.Marshal(s.State()); err == nil {
		select {
		case c.send <- outbound{kind: websocket.TextMessage, data: data}:
		default:
		}
	}

	go s.writePump(c)
	s.readPump(c)

	s.metrics.Clients.Set(float64(s.hub.remove(c)))
	s.log.Info("client disconnected", zap.String("remote_addr", r.RemoteAddr))
}

func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		cmd, err := DecodeCommand(data)
		if err != nil {
			s.log.Warn("invalid control message", zap.Error(err))
			continue
		}
		s.metrics.Commands.WithLabelValues(cmd.Kind.String()).Inc()
		if !s.sim.Send(cmd) {
			s.log.Warn("command queue full", zap.Stringer("command", cmd))
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

const (
	writeWait       = 10 * time.Second
	sendBuffer      = 256
	shutdownTimeout = 5 * time.Second
)

//go:embed static
var staticFiles embed.FS

// Server streams path animations to browsers. Each websocket connection
// gets its own generator, animator and frame loop.
type Server struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	clock    anim.Clock
	upgrader websocket.Upgrader
	sessions atomic.Uint64

	mu  sync.Mutex
	gen *walk.Generator
}

type Option func(*Server)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithClock replaces the frame scheduler used by sessions.
func WithClock(c anim.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		log: logrus.StandardLogger(),
		gen: cfg.Generator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/paths", s.handlePaths)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handlePaths returns a freshly generated PathSet. The optional n query
// parameter overrides the configured path count.
func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := s.cfg.Animation.Paths
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > config.MaxPaths {
			httpError(w, "n must be between 1 and "+strconv.Itoa(config.MaxPaths), http.StatusBadRequest)
			return
		}
		n = v
	}

	s.mu.Lock()
	paths := s.gen.GenerateMultiplePaths(n)
	s.mu.Unlock()

	data, err := json.Marshal(paths)
	if err != nil {
		httpError(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}

	id := s.sessions.Add(1)
	sess := newSession(id, s.cfg, conn, s.sessionLog(id, r), s.clock)
	sess.serve()
}

func (s *Server) sessionLog(id uint64, r *http.Request) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{"session": id, "remote": r.RemoteAddr})
}

func httpError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

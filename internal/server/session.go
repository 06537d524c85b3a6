package server

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

type clientMessage struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type canvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type helloMessage struct {
	Type    string           `json:"type"`
	Session uint64           `json:"session"`
	Floor   walk.FloorBounds `json:"floor"`
	Canvas  canvasSize       `json:"canvas"`
	Speed   float64          `json:"speed"`
	Paths   int              `json:"paths"`
}

type frameMessage struct {
	Type       string    `json:"type"`
	Generation uint64    `json:"generation"`
	Cursor     int       `json:"cursor"`
	State      string    `json:"state"`
	Ops        []anim.Op `json:"ops"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// subscriber serializes writes to one connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Write(data)
}

func (s *subscriber) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// session frames are marshalled under the loop lock and queued on send;
// writePump owns the socket writes for them.
type session struct {
	id    uint64
	cfg   *config.Config
	sub   *subscriber
	log   logrus.FieldLogger
	count atomic.Int64
	rec   *anim.Recorder
	loop  *anim.Loop
	send  chan []byte
	done  chan struct{}
	kick  func()
}

func newSession(id uint64, cfg *config.Config, conn *websocket.Conn, log logrus.FieldLogger, clock anim.Clock) *session {
	s := &session{
		id:   id,
		cfg:  cfg,
		sub:  &subscriber{conn: conn},
		log:  log,
		rec:  anim.NewRecorder(cfg.Animation.CanvasWidth, cfg.Animation.CanvasHeight),
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	s.kick = func() { conn.Close() }
	s.count.Store(int64(cfg.Animation.Paths))

	genOpts := []walk.Option{walk.WithParams(cfg.WalkParams())}
	if cfg.Seed != 0 {
		genOpts = append(genOpts, walk.WithSeed(cfg.Seed+int64(id)-1))
	}
	gen := walk.NewGenerator(cfg.Bounds(), genOpts...)

	source := func() walk.PathSet {
		return gen.GenerateMultiplePaths(int(s.count.Load()))
	}
	loopOpts := []anim.LoopOption{
		anim.WithSpeed(cfg.Animation.Speed),
		anim.WithFrameHook(s.sendFrame),
		anim.WithLogger(log),
	}
	if clock != nil {
		loopOpts = append(loopOpts, anim.WithClock(clock))
	}
	s.loop = anim.NewLoop(anim.New(cfg.Bounds()), source, s.rec, loopOpts...)
	return s
}

// sendFrame runs under the loop lock and never touches the socket. A client
// that falls sendBuffer frames behind is disconnected, which ends the read
// loop in serve.
func (s *session) sendFrame(f anim.Frame, state anim.State) {
	data, err := json.Marshal(frameMessage{
		Type:       "frame",
		Generation: f.Generation,
		Cursor:     f.Cursor,
		State:      state.String(),
		Ops:        s.rec.Ops(),
	})
	if err != nil {
		s.log.WithError(err).Warn("frame encode failed")
		return
	}
	select {
	case s.send <- data:
	default:
		s.log.Debug("client too slow, closing")
		s.kick()
	}
}

func (s *session) writePump() {
	for {
		select {
		case data := <-s.send:
			if err := s.sub.Write(data); err != nil {
				s.log.WithError(err).Debug("frame write failed")
				s.kick()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) serve() {
	defer func() {
		s.loop.Stop()
		close(s.done)
		s.sub.conn.Close()
		s.log.Info("session closed")
	}()

	hello := helloMessage{
		Type:    "hello",
		Session: s.id,
		Floor:   s.cfg.Bounds(),
		Canvas:  canvasSize{Width: s.cfg.Animation.CanvasWidth, Height: s.cfg.Animation.CanvasHeight},
		Speed:   anim.ClampSpeed(s.cfg.Animation.Speed),
		Paths:   int(s.count.Load()),
	}
	if err := s.sub.WriteJSON(hello); err != nil {
		return
	}
	s.log.Info("session opened")
	go s.writePump()
	s.loop.Start()

	for {
		_, payload, err := s.sub.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.WithError(err).Debug("discarding malformed message")
			continue
		}
		if err := s.handle(msg); err != nil {
			if werr := s.sub.WriteJSON(errorMessage{Type: "error", Message: err.Error()}); werr != nil {
				return
			}
		}
	}
}

func (s *session) handle(msg clientMessage) error {
	switch msg.Type {
	case "regenerate":
		s.loop.Regenerate()
	case "speed":
		s.loop.SetSpeed(msg.Value)
		s.log.WithField("speed", s.loop.Speed()).Debug("speed changed")
	case "paths":
		n := int(msg.Value)
		if msg.Value != math.Trunc(msg.Value) || n < 1 || n > config.MaxPaths {
			return fmt.Errorf("paths must be an integer between 1 and %d", config.MaxPaths)
		}
		s.count.Store(int64(n))
		s.loop.Regenerate()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

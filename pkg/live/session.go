package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/retained/internal/config"
	"github.com/vango-dev/retained/internal/errors"
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/protocol"
	"github.com/vango-dev/retained/pkg/reconcile"
)

const writeTimeout = 10 * time.Second

// nonBubbling lists event types delivered without a bubble phase.
var nonBubbling = map[string]bool{
	"blur": true, "focus": true, "scroll": true, "load": true, "error": true,
	"mouseenter": true, "mouseleave": true, "toggle": true,
}

// Session is one connected client. Everything touching the document runs on
// the reconciler loop; the connection is read on the handler goroutine.
type Session struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	logger *slog.Logger

	doc *dom.Document
	r   *reconcile.Reconciler
	seq uint64 // loop goroutine only

	ctx    context.Context
	cancel context.CancelFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(srv *Server, conn *websocket.Conn) (*Session, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, err
	}
	s := &Session{
		id:   hex.EncodeToString(buf[:]),
		srv:  srv,
		conn: conn,
		doc:  dom.NewDocument(),
	}
	s.logger = srv.logger.With("session", s.id)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.r = reconcile.New(s.doc, s.options())
	return s, nil
}

func (s *Session) options() reconcile.Options {
	cfg := s.srv.cfg.Render
	opts := reconcile.Options{
		AsyncPropUpdates: cfg.AsyncPropUpdates,
		OnIdle:           s.flush,
	}
	if cfg.Debounce == config.DebounceImmediate {
		opts.Debounce = func(flush func()) { flush() }
	}
	if s.srv.metrics != nil {
		s.srv.metrics.Install(&opts)
	}
	if s.srv.tune != nil {
		s.srv.tune(&opts)
	}
	return opts
}

// ID returns the session identifier sent in the hello frame.
func (s *Session) ID() string { return s.id }

// Post runs fn on the session loop.
func (s *Session) Post(fn func()) error { return s.r.Post(fn) }

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		s.conn.Close()
	})
}

func (s *Session) serve() {
	defer s.Close()

	hello := protocol.EncodeHello(&protocol.Hello{
		Version:   protocol.Version,
		SessionID: s.id,
		Root:      s.doc.Body().ID(),
	})
	if err := s.write(protocol.NewFrame(protocol.FrameHello, hello)); err != nil {
		s.logger.Warn("hello failed", "error", errors.New("L004").Wrap(err))
		return
	}
	s.logger.Info("session started")

	_ = s.r.Post(func() {
		s.r.Render(s.srv.root(), s.doc.Body(), nil)
	})

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.runLoop()
	}()
	go s.keepalive()

	s.readLoop()
	s.Close()
	<-loopDone
	s.logger.Info("session ended")
}

func (s *Session) runLoop() {
	err := s.r.Run(s.ctx)
	if err == nil || s.ctx.Err() != nil {
		return
	}
	s.logger.Error("session loop stopped", "error", err)
	s.sendError(err, true)
	s.Close()
}

func (s *Session) readLoop() {
	timeout := s.srv.cfg.ReadTimeout()
	if timeout > 0 {
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(timeout))
		})
	}

	for {
		if timeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(timeout))
		}
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) && s.ctx.Err() == nil {
				s.logger.Warn("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.sendError(errors.New("P001").Wrap(err), false)
			continue
		}
		if frame.Type != protocol.FrameEvent {
			s.sendError(errors.New("P002").WithDetail(frame.Type.String()), false)
			continue
		}
		ev, err := protocol.DecodeEvent(frame.Payload)
		if err != nil {
			s.sendError(errors.New("P001").Wrap(err), false)
			continue
		}
		if err := s.r.Post(func() { s.dispatch(ev) }); err != nil {
			return
		}
	}
}

// keepalive pings the client at half the read timeout.
func (s *Session) keepalive() {
	timeout := s.srv.cfg.ReadTimeout()
	if timeout <= 0 {
		return
	}
	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// dispatch delivers a client event on the loop goroutine.
func (s *Session) dispatch(ev *protocol.Event) {
	_, span := s.srv.tracer.Start(s.ctx, "retained.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("retained.session_id", s.id),
			attribute.String("retained.event_type", ev.Type),
			attribute.Int64("retained.node_id", int64(ev.NodeID)),
		))
	defer span.End()

	target := s.doc.NodeByID(ev.NodeID)
	if target == nil || !target.IsElement() {
		err := errors.New("L002").WithDetailf("node %d", ev.NodeID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.observeEvent(ev.Type, err)
		s.sendError(err, false)
		return
	}

	// Mirror client input state so value/checked diffing sees it.
	switch target.NodeName() {
	case "input", "textarea", "select":
		target.SyncProperty("value", ev.Value)
		target.SyncProperty("checked", ev.Checked)
	}

	de := dom.NewEvent(ev.Type)
	de.Bubbles = !nonBubbling[ev.Type]
	de.Value = ev.Value
	de.Checked = ev.Checked
	if ev.Key != "" {
		de.Detail = map[string]any{"key": ev.Key}
	}
	target.Dispatch(de)
	s.observeEvent(ev.Type, nil)
}

// flush sends the mutations recorded since the last flush. It runs as the
// reconciler's idle hook.
func (s *Session) flush() {
	muts := s.doc.TakeMutations()
	if len(muts) == 0 {
		return
	}
	start := time.Now()
	s.seq++

	_, span := s.srv.tracer.Start(s.ctx, "retained.flush",
		trace.WithAttributes(
			attribute.String("retained.session_id", s.id),
			attribute.Int64("retained.seq", int64(s.seq)),
			attribute.Int("retained.mutations", len(muts)),
		))
	defer span.End()

	frames, err := protocol.PatchFrames(s.seq, muts)
	if stderrors.Is(err, protocol.ErrFrameTooLarge) {
		err = errors.New("P003").WithDetailf("seq %d holds a mutation over %d bytes", s.seq, protocol.MaxPayloadSize).Wrap(err)
		s.sendError(err, true)
	}
	if err == nil {
		for _, f := range frames {
			if err = s.write(f); err != nil {
				break
			}
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("flush failed", "seq", s.seq, "error", err)
		s.Close()
		return
	}
	span.SetAttributes(attribute.Int("retained.frames", len(frames)))
	if s.srv.metrics != nil {
		s.srv.metrics.ObserveFlush(time.Since(start), len(muts))
	}
}

func (s *Session) observeEvent(typ string, err error) {
	if s.srv.metrics != nil {
		s.srv.metrics.ObserveEvent(typ, err)
	}
}

func (s *Session) sendError(err error, fatal bool) {
	msg := &protocol.ErrorMessage{Code: errors.CodeOf(err), Message: err.Error(), Fatal: fatal}
	if werr := s.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeError(msg))); werr != nil {
		s.logger.Debug("error frame not sent", "error", werr)
	}
}

func (s *Session) write(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.ctx.Err() != nil {
		return errors.New("L003")
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

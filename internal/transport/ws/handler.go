package ws

import (
	"errors"
	"net/http"

	"livequiz/internal/app"
	"livequiz/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to websockets and dispatches inbound
// frames to the session directory. Uses a dedicated writer goroutine
// that owns the connection's write side while the read loop runs inline
// on the accepting goroutine, generalized from a single quiz-join flow
// to the full host/player message set.
type Handler struct {
	directory     *app.Directory
	upgrader      websocket.Upgrader
	log           *zap.SugaredLogger
	maxFrameBytes int
}

// NewHandler builds a Handler bound to directory. maxFrameBytes <= 0
// falls back to the default 4096-byte cap.
func NewHandler(directory *app.Directory, log *zap.SugaredLogger, maxFrameBytes int) *Handler {
	return &Handler{
		directory: directory,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		maxFrameBytes: maxFrameBytes,
	}
}

// wsConn adapts a *websocket.Conn plus its dedicated writer goroutine to
// app.Conn, so the session runtime never imports gorilla/websocket.
type wsConn struct {
	send chan any
}

func (c *wsConn) Send(v any) error {
	select {
	case c.send <- v:
		return nil
	default:
		// Writer goroutine is backed up; drop rather than block the
		// session's serialization point (no blocking I/O from
		// inside a session's critical section).
		return errors.New("send buffer full")
	}
}

// ServeWS upgrades the request and runs the connection's read loop until
// the client disconnects or sends a close frame.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	wc := &wsConn{send: make(chan any, 16)}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range wc.send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debugw("ws write error", "err", err)
				return
			}
		}
	}()

	state := &connState{}
	limit := h.maxFrameBytes

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		frame, decodeErr := decodeFrame(raw, limit)
		if decodeErr != nil {
			if errors.Is(decodeErr, errFrameTooLarge) {
				_ = wc.Send(errorMsg("frame too large"))
			}
			continue
		}
		h.dispatch(wc, state, frame)
	}

	h.onClose(state)
	close(wc.send)
	<-writerDone
}

func (h *Handler) dispatch(conn app.Conn, state *connState, f inboundFrame) {
	switch f.Type {
	case typeHostJoin:
		h.handleHostJoin(conn, state, f)
	case typePlayerJoin:
		h.handlePlayerJoin(conn, state, f)
	case typeStartGame:
		h.withSession(conn, state, func(s *app.GameSession) error { return s.StartGame(conn) })
	case typeNextQuestion:
		h.withSession(conn, state, func(s *app.GameSession) error { return s.NextQuestion(conn) })
	case typeEndGame:
		h.withSession(conn, state, func(s *app.GameSession) error { return s.EndGame(conn) })
	case typeAnswer:
		h.handleAnswer(conn, state, f)
	}
}

func (h *Handler) handleHostJoin(conn app.Conn, state *connState, f inboundFrame) {
	if state.bound() {
		return
	}
	session, ok := h.directory.Lookup(f.Pin)
	if !ok {
		_ = conn.Send(errorMsg("session not found"))
		return
	}
	state.code = f.Pin
	state.role = roleHost
	session.HostJoin(conn)
}

func (h *Handler) handlePlayerJoin(conn app.Conn, state *connState, f inboundFrame) {
	if state.bound() {
		return
	}
	session, ok := h.directory.Lookup(f.Pin)
	if !ok {
		_ = conn.Send(errorMsg("session not found"))
		return
	}
	id, err := session.PlayerJoin(conn, f.Name)
	if err != nil {
		_ = conn.Send(errorMsg(err.Error()))
		return
	}
	state.code = f.Pin
	state.role = rolePlayer
	state.participantID = id
}

func (h *Handler) handleAnswer(conn app.Conn, state *connState, f inboundFrame) {
	if state.role != rolePlayer {
		return
	}
	session, ok := h.directory.Lookup(state.code)
	if !ok {
		return
	}
	if err := session.Answer(state.participantID, f.Answer.Selection, f.Final); err != nil {
		reportIfVisible(conn, err)
	}
}

// withSession resolves state's bound session and, if the caller is the
// host, invokes fn, reporting any user-visible error back to conn.
func (h *Handler) withSession(conn app.Conn, state *connState, fn func(*app.GameSession) error) {
	if state.role != roleHost {
		return
	}
	session, ok := h.directory.Lookup(state.code)
	if !ok {
		return
	}
	if err := fn(session); err != nil {
		reportIfVisible(conn, err)
	}
}

// reportIfVisible sends an error frame only for the error kinds the wire protocol
// marks user-visible; anything else (wrong state, role mismatch) is
// silently dropped.
func reportIfVisible(conn app.Conn, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionStarted),
		errors.Is(err, domain.ErrSessionFull),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrNoParticipants):
		_ = conn.Send(errorMsg(err.Error()))
	}
}

func (h *Handler) onClose(state *connState) {
	if !state.bound() {
		return
	}
	session, ok := h.directory.Lookup(state.code)
	if !ok {
		return
	}
	switch state.role {
	case roleHost:
		session.HostDisconnect()
	case rolePlayer:
		session.PlayerDisconnect(state.participantID)
	}
}

func errorMsg(message string) any {
	return struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{Type: "error", Message: message}
}

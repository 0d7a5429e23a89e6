package inspector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/router"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Command is a client message on a WebSocket session.
type Command struct {
	Action     string         `json:"action"`
	Route      string         `json:"route,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	URL        string         `json:"url,omitempty"`
}

// Command actions.
const (
	ActionNavigate = "navigate"
	ActionRedirect = "redirect"
	ActionRestore  = "restore"
	ActionLocation = "location"
	ActionBack     = "back"
	ActionForward  = "forward"
	ActionReload   = "reload"
)

// session owns one connection, one history and one router. Only the read
// loop goroutine touches the router.
type session struct {
	id     string
	conn   *websocket.Conn
	mem    *history.Memory
	router *router.Router
	logger *slog.Logger
	config *Config

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	initial := r.URL.Query().Get("url")
	if initial == "" {
		initial = "/"
	}
	loc, err := history.ParseLocation(initial)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id)
	mem := history.NewMemory(loc.String())

	opts := []router.Option{router.WithLogger(logger)}
	if s.config.Telemetry != nil {
		opts = append(opts, router.WithInstrumentation(s.config.Telemetry))
	}

	sess := &session{
		id:     id,
		conn:   conn,
		mem:    mem,
		logger: logger,
		config: &s.config,
	}
	sess.router = router.New(s.config.Registry, mem, opts...)
	if s.config.Setup != nil {
		s.config.Setup(sess.router)
	}

	s.addSession(sess)
	defer s.removeSession(sess)

	logger.Info("session started", "url", sess.router.URL())
	sess.readLoop()
	logger.Info("session ended")
}

// readLoop handles commands until the connection closes.
func (sess *session) readLoop() {
	defer sess.close(websocket.CloseNormalClosure, "")
	defer sess.router.Close()

	sess.conn.SetReadLimit(sess.config.MaxMessageSize)

	if err := sess.sendState(); err != nil {
		return
	}

	for {
		sess.conn.SetReadDeadline(time.Now().Add(sess.config.SessionIdleTimeout))

		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			return
		}

		cmd, err := decodeCommand(msg)
		if err != nil {
			sess.logger.Warn("command decode error", "error", err)
			if err := sess.send(ErrorMessage{Type: "error", Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := sess.handle(cmd); err != nil {
			sess.logger.Debug("command failed", "action", cmd.Action, "route", cmd.Route, "error", err)
			if err := sess.send(errorMessage(err)); err != nil {
				return
			}
			continue
		}

		if err := sess.sendState(); err != nil {
			return
		}
	}
}

func decodeCommand(msg []byte) (Command, error) {
	var cmd Command
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&cmd); err != nil {
		return cmd, fmt.Errorf("invalid command: %w", err)
	}
	if cmd.Attributes != nil {
		cmd.Attributes = urlparam.Normalize(cmd.Attributes).(map[string]any)
	}
	return cmd, nil
}

func (sess *session) handle(cmd Command) error {
	attrs := router.Attributes(cmd.Attributes)

	switch cmd.Action {
	case ActionNavigate:
		return sess.router.Navigate(cmd.Route, attrs)
	case ActionRedirect:
		return sess.router.Redirect(cmd.Route, attrs)
	case ActionRestore:
		return sess.router.Restore(cmd.Route, attrs)
	case ActionLocation:
		return sess.mem.Push(cmd.URL)
	case ActionBack:
		sess.mem.Back()
		return nil
	case ActionForward:
		sess.mem.Forward()
		return nil
	case ActionReload:
		sess.router.Reload()
		return nil
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func (sess *session) sendState() error {
	st := Snapshot(sess.router, sess.mem)
	st.Session = sess.id
	return sess.send(st)
}

func (sess *session) send(v any) error {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	sess.conn.SetWriteDeadline(time.Now().Add(sess.config.WriteTimeout))
	if err := sess.conn.WriteJSON(v); err != nil {
		sess.logger.Error("write error", "error", err)
		return err
	}
	return nil
}

// close sends a close frame and closes the connection once.
func (sess *session) close(code int, reason string) {
	sess.closeOnce.Do(func() {
		sess.writeMu.Lock()
		sess.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second))
		sess.writeMu.Unlock()
		sess.conn.Close()
	})
}

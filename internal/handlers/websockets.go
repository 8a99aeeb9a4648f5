package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000
)

// wsEnvelope is the frame written to stream clients. Type is "week" or "error".
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Stream week grid
// @Description  Upgrades to a websocket and pushes the projected week whenever it changes.
// @Tags         week
// @Security     BearerAuth
// @Param        name         path   string  true   "Schedule name"
// @Param        start        query  string  false  "Monday of the week (YYYY-MM-DD)"
// @Param        date         query  string  false  "Any day of the week (YYYY-MM-DD)"
// @Param        interval     query  string  false  "Poll period, e.g. 2s"
// @Param        interval_ms  query  int     false  "Poll period in milliseconds"
// @Param        token        query  string  false  "Bearer token when headers cannot be set"
// @Router       /ws/schedules/{name}/week [get]
func (h *Handler) streamWeek(c *gin.Context) {
	start, err := h.weekStartParam(c)
	if err != nil {
		h.respondError(c, "week_param_invalid", err)
		return
	}
	interval := h.parseInterval(c)
	schedule := c.Param("name")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	s := &weekStream{h: h, conn: conn, schedule: schedule, start: start}
	if err := s.push(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "schedule", schedule, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := s.push(c.Request.Context()); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "schedule", schedule, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within bounds, else the configured default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return h.opts.StreamInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// weekStream re-projects one week per tick and writes only when the grid changed.
type weekStream struct {
	h        *Handler
	conn     *websocket.Conn
	schedule string
	start    time.Time
	last     []byte
}

func (s *weekStream) push(ctx context.Context) error {
	g, err := s.h.services.ProjectWeek(ctx, s.schedule, s.start)
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_project_failed", "schedule", s.schedule, "err", err)
		}
		code, body := statusFor(err)
		_ = s.write(wsEnvelope{Type: "error", Error: body.Error})
		if code == http.StatusInternalServerError {
			return nil
		}
		return err
	}

	frame, err := json.Marshal(wsEnvelope{Type: "week", Data: newWeekResponse(g)})
	if err != nil {
		return err
	}
	if bytes.Equal(frame, s.last) {
		return nil
	}
	s.last = frame
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *weekStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

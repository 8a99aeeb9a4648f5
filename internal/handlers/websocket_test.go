package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"building_scheduler/internal/models"
	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, Options{StreamInterval: 3 * time.Second})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 3 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", 3 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=90000", 3 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 3 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 3 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWeek(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(s))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/schedules/HQ/week"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_WeekStream_InitialFrame(t *testing.T) {
	proj := &mockProjection{grid: sampleGrid()}
	s := authedService()
	s.Projection = proj

	conn := dialWeek(t, s, url.Values{"token": {"tok"}, "start": {"2024-05-06"}, "interval_ms": {"20"}})

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "week" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var wk weekResponse
	if err := json.Unmarshal(env.Data, &wk); err != nil {
		t.Fatalf("unmarshal week: %v", err)
	}
	if wk.WeekStart != "2024-05-06" || wk.Count != 3 {
		t.Fatalf("unexpected week: %+v", wk)
	}

	// an unchanged grid is not re-sent
	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("expected no frame for unchanged grid, got %+v", env)
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(authedService()))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/schedules/HQ/week"

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}

func TestWebSocket_MissingSchedule_SendsErrorAndCloses(t *testing.T) {
	s := authedService()
	s.Projection = &mockProjection{err: models.NotFound(models.KindSchedule, "HQ")}

	conn := dialWeek(t, s, url.Values{"token": {"tok"}})

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if env.Type != "error" || env.Error == "" {
		t.Fatalf("expected error frame, got %+v", env)
	}

	// The server closes after a client-side failure
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}

func TestWebSocket_TransientError_KeepsStreaming(t *testing.T) {
	s := authedService()
	s.Projection = &mockProjection{err: errors.New("disk busy")}

	conn := dialWeek(t, s, url.Values{"token": {"tok"}, "interval_ms": {"20"}})

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if env.Type != "error" || env.Error != errInternal {
			t.Fatalf("frame %d: %+v", i, env)
		}
	}
}

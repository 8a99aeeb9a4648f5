package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Options{AuthEnabled: true})
	r.Use(h.requestID)
	r.GET("/secure", h.operatorMiddleware, func(c *gin.Context) {
		uid, _ := c.Get(ctxOperatorID)
		c.JSON(http.StatusOK, gin.H{"ok": true, "operatorId": uid})
	})
	r.GET("/ws/secure", h.operatorMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestOperatorMiddleware_Errors(t *testing.T) {
	type want struct {
		code   int
		errMsg string
	}
	cases := []struct {
		name   string
		path   string
		header string
		want   want
	}{
		{
			name:   "missing header",
			path:   "/secure",
			header: "",
			want:   want{code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		},
		{
			name:   "query token outside ws",
			path:   "/secure?token=abc",
			header: "",
			want:   want{code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		},
		{
			name:   "invalid scheme",
			path:   "/secure",
			header: "Token abc",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:   "bearer without token",
			path:   "/secure",
			header: "Bearer",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:   "expired/invalid token",
			path:   "/secure",
			header: "Bearer expired",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid or expired token"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: nil}
			if tc.name == "expired/invalid token" {
				auth.parseErr = errors.New("expired")
			}
			s := &service.Service{Authorization: auth}
			r := newMiddlewareOnlyRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.want.code {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.want.code, w.Body.String())
			}

			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.want.errMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.want.errMsg)
			}
		})
	}
}

func TestOperatorMiddleware_SuccessSetsOperatorIDAndProceeds(t *testing.T) {
	auth := &mockAuth{parseID: 123, parseErr: nil}
	s := &service.Service{Authorization: auth}
	r := newMiddlewareOnlyRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		OK         bool `json:"ok"`
		OperatorID int  `json:"operatorId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.OperatorID != 123 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
}

func TestOperatorMiddleware_QueryTokenOnStream(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/secure?token=qtok", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
	}
	if auth.lastParseToken != "qtok" {
		t.Fatalf("ParseToken got %q, want qtok", auth.lastParseToken)
	}
}

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: &mockAuth{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set(requestIDHeader, "req-1")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected propagated id, got %q", got)
	}
}

func TestRoutes_AuthDisabledSkipsBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sched := &mockSchedules{}
	h := NewHandler(&service.Service{Schedules: sched}, nil, Options{})
	r := h.InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
	}
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&service.Service{}, nil, Options{MetricsEnabled: true})
	r := h.InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", w.Code)
	}
}

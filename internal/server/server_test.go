package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

// routeFunc adapts a function to RouteRegistrar for testing.
type routeFunc func(mux *http.ServeMux)

func (f routeFunc) RegisterRoutes(mux *http.ServeMux) { f(mux) }

func newTestServer(ready ReadinessChecker, routes ...RouteRegistrar) *Server {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	return New(cfg, zap.NewNop(), ready, routes...)
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "alive" {
		t.Errorf("status = %q, want %q", body["status"], "alive")
	}
}

func TestHandleReadyz_Healthy(t *testing.T) {
	ready := ReadinessChecker(func(_ context.Context) error {
		return nil
	})
	srv := newTestServer(ready)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ready" {
		t.Errorf("status = %q, want %q", body["status"], "ready")
	}
}

func TestHandleReadyz_Unhealthy(t *testing.T) {
	ready := ReadinessChecker(func(_ context.Context) error {
		return errors.New("mailer not configured")
	})
	srv := newTestServer(ready)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "not ready" {
		t.Errorf("status = %q, want %q", body["status"], "not ready")
	}
	if !strings.Contains(body["error"], "mailer not configured") {
		t.Errorf("error = %q, want it to contain %q", body["error"], "mailer not configured")
	}
}

func TestHandleReadyz_NilChecker(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/api/health", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want %q", body["status"], "ok")
	}
	if body["service"] != "villacare" {
		t.Errorf("service = %v, want %q", body["service"], "villacare")
	}
	if body["version"] == nil {
		t.Error("expected version field in response")
	}
}

func TestHandleMetrics(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected prometheus Go runtime metrics in /metrics output")
	}
}

func TestMiddlewareChain_Integration(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()

	// Use the full handler (with middleware chain) instead of just the mux.
	srv.Handler().ServeHTTP(w, req)

	if v := w.Header().Get("X-VillaCare-Version"); v == "" {
		t.Error("expected X-VillaCare-Version header from middleware")
	}
	if v := w.Header().Get("X-Request-ID"); v == "" {
		t.Error("expected X-Request-ID header from middleware")
	}
	if v := w.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", v, "nosniff")
	}
	if v := w.Header().Get("X-Frame-Options"); v != "DENY" {
		t.Errorf("X-Frame-Options = %q, want %q", v, "DENY")
	}
}

func TestRegistrarRoutes_Mounted(t *testing.T) {
	srv := newTestServer(nil, routeFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("POST /api/signup", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	}))

	req := httptest.NewRequest("POST", "/api/signup", http.NoBody)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusAccepted)
	}
}

func TestMetrics_PathLabelsBounded(t *testing.T) {
	srv := newTestServer(nil, routeFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("POST /api/chat/{agent}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}))

	send := func(method, path string) {
		req := httptest.NewRequest(method, path, http.NoBody)
		srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	// Warm up every label combination the loop below can produce.
	send("POST", "/api/chat/warmup")
	send("GET", "/warmup-scan")
	before := testutil.CollectAndCount(httpRequestsTotal)

	for i := 0; i < 200; i++ {
		send("POST", fmt.Sprintf("/api/chat/x%d", i))
		send("GET", fmt.Sprintf("/scan/%d.php", i))
	}

	if after := testutil.CollectAndCount(httpRequestsTotal); after != before {
		t.Errorf("series count grew from %d to %d", before, after)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "POST /api/chat/{agent}", "404")); got < 200 {
		t.Errorf("pattern-labelled count = %v, want >= 200", got)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")); got < 200 {
		t.Errorf("unmatched count = %v, want >= 200", got)
	}
}

func TestRateLimit_DisabledByDefault(t *testing.T) {
	srv := newTestServer(nil, routeFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("POST /api/signup", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}))

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("POST", "/api/signup", http.NoBody)
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}
}

func TestRateLimit_Enabled(t *testing.T) {
	cfg := Config{RateLimit: RateLimitConfig{RPS: 1, Burst: 1}}
	srv := New(cfg, zap.NewNop(), nil, routeFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("POST /api/signup", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/signup", http.NoBody)
		req.RemoteAddr = "10.0.0.10:1234"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestSwagger_OnlyInDevMode(t *testing.T) {
	prod := newTestServer(nil)
	req := httptest.NewRequest("GET", "/swagger/index.html", http.NoBody)
	w := httptest.NewRecorder()
	prod.mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("prod swagger status = %d, want %d", w.Code, http.StatusNotFound)
	}

	dev := New(Config{DevMode: true}, zap.NewNop(), nil)
	w = httptest.NewRecorder()
	dev.mux.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", http.NoBody))
	if w.Code != http.StatusOK {
		t.Errorf("dev swagger status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := Config{Host: "0.0.0.0", Port: 8080}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
}

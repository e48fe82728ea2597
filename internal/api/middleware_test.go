package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost",
		"https://localhost:8443",
		"http://127.0.0.1:3000",
		"http://127.0.0.1",
		"http://[::1]:3000",
	}

	for _, origin := range allowed {
		if !isAllowedOrigin(origin) {
			t.Errorf("isAllowedOrigin(%q) = false, want true", origin)
		}
	}

	denied := []string{
		"https://evil.com",
		"http://localhost.evil.com",
		"http://192.168.1.1:3000",
		"",
		"null",
		"ftp://localhost:3000",
		"http://localhost:not-a-port",
		"http://localhost:99999",
		"http://localhost:3000/path",
		"http://user@localhost:3000",
	}

	for _, origin := range denied {
		if isAllowedOrigin(origin) {
			t.Errorf("isAllowedOrigin(%q) = true, want false", origin)
		}
	}
}

func TestIsLoopbackRemoteAddr(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:12345", true},
		{"[::1]:12345", true},
		{"::1", true},
		{"[::1]", true},
		{"127.0.0.1", true},
		{"8.8.8.8:12345", false},
		{"192.168.1.1:8080", false},
		{"10.0.0.1:3000", false},
		{"not-an-ip:1234", false},
		{"garbage", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := isLoopbackRemoteAddr(tc.addr); got != tc.want {
			t.Errorf("isLoopbackRemoteAddr(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowlist_AllowedOrigin(t *testing.T) {
	handler := CORSAllowlist()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want %q", got, "Origin")
	}
}

func TestCORSAllowlist_DeniedOrigin_GET(t *testing.T) {
	handler := CORSAllowlist()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (request still served, just no ACAO)", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("ACAO = %q, want empty for denied origin", got)
	}
}

func TestCORSAllowlist_DeniedOrigin_Preflight(t *testing.T) {
	handler := CORSAllowlist()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for denied preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/playback/audio", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d for denied preflight", rr.Code, http.StatusForbidden)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("ACAO = %q, want empty for denied preflight", got)
	}
}

func TestCORSAllowlist_NoOrigin(t *testing.T) {
	handler := CORSAllowlist()(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("ACAO = %q, want empty when no Origin header", got)
	}
}

func TestCORSAllowlist_AllowedPreflight(t *testing.T) {
	handler := CORSAllowlist()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/playback/audio", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "range,authorization")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	h := rr.Header()
	for _, name := range []string{"Range", "Content-Type", "Authorization"} {
		if !containsHeader(h.Get("Access-Control-Allow-Headers"), name) {
			t.Errorf("Access-Control-Allow-Headers missing %q, got %q", name, h.Get("Access-Control-Allow-Headers"))
		}
	}
	for _, name := range []string{"Content-Range", "Accept-Ranges", "Content-Length", "Content-Type"} {
		if !containsHeader(h.Get("Access-Control-Expose-Headers"), name) {
			t.Errorf("Access-Control-Expose-Headers missing %q, got %q", name, h.Get("Access-Control-Expose-Headers"))
		}
	}
	for _, m := range []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"} {
		if !containsHeader(h.Get("Access-Control-Allow-Methods"), m) {
			t.Errorf("Access-Control-Allow-Methods missing %q, got %q", m, h.Get("Access-Control-Allow-Methods"))
		}
	}
}

func containsHeader(headerVal, target string) bool {
	for _, part := range strings.Split(headerVal, ",") {
		if strings.TrimSpace(part) == target {
			return true
		}
	}
	return false
}

func TestCORSAllowlist_VaryIsAdditive(t *testing.T) {
	handler := CORSAllowlist()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	rr.Header().Set("Vary", "Accept-Encoding")

	handler.ServeHTTP(rr, req)

	vary := strings.Join(rr.Header().Values("Vary"), ",")
	if !containsHeader(vary, "Accept-Encoding") {
		t.Errorf("Vary lost Accept-Encoding, got %v", vary)
	}
	if !containsHeader(vary, "Origin") {
		t.Errorf("Vary missing Origin, got %v", vary)
	}
}

func TestLoopbackGuard(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		wantStatus int
	}{
		{"ipv4 loopback", "127.0.0.1:12345", http.StatusOK},
		{"ipv6 loopback", "[::1]:12345", http.StatusOK},
		{"remote", "8.8.8.8:12345", http.StatusForbidden},
		{"lan", "192.168.1.10:12345", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := LoopbackGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/playback/audio", nil)
			req.RemoteAddr = tt.remoteAddr
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v", called)
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeJSONBody(t, rr); body["code"] != "FORBIDDEN" {
					t.Errorf("error code = %v, want FORBIDDEN", body["code"])
				}
			}
		})
	}
}

func TestAudioRoute_Loopback_Integration(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/playback/audio", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestHealthRoute_CORS_Integration(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

type failingStore struct{}

func (failingStore) GetConfig(ctx context.Context, key string) (string, error) {
	return "", errors.New("disk gone")
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := AuthMiddleware(failingStore{}, logger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if body := decodeJSONBody(t, rr); body["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %v, want INTERNAL_ERROR", body["code"])
	}
}

func TestWriteAppError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"input", apperrors.Input("text is required").WithField("text"), http.StatusBadRequest, "BAD_REQUEST", "text is required"},
		{"synthesis", apperrors.Synthesis("rate limit"), http.StatusBadGateway, "SYNTHESIS_FAILED", "rate limit"},
		{"resource", apperrors.PlaybackResource("blocked"), http.StatusConflict, "PLAYBACK_RESOURCE", "blocked"},
		{"not found", apperrors.NotFound("media not found"), http.StatusNotFound, "NOT_FOUND", "media not found"},
		{"database", apperrors.Database("failed to add media"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal error"},
		{"superseded", playback.ErrSuperseded, http.StatusConflict, "SUPERSEDED", playback.ErrSuperseded.Error()},
		{"plain", errors.New("secret path /x"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteAppError(rr, logger, tt.err)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			body := decodeJSONBody(t, rr)
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %q", body["code"], tt.wantCode)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

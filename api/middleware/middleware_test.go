package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/packfinderz-cart/pkg/errors"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
	"github.com/angelmondragon/packfinderz-cart/pkg/types"
)

const testSessionHeader = "X-Cart-Session"

type stubEngines struct {
	engine *cart.Engine
	err    error
	asked  []string
}

func (s *stubEngines) Get(_ context.Context, sessionID string) (*cart.Engine, error) {
	s.asked = append(s.asked, sessionID)
	return s.engine, s.err
}

func newEngine(t *testing.T) *cart.Engine {
	t.Helper()
	engine, err := cart.New(context.Background(), cart.Options{KV: cart.NewMemoryKV()})
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return engine
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return body.Error
}

func TestCartSessionBindsEngineAndEchoesHeader(t *testing.T) {
	engine := newEngine(t)
	engines := &stubEngines{engine: engine}

	var bound *cart.Engine
	var session string
	handler := CartSession(engines, testSessionHeader, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bound = cart.MustFromContext(r.Context())
		session = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(testSessionHeader, "  abc  ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if bound != engine {
		t.Fatal("expected engine bound into request context")
	}
	if session != "abc" || engines.asked[0] != "abc" {
		t.Fatalf("expected trimmed session id, got %q", session)
	}
	if got := rec.Header().Get(testSessionHeader); got != "abc" {
		t.Fatalf("expected session header echoed, got %q", got)
	}
}

func TestCartSessionMintsSessionID(t *testing.T) {
	engines := &stubEngines{engine: newEngine(t)}
	handler := CartSession(engines, testSessionHeader, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	minted := rec.Header().Get(testSessionHeader)
	if len(minted) != 36 || engines.asked[0] != minted {
		t.Fatalf("expected minted uuid session, got %q", minted)
	}
}

func TestCartSessionWithoutProvider(t *testing.T) {
	handler := CartSession(nil, testSessionHeader, logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != string(pkgerrors.CodeMissingProvider) {
		t.Fatalf("unexpected code %s", got.Code)
	}
}

func TestCartSessionProviderError(t *testing.T) {
	engines := &stubEngines{err: errors.New("boom")}
	handler := CartSession(engines, testSessionHeader, logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := decodeError(t, rec); got.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", got.Code)
	}
}

func TestRecovererMapsMissingProviderPanic(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var engine *cart.Engine
		engine.Items()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != string(pkgerrors.CodeMissingProvider) {
		t.Fatalf("unexpected code %s", got.Code)
	}
}

func TestRecovererMapsGenericPanic(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := decodeError(t, rec); got.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", got.Code)
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	var seen string
	handler := RequestID(logger.Nop())(Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "req-1" || rec.Header().Get(requestIDHeader) != "req-1" {
		t.Fatalf("expected request id propagated, got %q", seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected handler status preserved, got %d", rec.Code)
	}
}

func TestCORSAllowsSessionHeader(t *testing.T) {
	handler := CORS(nil, testSessionHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", testSessionHeader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin allowed, got %q", got)
	}
}

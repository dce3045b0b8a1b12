package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/edsapi/internal/logger"
)

func observedRouter(t *testing.T) (chi.Router, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLog(l))
	r.Use(Recoverer(l))
	r.Get("/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Debug("retrieving")
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/search", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return r, logs
}

func TestRequestLog(t *testing.T) {
	r, logs := observedRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/records/a9h,1", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	inner := logs.FilterMessage("retrieving").All()
	if len(inner) != 1 || inner[0].ContextMap()["request_id"] == "" {
		t.Fatalf("handler log missing request_id: %+v", inner)
	}

	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 {
		t.Fatalf("expected one request line, got %d", len(lines))
	}
	fields := lines[0].ContextMap()
	if fields["route"] != "/records/{id}" {
		t.Errorf("route = %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status = %v", fields["status"])
	}
	if lines[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", lines[0].Level)
	}
}

func TestRecoverer(t *testing.T) {
	r, logs := observedRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/search?q=dogs", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != CodeInternalError {
		t.Errorf("code = %q", body.Code)
	}

	if logs.FilterMessage("Panic recovered").Len() != 1 {
		t.Error("expected panic log")
	}
	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 || lines[0].Level != zapcore.WarnLevel {
		t.Errorf("expected one warn request line, got %+v", lines)
	}
}

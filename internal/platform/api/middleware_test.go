package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/auth"
)

type captureNotifier struct {
	subjects []string
}

func (n *captureNotifier) NotifyError(ctx context.Context, subject string, err error) {
	n.subjects = append(n.subjects, subject)
}

func devToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("local-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(auth.NewVerifier("", "", true), access.DefaultGroups())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthDerivesActor(t *testing.T) {
	m := NewAuthMiddleware(auth.NewVerifier("", "", true), access.DefaultGroups())

	var actor access.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	token := devToken(t, jwt.MapClaims{
		"sub":              "user-1",
		"cognito:username": "alice",
		"cognito:groups":   []string{"FlowConfigAdmin"},
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actor.Username != "alice" || actor.Level != access.LevelFull {
		t.Errorf("unexpected actor %+v", actor)
	}
}

func TestRequireAuthPassesUngroupedActor(t *testing.T) {
	m := NewAuthMiddleware(auth.NewVerifier("", "", true), access.DefaultGroups())

	var actor access.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	token := devToken(t, jwt.MapClaims{"sub": "user-1"})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actor.Level != access.LevelNone {
		t.Errorf("expected None level, got %v", actor.Level)
	}
}

func TestRequireLevel(t *testing.T) {
	m := NewAuthMiddleware(auth.NewVerifier("", "", true), access.DefaultGroups())
	protected := m.RequireLevel(access.LevelEdit)(okHandler())

	req := withActor(httptest.NewRequest("GET", "/", nil), access.LevelRead)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for Read actor, got %d", rec.Code)
	}

	req = withActor(httptest.NewRequest("GET", "/", nil), access.LevelFull)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for Full actor, got %d", rec.Code)
	}
}

func TestRequireRuntimeKey(t *testing.T) {
	protected := RequireRuntimeKey("secret-key")(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with correct key, got %d", rec.Code)
	}
}

func TestRequireRuntimeKeyDisabledWhenUnset(t *testing.T) {
	protected := RequireRuntimeKey("")(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when runtime key is unset, got %d", rec.Code)
	}
}

func TestRecovererNotifiesOnPanic(t *testing.T) {
	notifier := &captureNotifier{}
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	Recoverer(notifier)(panicking).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if len(notifier.subjects) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.subjects))
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := extractBearerToken(req); got != tt.want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

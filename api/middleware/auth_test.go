package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/mokolo-app/mokolo-backend/pkg/auth"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

type fakeSessionChecker struct {
	active map[string]bool
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	return f.active[accessID], nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "mokolo-test",
		ExpirationMinutes: 15,
	}
}

func authTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Output: io.Discard})
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, jti string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "marie@example.com",
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContextFromToken(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()
	token := mintToken(t, cfg, userID, "access-1")
	sessions := &fakeSessionChecker{active: map[string]bool{"access-1": true}}

	var gotUser uuid.UUID
	var gotAccess string
	handler := Auth(cfg, sessions, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != userID {
		t.Fatalf("expected user %s in context, got %s", userID, gotUser)
	}
	if gotAccess != "access-1" {
		t.Fatalf("expected access id in context, got %q", gotAccess)
	}
}

func TestAuthRejectsMissingAndMalformedCredentials(t *testing.T) {
	cfg := authTestConfig()
	handler := Auth(cfg, nil, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := authTestConfig()
	token := mintToken(t, cfg, uuid.New(), "revoked-access")
	sessions := &fakeSessionChecker{active: map[string]bool{}}

	handler := Auth(cfg, sessions, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a revoked session, got %d", rec.Code)
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func paymentsRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	var handlerRuns int
	handler := Idempotency(store, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRuns++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"txn-1"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, paymentsRequest(`{"plan_id":"standard"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, paymentsRequest(`{"plan_id":"standard"}`))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("expected the stored response body to be replayed")
	}
	if handlerRuns != 1 {
		t.Fatalf("expected the handler to run once, ran %d times", handlerRuns)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, paymentsRequest(`{"plan_id":"standard"}`))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, paymentsRequest(`{"plan_id":"premium"}`))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a reused key with a new body, got %d", second.Code)
	}
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	var handlerRuns int
	handler := Idempotency(store, authTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRuns++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || handlerRuns != 1 {
		t.Fatalf("expected passthrough, got %d runs status %d", handlerRuns, rec.Code)
	}
	if len(store.values) != 0 {
		t.Fatal("expected nothing stored for unguarded routes")
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func newJSONRequest(method, url string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"city import", http.MethodPost, "/api/admin/v1/cities/import", importIdempotencyTTL, true},
		{"admin create", http.MethodPost, "/api/admin/v1/{resource}", defaultIdempotencyTTL, true},
		{"upload", http.MethodPost, "/api/admin/v1/uploads", defaultIdempotencyTTL, true},
		{"cart add", http.MethodPost, "/api/v1/cart/items", defaultIdempotencyTTL, true},
		{"admin update", http.MethodPut, "/api/admin/v1/{resource}", 0, false},
		{"login", http.MethodPost, "/api/v1/auth/login", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyMiddlewarePassesThroughWithoutHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"name":"Tonic"}`))
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyScopesByCartCookie(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for _, cartID := range []string{"cart-a", "cart-b"} {
		req := newJSONRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_slug":"triphala"}`))
		req.Header.Set(IdempotencyHeader, "same")
		req.AddCookie(&http.Cookie{Name: "cart_id", Value: cartID})
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("different carts must not share replay records, calls=%d", calls)
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"foo":"bar"}`))
	req.Header.Set(IdempotencyHeader, "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected first response 202 got %d", resp.Code)
	}

	replay := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"foo":"bar"}`))
	replay.Header.Set(IdempotencyHeader, "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected replay status 202 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"foo":"bar"}`))
	req.Header.Set(IdempotencyHeader, "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"foo":"diff"}`))
	replay.Header.Set(IdempotencyHeader, "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}

func TestIdempotencyRejectsRetryWhileInFlight(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)

	var nested *httptest.ResponseRecorder
	var handler http.Handler
	handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if nested == nil {
			retry := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"name":"Tonic"}`))
			retry.Header.Set(IdempotencyHeader, "in-flight")
			nested = httptest.NewRecorder()
			mw(handler).ServeHTTP(nested, retry)
		}
		w.WriteHeader(http.StatusCreated)
	})

	req := newJSONRequest(http.MethodPost, "/api/admin/v1/categories", strings.NewReader(`{"name":"Tonic"}`))
	req.Header.Set(IdempotencyHeader, "in-flight")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected original request to succeed, got %d", resp.Code)
	}
	if nested.Code != http.StatusConflict {
		t.Fatalf("expected concurrent retry to be rejected with 409, got %d", nested.Code)
	}
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := newJSONRequest(http.MethodPost, "/api/admin/v1/countries/import", strings.NewReader("xlsx"))
		req.Header.Set(IdempotencyHeader, "retry-me")
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected retry after a 500 to reach the handler, calls=%d", calls)
	}
}

func TestIdempotencyReplaysCartCookie(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, "cart_id", nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "cart_id", Value: "minted"})
		w.WriteHeader(http.StatusOK)
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := newJSONRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_slug":"ashwagandha"}`))
		req.Header.Set(IdempotencyHeader, "first-add")
		last = httptest.NewRecorder()
		mw(handler).ServeHTTP(last, req)
	}
	if last.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected second response to be a replay")
	}
	if !strings.Contains(last.Header().Get("Set-Cookie"), "cart_id=minted") {
		t.Fatalf("expected cart cookie in replay, got %q", last.Header().Get("Set-Cookie"))
	}
}

func TestIdempotencyReleasesKeyWhenHandlerPanics(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Recoverer(nil)(Idempotency(store, "cart_id", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("import exploded")
		}
		w.WriteHeader(http.StatusCreated)
	})))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := newJSONRequest(http.MethodPost, "/api/admin/v1/cities/import", strings.NewReader("xlsx"))
		req.Header.Set(IdempotencyHeader, "after-panic")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusInternalServerError {
		t.Fatalf("expected panic to surface as 500, got %d", codes[0])
	}
	if codes[1] != http.StatusCreated || calls != 2 {
		t.Fatalf("expected retry to reach the handler, got status=%d calls=%d", codes[1], calls)
	}
}

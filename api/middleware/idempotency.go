package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/ayurcart-backend/api/responses"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/ayurcart-backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL = 24 * time.Hour
	importIdempotencyTTL  = 7 * 24 * time.Hour
	maxIdempotencyKeyLen  = 128
)

// replayedHeaders are copied into the stored record. Set-Cookie matters for cart adds,
// where the first response mints the cart cookie.
var replayedHeaders = []string{"Content-Type", "Set-Cookie"}

type idempotentRoute struct {
	method string
	match  func(path string) bool
	ttl    time.Duration
}

// Ordered: the first match wins, so imports precede the general admin rule.
var idempotentRoutes = []idempotentRoute{
	{http.MethodPost, pathIs("/api/v1/auth/register"), defaultIdempotencyTTL},
	{http.MethodPost, pathIs("/api/v1/cart/items"), defaultIdempotencyTTL},
	{http.MethodPost, func(p string) bool {
		return strings.HasPrefix(p, "/api/admin/v1/") && strings.HasSuffix(p, "/import")
	}, importIdempotencyTTL},
	{http.MethodPost, func(p string) bool { return strings.HasPrefix(p, "/api/admin/v1/") }, defaultIdempotencyTTL},
}

type recordState string

const (
	statePending   recordState = "pending"
	stateCompleted recordState = "completed"
)

type idempotencyRecord struct {
	State       recordState         `json:"state"`
	RequestHash string              `json:"request_hash"`
	Status      int                 `json:"status,omitempty"`
	Body        string              `json:"body,omitempty"`
	Headers     map[string][]string `json:"headers,omitempty"`
}

// Idempotency guards duplicate submissions on the covered POST routes. The first request
// carrying an Idempotency-Key claims it with a pending record and, once handled, stores its
// response; retries with the same body replay that response, retries with a different body
// or while the first is still running get 409. Server errors and handler panics release the
// key so the client can retry. Requests without the header, or with no store configured, pass through.
func Idempotency(store pkgredis.IdempotencyStore, cartCookie string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := routeTTL(r.Method, r.URL.Path)
			idemKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if !covered || store == nil || idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if len(idemKey) > maxIdempotencyKeyLen {
				responses.WriteError(ctx, logg, w, pkgerrors.Validation(IdempotencyHeader, "must be at most 128 characters"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(idempotencyScope(r, cartCookie), idemKey)

			pending, _ := json.Marshal(idempotencyRecord{State: statePending, RequestHash: requestHash})
			claimed, err := store.SetNX(ctx, key, string(pending), ttl)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency store unavailable"))
				return
			}
			if !claimed {
				replayOrReject(ctx, w, r, next, store, key, requestHash, logg)
				return
			}

			release := func() {
				if err := store.Del(context.WithoutCancel(ctx), key); err != nil {
					logError(ctx, logg, "release idempotency key", err)
				}
			}

			capture := &responseCapture{ResponseWriter: w}
			func() {
				// A panic leaves no response to store; free the claim before Recoverer sees it.
				defer func() {
					if rec := recover(); rec != nil {
						release()
						panic(rec)
					}
				}()
				next.ServeHTTP(capture, r)
			}()

			status := defaultStatus(capture.status)
			if status >= http.StatusInternalServerError {
				release()
				return
			}

			record := idempotencyRecord{
				State:       stateCompleted,
				RequestHash: requestHash,
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				Headers:     keptHeaders(capture.Header()),
			}
			payload, err := json.Marshal(record)
			if err != nil {
				logError(ctx, logg, "marshal idempotency record", err)
				return
			}
			if err := store.Set(ctx, key, string(payload), ttl); err != nil {
				logError(ctx, logg, "persist idempotency record", err)
			}
		})
	}
}

func replayOrReject(ctx context.Context, w http.ResponseWriter, r *http.Request, next http.Handler, store pkgredis.IdempotencyStore, key, requestHash string, logg *logger.Logger) {
	stored, err := store.Get(ctx, key)
	if pkgredis.IsNil(err) {
		// Expired or released between SetNX and Get; serve without a record.
		next.ServeHTTP(w, r)
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency store unavailable"))
		return
	}

	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt idempotency record"))
		return
	}

	switch {
	case record.RequestHash != requestHash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case record.State != stateCompleted:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "a request with this idempotency key is still in progress"))
	default:
		if logg != nil {
			logg.Debug(ctx, "idempotency.replayed")
		}
		for name, values := range record.Headers {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(record.Status)
		if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
			_, _ = w.Write(decoded)
		}
	}
}

// idempotencyScope keeps keys from colliding across users and anonymous carts.
func idempotencyScope(r *http.Request, cartCookie string) string {
	parts := []string{userScope(r.Context())}
	if cartCookie != "" {
		if cartID := cookieValue(r, cartCookie); cartID != "" {
			parts = append(parts, cartID)
		}
	}
	parts = append(parts, r.Method, r.URL.Path)
	return strings.Join(parts, "|")
}

func keptHeaders(h http.Header) map[string][]string {
	out := map[string][]string{}
	for _, name := range replayedHeaders {
		if values := h.Values(name); len(values) > 0 {
			out[name] = append([]string(nil), values...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func routeTTL(method, path string) (time.Duration, bool) {
	for _, route := range idempotentRoutes {
		if route.method == method && route.match(path) {
			return route.ttl, true
		}
	}
	return 0, false
}

func pathIs(want string) func(string) bool {
	return func(path string) bool { return path == want }
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}

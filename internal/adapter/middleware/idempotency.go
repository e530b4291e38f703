package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"aura-lend/internal/infrastructure/metrics"
	"aura-lend/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderCallerID  = "Ax-Caller-Id"
)

const (
	// How long we hold the "in-progress" lock before it must be refreshed by finishing the handler.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
)

// ---- Data types ----
type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// IdempotencyMiddleware: key = method + request path + caller + request id.
// A protocol command must run at most once per key, so a retried request gets
// the recorded response instead of applying the command again. Server errors
// are not recorded; the client may retry them with the same key. A record
// that cannot be decoded answers 503 until it expires.
// Ax-Request-At **must** be epoch (seconds or ms) OR RFC3339 **with** timezone (Z or ±HH:MM).
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, m *metrics.ProtocolMetrics) echo.MiddlewareFunc {
	store := entryStore{rdb: rdb}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			// Only enforce on mutating methods
			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			// Headers Validation
			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !id.ValidRequestID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}

			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			caller := id.NormalizeAddress(req.Header.Get(HeaderCallerID))
			if caller == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderCallerID})
			}
			if !id.ValidAddress(caller) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderCallerID})
			}

			// Buffer & hash body
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			// Provisional lock key; the concrete path keeps /loans/1/fund and /loans/2/fund apart.
			key := entryKey(method, req.URL.Path, caller, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			entry := idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			ok, err := store.reserve(ctx, key, entry)
			if err != nil {
				m.ObserveIdempotency("unavailable")
				log.Error().Err(err).Str("key", key).Msg("idempotency store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				// Key exists: body must match, and we may be able to replay
				cur, err := store.load(ctx, key)
				switch {
				case errors.Is(err, redis.Nil):
					// expired between reserve and load; the holder just finished or died
					m.ObserveIdempotency("in_progress")
					return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
				case errors.Is(err, errCorruptEntry):
					m.ObserveIdempotency("corrupt")
					log.Error().Err(err).Str("key", key).Msg("unreadable idempotency entry")
					return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency record unreadable"})
				case err != nil:
					m.ObserveIdempotency("unavailable")
					log.Error().Err(err).Str("key", key).Msg("idempotency store unavailable")
					return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
				}

				if cur.BodySHA256 != bhash {
					m.ObserveIdempotency("mismatch")
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				if !cur.InProgress {
					m.ObserveIdempotency("replay")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				m.ObserveIdempotency("in_progress")
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}
			m.ObserveIdempotency("new")

			// Call next and record final response
			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			if rec.code >= http.StatusInternalServerError {
				if err := store.release(context.Background(), key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("release idempotency key")
				}
				return nil
			}
			final := idempEntry{
				InProgress:  false,
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := store.commit(context.Background(), key, final, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("save idempotency entry")
			}
			return nil
		}
	}
}

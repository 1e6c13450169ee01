package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"wallet-service/internal/adapter/http/dto"
	"wallet-service/internal/core/ports"
	"wallet-service/pkg/apperror"
	"wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderIdempotentReplay marks a response served from the idempotency cache.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// A reservation outlives a stuck request by at most this long.
const pendingTTL = 30 * time.Second

// idempotencyEntry is what the cache holds per key. An empty Response marks
// a request that is still running.
type idempotencyEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Response    json.RawMessage `json:"response,omitempty"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency makes a repeated Idempotency-Key apply at most once.
//
// The key is reserved before the handler runs, so an overlapping duplicate
// gets IDEMPOTENCY_IN_PROGRESS instead of a second apply. A finished 200 is
// stored with a fingerprint of the request and replayed for the same
// request; a different request under the same key gets
// IDEMPOTENCY_KEY_REUSED. Non-200 outcomes release the key so they can be
// retried. If the cache cannot be reached the request runs unprotected.
func Idempotency(cache ports.IdempotencyCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	holdFor := min(pendingTTL, ttl)

	return func(c *gin.Context) {
		var hdr dto.IdempotencyHeader
		if err := c.ShouldBindHeader(&hdr); err != nil {
			response.Error(c, apperror.Validation("Idempotency-Key must be 1-128 characters of [A-Za-z0-9_.:-]"))
			c.Abort()
			return
		}
		if hdr.Key == "" {
			c.Next()
			return
		}
		key := hdr.Key
		logger := log.With().
			Str("idempotency_key", key).
			Str("request_id", c.GetString(response.CtxRequestID)).
			Logger()

		fingerprint, err := requestFingerprint(c)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				response.Error(c, apperror.ErrPayloadTooLarge())
			} else {
				response.Error(c, apperror.ErrInvalidJSON())
			}
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		pending, _ := json.Marshal(idempotencyEntry{Fingerprint: fingerprint})
		reserved, err := cache.Reserve(ctx, key, pending, holdFor)
		if err != nil {
			logger.Warn().Err(err).Msg("idempotency reserve failed, processing without replay protection")
			c.Next()
			return
		}
		if !reserved {
			replayOrReject(c, cache, key, fingerprint, logger)
			return
		}

		w := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// The operation already ran; finish bookkeeping even if the client left.
		ctx = context.WithoutCancel(ctx)
		if w.Status() == http.StatusOK {
			done, err := json.Marshal(idempotencyEntry{Fingerprint: fingerprint, Response: w.body.Bytes()})
			if err == nil {
				err = cache.Set(ctx, key, done, ttl)
			}
			if err != nil {
				logger.Error().Err(err).Msg("idempotency result not stored, key stays reserved until it expires")
			}
			return
		}
		if err := cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("idempotency reservation not released")
		}
	}
}

func replayOrReject(c *gin.Context, cache ports.IdempotencyCache, key, fingerprint string, log zerolog.Logger) {
	defer c.Abort()

	raw, err := cache.Get(c.Request.Context(), key)
	if err != nil {
		log.Warn().Err(err).Msg("idempotency lookup failed after losing the reservation")
	}

	var entry idempotencyEntry
	if raw == nil || json.Unmarshal(raw, &entry) != nil {
		// Expired or unreadable between Reserve and Get; the client retries.
		response.Error(c, apperror.ErrIdempotencyInProgress())
		return
	}

	switch {
	case entry.Fingerprint != fingerprint:
		response.Error(c, apperror.ErrIdempotencyKeyReused())
	case len(entry.Response) == 0:
		response.Error(c, apperror.ErrIdempotencyInProgress())
	default:
		c.Header(HeaderIdempotentReplay, "true")
		c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Response)
	}
}

// requestFingerprint hashes method, route and body, then restores the body
// for the handler.
func requestFingerprint(c *gin.Context) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		body = b
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	h := sha256.New()
	h.Write([]byte(c.Request.Method + " " + c.FullPath() + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

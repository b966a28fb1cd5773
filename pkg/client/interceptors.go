package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Interceptor decorates a Doer with behaviour that runs around every call.
type Interceptor func(next Doer) Doer

// Chain wraps d so that interceptors[0] runs first.
func Chain(d Doer, interceptors ...Interceptor) Doer {
	for i := len(interceptors) - 1; i >= 0; i-- {
		d = interceptors[i](d)
	}

	return d
}

// WithBearerToken sets the Authorization header from the session when it holds a token.
func WithBearerToken(session *Session) Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if token := session.Token(); token != "" && req.Header.Get("Authorization") == "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			return next.Do(req)
		})
	}
}

// ClearSessionOnUnauthorized drops the session when the server answers 401 to an
// authenticated request.
func ClearSessionOnUnauthorized(session *Session) Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil {
				return resp, err
			}

			if resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
				session.Clear()
			}

			return resp, nil
		})
	}
}

func WithRequestID() Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(requestIDHeader) == "" {
				req.Header.Set(requestIDHeader, uuid.NewString())
			}

			return next.Do(req)
		})
	}
}

func WithLogger(logger *slog.Logger) Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.Do(req)

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("request_id", req.Header.Get(requestIDHeader)),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				logger.Warn("API request failed", append(attrs, slog.String("error", err.Error()))...)
				return resp, err
			}

			logger.Debug("API request completed", append(attrs, slog.Int("status", resp.StatusCode))...)

			return resp, nil
		})
	}
}

package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"docscan/internal/logger"
)

func (s *Server) withConcurrencyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.requestSem.Acquire(r.Context(), 1); err != nil {
			writeErr(w, http.StatusServiceUnavailable, "Service at capacity")
			return
		}
		defer s.requestSem.Release(1)

		s.totalRequests.Add(1)
		s.activeRequests.Add(1)
		defer s.activeRequests.Add(-1)

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter(getClientIP(r, s.cfg.TrustProxyHeaders)).Allow() {
			w.Header().Set("Retry-After", "60")
			writeErr(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic in handler", "panic", err, "path", sanitizeLogString(r.URL.Path))
				writeErr(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &wrapWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		logger.Info("request",
			"method", r.Method,
			"path", sanitizeLogString(r.URL.Path),
			"status", ww.status,
			"elapsed", time.Since(start))
	})
}

// withCORS allows any origin; the API is public.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type wrapWriter struct {
	http.ResponseWriter
	status int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) rateLimiter(ip string) *rate.Limiter {
	if v, ok := s.limiters.Load(ip); ok {
		return v.(*rate.Limiter)
	}

	every := s.cfg.RateLimitEvery
	if every <= 0 {
		every = 600 * time.Millisecond // ~100/min
	}
	burst := s.cfg.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}

	v, _ := s.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Every(every), burst))
	return v.(*rate.Limiter)
}

// getClientIP uses the proxy headers only when trustProxy is set; otherwise
// any client could pick its own rate limit key.
func getClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func sanitizeLogString(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

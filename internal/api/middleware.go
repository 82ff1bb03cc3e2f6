package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bookyard/internal/database"
	"bookyard/internal/metrics"
	"bookyard/internal/models"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type contextKey string

const (
	ctxKeyEmail     contextKey = "auth_email"
	ctxKeyRequestID contextKey = "request_id"
)

// authEmail returns the verified identity attached by requireToken.
func authEmail(ctx context.Context) string {
	email, _ := ctx.Value(ctxKeyEmail).(string)
	return email
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.URL.Path, recorder.status)
		s.logger.Info().
			Str("request_id", requestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken extracts and verifies the bearer credential. A missing header
// is 401; a present but unverifiable token is 403.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := s.tokens.Verify(strings.TrimSpace(tokenStr))
		if err != nil {
			writeError(w, http.StatusForbidden, "Forbidden Access")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyEmail, claims.Email)
		next(w, r.WithContext(ctx))
	}
}

// requireRole re-reads the stored user on every request so a demoted user is
// blocked immediately; roles are never cached across requests.
func (s *Server) requireRole(role, denyMessage string, next http.HandlerFunc) http.HandlerFunc {
	return s.requireToken(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.db.GetUserByEmail(r.Context(), authEmail(r.Context()))
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			s.logger.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("role lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err != nil || user.Role != role {
			writeError(w, http.StatusForbidden, denyMessage)
			return
		}
		next(w, r)
	})
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(models.RoleAdmin, "This is admin only functionality", next)
}

func (s *Server) requireSeller(next http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(models.RoleSeller, "This is seller only functionality", next)
}

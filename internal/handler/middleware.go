package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const tokenCtxKey ctxKey = iota

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// BearerAuth пропускает запрос только с действующим токеном в заголовке
// Authorization и отмечает использование токена через recorder.
func (h *Handler) BearerAuth(recorder TokenUsageRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			plain, ok := bearerToken(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token", h.logger)
				return
			}

			token, err := h.uc.AuthenticateToken.Execute(r.Context(), plain)
			if err != nil {
				h.respondWithDomainError(w, r, err)
				return
			}

			recorder.RecordTokenUsage(r.Context(), token)

			ctx := context.WithValue(r.Context(), tokenCtxKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, value, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// currentToken возвращает токен, прошедший BearerAuth.
func currentToken(ctx context.Context) *domain.Token {
	token, _ := ctx.Value(tokenCtxKey).(*domain.Token)
	return token
}

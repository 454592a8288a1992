package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/usecase"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// Handler — обработчик HTTP-запросов к задачам, пользователям и токенам.
type Handler struct {
	uc       *usecase.UseCases
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(uc *usecase.UseCases, logger *slog.Logger) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях об ошибках поля называются так же, как в JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{uc: uc, validate: validate, logger: logger}
}

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, kind, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Error: kind, Message: message}, logger)
}

// respondWithDomainError переводит ошибку сценария в HTTP-статус по группе доменной ошибки.
// Не доменные ошибки скрываются за 500.
func (h *Handler) respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Internal server error", h.logger)
		return
	}

	status, code := statusForDomainError(derr)
	h.logger.Warn("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"kind", derr.Kind.String(),
	)
	respondWithError(w, status, code, derr.Message, h.logger)
}

func statusForDomainError(err *domain.Error) (int, string) {
	if err.Kind == domain.KindInvalidCredentials {
		return http.StatusUnauthorized, "unauthorized"
	}

	group := err.Group()
	switch group {
	case domain.GroupNotFound:
		return http.StatusNotFound, string(group)
	case domain.GroupInvalidInput:
		return http.StatusUnprocessableEntity, string(group)
	case domain.GroupConflict:
		return http.StatusConflict, string(group)
	default:
		return http.StatusBadRequest, string(group)
	}
}

// decodeJSON читает тело запроса в dst и проверяет его правилами validate-тегов.
// Возвращает false, если ответ с ошибкой уже отправлен.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := "Malformed JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		h.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusBadRequest, "bad_request", msg, h.logger)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, string(domain.GroupInvalidInput), validationMessage(err), h.logger)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), rule))
	}
	return strings.Join(parts, "; ")
}

package handler

import (
	"net/http"

	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// Register — регистрирует пользователя и сразу выдаёт токен.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	res, err := h.uc.Register.Execute(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, newAuthResponse(res), h.logger)
}

// Login — проверяет почту и пароль и выдаёт новый токен.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	res, err := h.uc.Login.Execute(r.Context(), usecase.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newAuthResponse(res), h.logger)
}

// Logout — отзывает токен текущего запроса.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := currentToken(r.Context())
	if err := h.uc.RevokeToken.Execute(r.Context(), token.ID().String()); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll — отзывает все токены владельца текущего токена.
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	token := currentToken(r.Context())
	count, err := h.uc.RevokeAllUserTokens.Execute(r.Context(), token.UserID().String())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"revoked": count}, h.logger)
}

// Me — возвращает владельца текущего токена.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := currentToken(r.Context())
	user, err := h.uc.GetUserByID.Execute(r.Context(), token.UserID().String())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user), h.logger)
}

package handler

import (
	"net/http"

	"github.com/GoArmGo/TaskApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// Пользователь через API управляет только своей учётной записью.

// ownUserID возвращает {id} из пути, если он совпадает с владельцем токена.
func (h *Handler) ownUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if currentToken(r.Context()).UserID().String() != id {
		respondWithError(w, http.StatusForbidden, "forbidden", "Access to another user is not allowed", h.logger)
		return "", false
	}
	return id, true
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}
	user, err := h.uc.GetUserByID.Execute(r.Context(), id)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user), h.logger)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.uc.UpdateUser.Execute(r.Context(), usecase.UpdateUserInput{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user), h.logger)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}
	if err := h.uc.DeleteUser.Execute(r.Context(), id); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) VerifyUserEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}
	user, err := h.uc.VerifyUserEmail.Execute(r.Context(), id)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserResponse(user), h.logger)
}

func (h *Handler) ListUserTokens(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownUserID(w, r)
	if !ok {
		return
	}
	tokens, err := h.uc.GetTokensByUserID.Execute(r.Context(), id)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	out := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, newTokenResponse(t))
	}
	respondWithJSON(w, http.StatusOK, out, h.logger)
}

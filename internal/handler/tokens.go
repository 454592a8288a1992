package handler

import (
	"net/http"

	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ownToken загружает токен из пути. Чужой токен выглядит как несуществующий.
func (h *Handler) ownToken(w http.ResponseWriter, r *http.Request) (*domain.Token, bool) {
	token, err := h.uc.GetTokenByID.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return nil, false
	}
	if !token.UserID().Equals(currentToken(r.Context()).UserID()) {
		h.respondWithDomainError(w, r, domain.NewError(domain.KindTokenNotFound, ""))
		return nil, false
	}
	return token, true
}

func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, ok := h.ownToken(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, newTokenResponse(token), h.logger)
}

// RevokeToken — отзывает токен; запись остаётся в хранилище.
func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token, ok := h.ownToken(w, r)
	if !ok {
		return
	}
	if err := h.uc.RevokeToken.Execute(r.Context(), token.ID().String()); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

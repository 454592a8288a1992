package handler

import (
	"net/http"

	"github.com/GoArmGo/TaskApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.uc.GetAllTasks.Execute(r.Context())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTaskResponses(tasks), h.logger)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	task, err := h.uc.CreateTask.Execute(r.Context(), usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newTaskResponse(task), h.logger)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.uc.GetTaskByID.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTaskResponse(task), h.logger)
}

// UpdateTask — частичное обновление: отсутствующие поля не меняются.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	task, err := h.uc.UpdateTask.Execute(r.Context(), usecase.UpdateTaskInput{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTaskResponse(task), h.logger)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteTask.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strings"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var in services.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	task, err := h.service.Create(r.Context(), userID, projectID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// List supports ?status=, ?priority= and ?assignedTo= filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := models.TaskFilter{
		Status:   models.TaskStatus(strings.ToUpper(query.Get("status"))),
		Priority: models.TaskPriority(strings.ToUpper(query.Get("priority"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		http.Error(w, "Invalid priority filter", http.StatusBadRequest)
		return
	}
	if raw := query.Get("assignedTo"); raw != "" {
		assignee, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			http.Error(w, "Invalid assignedTo filter", http.StatusBadRequest)
			return
		}
		filter.AssignedTo = &assignee
	}

	tasks, err := h.service.List(r.Context(), userID, projectID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var in services.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	task, err := h.service.Update(r.Context(), userID, taskID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"teamsync-project/backend/workspace-service/dialog"

	"github.com/gorilla/mux"
)

const maxDialogPayload = 1 << 20

type DialogHandler struct {
	registry *dialog.Registry
}

func NewDialogHandler(registry *dialog.Registry) *DialogHandler {
	return &DialogHandler{registry: registry}
}

func kindVar(r *http.Request) dialog.Kind {
	return dialog.Kind(mux.Vars(r)["kind"])
}

func (h *DialogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	views, err := h.registry.Controller(userID).Views(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DialogHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.registry.Controller(userID).View(r.Context(), kindVar(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *DialogHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	shell, err := h.registry.Controller(userID).Open(r.Context(), kindVar(r), r.URL.Query().Get("target"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := shell.View(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *DialogHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ctrl := h.registry.Controller(userID)
	if err := ctrl.Close(kindVar(r)); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := ctrl.View(r.Context(), kindVar(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *DialogHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxDialogPayload))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.registry.Controller(userID).Submit(r.Context(), kindVar(r), json.RawMessage(payload))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result, "open": false})
}

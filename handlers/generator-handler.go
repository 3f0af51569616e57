package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"teamsync-project/backend/workspace-service/generator"
	"teamsync-project/backend/workspace-service/logging"

	"github.com/gorilla/mux"
)

const maxUploadSize = 20 << 20

type GeneratorHandler struct {
	registry    *generator.Registry
	waitTimeout time.Duration
}

// NewGeneratorHandler wires the generator endpoints. waitTimeout bounds how
// long ?wait=true holds a request open.
func NewGeneratorHandler(registry *generator.Registry, waitTimeout time.Duration) *GeneratorHandler {
	return &GeneratorHandler{registry: registry, waitTimeout: waitTimeout}
}

func (h *GeneratorHandler) session(w http.ResponseWriter, r *http.Request) (*generator.Session, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	return h.registry.Session(userID.Hex()), true
}

func (h *GeneratorHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *GeneratorHandler) Members(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Roster().Members())
}

// Upload takes the multipart "file" field. Any file type is accepted.
func (h *GeneratorHandler) Upload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	info := generator.Inspect(header.Filename, header.Header.Get("Content-Type"), data)
	if err := s.SetFile(info); err != nil {
		writeError(w, r, err)
		return
	}

	logging.Logger.Infof("Event ID: DOCUMENT_UPLOADED, Description: %s (%s) uploaded", info.Name, info.SizeLabel)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Generate starts generation and answers 202 right away, or 200 with the
// generated tasks when called with ?wait=true.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	token, err := s.Generate()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); !wait {
		writeJSON(w, http.StatusAccepted, s.Snapshot())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
	defer cancel()
	if err := s.Wait(ctx, token); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *GeneratorHandler) taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, "Invalid taskId", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *GeneratorHandler) Assign(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var body struct {
		MemberID int `json:"memberId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, known := h.registry.Roster().Lookup(body.MemberID); !known {
		http.Error(w, "Unknown member", http.StatusBadRequest)
		return
	}
	s.Assign(taskID, body.MemberID)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *GeneratorHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	s.Unassign(taskID)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *GeneratorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *GeneratorHandler) Finish(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": s.Finish()})
}

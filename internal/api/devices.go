package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListDevices returns every device registered since startup,
// sorted by name.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": s.deviceList(),
	})
}

// handleDeviceHistory returns recent persisted values for one device,
// newest first. The limit query parameter caps the result size.
func (s *Server) handleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeUnavailable(w, "history is disabled")
		return
	}

	name := chi.URLParam(r, "name")
	if !s.knowsDevice(name) {
		writeNotFound(w, "unknown device: "+name)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := s.repo.Recent(r.Context(), name, limit)
	if err != nil {
		s.logger.Error("querying device history", "device", name, "error", err)
		writeInternalError(w, "querying device history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device":  name,
		"entries": entries,
	})
}

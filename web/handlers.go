package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"markestedt/dropzip/config"
	"markestedt/dropzip/extract"
	"markestedt/dropzip/platform"
	"markestedt/dropzip/storage"
)

type settingsResponse struct {
	ToolPath   string `json:"toolPath"`
	Configured bool   `json:"configured"`
}

type settingsRequest struct {
	ToolPath string `json:"toolPath" validate:"required,file"`
}

type dropRequest struct {
	Files []string `json:"files" validate:"required,min=1,dive,required"`
	Alt   bool     `json:"alt"`
	Shift bool     `json:"shift"`
}

// handleGetSettings returns the configured tool path
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	path, ok := s.settings.Get(config.KeyToolPath)
	writeJSON(w, http.StatusOK, settingsResponse{ToolPath: path, Configured: ok})
}

// handlePutSettings stores a new tool path
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.settings.Set(config.KeyToolPath, req.ToolPath); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.settings.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	path, ok := s.settings.Get(config.KeyToolPath)
	writeJSON(w, http.StatusOK, settingsResponse{ToolPath: path, Configured: ok})
}

// handleDrop queues a batch as if the files were dropped on the window
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var mods platform.Modifier
	if req.Alt {
		mods |= platform.ModAlt
	}
	if req.Shift {
		mods |= platform.ModShift
	}

	if err := s.queue.Submit(extract.DropEvent{Files: req.Files, Modifiers: mods}); err != nil {
		if errors.Is(err, extract.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"files":  len(req.Files),
		"flags":  extract.Flags(mods),
	})
}

// handleGetHistory returns paginated invocation history, or one batch in run
// order when ?batch= is given
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	if batchID := r.URL.Query().Get("batch"); batchID != "" {
		s.handleGetBatch(w, batchID)
		return
	}

	limit := queryInt(r, "limit", 50, 1)
	offset := queryInt(r, "offset", 0, 0)

	invocations, err := s.db.GetInvocations(limit, offset)
	if err != nil {
		slog.Error("Failed to get invocations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	total, err := s.db.GetInvocationCount()
	if err != nil {
		slog.Error("Failed to get invocation count", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	if invocations == nil {
		invocations = []storage.Invocation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invocations": invocations,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, batchID string) {
	invocations, err := s.db.GetBatch(batchID)
	if err != nil {
		slog.Error("Failed to get batch", "error", err, "batch", batchID)
		writeError(w, http.StatusInternalServerError, "failed to get history")
		return
	}
	if len(invocations) == 0 {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"batch":       batchID,
		"invocations": invocations,
		"total":       len(invocations),
	})
}

// handleDeleteHistory deletes one invocation by ID
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.db.DeleteInvocation(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.Error("Failed to delete invocation", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete invocation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleStats returns statistics for the last N days
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	days := queryInt(r, "days", 7, 1)

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}
	if daily == nil {
		daily = []storage.DailyStats{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overall": overall,
		"daily":   daily,
	})
}

// queryInt reads an integer query parameter, falling back to def when it is
// missing, malformed or below min
func queryInt(r *http.Request, name string, def, min int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return def
	}
	return v
}

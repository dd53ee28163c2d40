package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (a *API) systemStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.SystemStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) resourceUsageHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.ResourceUsage(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) storageInfoHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.StorageInfo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) wanStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.WANStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

// logsHandler reads the "service" and "lines" query parameters. Missing or
// unusable values fall back to the orchestrator defaults.
func (a *API) logsHandler(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")

	var lines int
	if raw := r.URL.Query().Get("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "lines must be a positive integer")
			return
		}
		lines = parsed
	}

	payload, err := a.orch.Logs(r.Context(), service, lines)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) serviceStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.ServiceStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) rebootHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.orch.Reboot(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "reboot initiated",
	})
}

func (a *API) serviceControlHandler(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	action := chi.URLParam(r, "action")

	if err := a.orch.ServiceControl(r.Context(), service, action); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

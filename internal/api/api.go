// Package api exposes the router control plane over HTTP. Handlers are thin:
// they decode the wire shape, call the orchestrator or session store, and map
// errors onto status codes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Djnirds1984/Hybrid-Router/internal/auth"
	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
	"github.com/Djnirds1984/Hybrid-Router/internal/orchestrator"
	"github.com/Djnirds1984/Hybrid-Router/internal/repository"
	"github.com/Djnirds1984/Hybrid-Router/internal/telemetry"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// API holds the service dependencies shared by all handler groups.
type API struct {
	orch     *orchestrator.Orchestrator
	sessions *auth.Store
	hub      *telemetry.Hub
}

// NewAPI creates an API over an orchestrator, a session store and the
// telemetry hub.
func NewAPI(orch *orchestrator.Orchestrator, sessions *auth.Store, hub *telemetry.Hub) *API {
	return &API{orch: orch, sessions: sessions, hub: hub}
}

// RegisterRoutes registers all endpoints on the given chi router. Everything
// under /api except /api/health and /api/auth/login requires a valid session;
// /ws accepts the token from the bearer header or the token query parameter.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", a.healthHandler)
	r.Post("/api/auth/login", a.loginHandler)

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.RequireAuth)

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/logout", a.logoutHandler)
			r.Get("/profile", a.profileHandler)
			r.Post("/change-password", a.changePasswordHandler)
		})

		r.Route("/api/config", func(r chi.Router) {
			r.Get("/interfaces", a.listInterfacesHandler)
			r.Post("/interfaces", a.createInterfaceHandler)
			r.Put("/interfaces/{id}", a.updateInterfaceHandler)
			r.Delete("/interfaces/{id}", a.deleteInterfaceHandler)

			r.Get("/dhcp-config", a.listDhcpPoolsHandler)
			r.Post("/dhcp-config", a.createDhcpPoolHandler)
			r.Put("/dhcp-config/{id}", a.updateDhcpPoolHandler)
			r.Delete("/dhcp-config/{id}", a.deleteDhcpPoolHandler)

			r.Get("/firewall-rules", a.listFirewallRulesHandler)
			r.Post("/firewall-rules", a.createFirewallRuleHandler)
			r.Put("/firewall-rules/{id}", a.updateFirewallRuleHandler)
			r.Delete("/firewall-rules/{id}", a.deleteFirewallRuleHandler)

			r.Get("/port-forwarding", a.listPortForwardsHandler)
			r.Post("/port-forwarding", a.createPortForwardHandler)
			r.Put("/port-forwarding/{id}", a.updatePortForwardHandler)
			r.Delete("/port-forwarding/{id}", a.deletePortForwardHandler)

			r.Get("/settings", a.listSettingsHandler)
			r.Put("/settings/{key}", a.updateSettingHandler)

			r.Get("/backup", a.backupHandler)
		})

		r.Route("/api/network", func(r chi.Router) {
			r.Get("/interfaces", a.networkInterfacesHandler)
			r.Get("/status", a.networkStatusHandler)
			r.Post("/configure-interface", a.configureInterfaceHandler)
			r.Get("/dhcp-leases", a.dhcpLeasesHandler)
			r.Get("/firewall-rules", a.liveFirewallRulesHandler)
			r.Post("/firewall-rules", a.addLiveFirewallRuleHandler)
			r.Post("/nat/enable", a.enableNATHandler)
			r.Post("/nat/disable", a.disableNATHandler)
			r.Get("/nat/status", a.natStatusHandler)
		})

		r.Route("/api/system", func(r chi.Router) {
			r.Get("/status", a.systemStatusHandler)
			r.Get("/resources", a.resourceUsageHandler)
			r.Get("/storage", a.storageInfoHandler)
			r.Get("/wan", a.wanStatusHandler)
			r.Get("/logs", a.logsHandler)
			r.Get("/services", a.serviceStatusHandler)
			r.Post("/reboot", a.rebootHandler)
			r.Post("/services/{service}/{action}", a.serviceControlHandler)
		})

		r.Get("/ws", a.hub.ServeWS)
	})
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeRaw passes an executor document through unchanged.
func writeRaw(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeServiceError maps orchestrator and executor failures onto status
// codes. Unexpected errors reply with a generic message; the detail goes to
// the log only.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *orchestrator.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}

	var domainErr *executor.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, http.StatusBadRequest, domainErr.Message)
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, executor.ErrTimeout):
		writeError(w, http.StatusBadGateway, "operation timed out")
	case errors.Is(err, executor.ErrProcessFailed),
		errors.Is(err, executor.ErrMalformedOutput):
		writeError(w, http.StatusBadGateway, "enforcement backend failure")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

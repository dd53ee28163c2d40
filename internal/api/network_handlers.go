package api

import (
	"encoding/json"
	"net/http"
)

// ConfigureInterfaceRequest is the body of POST /api/network/configure-interface.
// The configuration object is forwarded to the enforcement helper as-is.
type ConfigureInterfaceRequest struct {
	Interface     string          `json:"interface"`
	Configuration json.RawMessage `json:"configuration"`
}

// EnableNATRequest is the body of POST /api/network/nat/enable.
type EnableNATRequest struct {
	Method       string `json:"method"`
	WANInterface string `json:"wan_interface"`
	LANInterface string `json:"lan_interface"`
}

// DisableNATRequest is the body of POST /api/network/nat/disable.
type DisableNATRequest struct {
	Method string `json:"method"`
}

func (a *API) networkInterfacesHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.NetworkInterfaces(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) networkStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.NetworkStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) configureInterfaceHandler(w http.ResponseWriter, r *http.Request) {
	var req ConfigureInterfaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.orch.ConfigureInterface(r.Context(), req.Interface, string(req.Configuration)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) dhcpLeasesHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.DhcpLeases(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) liveFirewallRulesHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.LiveFirewallRules(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

func (a *API) addLiveFirewallRuleHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateFirewallRuleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.orch.AddLiveFirewallRule(r.Context(), req.toInput()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) enableNATHandler(w http.ResponseWriter, r *http.Request) {
	var req EnableNATRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.orch.EnableNAT(r.Context(), req.Method, req.WANInterface, req.LANInterface); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) disableNATHandler(w http.ResponseWriter, r *http.Request) {
	var req DisableNATRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.orch.DisableNAT(r.Context(), req.Method); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) natStatusHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := a.orch.NATStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, payload)
}

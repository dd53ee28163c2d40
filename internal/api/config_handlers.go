package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
	"github.com/Djnirds1984/Hybrid-Router/internal/orchestrator"
)

// InterfaceResponse is the wire shape of a persisted interface. Configuration
// is emitted as the JSON object it was stored as.
type InterfaceResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Enabled       bool            `json:"enabled"`
	Configuration json.RawMessage `json:"configuration"`
	Enforcement   string          `json:"enforcement_state"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newInterfaceResponse(iface domain.Interface) InterfaceResponse {
	return InterfaceResponse{
		ID:            iface.ID,
		Name:          iface.Name,
		Type:          iface.Kind,
		Enabled:       iface.Enabled,
		Configuration: json.RawMessage(iface.Configuration),
		Enforcement:   string(iface.Enforcement),
		CreatedAt:     iface.CreatedAt,
		UpdatedAt:     iface.UpdatedAt,
	}
}

// CreateInterfaceRequest is the body of POST /api/config/interfaces.
type CreateInterfaceRequest struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Enabled       *bool           `json:"enabled"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// UpdateInterfaceRequest is a partial update; absent fields stay unchanged.
type UpdateInterfaceRequest struct {
	Enabled       *bool           `json:"enabled"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

func (a *API) listInterfacesHandler(w http.ResponseWriter, r *http.Request) {
	interfaces, err := a.orch.Interfaces(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]InterfaceResponse, 0, len(interfaces))
	for _, iface := range interfaces {
		response = append(response, newInterfaceResponse(iface))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) createInterfaceHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateInterfaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	iface, err := a.orch.CreateInterface(r.Context(), orchestrator.CreateInterfaceInput{
		Name:          req.Name,
		Kind:          req.Type,
		Enabled:       req.Enabled,
		Configuration: string(req.Configuration),
	})
	if err != nil {
		// Enforcement failure still persisted the row; report the failure.
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newInterfaceResponse(iface))
}

func (a *API) updateInterfaceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interface ID")
		return
	}

	var req UpdateInterfaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := orchestrator.InterfacePatch{Enabled: req.Enabled}
	if req.Configuration != nil {
		cfg := string(req.Configuration)
		patch.Configuration = &cfg
	}

	iface, err := a.orch.UpdateInterface(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newInterfaceResponse(iface))
}

func (a *API) deleteInterfaceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interface ID")
		return
	}
	if err := a.orch.DeleteInterface(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DhcpPoolResponse is the wire shape of a persisted DHCP pool.
type DhcpPoolResponse struct {
	ID          int64     `json:"id"`
	InterfaceID int64     `json:"interface_id"`
	StartIP     string    `json:"start_ip"`
	EndIP       string    `json:"end_ip"`
	SubnetMask  string    `json:"subnet_mask"`
	LeaseTime   int64     `json:"lease_time"`
	Gateway     string    `json:"gateway"`
	DNSServers  string    `json:"dns_servers"`
	Enabled     bool      `json:"enabled"`
	Enforcement string    `json:"enforcement_state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newDhcpPoolResponse(pool domain.DhcpPool) DhcpPoolResponse {
	return DhcpPoolResponse{
		ID:          pool.ID,
		InterfaceID: pool.InterfaceID,
		StartIP:     pool.StartIP,
		EndIP:       pool.EndIP,
		SubnetMask:  pool.SubnetMask,
		LeaseTime:   pool.LeaseTime,
		Gateway:     pool.Gateway,
		DNSServers:  pool.DNSServers,
		Enabled:     pool.Enabled,
		Enforcement: string(pool.Enforcement),
		CreatedAt:   pool.CreatedAt,
		UpdatedAt:   pool.UpdatedAt,
	}
}

// CreateDhcpPoolRequest is the body of POST /api/config/dhcp-config.
type CreateDhcpPoolRequest struct {
	InterfaceID int64  `json:"interface_id"`
	StartIP     string `json:"start_ip"`
	EndIP       string `json:"end_ip"`
	SubnetMask  string `json:"subnet_mask"`
	LeaseTime   int64  `json:"lease_time"`
	Gateway     string `json:"gateway"`
	DNSServers  string `json:"dns_servers"`
	Enabled     *bool  `json:"enabled"`
}

// UpdateDhcpPoolRequest is a partial update; absent fields stay unchanged.
type UpdateDhcpPoolRequest struct {
	StartIP    *string `json:"start_ip"`
	EndIP      *string `json:"end_ip"`
	SubnetMask *string `json:"subnet_mask"`
	LeaseTime  *int64  `json:"lease_time"`
	Gateway    *string `json:"gateway"`
	DNSServers *string `json:"dns_servers"`
	Enabled    *bool   `json:"enabled"`
}

func (a *API) listDhcpPoolsHandler(w http.ResponseWriter, r *http.Request) {
	pools, err := a.orch.DhcpPools(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]DhcpPoolResponse, 0, len(pools))
	for _, pool := range pools {
		response = append(response, newDhcpPoolResponse(pool))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) createDhcpPoolHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateDhcpPoolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pool, err := a.orch.CreateDhcpPool(r.Context(), orchestrator.CreateDhcpPoolInput{
		InterfaceID: req.InterfaceID,
		StartIP:     req.StartIP,
		EndIP:       req.EndIP,
		SubnetMask:  req.SubnetMask,
		LeaseTime:   req.LeaseTime,
		Gateway:     req.Gateway,
		DNSServers:  req.DNSServers,
		Enabled:     req.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDhcpPoolResponse(pool))
}

func (a *API) updateDhcpPoolHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pool ID")
		return
	}

	var req UpdateDhcpPoolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pool, err := a.orch.UpdateDhcpPool(r.Context(), id, orchestrator.DhcpPoolPatch{
		StartIP:    req.StartIP,
		EndIP:      req.EndIP,
		SubnetMask: req.SubnetMask,
		LeaseTime:  req.LeaseTime,
		Gateway:    req.Gateway,
		DNSServers: req.DNSServers,
		Enabled:    req.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDhcpPoolResponse(pool))
}

func (a *API) deleteDhcpPoolHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pool ID")
		return
	}
	if err := a.orch.DeleteDhcpPool(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// FirewallRuleResponse is the wire shape of a persisted firewall rule.
// Zero-valued optional ports mean unset.
type FirewallRuleResponse struct {
	ID          int64     `json:"id"`
	Chain       string    `json:"chain"`
	Action      string    `json:"action"`
	Protocol    string    `json:"protocol"`
	SourceIP    string    `json:"source_ip"`
	DestIP      string    `json:"dest_ip"`
	SourcePort  int64     `json:"source_port"`
	DestPort    int64     `json:"dest_port"`
	Priority    int64     `json:"priority"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Enforcement string    `json:"enforcement_state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newFirewallRuleResponse(rule domain.FirewallRule) FirewallRuleResponse {
	return FirewallRuleResponse{
		ID:          rule.ID,
		Chain:       rule.Chain,
		Action:      rule.Action,
		Protocol:    rule.Protocol,
		SourceIP:    rule.SourceIP,
		DestIP:      rule.DestIP,
		SourcePort:  rule.SourcePort,
		DestPort:    rule.DestPort,
		Priority:    rule.Priority,
		Description: rule.Description,
		Enabled:     rule.Enabled,
		Enforcement: string(rule.Enforcement),
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}

// CreateFirewallRuleRequest is the body of POST /api/config/firewall-rules
// and POST /api/network/firewall-rules.
type CreateFirewallRuleRequest struct {
	Chain       string `json:"chain"`
	Action      string `json:"action"`
	Protocol    string `json:"protocol"`
	SourceIP    string `json:"source_ip"`
	DestIP      string `json:"dest_ip"`
	SourcePort  int64  `json:"source_port"`
	DestPort    int64  `json:"dest_port"`
	Priority    int64  `json:"priority"`
	Description string `json:"description"`
	Enabled     *bool  `json:"enabled"`
}

func (req CreateFirewallRuleRequest) toInput() orchestrator.CreateFirewallRuleInput {
	return orchestrator.CreateFirewallRuleInput{
		Chain:       req.Chain,
		Action:      req.Action,
		Protocol:    req.Protocol,
		SourceIP:    req.SourceIP,
		DestIP:      req.DestIP,
		SourcePort:  req.SourcePort,
		DestPort:    req.DestPort,
		Priority:    req.Priority,
		Description: req.Description,
		Enabled:     req.Enabled,
	}
}

// UpdateFirewallRuleRequest is a partial update; absent fields stay unchanged.
type UpdateFirewallRuleRequest struct {
	Chain       *string `json:"chain"`
	Action      *string `json:"action"`
	Protocol    *string `json:"protocol"`
	SourceIP    *string `json:"source_ip"`
	DestIP      *string `json:"dest_ip"`
	SourcePort  *int64  `json:"source_port"`
	DestPort    *int64  `json:"dest_port"`
	Priority    *int64  `json:"priority"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

func (a *API) listFirewallRulesHandler(w http.ResponseWriter, r *http.Request) {
	rules, err := a.orch.FirewallRules(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]FirewallRuleResponse, 0, len(rules))
	for _, rule := range rules {
		response = append(response, newFirewallRuleResponse(rule))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) createFirewallRuleHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateFirewallRuleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rule, err := a.orch.CreateFirewallRule(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newFirewallRuleResponse(rule))
}

func (a *API) updateFirewallRuleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}

	var req UpdateFirewallRuleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rule, err := a.orch.UpdateFirewallRule(r.Context(), id, orchestrator.FirewallRulePatch{
		Chain:       req.Chain,
		Action:      req.Action,
		Protocol:    req.Protocol,
		SourceIP:    req.SourceIP,
		DestIP:      req.DestIP,
		SourcePort:  req.SourcePort,
		DestPort:    req.DestPort,
		Priority:    req.Priority,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFirewallRuleResponse(rule))
}

func (a *API) deleteFirewallRuleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}
	if err := a.orch.DeleteFirewallRule(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PortForwardResponse is the wire shape of a persisted port forward.
type PortForwardResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ExternalPort int64     `json:"external_port"`
	InternalIP   string    `json:"internal_ip"`
	InternalPort int64     `json:"internal_port"`
	Protocol     string    `json:"protocol"`
	Description  string    `json:"description"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newPortForwardResponse(fwd domain.PortForward) PortForwardResponse {
	return PortForwardResponse{
		ID:           fwd.ID,
		Name:         fwd.Name,
		ExternalPort: fwd.ExternalPort,
		InternalIP:   fwd.InternalIP,
		InternalPort: fwd.InternalPort,
		Protocol:     fwd.Protocol,
		Description:  fwd.Description,
		Enabled:      fwd.Enabled,
		CreatedAt:    fwd.CreatedAt,
		UpdatedAt:    fwd.UpdatedAt,
	}
}

// CreatePortForwardRequest is the body of POST /api/config/port-forwarding.
type CreatePortForwardRequest struct {
	Name         string `json:"name"`
	ExternalPort int64  `json:"external_port"`
	InternalIP   string `json:"internal_ip"`
	InternalPort int64  `json:"internal_port"`
	Protocol     string `json:"protocol"`
	Description  string `json:"description"`
	Enabled      *bool  `json:"enabled"`
}

// UpdatePortForwardRequest is a partial update; absent fields stay unchanged.
type UpdatePortForwardRequest struct {
	Name         *string `json:"name"`
	ExternalPort *int64  `json:"external_port"`
	InternalIP   *string `json:"internal_ip"`
	InternalPort *int64  `json:"internal_port"`
	Protocol     *string `json:"protocol"`
	Description  *string `json:"description"`
	Enabled      *bool   `json:"enabled"`
}

func (a *API) listPortForwardsHandler(w http.ResponseWriter, r *http.Request) {
	forwards, err := a.orch.PortForwards(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]PortForwardResponse, 0, len(forwards))
	for _, fwd := range forwards {
		response = append(response, newPortForwardResponse(fwd))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) createPortForwardHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePortForwardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fwd, err := a.orch.CreatePortForward(r.Context(), orchestrator.CreatePortForwardInput{
		Name:         req.Name,
		ExternalPort: req.ExternalPort,
		InternalIP:   req.InternalIP,
		InternalPort: req.InternalPort,
		Protocol:     req.Protocol,
		Description:  req.Description,
		Enabled:      req.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPortForwardResponse(fwd))
}

func (a *API) updatePortForwardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid forward ID")
		return
	}

	var req UpdatePortForwardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fwd, err := a.orch.UpdatePortForward(r.Context(), id, orchestrator.PortForwardPatch{
		Name:         req.Name,
		ExternalPort: req.ExternalPort,
		InternalIP:   req.InternalIP,
		InternalPort: req.InternalPort,
		Protocol:     req.Protocol,
		Description:  req.Description,
		Enabled:      req.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPortForwardResponse(fwd))
}

func (a *API) deletePortForwardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid forward ID")
		return
	}
	if err := a.orch.DeletePortForward(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SettingResponse is the wire shape of a system setting.
type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newSettingResponse(setting domain.Setting) SettingResponse {
	return SettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		UpdatedAt:   setting.UpdatedAt,
	}
}

// UpdateSettingRequest is the body of PUT /api/config/settings/{key}.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

func (a *API) listSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := a.orch.Settings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]SettingResponse, 0, len(settings))
	for _, setting := range settings {
		response = append(response, newSettingResponse(setting))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) updateSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpdateSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	setting, err := a.orch.UpdateSetting(r.Context(), key, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingResponse(setting))
}

func (a *API) backupHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.orch.Backup(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("router-config-%s.json", doc.Timestamp.Format("2006-01-02-150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		log.Error().Err(err).Msg("failed to encode backup")
	}
}

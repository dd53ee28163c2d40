package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
)

func TestNetworkInterfacesPassthrough(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestNetworkInterfacesPassthrough")
	defer cleanup()

	fake.Respond("network", "list_interfaces", `[{"name": "eth0", "state": "up"}]`)

	w := doRequest(t, router, http.MethodGet, "/api/network/interfaces", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name": "eth0", "state": "up"}]`, w.Body.String())
}

func TestConfigureInterfaceLive(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestConfigureInterfaceLive")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/network/configure-interface", token, map[string]any{
		"interface":     "eth1",
		"configuration": map[string]string{"mode": "static"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	calls := fake.CallsTo("network", "configure_interface")
	require.Len(t, calls, 1)
	assert.Equal(t, "eth1", calls[0].Args[0])
}

func TestConfigureInterfaceLiveRequiresName(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestConfigureInterfaceLiveRequiresName")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/network/configure-interface", token, map[string]any{
		"configuration": map[string]string{"mode": "static"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fake.Calls())
}

func TestEnableNAT(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestEnableNAT")
	defer cleanup()

	req := EnableNATRequest{Method: "nftables", WANInterface: "eth0", LANInterface: "eth1"}
	w := doRequest(t, router, http.MethodPost, "/api/network/nat/enable", token, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Enabling twice is allowed; each request reaches the bridge
	w = doRequest(t, router, http.MethodPost, "/api/network/nat/enable", token, req)
	require.Equal(t, http.StatusOK, w.Code)

	calls := fake.CallsTo("firewall", "enable_nat")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"nftables", "eth0", "eth1"}, calls[0].Args)
}

func TestEnableNATValidation(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestEnableNATValidation")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/network/nat/enable", token, EnableNATRequest{
		Method:       "carrier-pigeon",
		WANInterface: "eth0",
		LANInterface: "eth1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/network/nat/enable", token, EnableNATRequest{
		Method: "nftables",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, fake.Calls())
}

func TestDisableNAT(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestDisableNAT")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/network/nat/disable", token, DisableNATRequest{
		Method: "nftables",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fake.CallsTo("firewall", "disable_nat"), 1)
}

func TestAddLiveFirewallRule(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestAddLiveFirewallRule")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/network/firewall-rules", token, CreateFirewallRuleRequest{
		Chain:    "FORWARD",
		Action:   "DROP",
		Protocol: "udp",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fake.CallsTo("firewall", "add_firewall_rule"), 1)

	// Live rules are not persisted
	w = doRequest(t, router, http.MethodGet, "/api/config/firewall-rules", token, nil)
	var listed []FirewallRuleResponse
	decodeResponse(t, w, &listed)
	assert.Empty(t, listed)
}

func TestNetworkBridgeFailure(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestNetworkBridgeFailure")
	defer cleanup()

	fake.Fail("network", "network_status", executor.ErrProcessFailed)

	w := doRequest(t, router, http.MethodGet, "/api/network/status", token, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStatusPassthrough(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestSystemStatusPassthrough")
	defer cleanup()

	fake.Respond("system", "system_status", `{"uptime": 4242, "hostname": "router"}`)

	w := doRequest(t, router, http.MethodGet, "/api/system/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uptime": 4242, "hostname": "router"}`, w.Body.String())
}

func TestSystemLogs(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestSystemLogs")
	defer cleanup()

	fake.Respond("system", "get_logs", `{"logs": []}`)

	w := doRequest(t, router, http.MethodGet, "/api/system/logs?service=dnsmasq&lines=50", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	calls := fake.CallsTo("system", "get_logs")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"dnsmasq", "50"}, calls[0].Args)

	// Missing params fall back to defaults
	w = doRequest(t, router, http.MethodGet, "/api/system/logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	calls = fake.CallsTo("system", "get_logs")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"all", "100"}, calls[1].Args)
}

func TestSystemLogsBadLines(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestSystemLogsBadLines")
	defer cleanup()

	w := doRequest(t, router, http.MethodGet, "/api/system/logs?lines=many", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fake.Calls())
}

func TestReboot(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestReboot")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/system/reboot", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fake.CallsTo("system", "system_reboot"), 1)
}

func TestRebootRefused(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestRebootRefused")
	defer cleanup()

	fake.Respond("system", "system_reboot", `{"success": false, "error": "reboot inhibited"}`)

	w := doRequest(t, router, http.MethodPost, "/api/system/reboot", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp ErrorResponse
	decodeResponse(t, w, &errResp)
	assert.Equal(t, "reboot inhibited", errResp.Error)
}

func TestServiceControl(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestServiceControl")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/system/services/dnsmasq/restart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	calls := fake.CallsTo("system", "service_control")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"dnsmasq", "restart"}, calls[0].Args)
}

func TestServiceControlInvalidAction(t *testing.T) {
	router, fake, token, cleanup := setupAPI(t, "TestServiceControlInvalidAction")
	defer cleanup()

	w := doRequest(t, router, http.MethodPost, "/api/system/services/dnsmasq/explode", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fake.Calls())
}

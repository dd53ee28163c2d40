package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
)

func TestNetworkInterfaces_Passthrough(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestNetworkInterfaces_Passthrough")
	defer cleanup()

	fake.Respond("network", "list_interfaces", `[{"name":"eth0","state":"up"}]`)

	payload, err := o.NetworkInterfaces(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"eth0","state":"up"}]`, string(payload))
}

func TestConfigureInterface(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestConfigureInterface")
	defer cleanup()

	err := o.ConfigureInterface(context.Background(), "eth0", `{"mode":"static","ip":"10.0.0.2"}`)
	require.NoError(t, err)

	calls := fake.CallsTo("network", "configure_interface")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"eth0", `{"mode":"static","ip":"10.0.0.2"}`}, calls[0].Args)

	var vErr *ValidationError
	err = o.ConfigureInterface(context.Background(), "", "{}")
	require.ErrorAs(t, err, &vErr)

	err = o.ConfigureInterface(context.Background(), "eth0", "not json")
	require.ErrorAs(t, err, &vErr)
}

func TestEnableNAT(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestEnableNAT")
	defer cleanup()

	err := o.EnableNAT(context.Background(), "nftables", "eth0", "eth1")
	require.NoError(t, err)

	calls := fake.CallsTo("firewall", "enable_nat")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"nftables", "eth0", "eth1"}, calls[0].Args)

	var vErr *ValidationError
	err = o.EnableNAT(context.Background(), "netmap", "eth0", "eth1")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "method", vErr.Field)

	err = o.EnableNAT(context.Background(), "iptables", "", "eth1")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "wan", vErr.Field)
}

func TestEnableNAT_Repeatable(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestEnableNAT_Repeatable")
	defer cleanup()

	// The helper treats already-enabled as success; both calls succeed and
	// both reach the bridge
	require.NoError(t, o.EnableNAT(context.Background(), "nftables", "eth0", "eth1"))
	require.NoError(t, o.EnableNAT(context.Background(), "nftables", "eth0", "eth1"))
	assert.Len(t, fake.CallsTo("firewall", "enable_nat"), 2)
}

func TestDisableNAT(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestDisableNAT")
	defer cleanup()

	require.NoError(t, o.DisableNAT(context.Background(), "iptables"))
	calls := fake.CallsTo("firewall", "disable_nat")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"iptables"}, calls[0].Args)
}

func TestServiceControl(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestServiceControl")
	defer cleanup()

	err := o.ServiceControl(context.Background(), "dnsmasq", "restart")
	require.NoError(t, err)

	calls := fake.CallsTo("system", "service_control")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"dnsmasq", "restart"}, calls[0].Args)
}

func TestServiceControl_RejectsUnknownAction(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestServiceControl_RejectsUnknownAction")
	defer cleanup()

	var vErr *ValidationError
	err := o.ServiceControl(context.Background(), "dnsmasq", "mask")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "action", vErr.Field)

	err = o.ServiceControl(context.Background(), "", "restart")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "service", vErr.Field)

	// Rejected actions never reach the bridge
	assert.Empty(t, fake.Calls())
}

func TestLogs_Defaults(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestLogs_Defaults")
	defer cleanup()

	fake.Respond("system", "get_logs", `{"logs": []}`)

	_, err := o.Logs(context.Background(), "", 0)
	require.NoError(t, err)

	calls := fake.CallsTo("system", "get_logs")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"all", "100"}, calls[0].Args)
}

func TestReboot_DomainError(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestReboot_DomainError")
	defer cleanup()

	fake.Respond("system", "system_reboot", `{"success": false, "error": "shutdown blocked"}`)

	err := o.Reboot(context.Background())
	var domainErr *executor.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "shutdown blocked", domainErr.Message)
}

func TestLiveReads_PropagateTransportErrors(t *testing.T) {
	o, fake, cleanup := setupOrchestrator(t, "TestLiveReads_PropagateTransportErrors")
	defer cleanup()

	fake.Fail("system", "resource_usage", executor.ErrProcessFailed)

	_, err := o.ResourceUsage(context.Background())
	assert.ErrorIs(t, err, executor.ErrProcessFailed)
}

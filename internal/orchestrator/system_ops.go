package orchestrator

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
)

// SystemStatus reads host identification and uptime from the helper.
func (o *Orchestrator) SystemStatus(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "system", "system_status", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// ResourceUsage reads CPU, memory and network counters from the helper.
func (o *Orchestrator) ResourceUsage(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "system", "resource_usage", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// StorageInfo reads filesystem usage from the helper.
func (o *Orchestrator) StorageInfo(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "system", "storage_info", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// WANStatus reads upstream link state from the helper.
func (o *Orchestrator) WANStatus(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "system", "wan_status", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// Reboot asks the helper to restart the host. The helper acknowledges
// before the restart lands, so a nil error only means the request was
// accepted.
func (o *Orchestrator) Reboot(ctx context.Context) error {
	_, err := o.exec.Invoke(ctx, "system", "system_reboot", nil)
	return err
}

// Logs reads recent journal lines. An empty service means all units;
// lines defaults to 100.
func (o *Orchestrator) Logs(ctx context.Context, service string, lines int) (json.RawMessage, error) {
	if service == "" {
		service = "all"
	}
	if lines <= 0 {
		lines = 100
	}

	result, err := o.exec.Invoke(ctx, "system", "get_logs", []string{service, strconv.Itoa(lines)})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// ServiceStatus reads the state of the managed services from the helper.
func (o *Orchestrator) ServiceStatus(ctx context.Context) (json.RawMessage, error) {
	result, err := o.exec.Invoke(ctx, "system", "service_status", nil)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// ServiceControl applies a lifecycle action to one service. The action is
// checked here so nothing unexpected ever reaches the helper.
func (o *Orchestrator) ServiceControl(ctx context.Context, service, action string) error {
	if service == "" {
		return invalid("service", "must not be empty")
	}
	if !domain.ValidEnum(action, domain.ServiceActions) {
		return invalid("action", "must be one of start, stop, restart, enable, disable")
	}

	_, err := o.exec.Invoke(ctx, "system", "service_control", []string{service, action})
	return err
}

package domain

import "time"

// EnforcementState tracks whether a persisted configuration row has been
// applied to the live system. Rows that never went through an enforcement
// attempt carry the empty state.
type EnforcementState string

const (
	EnforcementPending   EnforcementState = "pending"
	EnforcementApplied   EnforcementState = "enforced"
	EnforcementFailed    EnforcementState = "failed"
	EnforcementUntracked EnforcementState = ""
)

// Interface represents a managed network interface
type Interface struct {
	ID            int64            // Unique identifier
	Name          string           // Interface name, unique (e.g., "eth0", "wlan0")
	Kind          string           // ethernet, wireless or vlan
	Enabled       bool             // Administrative state
	Configuration string           // Opaque JSON configuration blob
	Enforcement   EnforcementState // Last enforcement outcome
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DhcpPool represents a DHCP address pool bound to an interface
type DhcpPool struct {
	ID          int64
	InterfaceID int64  // Foreign key to Interface
	StartIP     string // First address of the pool
	EndIP       string // Last address of the pool
	SubnetMask  string
	LeaseTime   int64  // Seconds, 300-86400
	Gateway     string // Optional
	DNSServers  string // Optional, comma-separated
	Enabled     bool
	Enforcement EnforcementState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FirewallRule represents a declarative firewall rule. Rules are evaluated
// by ascending (priority, id); a lower priority number wins.
type FirewallRule struct {
	ID          int64
	Chain       string // INPUT, FORWARD or OUTPUT
	Action      string // ACCEPT, DROP or REJECT
	Protocol    string // tcp, udp, icmp, all or empty
	SourceIP    string // Optional
	DestIP      string // Optional
	SourcePort  int64  // Optional, 1-65535, 0 when unset
	DestPort    int64  // Optional, 1-65535, 0 when unset
	Enabled     bool
	Priority    int64 // 1-1000, default 100
	Description string
	Enforcement EnforcementState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PortForward represents a port forwarding entry
type PortForward struct {
	ID           int64
	Name         string
	ExternalPort int64 // 1-65535
	InternalIP   string
	InternalPort int64  // 1-65535
	Protocol     string // tcp, udp or both
	Enabled      bool
	Description  string
	Enforcement  EnforcementState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Setting is a flat key/value system setting
type Setting struct {
	Key         string
	Value       string
	Description string
	UpdatedAt   time.Time
}

// User represents an API user. Password holds the bcrypt hash, never the
// cleartext.
type User struct {
	ID        int64
	Username  string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Value sets accepted by the API. Validated before anything is persisted or
// forwarded to the enforcement executor.
var (
	InterfaceKinds  = []string{"ethernet", "wireless", "vlan"}
	FirewallChains  = []string{"INPUT", "FORWARD", "OUTPUT"}
	FirewallActions = []string{"ACCEPT", "DROP", "REJECT"}
	FirewallProtos  = []string{"tcp", "udp", "icmp", "all"}
	ForwardProtos   = []string{"tcp", "udp", "both"}
	ServiceActions  = []string{"start", "stop", "restart", "enable", "disable"}
	NATMethods      = []string{"nftables", "iptables"}
)

// ValidEnum reports whether v is one of the allowed values.
func ValidEnum(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// ValidPort reports whether p is a usable TCP/UDP port number.
func ValidPort(p int64) bool {
	return p >= 1 && p <= 65535
}

// ValidLeaseTime reports whether t is an acceptable DHCP lease duration in seconds.
func ValidLeaseTime(t int64) bool {
	return t >= 300 && t <= 86400
}

// ValidPriority reports whether p is an acceptable firewall rule priority.
func ValidPriority(p int64) bool {
	return p >= 1 && p <= 1000
}

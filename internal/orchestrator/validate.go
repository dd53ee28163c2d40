package orchestrator

import (
	"encoding/json"
	"net"
	"strings"
)

func validIP(s string) bool {
	return net.ParseIP(s) != nil
}

// validDNSServers accepts a comma-separated list of IP addresses.
func validDNSServers(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if !validIP(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}

// validJSONObject accepts exactly one JSON object document. A bare null
// unmarshals into a nil map and is not an object.
func validJSONObject(s string) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return false
	}
	return doc != nil
}

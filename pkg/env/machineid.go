// Package env probes the host environment.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// AppID salts the machine id so it is not exposed as is.
const AppID = "rfsend"

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the hostname when the machine id is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil && len(id) > 12 {
		return id[:12]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "rfsend"
}

// ABOUTME: Role is the closed enumeration of caller permission tokens
// ABOUTME: Capabilities are declared in one table and checked at the orchestrator boundary
package models

// Role is an opaque permission token resolved upstream (web session or
// protocol server configuration). The core consumes it, never resolves it.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Capability names one permitted operation class.
type Capability string

const (
	CapSearch  Capability = "search"
	CapIngest  Capability = "ingest"
	CapDelete  Capability = "delete"
	CapReindex Capability = "reindex"
)

// capabilities is the single authoritative role -> capability table.
// Guests hold no capabilities at all: they are rejected upstream and this
// table is the second line of defense.
var capabilities = map[Role][]Capability{
	RoleGuest: {},
	RoleUser:  {CapSearch},
	RoleAdmin: {CapSearch, CapIngest, CapDelete, CapReindex},
}

// Can reports whether the role holds the given capability. Unknown roles
// hold nothing.
func (r Role) Can(c Capability) bool {
	for _, held := range capabilities[r] {
		if held == c {
			return true
		}
	}
	return false
}

// ParseRole maps a raw token to a known role. Anything unrecognized
// degrades to guest rather than erroring, so a malformed upstream header
// can never escalate.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

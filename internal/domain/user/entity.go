package user

// Role of a fleet member.
type Role string

const (
	RoleDriver Role = "DRIVER"
	RoleViewer Role = "VIEWER"
)

// ParseRole reports the Role for raw, and whether raw names a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleDriver:
		return RoleDriver, true
	case RoleViewer:
		return RoleViewer, true
	default:
		return "", false
	}
}

// UserProfile is a fleet member. The id is the identity-provider subject.
type UserProfile struct {
	ID        string
	Name      string
	FleetCode string
	Role      Role
	Vehicle   string // optional label, empty when unset
}

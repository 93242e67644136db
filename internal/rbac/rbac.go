package rbac

// Role constants
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Permission constants
const (
	PermViewAuditLog = "view_audit_log"
	PermViewArchive  = "view_archive"
	PermViewActions  = "view_moderation_actions"
	PermManageBans   = "manage_bans"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewAuditLog, PermViewArchive, PermViewActions, PermManageBans,
	},
	RoleModerator: {
		PermViewAuditLog, PermViewArchive, PermViewActions,
	},
}

// RoleFor maps an operator to a role. Operators listed as admins get
// RoleAdmin, everyone else holding a valid token is a moderator.
func RoleFor(operatorID string, admins []string) string {
	for _, id := range admins {
		if id == operatorID {
			return RoleAdmin
		}
	}
	return RoleModerator
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// IsWriteOperation reports whether permission changes state on the groups API.
func IsWriteOperation(permission string) bool {
	return permission == PermManageBans
}

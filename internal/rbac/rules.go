package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"learner": {
		"catalog:view",
		"session:view",
		"session:event",
		"progress:view",
		"certificate:view",
		"certificate:download",
	},
	"admin": {
		"*", // everything
	},
}

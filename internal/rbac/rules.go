package rbac

// Default policy. Students learn; admins author content and manage users.
var RolePermissions = map[string][]string{
	"student": {
		"catalog:view",
		"progress:view-own",
		"progress:complete",
		"quiz:view",
		"attempt:create",
		"attempt:view-own",
		"certificate:view-own",
		"certificate:generate",
	},
	"admin": {
		"*", // everything, including catalog:edit, users:*, activity:view
	},
}

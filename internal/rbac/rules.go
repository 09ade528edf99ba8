package rbac

// Default policy for the two roles the token can carry.
var RolePermissions = map[string][]string{
	"USER": {
		"quiz:view",
		"attempt:create",
		"attempt:view-own",
	},
	"ADMIN": {
		"*", // everything
	},
}

package rbac

import "dashboard/internal/models"

var roleRank = map[models.Role]int{
	models.RoleViewer: 1,
	models.RoleSharer: 2,
	models.RoleAdmin:  3,
}

// HasRole reports whether userRole is at least requiredRole.
// Unknown roles never match.
func HasRole(userRole models.Role, requiredRole models.Role) bool {
	userRank, ok := roleRank[userRole]
	if !ok {
		return false
	}
	requiredRank, ok := roleRank[requiredRole]
	if !ok {
		return false
	}
	return userRank >= requiredRank
}

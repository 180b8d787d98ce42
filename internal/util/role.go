package util

import (
	"slices"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
)

var rolePermissions = map[constant.UserRole][]constant.Permission{
	constant.UserRoleAdmin: {
		constant.HierarchyDelete,
		constant.CommentModerate,
		constant.ResourceDelete,
		constant.AlertReceive,
	},
	constant.UserRoleManager: {
		constant.HierarchyDelete,
		constant.ResourceDelete,
		constant.AlertReceive,
	},
	constant.UserRoleResearcher: {},
}

// checks if all permissions are granted by the role.
func HasPermission(role constant.UserRole, permissions ...constant.Permission) bool {
	for _, permission := range permissions {
		if !slices.Contains(rolePermissions[role], permission) {
			return false
		}
	}
	return true
}

// RolesWith lists every role that holds permission.
func RolesWith(permission constant.Permission) []constant.UserRole {
	var roles []constant.UserRole
	for _, role := range []constant.UserRole{constant.UserRoleResearcher, constant.UserRoleManager, constant.UserRoleAdmin} {
		if HasPermission(role, permission) {
			roles = append(roles, role)
		}
	}
	return roles
}

package constant

type UserRole string

const (
	UserRoleResearcher UserRole = "researcher"
	UserRoleManager    UserRole = "manager"
	UserRoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleResearcher, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

type Permission string

const (
	HierarchyDelete Permission = "hierarchy:delete"
	CommentModerate Permission = "comment:moderate"
	ResourceDelete  Permission = "resource:delete"
	AlertReceive    Permission = "alert:receive"
)

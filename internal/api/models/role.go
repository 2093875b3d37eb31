package models

// Role is the access level of a user. Stored as a plain string column.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanAdminister reports whether r may perform admin-only writes
// (categories, genres, titles, user administration).
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// CanModerate reports whether r may edit or delete content owned by
// other users (reviews, comments).
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

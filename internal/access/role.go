package access

type Role string

const (
	RoleAnonymous  Role = ""
	RoleCustomer   Role = "customer"
	RoleSupplier   Role = "supplier"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSupplier, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to the back office.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleSuperAdmin
}

// Actor is the authenticated identity behind a call. The zero value is the
// anonymous visitor.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

var Anonymous = Actor{}

func (a Actor) IsAnonymous() bool {
	return a.UserID == "" || a.Role == RoleAnonymous
}

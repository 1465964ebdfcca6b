package auth

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePayroll  Role = "payroll"
	RoleEmployee Role = "employee"
)

// CanRunPayroll reports whether the role may calculate and run payroll.
func (r Role) CanRunPayroll() bool {
	return r == RoleAdmin || r == RolePayroll
}

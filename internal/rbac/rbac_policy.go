package rbac

const (
	RoleEmployee = "EMPLOYEE"
	RoleHR       = "HR"
	RoleAdmin    = "ADMIN"
)

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

type RoleInheritanceRow struct {
	Role    string
	Inherit string
}

type Repository interface {
	GetRolePermissions() ([]RolePermissionRow, error)
	GetRoleInheritance() ([]RoleInheritanceRow, error)
}

type staticRepository struct {
	permissions []RolePermissionRow
	inheritance []RoleInheritanceRow
}

// NewStaticRepository serves the built-in policy: employees manage their own
// leave and notifications, HR also decides and reads every request, ADMIN
// holds everything HR does.
func NewStaticRepository() Repository {
	return &staticRepository{
		permissions: []RolePermissionRow{
			{Role: RoleEmployee, Resource: "leave", Action: "create"},
			{Role: RoleEmployee, Resource: "leave", Action: "read"},
			{Role: RoleEmployee, Resource: "notification", Action: "read"},
			{Role: RoleEmployee, Resource: "notification", Action: "update"},
			{Role: RoleHR, Resource: "leave", Action: "decide"},
			{Role: RoleHR, Resource: "leave", Action: "read_all"},
		},
		inheritance: []RoleInheritanceRow{
			{Role: RoleHR, Inherit: RoleEmployee},
			{Role: RoleAdmin, Inherit: RoleHR},
		},
	}
}

func (r *staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	return r.permissions, nil
}

func (r *staticRepository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	return r.inheritance, nil
}

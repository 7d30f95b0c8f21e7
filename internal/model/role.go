package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, ADMIN, CASHIER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCashier     = "CASHIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Store management without user administration",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point of sale: ring up sales and look up products and customers",
	},
}

var cashierPrivileges = map[string]bool{
	PrivProductView:    true,
	PrivSaleView:       true,
	PrivSaleCreate:     true,
	PrivCustomerView:   true,
	PrivCustomerManage: true,
}

// DefaultPrivilegesFor selects, from all known privileges, the ones a role starts with.
func DefaultPrivilegesFor(roleCode string, all []Privilege) []Privilege {
	selected := []Privilege{}
	for _, p := range all {
		switch roleCode {
		case RoleMasterAdmin:
			selected = append(selected, p)
		case RoleAdmin:
			if p.Code != PrivUserCreate && p.Code != PrivUserUpdate && p.Code != PrivUserDelete && p.Code != PrivUserUpdatePrivilege {
				selected = append(selected, p)
			}
		case RoleCashier:
			if cashierPrivileges[p.Code] {
				selected = append(selected, p)
			}
		}
	}
	return selected
}

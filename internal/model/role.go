package model

// Role represents the job a token holder performs at a store
type Role struct {
	Code        string   `json:"code"` // CASHIER, MANAGER
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// Role codes as constants
const (
	RoleCashier = "CASHIER"
	RoleManager = "MANAGER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Rings up sales and looks up the catalog",
		Privileges:  []string{PrivSaleCreate, PrivTransactionView, PrivProductView, PrivStoreView},
	},
	{
		Code:        RoleManager,
		Name:        "Store Manager",
		Description: "Full access including catalog and stock administration",
		Privileges:  PrivilegeCodes(DefaultPrivileges),
	},
}

// FindRole returns the default role with the given code.
func FindRole(code string) (Role, bool) {
	for _, r := range DefaultRoles {
		if r.Code == code {
			return r, true
		}
	}
	return Role{}, false
}

// PrivilegeCodes returns a slice of all privilege codes
func PrivilegeCodes(privileges []Privilege) []string {
	codes := make([]string, len(privileges))
	for i, p := range privileges {
		codes[i] = p.Code
	}
	return codes
}

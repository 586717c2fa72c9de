package security

import "github.com/DaniyalGhauri/DriveSmart/internal/domain"

// Principal is the request-scoped identity passed explicitly into every core
// operation. There is no ambient global auth state anywhere in the process.
type Principal struct {
	UserID          int32
	Email           string
	Role            domain.Role
	CompanyVerified bool // meaningful only when Role is company
}

func (p Principal) IsCustomer() bool { return p.Role == domain.RoleCustomer }
func (p Principal) IsCompany() bool  { return p.Role == domain.RoleCompany }
func (p Principal) IsAdmin() bool    { return p.Role == domain.RoleAdmin }

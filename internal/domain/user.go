package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleCompany  Role = "company"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CNIC         string `json:"cnic"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	CreatedOn    string `json:"created_on"`
}

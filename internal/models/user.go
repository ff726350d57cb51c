package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RoleName string

// Fixed role set, seeded once at startup.
const (
	RoleUser     RoleName = "ROLE_USER"
	RoleAdmin    RoleName = "ROLE_ADMIN"
	RoleFarmer   RoleName = "ROLE_FARMER"
	RoleMerchant RoleName = "ROLE_MERCHANT"
)

func AllRoles() []RoleName {
	return []RoleName{RoleUser, RoleAdmin, RoleFarmer, RoleMerchant}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message"`
}

type RolesResponse struct {
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
}

package models

// IdentityKind is the discriminant of the identities table. Every email in
// the system, whatever account owns it, has exactly one row there.
type IdentityKind string

const (
	KindFarmer   IdentityKind = "farmer"
	KindMerchant IdentityKind = "merchant"
	KindUser     IdentityKind = "user"
)

// Label is the capitalised form used in user-facing messages.
func (k IdentityKind) Label() string {
	switch k {
	case KindFarmer:
		return "Farmer"
	case KindMerchant:
		return "Merchant"
	case KindUser:
		return "User"
	}
	return string(k)
}

func (k IdentityKind) Role() RoleName {
	switch k {
	case KindFarmer:
		return RoleFarmer
	case KindMerchant:
		return RoleMerchant
	}
	return RoleUser
}

type Identity struct {
	Email     string       `json:"email"`
	Kind      IdentityKind `json:"kind"`
	AccountID int64        `json:"accountId"`
}

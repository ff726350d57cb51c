package services

import "strings"

// accountFields is the profile shared by farmers and merchants.
type accountFields struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
}

func (a *accountFields) normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = NormalizeEmail(a.Email)
	a.PhoneNumber = strings.TrimSpace(a.PhoneNumber)
	a.Address = strings.TrimSpace(a.Address)
}

func (a *accountFields) validateProfile() error {
	if a.Name == "" {
		return newError(ErrValidation, "Name is required")
	}
	if err := validateEmail(a.Email); err != nil {
		return err
	}
	if a.PhoneNumber == "" {
		return newError(ErrValidation, "Phone number is required")
	}
	return nil
}

func (a *accountFields) validate() error {
	if err := a.validateProfile(); err != nil {
		return err
	}
	if a.Password == "" {
		return newError(ErrValidation, "Password is required")
	}
	return nil
}

// accountPatch holds the optional fields of an update request.
type accountPatch struct {
	Name        *string
	Email       *string
	Password    *string
	PhoneNumber *string
	Address     *string
}

// apply overlays the present fields on current. The returned Password is
// empty unless the patch sets one.
func (p accountPatch) apply(current accountFields) (accountFields, error) {
	next := current
	next.Password = ""
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		next.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		next.Address = *p.Address
	}
	next.normalize()

	if err := next.validateProfile(); err != nil {
		return next, err
	}
	if p.Password != nil {
		if *p.Password == "" {
			return next, newError(ErrValidation, "Password cannot be empty")
		}
		next.Password = *p.Password
	}
	return next, nil
}

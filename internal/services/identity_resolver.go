package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/store"
)

// IdentityResolver answers which account type, if any, owns an email. The
// identities table holds one row per email across farmers, merchants and
// generic accounts, so every answer is a single indexed lookup.
type IdentityResolver struct {
	identities         IdentityRepository
	revealRoleMismatch bool
	logger             zerolog.Logger
}

func NewIdentityResolver(identities IdentityRepository, revealRoleMismatch bool, logger zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{
		identities:         identities,
		revealRoleMismatch: revealRoleMismatch,
		logger:             logger,
	}
}

// NormalizeEmail trims and lower-cases an address. All email comparisons go
// through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return newError(ErrValidation, "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return newError(ErrValidation, "Email %q is not a valid address", email)
	}
	return nil
}

// Resolve returns the identity for email, or ErrNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, email string) (*models.Identity, error) {
	id, err := r.identities.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "No account registered with this email")
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("Error resolving identity")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return id, nil
}

// EnsureAvailable fails when email already belongs to any account.
func (r *IdentityResolver) EnsureAvailable(ctx context.Context, email string, kind models.IdentityKind) error {
	id, err := r.Resolve(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return conflictError(id.Kind, kind)
}

// conflictFor re-reads the identity after the database rejected a write on a
// unique key, so the caller gets the same error the fast path would give.
func (r *IdentityResolver) conflictFor(ctx context.Context, email string, kind models.IdentityKind) error {
	if err := r.EnsureAvailable(ctx, email, kind); err != nil {
		return err
	}
	return newError(ErrAlreadyRegistered, "%s already exists with this email", kind.Label())
}

func conflictError(existing, wanted models.IdentityKind) error {
	if existing == wanted {
		return newError(ErrAlreadyRegistered, "%s already exists with this email", wanted.Label())
	}
	return newError(ErrDuplicateIdentity,
		"This email is already registered as a %s. Please use a different email or login as %s.",
		existing.Label(), existing.Label())
}

// CheckRoleHint verifies that identifier is registered under the role the
// client claims to log in as. An empty hint always passes.
func (r *IdentityResolver) CheckRoleHint(ctx context.Context, identifier, hint string) error {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return nil
	}

	want := models.IdentityKind(hint)
	if want != models.KindFarmer && want != models.KindMerchant {
		return newError(ErrValidation, "Unknown role %q, expected farmer or merchant", hint)
	}

	id, err := r.Resolve(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		return invalidCredentials()
	}
	if err != nil {
		return err
	}
	if id.Kind == want {
		return nil
	}

	r.logger.Warn().Str("declared_role", hint).Str("actual_role", string(id.Kind)).Msg("Login role mismatch")
	if !r.revealRoleMismatch {
		return invalidCredentials()
	}
	return newError(ErrWrongRole, "This email is registered as a %s. Please login as %s.", id.Kind.Label(), id.Kind.Label())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/store"
)

// AuthService runs registration of generic accounts, login for every account
// type, and role lookup for token subjects.
type AuthService struct {
	users     UserRepository
	farmers   FarmerRepository
	merchants MerchantRepository
	resolver  *IdentityResolver
	tokens    *TokenService
	hasher    PasswordHasher
	logger    zerolog.Logger

	// compared against when no account matches so both failure paths do the same work
	dummyHash string
}

func NewAuthService(repos Repositories, resolver *IdentityResolver, tokens *TokenService, hasher PasswordHasher, logger zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash("agritrade-no-such-account")
	if err != nil {
		logger.Warn().Err(err).Msg("Could not prepare dummy password hash")
	}
	return &AuthService{
		users:     repos.Users,
		farmers:   repos.Farmers,
		merchants: repos.Merchants,
		resolver:  resolver,
		tokens:    tokens,
		hasher:    hasher,
		logger:    logger,
		dummyHash: dummy,
	}
}

// principal is an authenticated account of any type.
type principal struct {
	username     string
	email        string
	passwordHash string
	roles        []string
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return s.register(ctx, req, models.RoleUser, "User registered successfully!")
}

func (s *AuthService) RegisterAdmin(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return s.register(ctx, req, models.RoleAdmin, "Admin user registered successfully!")
}

func (s *AuthService) register(ctx context.Context, req *models.RegisterRequest, role models.RoleName, message string) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := NormalizeEmail(req.Email)

	if username == "" || req.Password == "" {
		return nil, newError(ErrValidation, "Username, email and password are required")
	}
	// login accepts a username or an email, so the two must never overlap
	if strings.Contains(username, "@") {
		return nil, newError(ErrValidation, "Username cannot contain @")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user, role); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			if cerr := s.ensureAvailable(ctx, username, email); cerr != nil {
				return nil, cerr
			}
		}
		s.logger.Error().Err(err).Str("username", username).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", username).Str("role", string(role)).Msg("User registered")
	return &models.AuthResponse{Username: user.Username, Message: message}, nil
}

// ensureAvailable checks the username and email against generic accounts,
// then the email against farmers and merchants.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if taken {
		return newError(ErrUsernameTaken, "Username is already taken!")
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if taken {
		return newError(ErrEmailTaken, "Email is already in use!")
	}

	return s.resolver.EnsureAvailable(ctx, email, models.KindUser)
}

// Login checks the optional role hint, verifies the password and issues a
// token bound to the identifier exactly as the client sent it.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" || req.Password == "" {
		return nil, newError(ErrValidation, "Username and password are required")
	}

	if err := s.resolver.CheckRoleHint(ctx, identifier, req.Role); err != nil {
		return nil, err
	}

	p, err := s.lookup(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		_ = s.hasher.Compare(s.dummyHash, req.Password)
		s.logger.Warn().Str("identifier", identifier).Msg("Failed login attempt")
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(p.passwordHash, req.Password); err != nil {
		s.logger.Warn().Str("identifier", identifier).Msg("Failed login attempt")
		return nil, invalidCredentials()
	}

	token, _, err := s.tokens.Issue(identifier)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("identifier", identifier).Strs("roles", p.roles).Msg("Login successful")
	return &models.AuthResponse{Token: token, Username: identifier, Message: "Login successful!"}, nil
}

// Roles resolves a token subject to its account and role set.
func (s *AuthService) Roles(ctx context.Context, subject string) (*models.RolesResponse, error) {
	p, err := s.lookup(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &models.RolesResponse{Roles: p.roles, Username: p.username, Email: p.email}, nil
}

// RolesFor is the role lookup used by the role gate.
func (s *AuthService) RolesFor(ctx context.Context, subject string) ([]string, error) {
	p, err := s.lookup(ctx, subject)
	if err != nil {
		return nil, err
	}
	return p.roles, nil
}

// lookup tries a generic account by username, then by email, then a farmer
// or merchant by email.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*principal, error) {
	u, err := s.users.FindByUsername(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.users.FindByEmail(ctx, NormalizeEmail(identifier))
	}
	if err == nil {
		return &principal{username: u.Username, email: u.Email, passwordHash: u.PasswordHash, roles: u.Roles}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	id, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var hash string
	switch id.Kind {
	case models.KindFarmer:
		f, ferr := s.farmers.FindByEmail(ctx, id.Email)
		if ferr != nil {
			return nil, s.accountLookupError(ferr)
		}
		hash = f.PasswordHash
	case models.KindMerchant:
		m, merr := s.merchants.FindByEmail(ctx, id.Email)
		if merr != nil {
			return nil, s.accountLookupError(merr)
		}
		hash = m.PasswordHash
	default:
		return nil, newError(ErrNotFound, "No account registered with this email")
	}

	return &principal{
		username:     id.Email,
		email:        id.Email,
		passwordHash: hash,
		roles:        []string{string(id.Kind.Role())},
	}, nil
}

func (s *AuthService) accountLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, "No account registered with this email")
	}
	s.logger.Error().Err(err).Msg("Error querying account")
	return fmt.Errorf("database error: %w", err)
}

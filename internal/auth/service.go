// Package auth owns credentials: registration, login, token issuance and
// bearer-token authentication.
package auth

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"mini-crm/internal/config"
	"mini-crm/internal/models"
	"mini-crm/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("token is not valid")
)

// ValidationError carries a field-level message safe to return to the
// client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

type Service struct {
	users       store.UserStore
	secret      []byte
	ttl         time.Duration
	adminEmails map[string]struct{}
}

func NewService(users store.UserStore, cfg *config.Config) *Service {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[strings.ToLower(e)] = struct{}{}
	}
	return &Service{
		users:       users,
		secret:      []byte(cfg.JWTSecret),
		ttl:         cfg.TokenTTL,
		adminEmails: admins,
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new identity. Emails on the admin allow-list become
// admin accounts; everyone else registers as a plain user. Returns the
// stored user and a fresh token.
func (s *Service) Register(in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, "", invalid("Name must be between 2 and 50 characters")
	}
	if !emailShapeOK(in.Email) {
		return nil, "", invalid(`Email must contain "@" and "com"`)
	}
	if len(in.Password) < 6 {
		return nil, "", invalid("Password must be at least 6 characters")
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", invalid("Passwords must match")
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.UserByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	role, kind := models.RoleUser, models.KindSignedUp
	if _, allowed := s.adminEmails[email]; allowed {
		role, kind = models.RoleAdmin, models.KindAdmin
	}

	user, err := s.createUser(name, email, in.Password, role, kind)
	if err != nil {
		return nil, "", err
	}
	return s.withToken(user)
}

// Login authenticates an existing identity and fails when the email is
// unknown. No side effects.
func (s *Service) Login(email, password string) (*models.User, string, error) {
	if !emailShapeOK(email) {
		return nil, "", invalid(`Email must contain "@" and "com"`)
	}
	if password == "" {
		return nil, "", invalid("Password is required")
	}

	user, err := s.users.UserByEmail(normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	return s.checkPassword(user, password)
}

// LoginOrRegister is the wire behavior of POST /api/auth/login: unknown
// emails are provisioned as fresh self-registered accounts on the spot,
// named after the local part of the email. This "log in to register"
// convenience is a deliberate policy, kept as a separate entry point so
// strict Login stays side-effect free.
func (s *Service) LoginOrRegister(email, password string) (*models.User, string, error) {
	if !emailShapeOK(email) {
		return nil, "", invalid(`Email must contain "@" and "com"`)
	}
	if password == "" {
		return nil, "", invalid("Password is required")
	}

	normalized := normalizeEmail(email)
	user, err := s.users.UserByEmail(normalized)
	if errors.Is(err, store.ErrNotFound) {
		// provisioned accounts are always plain users; the admin
		// allow-list applies to Register only
		name := normalized[:strings.Index(normalized, "@")]
		user, err = s.createUser(name, normalized, password, models.RoleUser, models.KindSignedUp)
		if err != nil {
			return nil, "", err
		}
		return s.withToken(user)
	}
	if err != nil {
		return nil, "", err
	}
	return s.checkPassword(user, password)
}

// Authenticate resolves a bearer token back to its identity. Malformed or
// expired tokens and tokens for identities that no longer exist all fail
// the same way.
func (s *Service) Authenticate(token string) (*models.User, error) {
	claims, err := parseToken(token, s.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.UserByID(claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) createUser(name, email, password string, role models.UserRole, kind models.UserKind) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Kind:         kind,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) checkPassword(user *models.User, password string) (*models.User, string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	return s.withToken(user)
}

func (s *Service) withToken(user *models.User) (*models.User, string, error) {
	token, err := signToken(user, s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailShapeOK mirrors the historical registration rule: the address must
// contain "@" and "com".
func emailShapeOK(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, "com")
}

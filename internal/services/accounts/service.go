package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

type Repository interface {
	FindUserByID(ctx context.Context, id string) (*users.User, error)
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	FindUserByLogin(ctx context.Context, login string) (*users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	CreateUser(ctx context.Context, u *users.User) error
	DeleteUser(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int64, error)
}

type Service struct {
	repo   Repository
	secret []byte
	cost   int
	now    func() time.Time
}

func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{repo: repo, secret: []byte(jwtSecret), cost: bcrypt.DefaultCost, now: time.Now}
}

type Session struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// Login accepts a username or an email as the login.
func (s *Service) Login(ctx context.Context, login, password string) (*Session, error) {
	if strings.TrimSpace(login) == "" || password == "" {
		return nil, apperr.Validation("Login and password are required")
	}

	u, err := s.repo.FindUserByLogin(ctx, login)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.session(u)
}

// LoginWithEmail starts a session for an existing account whose email an
// external identity provider has verified. It never creates accounts.
func (s *Service) LoginWithEmail(ctx context.Context, email string) (*Session, error) {
	u, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Forbidden("No account is registered for this email")
	}
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) session(u *users.User) (*Session, error) {
	token, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user logged in")
	return &Session{Token: token, User: u}, nil
}

func (s *Service) IssueToken(u *users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     s.now().Add(TokenTTL).Unix(),
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}
	return signed, nil
}

// Authenticate verifies the token and reloads the user so deleted accounts
// and role changes apply immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (*users.Principal, error) {
	if len(s.secret) == 0 {
		return nil, apperr.Internal("verify token", errors.New("JWT secret not configured"))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("Invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, apperr.Unauthorized("Invalid token claims")
	}

	u, err := s.repo.FindUserByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return nil, err
	}
	return &users.Principal{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}, nil
}

func (s *Service) Me(ctx context.Context, caller *users.Principal) (*users.User, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return s.repo.FindUserByID(ctx, caller.UserID)
}

func (s *Service) ListUsers(ctx context.Context, caller *users.Principal) ([]users.User, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	out, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []users.User{}
	}
	return out, nil
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) CreateUser(ctx context.Context, caller *users.Principal, in CreateUserInput) (*users.User, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *Service) createUser(ctx context.Context, in CreateUserInput) (*users.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = users.RoleUser
	}

	switch {
	case !users.IsUsernameValid(in.Username):
		return nil, apperr.Validation("Username must be 3-32 characters of letters, digits, '.', '_' or '-'")
	case !users.IsEmailValid(in.Email):
		return nil, apperr.Validation("Invalid email format")
	case !users.IsPasswordStrong(in.Password):
		return nil, apperr.Validation("Password must be at least 8 characters long and contain both letters and numbers")
	case !users.ValidRole(in.Role):
		return nil, apperr.Validation("Invalid role %q", in.Role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &users.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Role:     in.Role,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user created")
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, caller *users.Principal, id string) error {
	if err := users.RequireAdmin(caller); err != nil {
		return err
	}
	if id == caller.UserID {
		return apperr.Validation("cannot delete your own account")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Str("by", caller.UserID).Msg("user deleted")
	return nil
}

// BootstrapAdmin creates the first admin from the given credentials when no
// admin exists yet. Empty credentials skip it.
func (s *Service) BootstrapAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}
	n, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.createUser(ctx, CreateUserInput{Username: username, Email: email, Password: password, Role: users.RoleAdmin})
	return err
}

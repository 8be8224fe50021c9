package users

import (
	"regexp"
	"strings"
	"time"

	"seratus-studio/internal/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username string `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	Email    string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func IsAdmin(p *Principal) bool {
	return p != nil && p.Role == RoleAdmin
}

// RequireAdmin yields Unauthorized for anonymous callers and Forbidden for
// authenticated non-admins.
func RequireAdmin(p *Principal) error {
	if p == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !IsAdmin(p) {
		return apperr.Forbidden("Access denied")
	}
	return nil
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)
)

func IsEmailValid(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func IsUsernameValid(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsPasswordStrong requires at least 8 characters with both letters and digits.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

package store

import (
	"context"
	"strings"

	"seratus-studio/internal/domain/users"
)

func (s *Store) FindUserByID(ctx context.Context, id string) (*users.User, error) {
	if err := checkID(id, "User"); err != nil {
		return nil, err
	}
	var u users.User
	if err := s.conn(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "find user", "User")
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	err := s.conn(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, wrapErrorWithDetails(err, "find user by email", "User")
	}
	return &u, nil
}

// FindUserByLogin matches either the username or the email.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*users.User, error) {
	login = strings.TrimSpace(login)
	var u users.User
	err := s.conn(ctx).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&u).Error
	if err != nil {
		return nil, wrapErrorWithDetails(err, "find user by login", "User")
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]users.User, error) {
	var out []users.User
	if err := s.conn(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "list users", "User")
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, u *users.User) error {
	return wrapErrorWithDetails(s.conn(ctx).Create(u).Error, "create user", "Username or email")
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id, "User"); err != nil {
		return err
	}
	res := s.conn(ctx).Where("id = ?", id).Delete(&users.User{})
	return affected(res, "delete user", "User")
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&users.User{}).Where("role = ?", users.RoleAdmin).Count(&n).Error
	return n, wrapErrorWithDetails(err, "count admins", "User")
}

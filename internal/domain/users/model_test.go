package users

import (
	"errors"
	"testing"

	"seratus-studio/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdmin(t *testing.T) {
	assert.True(t, errors.Is(RequireAdmin(nil), apperr.ErrUnauthorized))
	assert.True(t, errors.Is(RequireAdmin(&Principal{Role: RoleUser}), apperr.ErrForbidden))
	assert.NoError(t, RequireAdmin(&Principal{Role: RoleAdmin}))
}

func TestValidation(t *testing.T) {
	assert.True(t, IsEmailValid("studio@seratus.id"))
	assert.True(t, IsEmailValid(" a.b+c@mail.example.com "))
	assert.False(t, IsEmailValid("no-at-sign"))
	assert.False(t, IsEmailValid("a@b"))

	assert.True(t, IsUsernameValid("ser_atus"))
	assert.False(t, IsUsernameValid("ab"))
	assert.False(t, IsUsernameValid("has space"))

	assert.True(t, IsPasswordStrong("abcd1234"))
	assert.False(t, IsPasswordStrong("abcdefgh"))
	assert.False(t, IsPasswordStrong("12345678"))
	assert.False(t, IsPasswordStrong("ab12"))
}

package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BeforeSave_HashesPlainPassword(t *testing.T) {
	// Arrange
	user := &User{Email: "alice@example.com", Password: "password1"}

	// Act
	err := user.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, "password1", user.Password, "Пароль должен храниться только в виде хеша")
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "Ожидается bcrypt-хеш")
	assert.True(t, user.CheckPassword("password1"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestUser_BeforeSave_DoesNotRehash(t *testing.T) {
	// Arrange
	user := &User{Email: "alice@example.com", Password: "password1"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	// Act: повторное сохранение не должно перехешировать готовый хеш
	err := user.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, hashed, user.Password)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" alice ", "Alice@Example.com", "hash", "Alice", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice Liddell", u.DisplayName)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNewUser_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		wantErr  error
	}{
		{"short username", "al", "a@b.c", ErrInvalidUsername},
		{"slash in username", "al/ice", "a@b.c", ErrInvalidUsername},
		{"space in username", "al ice", "a@b.c", ErrInvalidUsername},
		{"reserved", "Posts", "a@b.c", ErrReservedUsername},
		{"reserved directory route", "users", "a@b.c", ErrReservedUsername},
		{"bad email", "alice", "not-an-email", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, "hash", "", "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("123456"))
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser("bob", "bob@example.com", "hash", "", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.DisplayName)

	name := "Bobby"
	img := " https://img/bob.png "
	require.NoError(t, u.UpdateProfile(&name, nil, &img))
	assert.Equal(t, "Bobby", u.DisplayName)
	assert.Equal(t, "https://img/bob.png", u.ProfileImage)
	assert.Equal(t, "bob@example.com", u.Email)

	bad := "nope"
	assert.ErrorIs(t, u.UpdateProfile(nil, &bad, nil), ErrInvalidEmail)
	assert.Equal(t, "bob@example.com", u.Email)
}

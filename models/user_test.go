package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedCredentials(t *testing.T) {
	cases := []struct {
		funcionario  string
		wantUsername string
		wantPassword string
	}{
		{"Juan Perez", "juan", "juan1234"},
		{"MARIA Lopez Garcia", "maria", "maria1234"},
		{"  Carlos  ", "carlos", "carlos1234"},
		{"", "", ""},
		{"   ", "", ""},
	}
	for _, tc := range cases {
		username, password := DerivedCredentials(tc.funcionario)
		assert.Equal(t, tc.wantUsername, username)
		assert.Equal(t, tc.wantPassword, password)
	}
}

func TestUser_PasswordRoundTrip(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("admin123"))

	assert.True(t, u.CheckPassword("admin123"))
	assert.False(t, u.CheckPassword("admin124"))
	assert.NotEqual(t, "admin123", u.PasswordHash)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}

package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordValidator_ValidateLogin(t *testing.T) {
	v := NewPasswordValidator()

	valid := []string{"reader", "user_name", "user-name", "user.name", "читатель", strings.Repeat("a", MaxLoginLen)}
	for _, login := range valid {
		assert.NoError(t, v.ValidateLogin(login), login)
	}

	invalid := map[string]string{
		"ab":                    "at least 3 characters",
		strings.Repeat("a", 33): "at most 32 characters",
		"user name":             "can only contain",
		"user@name":             "can only contain",
		"news/feed":             "can only contain",
	}
	for login, msg := range invalid {
		err := v.ValidateLogin(login)
		require.Error(t, err, login)
		assert.Contains(t, err.Error(), msg)
	}
}

func TestPasswordValidator_ValidatePassword(t *testing.T) {
	v := NewPasswordValidator()

	tests := []struct {
		name     string
		password string
		errPart  string
	}{
		{name: "letters and digits", password: "reader2024"},
		{name: "cyrillic letters", password: "новости2024"},
		{name: "too short", password: "abc1234", errPart: "at least 8 characters"},
		{name: "too long for bcrypt", password: strings.Repeat("a1", 40), errPart: "at most 72 bytes"},
		{name: "no digit", password: "headlines", errPart: "at least one digit"},
		{name: "no letter", password: "12345678", errPart: "at least one letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePassword(tt.password)
			if tt.errPart == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestPasswordValidator_ValidateRegister(t *testing.T) {
	v := NewPasswordValidator()

	require.NoError(t, v.ValidateRegister("reader", "reader2024"))

	err := v.ValidateRegister("ab", "reader2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login validation failed")

	err = v.ValidateRegister("reader", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password validation failed")
}

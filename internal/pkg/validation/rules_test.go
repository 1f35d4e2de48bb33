package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func TestForm_FirstFailureWins(t *testing.T) {
	err := NewForm().
		Require("Email and password are required", "a@b.co", "").
		Require(MsgRequiredFields, "").
		Err()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Email and password are required", err.Error())
}

func TestForm_Rules(t *testing.T) {
	tests := []struct {
		name string
		form *Form
		want string
	}{
		{"passes", NewForm().Require("x", "a", "b").MinLength("secret", 6, "short"), ""},
		{"min length", NewForm().MinLength("12345", 6, "Password must be at least 6 characters"), "Password must be at least 6 characters"},
		{"email", NewForm().Email("nope", MsgInvalidEmail), MsgInvalidEmail},
		{"blank email skipped", NewForm().Email("", MsgInvalidEmail), ""},
		{"contains", NewForm().Contains("https://zoom.us/j/1", "meet.google.com", "bad link"), "bad link"},
		{"between", NewForm().Between(9, 1, 8, "out of range"), "out of range"},
		{"check", NewForm().Check(false, "conflict"), "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Err()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("admin@gmail.com"))
	assert.True(t, IsEmail(" user.name+tag@uni.edu "))
	assert.False(t, IsEmail("user@"))
	assert.False(t, IsEmail(""))
}

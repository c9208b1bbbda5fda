package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/credvault/credvault/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Str0ng!pass", false},
		{"too short", "S0!a", true},
		{"missing uppercase", "weak1pass!", true},
		{"missing lowercase", "WEAK1PASS!", true},
		{"missing number", "Weakpass!!", true},
		{"missing special", "Weak1passX", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("non-string value", func(t *testing.T) {
		assert.Error(t, rule.Validate(42))
	})
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email.Validate("user@example.com"))
	assert.Error(t, Email.Validate("not-an-email"))
	assert.Error(t, Email.Validate("user@"))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate("   "))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

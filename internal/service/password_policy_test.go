package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"userhub/internal/errors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectedMsg string
	}{
		{
			name:     "valid password",
			password: "Passw0rd",
		},
		{
			name:     "minimum length with all classes",
			password: "Abc123",
		},
		{
			name:        "too short",
			password:    "Ab1",
			expectedMsg: "Password must be at least 6 characters",
		},
		{
			name:        "empty",
			password:    "",
			expectedMsg: "Password must be at least 6 characters",
		},
		{
			name:        "short and missing classes reports length first",
			password:    "abc",
			expectedMsg: "Password must be at least 6 characters",
		},
		{
			name:        "missing uppercase",
			password:    "passw0rd",
			expectedMsg: "Password must contain uppercase, lowercase and number",
		},
		{
			name:        "missing lowercase",
			password:    "PASSW0RD",
			expectedMsg: "Password must contain uppercase, lowercase and number",
		},
		{
			name:        "missing digit",
			password:    "Password",
			expectedMsg: "Password must contain uppercase, lowercase and number",
		},
		{
			name:        "long but digits only",
			password:    "12345678",
			expectedMsg: "Password must contain uppercase, lowercase and number",
		},
		{
			name:     "specials allowed but not required",
			password: "Admin@123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.expectedMsg == "" {
				assert.NoError(t, err)
				return
			}

			var policyErr *errors.PolicyError
			assert.ErrorAs(t, err, &policyErr)
			assert.Equal(t, tt.expectedMsg, err.Error())
		})
	}
}

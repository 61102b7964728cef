package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_VerifyForm(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		form    VerifyForm
		isValid bool
	}{
		{name: "approve", form: VerifyForm{Hackathon: "demo", UserID: "u1", Status: "approved"}, isValid: true},
		{name: "reject", form: VerifyForm{Hackathon: "demo", UserID: "u1", Status: "rejected"}, isValid: true},
		{name: "pending_is_not_a_verdict", form: VerifyForm{Hackathon: "demo", UserID: "u1", Status: "pendingApproval"}, isValid: false},
		{name: "missing_status", form: VerifyForm{Hackathon: "demo", UserID: "u1"}, isValid: false},
		{name: "missing_user", form: VerifyForm{Hackathon: "demo", Status: "approved"}, isValid: false},
		{name: "bad_hackathon_name", form: VerifyForm{Hackathon: "../admin", UserID: "u1", Status: "approved"}, isValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidator_ListQuery(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(ListQuery{Hackathon: "demo", Page: 1}))
	assert.NoError(t, v.Validate(ListQuery{Hackathon: "demo", Status: "approved", Page: 2}))
	assert.Error(t, v.Validate(ListQuery{Hackathon: "demo", Page: 0}))
}

func TestValidator_SignInForm(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(SignInForm{Token: "abc"}))
	assert.Error(t, v.Validate(SignInForm{}))
}

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recycle-rewards-backend/internal/shared"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "donor@example.com", NormalizeEmail("  Donor@Example.COM "))
}

func TestEmailValidationIsFormatOnly(t *testing.T) {
	req := RegisterRequest{
		Password: "recycle123",
		FullName: "Test User",
		Role:     shared.RoleDonor,
	}

	// .invalid never resolves, so a lookup-based check would reject these.
	for _, email := range []string{"donor@recycling.invalid", "collector@no-mx-host.invalid"} {
		req.Email = email
		assert.NoError(t, req.Validate(), email)
		assert.NoError(t, LoginRequest{Email: email, Password: "x"}.Validate(), email)
	}

	for _, email := range []string{"not-an-email", "donor@", "@example.com"} {
		req.Email = email
		assert.Error(t, req.Validate(), email)
	}
}

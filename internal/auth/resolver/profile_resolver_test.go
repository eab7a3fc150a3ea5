package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-gate/internal/auth"
)

func TestProfileResolver(t *testing.T) {
	r := NewProfileResolver()

	u, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "google",
		ProviderUserID: "g-123",
		Email:          "someone@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "g-123", u.ID)

	_, err = r.Resolve(context.Background(), &auth.Identity{Provider: "google"})
	assert.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

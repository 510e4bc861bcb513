package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateProfileNameAndEmail(t *testing.T) {
	r := testRepo(t)
	svc := &ProfileService{Repo: r}
	ctx := context.Background()

	user := createTestUser(t, r, "alice@example.com")

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		Name:  "Alice B.",
		Email: "Alice.B@Example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice B.", updated.Name)
	require.Equal(t, "alice.b@example.com", updated.Email)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	r := testRepo(t)
	svc := &ProfileService{Repo: r}
	ctx := context.Background()

	alice := createTestUser(t, r, "alice@example.com")
	createTestUser(t, r, "bob@example.com")

	_, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileRequest{Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	r := testRepo(t)
	svc := &ProfileService{Repo: r}
	auth := testAuthService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice@example.com")

	// a wrong current password is a credentials failure, not a validation one
	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword456",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		NewPassword: "newpassword456",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		CurrentPassword: "password123",
		NewPassword:     "short",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "alice@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "alice@example.com", "newpassword456")
	require.NoError(t, err)
}

package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	prov, err := NewProvider(Config{Email: "Admin@Example.com", Password: "changethis", FullName: "Admin"})
	require.NoError(t, err)
	return prov
}

func logIn(t *testing.T, prov *Provider, user, pw string) string {
	t.Helper()
	tok, err := prov.LogInGetToken(context.Background(), user, pw)
	require.NoError(t, err)
	return tok.AccessToken
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Password: "x"})
	require.Error(t, err)
	_, err = NewProvider(Config{Email: "a@example.com"})
	require.Error(t, err)
}

func TestProvider_LogInAndGetMe(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()

	tok, err := prov.LogInGetToken(ctx, "admin@example.com", "changethis")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.True(t, tok.Valid())

	me, err := prov.GetMe(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 1, me.ID)
	assert.Equal(t, "admin@example.com", me.Email)
	assert.True(t, me.HasAdminAccess())
}

func TestProvider_BadCredentials(t *testing.T) {
	prov := newTestProvider(t)

	_, err := prov.LogInGetToken(context.Background(), "admin@example.com", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Incorrect email or password", err.Error())
}

func TestProvider_UnknownAndExpiredToken(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()

	_, err := prov.GetMe(ctx, "bogus")
	assert.True(t, apperrors.IsForbidden(err))

	tok := logIn(t, prov, "admin@example.com", "changethis")
	prov.now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	_, err = prov.GetMe(ctx, tok)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestProvider_UsersCRUD(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()
	tok := logIn(t, prov, "admin@example.com", "changethis")

	created, err := prov.CreateUser(ctx, tok, model.UserProfileCreate{
		Email:    "user@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsSuperuser)

	_, err = prov.CreateUser(ctx, tok, model.UserProfileCreate{Email: "user@example.com"})
	assert.True(t, apperrors.IsValidation(err))

	name := "Regular"
	updated, err := prov.UpdateUser(ctx, tok, created.ID, model.UserProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Regular", updated.FullName)

	_, err = prov.UpdateUser(ctx, tok, 99, model.UserProfileUpdate{FullName: &name})
	assert.True(t, apperrors.IsNotFound(err))

	users, err := prov.GetUsers(ctx, tok)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, 2, users[1].ID)

	// Regular users are not allowed to list users.
	userTok := logIn(t, prov, "user@example.com", "password1")
	_, err = prov.GetUsers(ctx, userTok)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProvider_UpdateMeIgnoresPrivilegeFlags(t *testing.T) {
	prov, err := NewProvider(Config{Email: "me@example.com", Password: "changethis", RegularUser: true})
	require.NoError(t, err)
	tok := logIn(t, prov, "me@example.com", "changethis")

	su := true
	name := "Me"
	out, err := prov.UpdateMe(context.Background(), tok, model.UserProfileUpdate{FullName: &name, IsSuperuser: &su})
	require.NoError(t, err)
	assert.Equal(t, "Me", out.FullName)
	assert.False(t, out.IsSuperuser)
}

func TestProvider_PasswordRecoveryAndReset(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()

	err := prov.PasswordRecovery(ctx, "missing@example.com")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, prov.PasswordRecovery(ctx, "admin@example.com"))
	resetTok, ok := prov.ResetTokenFor("admin@example.com")
	require.True(t, ok)

	assert.True(t, apperrors.IsValidation(prov.ResetPassword(ctx, "newpassword", "bogus")))
	assert.True(t, apperrors.IsValidation(prov.ResetPassword(ctx, "short", resetTok)))
	require.NoError(t, prov.ResetPassword(ctx, "newpassword", resetTok))

	_, ok = prov.ResetTokenFor("admin@example.com")
	assert.False(t, ok)

	_, err = prov.LogInGetToken(ctx, "admin@example.com", "changethis")
	require.Error(t, err)
	logIn(t, prov, "admin@example.com", "newpassword")
}

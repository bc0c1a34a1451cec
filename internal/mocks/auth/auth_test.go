package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
)

func TestMockAPI_Defaults(t *testing.T) {
	api := NewMockAPI()
	ctx := context.Background()

	tok, err := api.LogInGetToken(ctx, "user", "pw")
	require.NoError(t, err)
	assert.Equal(t, "mock-token", tok.AccessToken)

	profile, err := api.GetMe(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "mock.user@example.com", profile.Email)

	name := "Renamed"
	updated, err := api.UpdateMe(ctx, tok.AccessToken, model.UserProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, profile.ID, updated.ID)

	assert.Equal(t, 1, api.Calls("LogInGetToken"))
	assert.Equal(t, 1, api.Calls("GetMe"))
	assert.Equal(t, 0, api.Calls("GetUsers"))
}

func TestMockAPI_Unconfigured(t *testing.T) {
	api := &MockAPI{}

	_, err := api.LogInGetToken(context.Background(), "u", "p")
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = api.GetMe(context.Background(), "tok")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestMockAPI_FuncOverrides(t *testing.T) {
	boom := errors.New("boom")
	api := &MockAPI{
		LogInGetTokenFunc: func(_ context.Context, _, _ string) (domainauth.Token, error) {
			return domainauth.Token{AccessToken: "authtoken33"}, nil
		},
		GetMeFunc: func(_ context.Context, _ string) (model.UserProfile, error) {
			return model.UserProfile{}, boom
		},
	}

	tok, err := api.LogInGetToken(context.Background(), "anything", "nothing")
	require.NoError(t, err)
	assert.Equal(t, "authtoken33", tok.AccessToken)

	_, err = api.GetMe(context.Background(), tok.AccessToken)
	require.ErrorIs(t, err, boom)
}

func TestMockAPI_CreateUserDefaults(t *testing.T) {
	api := NewMockAPI()
	active := true
	out, err := api.CreateUser(context.Background(), "tok", model.UserProfileCreate{
		Email:    "new@example.com",
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", out.Email)
	assert.True(t, out.IsActive)
	assert.False(t, out.IsSuperuser)
}

func TestRecordingNavigator(t *testing.T) {
	nav := &RecordingNavigator{}
	nav.SetCurrent("/login")
	assert.Empty(t, nav.Routes())

	nav.Navigate("/main")
	nav.Navigate("/main")
	assert.Equal(t, []string{"/main", "/main"}, nav.Routes())
	assert.Equal(t, "/main", nav.CurrentRoute())
}

func TestMockTokenStore(t *testing.T) {
	ctx := context.Background()
	store := &MockTokenStore{}

	require.NoError(t, store.Save(ctx, "tok"))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Delete(ctx))
	assert.Empty(t, store.Stored())

	store.SaveErr = errors.New("down")
	require.Error(t, store.Save(ctx, "tok"))
	assert.Equal(t, 2, store.Saves)
	assert.Equal(t, 1, store.Deletes)
}

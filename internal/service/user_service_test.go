package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newMemUsers(), stubIssuer{}, testLogger)

	res, err := svc.SignUp(ctx, " Ana ", "Ana@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, "ana@example.com", *res.User.Email)
	assert.Equal(t, "token-1", res.Token)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	_, err = svc.SignUp(ctx, "Other", "ana@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SignUpValidation(t *testing.T) {
	svc := NewUserService(newMemUsers(), stubIssuer{}, testLogger)

	tests := []struct {
		name, user, email, password string
	}{
		{name: "missing name", email: "a@b.c", password: "secret1"},
		{name: "bad email", user: "A", email: "not-an-email", password: "secret1"},
		{name: "short password", user: "A", email: "a@b.c", password: "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.user, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_TelegramRegistrationAndLink(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewUserService(users, stubIssuer{}, testLogger)

	tgUser, err := svc.RegisterTelegramUser(ctx, 777, "ana_tg", "Ana", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "Ana", tgUser.Name)

	again, err := svc.RegisterTelegramUser(ctx, 777, "ana_new", "Ana", "", "en")
	require.NoError(t, err)
	assert.Equal(t, tgUser.ID, again.ID)
	assert.Equal(t, "ana_new", again.Username)

	account, err := svc.SignUp(ctx, "Ana", "ana@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.LinkTelegram(ctx, 777, "ana@example.com", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	linked, err := svc.LinkTelegram(ctx, 777, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, account.User.ID, linked.ID)

	found, err := svc.GetByTelegramID(ctx, 777)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, account.User.ID, found.ID)

	old, err := svc.GetByID(ctx, tgUser.ID)
	require.NoError(t, err)
	assert.Nil(t, old.TelegramID)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

package auth

import (
	"testing"
	"time"

	"pizza-paradise/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	access, refresh, err := tokens.Issue(model.Principal{UserID: 7, Role: model.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	principal, err := tokens.Parse(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(7), principal.UserID)
	assert.Equal(t, model.RoleAdmin, principal.Role)

	principal, err = tokens.Parse(refresh, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), principal.UserID)
}

func TestTokenManager_Parse_RejectsWrongKind(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	access, refresh, err := tokens.Issue(model.Principal{UserID: 7, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = tokens.Parse(access, KindRefresh)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = tokens.Parse(refresh, KindAccess)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenManager_Parse_RejectsWrongSecret(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewTokenManager("other-secret", 15*time.Minute, 24*time.Hour)

	access, _, err := tokens.Issue(model.Principal{UserID: 7, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = other.Parse(access, KindAccess)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenManager_Parse_RejectsExpiredToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", -time.Minute, -time.Minute)

	access, _, err := tokens.Issue(model.Principal{UserID: 7, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = tokens.Parse(access, KindAccess)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenManager_Parse_RejectsGarbage(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	_, err := tokens.Parse("not.a.token", KindAccess)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	signed, err := svc.GenerateToken("u-1", "Maria", "ALMOX")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Maria", claims.Name)
	assert.Equal(t, "ALMOX", claims.Role)
	assert.Equal(t, token.Issuer, claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, err := token.NewService("segredo", time.Hour).GenerateToken("u-1", "Maria", "ADMIN")
	require.NoError(t, err)

	_, err = token.NewService("outro", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	signed, err := token.NewService("segredo", -time.Minute).GenerateToken("u-1", "Maria", "ADMIN")
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

package jwt_test

import (
	"testing"

	"github.com/GukMaksim/construction-inventory/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secret", 42, "ana@obra.test", "ADMIN", "test", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana@obra.test", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secret", 1, "", "STOREKEEPER", "test", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secret", 1, "", "STOREKEEPER", "test", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := jwt.Generate("", 1, "", "ADMIN", "test", 5)
	assert.Error(t, err)
}

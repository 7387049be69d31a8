package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/password"
)

func TestGetHash(t *testing.T) {
	hash, err := password.GetHash("password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)
}

func TestGetHash_DifferentSaltPerCall(t *testing.T) {
	first, err := password.GetHash("password123")
	assert.NoError(t, err)
	second, err := password.GetHash("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCompareHash(t *testing.T) {
	hash, err := password.GetHash("password123")
	assert.NoError(t, err)

	assert.NoError(t, password.CompareHash(hash, "password123"))
	assert.Error(t, password.CompareHash(hash, "wrongpassword"))
	assert.Error(t, password.CompareHash("not-a-hash", "password123"))
}

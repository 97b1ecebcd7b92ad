package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Alice Moreau"))
	assert.NoError(t, ValidateFullName("  Bo  "))
	assert.ErrorIs(t, ValidateFullName("A"), ErrValidation)
	assert.ErrorIs(t, ValidateFullName(""), ErrValidation)
	assert.ErrorIs(t, ValidateFullName(strings.Repeat("x", 101)), ErrValidation)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"Alice.Moreau+tag@Example.co.uk",
		"  bob@example.io  ",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"alice@",
		"alice@example",
		"alice example@example.com",
	}
	for _, email := range invalid {
		assert.ErrorIs(t, ValidateEmail(email), ErrValidation, email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrValidation)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrValidation)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, CheckPassword("password123", hash))
	assert.Error(t, CheckPassword("password124", hash))
}

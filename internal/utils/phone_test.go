package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone("9876543210"))
	assert.Equal(t, "+14155552671", NormalizePhone("+14155552671"))
	assert.Equal(t, "+919876543210", NormalizePhone("  9876543210  "))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+919876543210"))
	assert.True(t, IsValidPhone("9876543210"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("+91abc4543210"))
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("+1234567890123456"))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Seller@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", email)

	for _, bad := range []string{"", "not-an-email", "a@b", "@example.com"} {
		_, err := SanitizeEmail(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestIsValidIFSC(t *testing.T) {
	assert.True(t, IsValidIFSC("HDFC0001234"))
	assert.True(t, IsValidIFSC(" sbin0005943 "))

	assert.False(t, IsValidIFSC("HDFC1001234"))
	assert.False(t, IsValidIFSC("HDF00012345"))
	assert.False(t, IsValidIFSC(""))
}

func TestIsValidPAN(t *testing.T) {
	assert.True(t, IsValidPAN("ABCDE1234F"))
	assert.True(t, IsValidPAN("abcde1234f"))

	assert.False(t, IsValidPAN("ABCD1234EF"))
	assert.False(t, IsValidPAN("ABCDE12345"))
	assert.False(t, IsValidPAN(""))
}

func TestIsValidGST(t *testing.T) {
	assert.True(t, IsValidGST("27ABCDE1234F1Z5"))

	assert.False(t, IsValidGST("27ABCDE1234F1X5"))
	assert.False(t, IsValidGST("ABCDE1234F"))
	assert.False(t, IsValidGST(""))
}

func TestIsValidPincode(t *testing.T) {
	assert.True(t, IsValidPincode("400001"))
	assert.True(t, IsValidPincode(" 110001 "))

	assert.False(t, IsValidPincode("040001"))
	assert.False(t, IsValidPincode("4000"))
	assert.False(t, IsValidPincode("40000a"))
	assert.False(t, IsValidPincode(""))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Home & Kitchen", "home-kitchen"},
		{"  Mobile Phones  ", "mobile-phones"},
		{"Electronics", "electronics"},
		{"100% Cotton T-Shirts!", "100-cotton-t-shirts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Acme&lt;/b&gt;", SanitizeInput("<b>Acme</b>"))
	assert.Equal(t, "Acme Traders", SanitizeInput("  Acme Traders  "))
	assert.Equal(t, "abc", SanitizeInput("a\x00b\x1bc"))
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	svc := NewRazorpayServiceWithCredentials("key_id", "test_secret")

	// HMAC-SHA256("order_ABC123|pay_XYZ789", "test_secret")
	valid := "85cbc6036124891c4d0280fbb7cd83804f87a66f2eb485a89af574086f592cbc"

	assert.True(t, svc.VerifySignature("order_ABC123", "pay_XYZ789", valid))

	// Tampered references or signature must fail
	assert.False(t, svc.VerifySignature("order_ABC124", "pay_XYZ789", valid))
	assert.False(t, svc.VerifySignature("order_ABC123", "pay_XYZ790", valid))
	assert.False(t, svc.VerifySignature("order_ABC123", "pay_XYZ789", valid[:len(valid)-1]+"d"))
}

func TestVerifySignatureRejectsEmptyInputs(t *testing.T) {
	svc := NewRazorpayServiceWithCredentials("key_id", "test_secret")
	assert.False(t, svc.VerifySignature("", "pay_1", "sig"))
	assert.False(t, svc.VerifySignature("order_1", "", "sig"))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", ""))

	unconfigured := NewRazorpayServiceWithCredentials("key_id", "")
	assert.False(t, unconfigured.VerifySignature("order_1", "pay_1", "sig"))
}

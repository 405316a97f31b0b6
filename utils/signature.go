package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignHMAC returns the hex encoded HMAC-SHA256 of message
func SignHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMAC compares signature against the HMAC-SHA256 of message in
// constant time
func VerifyHMAC(message, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(SignHMAC(message, secret)), []byte(signature))
}

// VerifyCheckoutSignature checks the signature the payment gateway returns to
// the browser after a successful checkout
func VerifyCheckoutSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	return VerifyHMAC(gatewayOrderID+"|"+paymentID, signature, secret)
}

package withings

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func hmacSum(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

func TestVerifySignatureHex(t *testing.T) {
	secret := "s3cret"
	body := []byte("userid=42&appli=1&startdate=100&enddate=200")
	sig := hex.EncodeToString(hmacSum(secret, body))

	require.True(t, VerifySignature(secret, body, sig))
}

func TestVerifySignatureBase64(t *testing.T) {
	secret := "s3cret"
	body := []byte("userid=42&appli=44")
	sig := base64.StdEncoding.EncodeToString(hmacSum(secret, body))

	require.True(t, VerifySignature(secret, body, sig))
}

func TestVerifySignatureRejectsWrongSignature(t *testing.T) {
	secret := "s3cret"
	body := []byte("userid=42&appli=1")

	require.False(t, VerifySignature(secret, body, "definitely-not-a-mac"))
	require.False(t, VerifySignature(secret, body, ""))
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	secret := "s3cret"
	body := []byte("userid=42&appli=1")
	sig := hex.EncodeToString(hmacSum(secret, body))

	tampered := []byte("userid=42&appli=4")
	require.False(t, VerifySignature(secret, tampered, sig))
}

func TestVerifySignatureRequiresSecret(t *testing.T) {
	body := []byte("userid=42&appli=1")
	sig := hex.EncodeToString(hmacSum("s3cret", body))

	require.False(t, VerifySignature("", body, sig))
}

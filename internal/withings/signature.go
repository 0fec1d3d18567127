package withings

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// VerifySignature checks an inbound webhook's HMAC-SHA256 signature against
// the shared client secret. The body must be the exact raw request bytes:
// re-serializing a parsed body changes whitespace or key order and breaks
// the MAC. Both hex and base64 digest encodings are accepted (the provider's
// docs show base64, live deliveries use hex), compared in constant time.
// Returns false when no secret is configured; never panics.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sum := mac.Sum(nil)

	hexSig := hex.EncodeToString(sum)
	b64Sig := base64.StdEncoding.EncodeToString(sum)
	return hmac.Equal([]byte(hexSig), []byte(signature)) ||
		hmac.Equal([]byte(b64Sig), []byte(signature))
}

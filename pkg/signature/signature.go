// Package signature signs service-to-service requests with HMAC-SHA256.
// The signed payload is METHOD|PATH|TIMESTAMP|NONCE|BODY, hex encoded.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"
)

// Header names carried by signed requests.
const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
)

// Sign returns the lowercase hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is Sign(secret, payload), in constant time.
func Verify(secret string, payload string, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, payload)), []byte(signature))
}

// CanonicalString builds the payload that Sign covers.
func CanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	return method + "|" + path + "|" + strconv.FormatInt(timestamp, 10) + "|" + nonce + "|" + body
}

// Attach sets the timestamp, nonce and signature headers on h for a request with
// the given method, path and exact body bytes.
func Attach(h http.Header, secret, method, path string, body []byte, at time.Time, nonce string) {
	ts := at.Unix()
	h.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	h.Set(HeaderNonce, nonce)
	h.Set(HeaderSignature, Sign(secret, CanonicalString(method, path, ts, nonce, string(body))))
}

package utils // package utils provides helper functions for token creation and signing

import (
	"crypto/hmac"   // hmac authenticates the cookie value
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 is the HMAC hash
	"crypto/subtle" // constant-time comparison of signatures
	"encoding/hex"  // hex encoding for tokens and signatures
	"strings"       // cookie value splitting
)

// NewSessionToken returns a cryptographically random 32-character hex token.
// The token is the only thing the browser ever holds; all identity claims
// stay server-side under this key.
func NewSessionToken() (string, error) {
	return randomHex(16)
}

// SignToken produces the cookie value "token.signature" where signature is
// the hex HMAC-SHA256 of the token under secret. The cookie carries no
// identity data; signing only lets the server reject forged or truncated
// tokens before touching the session store.
func SignToken(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignedToken splits a cookie value produced by SignToken and checks
// the signature in constant time. It returns the bare token and whether the
// value was authentic.
func VerifySignedToken(secret, value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	want := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(sig), []byte(want)) != 1 {
		return "", false
	}
	return token, true
}

// randomHex returns n random bytes encoded as a 2n-character hex string.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Claims holds the scope and expiry of an admin token.
type Claims struct {
	Scope string `json:"scope"`
	Exp   int64  `json:"exp"`
}

// ScopeAdmin grants access to the /utils endpoints.
const ScopeAdmin = "admin"

// DefaultTokenExpiry is the default lifetime for admin tokens.
const DefaultTokenExpiry = 24 * time.Hour

// GenerateAdminToken creates an HMAC-SHA256 signed admin token.
// Format: base64url(payload).base64url(signature).
func GenerateAdminToken(secret []byte, expiry time.Duration) (token string, expiresAt time.Time, err error) {
	if len(secret) == 0 {
		return "", time.Time{}, fmt.Errorf("token secret is required")
	}
	expiresAt = time.Now().UTC().Add(expiry)
	claims := Claims{
		Scope: ScopeAdmin,
		Exp:   expiresAt.Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal claims: %w", err)
	}
	b64Payload := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(b64Payload))
	b64Sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return b64Payload + "." + b64Sig, expiresAt, nil
}

// VerifyAdminToken verifies the signature and returns claims. Returns an
// error when the token is malformed, expired, or not admin-scoped.
func VerifyAdminToken(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}
	b64Payload, b64Sig := parts[0], parts[1]

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(b64Payload))
	expectedSig := mac.Sum(nil)
	sig, err := base64.RawURLEncoding.DecodeString(b64Sig)
	if err != nil {
		return nil, fmt.Errorf("invalid token signature encoding: %w", err)
	}
	if !hmac.Equal(sig, expectedSig) {
		return nil, fmt.Errorf("invalid token signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(b64Payload)
	if err != nil {
		return nil, fmt.Errorf("invalid token payload encoding: %w", err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("invalid token payload: %w", err)
	}

	if time.Now().UTC().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	if claims.Scope != ScopeAdmin {
		return nil, fmt.Errorf("invalid token claims: scope %q", claims.Scope)
	}
	return &claims, nil
}

// HashSecret hashes the admin secret for storage in configuration.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// CheckSecret compares a presented secret against its bcrypt hash.
func CheckSecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return fmt.Errorf("secret mismatch")
	}
	return nil
}

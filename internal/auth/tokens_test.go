package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestTokenService(t *testing.T, accessDuration time.Duration) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testKeyHex, accessDuration, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Minute, time.Hour); err == nil {
		t.Error("short key accepted")
	}
	if _, err := NewTokenService(strings.Repeat("z", 64), time.Minute, time.Hour); err == nil {
		t.Error("non-hex key accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService(t, 15*time.Minute)
	user := &domain.User{ID: 42, Email: "claims@example.com"}

	token, err := ts.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !strings.HasPrefix(token, "v4.local.") {
		t.Errorf("expected v4.local token, got %q", token[:16])
	}

	claims, err := ts.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID: got %d, want 42", claims.UserID)
	}
	if claims.Email != "claims@example.com" {
		t.Errorf("Email: got %q", claims.Email)
	}
	if claims.TokenID == "" {
		t.Error("TokenID not set")
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	ts := newTestTokenService(t, -time.Minute)
	user := &domain.User{ID: 1, Email: "expired@example.com"}

	token, err := ts.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ts.VerifyAccessToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	ts := newTestTokenService(t, 15*time.Minute)
	other, err := NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := ts.GenerateAccessToken(&domain.User{ID: 7, Email: "key@example.com"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("token minted with a different key accepted")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	ts := newTestTokenService(t, time.Minute)

	tok1, err := ts.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	tok2, err := ts.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if tok1 == tok2 {
		t.Error("two refresh tokens are identical")
	}

	h1 := HashRefreshToken(tok1)
	if h1 != HashRefreshToken(tok1) {
		t.Error("hash is not deterministic")
	}
	if h1 == HashRefreshToken(tok2) {
		t.Error("different tokens hash identically")
	}
	if h1 == tok1 {
		t.Error("hash equals the raw token")
	}
	// SHA-256 hex.
	if len(h1) != 64 {
		t.Errorf("hash length: got %d, want 64", len(h1))
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(key1) != keyHexLength {
		t.Fatalf("key length: got %d, want %d", len(key1), keyHexLength)
	}

	// Second load returns the same persisted key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (reload): %v", err)
	}
	if key1 != key2 {
		t.Error("key not stable across loads")
	}

	// The generated key must work with the token service.
	if _, err := NewTokenService(key1, time.Minute, time.Hour); err != nil {
		t.Errorf("generated key rejected by NewTokenService: %v", err)
	}
}

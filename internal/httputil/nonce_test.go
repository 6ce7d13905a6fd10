package httputil

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestGenerateNonce_IsURLSafeBase64Of16Bytes(t *testing.T) {
	nonce := GenerateNonce()

	decoded, err := base64.RawURLEncoding.DecodeString(nonce)
	if err != nil {
		t.Fatalf("expected raw URL base64, got %q: %v", nonce, err)
	}
	if len(decoded) != 16 {
		t.Errorf("expected 16 random bytes, got %d", len(decoded))
	}
}

func TestGenerateNonce_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateNonce()
		if seen[n] {
			t.Fatalf("nonce %q repeated after %d calls", n, i)
		}
		seen[n] = true
	}
}

func TestNonceContext(t *testing.T) {
	if got := NonceFromContext(context.Background()); got != "" {
		t.Errorf("expected empty nonce without value, got %q", got)
	}

	ctx := ContextWithNonce(context.Background(), "abc123")
	if got := NonceFromContext(ctx); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
}

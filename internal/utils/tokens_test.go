package utils

import (
	"encoding/base64"
	"testing"
)

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two tokens should never collide")
	}
	raw, err := base64.URLEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("token is not url-safe base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("entropy = %d bytes, want 32", len(raw))
	}
}

func TestNewOpaqueTokenDefaultsSize(t *testing.T) {
	tok, err := NewOpaqueToken(0)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.URLEncoding.DecodeString(tok)
	if len(raw) != 32 {
		t.Errorf("default entropy = %d bytes, want 32", len(raw))
	}
}

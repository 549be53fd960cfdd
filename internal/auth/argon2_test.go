package auth

import (
	"strings"
	"testing"
)

// TestHashPassword_ProducesPHCFormat はハッシュがPHC文字列形式で出力されることを検証する。
func TestHashPassword_ProducesPHCFormat(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want prefix %q", hash, "$argon2id$")
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("hash has %d parts, want 6", len(parts))
	}
}

// TestHashPassword_DifferentSaltsPerCall は同じパスワードでも毎回異なるハッシュになることを検証する。
func TestHashPassword_DifferentSaltsPerCall(t *testing.T) {
	h1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

// TestVerifyPassword_CorrectPassword は正しいパスワードが検証を通ることを検証する。
func TestVerifyPassword_CorrectPassword(t *testing.T) {
	hash, err := HashPassword("my-secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword("my-secret-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}
}

// TestVerifyPassword_WrongPassword は誤ったパスワードが検証で弾かれることを検証する。
func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("my-secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

// TestVerifyPassword_MalformedHash は不正なハッシュ形式がエラーになることを検証する。
func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not a hash", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536,t=3,p=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyPassword("password", tt.hash); err == nil {
				t.Error("expected error for malformed hash, got nil")
			}
		})
	}
}

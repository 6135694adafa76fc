package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidateStrong(t *testing.T) {
	valid := []string{"Cocina2024", "aB3defgh", "TierraQuerida1"}
	for _, p := range valid {
		if err := ValidateStrong(p); err != nil {
			t.Errorf("Expected %q to be accepted: %v", p, err)
		}
	}

	invalid := map[string]string{
		"short":      "aB3x",
		"no upper":   "cocina2024",
		"no lower":   "COCINA2024",
		"no digit":   "CocinaBuena",
		"empty":      "",
		"only digit": "12345678",
	}
	for name, p := range invalid {
		if err := ValidateStrong(p); err == nil {
			t.Errorf("Expected %q (%s) to be rejected", p, name)
		}
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := GeneratePassword()
		if err != nil {
			t.Fatalf("GeneratePassword failed: %v", err)
		}
		if len(p) != 12 {
			t.Errorf("Expected 12 characters, got %d (%q)", len(p), p)
		}
		if err := ValidateStrong(p); err != nil {
			t.Errorf("Generated password %q fails its own policy: %v", p, err)
		}
		if seen[p] {
			t.Errorf("Duplicate password generated: %q", p)
		}
		seen[p] = true
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Cocina2024")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Cocina2024" {
		t.Fatal("Password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("Cocina2024")); err != nil {
		t.Errorf("Hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("otra")); err == nil {
		t.Error("Hash verified a wrong password")
	}
}

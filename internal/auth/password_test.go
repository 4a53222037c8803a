package auth

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parsed, err := ParseArgon2idHash(hash)
	if err != nil {
		t.Fatalf("ParseArgon2idHash: %v", err)
	}
	if !parsed.Verify("secret-password") {
		t.Fatal("expected password to verify")
	}
	if parsed.Verify("wrong-password") {
		t.Fatal("expected password to fail verification")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "secret") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "other") {
		t.Fatal("expected password to fail verification")
	}
	if VerifyPassword("not-a-hash", "secret") {
		t.Fatal("expected malformed hash to fail verification")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestParseArgon2idHashRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"$argon2id$v=19$m=65536,t=3$short",
		"$bcrypt$whatever",
		"$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$c3Vt",
	}
	for _, phc := range cases {
		if _, err := ParseArgon2idHash(phc); err == nil {
			t.Fatalf("expected parse error for %q", phc)
		}
	}
}

package security

import (
	"strings"
	"testing"

	"github.com/mokolo-app/mokolo-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()
	hash, err := HashPassword("correct-horse", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyPassword("correct-horse", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = VerifyPassword("wrong-horse", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=8,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=19$m=x,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=19$m=8,t=1,p=1$%%%$BBBB",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("pw", encoded); err == nil {
			t.Fatalf("expected ErrInvalidHash for %q", encoded)
		}
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := HashPassword("pw", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := HashPassword("pw", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

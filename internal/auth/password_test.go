package auth

import (
	"strings"
	"testing"
)

// All password tests use the minimum bcrypt cost — the logic is identical,
// the hashing is just ~60x faster than cost 12.
func newTestPasswordService() *PasswordService {
	return &PasswordService{cost: 4}
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q does not look like a bcrypt hash", hash)
	}

	ok, err := ps.Verify(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	ok, err := ps.Verify(hash, "hunter3")
	if err != nil {
		t.Fatalf("Verify() error = %v (mismatch must not be an error)", err)
	}
	if ok {
		t.Error("Verify() = true for the wrong password")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	ps := newTestPasswordService()

	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt salts are random — two hashes of the same input must differ.
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for >72 byte password, got nil")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("expected error for malformed hash, got nil")
	}
}

package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast.
func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher()

	encoded, err := h.Hash("12345678")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
	if !h.Verify("12345678", encoded) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("12345679", encoded) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestPasswordHasher_SaltIsRandom(t *testing.T) {
	h := newTestHasher()

	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestPasswordHasher_VerifiesAfterParameterChange(t *testing.T) {
	old := newTestHasher()
	encoded, err := old.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	upgraded := NewPasswordHasher(Argon2Params{MemoryKiB: 2048, Iterations: 2, Parallelism: 1})
	if !upgraded.Verify("correct horse", encoded) {
		t.Fatalf("hash made with old parameters must still verify")
	}
	if !upgraded.NeedsRehash(encoded) {
		t.Fatalf("expected NeedsRehash for old parameters")
	}
	if old.NeedsRehash(encoded) {
		t.Fatalf("hash with current parameters must not need rehash")
	}
}

func TestPasswordHasher_LongPassword(t *testing.T) {
	h := newTestHasher()
	long := strings.Repeat("x", 128)

	encoded, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !h.Verify(long, encoded) {
		t.Fatalf("128 character password must verify")
	}
	if h.Verify(long[:127], encoded) {
		t.Fatalf("truncated password must not verify")
	}
}

func TestPasswordHasher_VerifiesLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	h := newTestHasher()
	if !h.Verify("pass1234", string(legacy)) {
		t.Fatalf("expected bcrypt hash to verify")
	}
	if h.Verify("other", string(legacy)) {
		t.Fatalf("wrong password must not verify against bcrypt hash")
	}
	if !h.NeedsRehash(string(legacy)) {
		t.Fatalf("bcrypt hashes should be flagged for rehash")
	}
}

func TestPasswordHasher_RejectsMalformed(t *testing.T) {
	h := newTestHasher()

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=1024,t=1,p=1$onlysalt",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
	} {
		if h.Verify("anything", encoded) {
			t.Errorf("malformed hash %q must not verify", encoded)
		}
	}
}

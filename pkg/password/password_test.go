package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !Verify("correct horse battery staple", hash) {
		t.Error("Verify rejected the right password")
	}
	if Verify("wrong password", hash) {
		t.Error("Verify accepted the wrong password")
	}
}

func TestVerifyLegacyFormat(t *testing.T) {
	hash, err := HashLegacy("imported-pass")
	if err != nil {
		t.Fatalf("HashLegacy failed: %v", err)
	}
	if !Verify("imported-pass", hash) {
		t.Error("Verify rejected a valid legacy hash")
	}
	if Verify("other-pass", hash) {
		t.Error("Verify accepted the wrong password against a legacy hash")
	}
}

func TestVerifyMalformed(t *testing.T) {
	if Verify("anything", "") {
		t.Error("Verify accepted an empty hash")
	}
	if Verify("anything", "no-dollar-separator") {
		t.Error("Verify accepted a malformed hash")
	}
}

func TestNeedsUpgrade(t *testing.T) {
	bcryptHash, err := Hash("pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if NeedsUpgrade(bcryptHash) {
		t.Error("current bcrypt hash flagged for upgrade")
	}

	legacyHash, err := HashLegacy("pass")
	if err != nil {
		t.Fatalf("HashLegacy failed: %v", err)
	}
	if !NeedsUpgrade(legacyHash) {
		t.Error("legacy hash not flagged for upgrade")
	}
	if !NeedsUpgrade("") {
		t.Error("empty hash not flagged for upgrade")
	}
}

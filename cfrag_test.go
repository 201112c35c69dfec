package umbral

import (
	"errors"
	"testing"
)

func TestCFragVerify(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		d := setupDelegation(t, params, []byte("verify me"), 2, 3)
		cfrag, err := Reencrypt(d.capsule, d.kfrags[0], nil)
		if err != nil {
			t.Fatalf("Reencrypt failed: %v", err)
		}

		if !cfrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
			t.Fatal("valid cfrag fails verification")
		}

		stranger := genKey(t, params)
		if cfrag.Verify(d.capsule, stranger.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
			t.Fatal("cfrag verified against the wrong delegator key")
		}
		if cfrag.Verify(d.capsule, d.delegating.PublicKey(), stranger.PublicKey(), d.signing.PublicKey()) {
			t.Fatal("cfrag verified against the wrong delegatee key")
		}
		if cfrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), stranger.PublicKey()) {
			t.Fatal("cfrag verified against the wrong signer key")
		}

		// A different capsule from the same delegator is a different proof
		// transcript.
		otherCapsule, _, err := Encrypt(params, d.delegating.PublicKey(), []byte("other"))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if cfrag.Verify(otherCapsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
			t.Fatal("cfrag verified against a different capsule")
		}
	})
}

func TestCFragTamperedTransformRejected(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("no forgeries"), 2, 2)
	cfrag, err := Reencrypt(d.capsule, d.kfrags[0], nil)
	if err != nil {
		t.Fatalf("Reencrypt failed: %v", err)
	}

	// Replacing the transformed point breaks the proof equations.
	tampered := *cfrag
	tampered.e1 = cfrag.e1.Add(params.g)
	if tampered.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
		t.Fatal("cfrag with tampered transformed point verified")
	}

	// Replacing the metadata digest breaks the challenge.
	tampered = *cfrag
	proofCopy := *cfrag.proof
	proofCopy.metadata = hashToScalar(params.curve, dstMetadata, nil, []byte("forged context"))
	tampered.proof = &proofCopy
	if tampered.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
		t.Fatal("cfrag with tampered metadata verified")
	}
}

func TestReencryptRejectsInvalidCapsule(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("checked first"), 2, 2)

	broken := *d.capsule
	broken.s = broken.s.Add(params.curve.ScalarOne())
	if broken.Verify() {
		t.Fatal("corrupted capsule passes its consistency check")
	}
	if _, err := Reencrypt(&broken, d.kfrags[0], nil); !errors.Is(err, ErrInvalidCapsule) {
		t.Fatalf("expected ErrInvalidCapsule, got %v", err)
	}
}

func TestMixedDelegationFragmentsRejected(t *testing.T) {
	params := testParams(t, Secp256k1)
	plaintext := []byte("one delegation at a time")
	d := setupDelegation(t, params, plaintext, 2, 2)

	// A second delegation to the same delegatee has a different precursor;
	// its fragments cannot be combined with the first delegation's.
	kfrags2, err := GenerateKFrags(params, d.delegating, d.receiving.PublicKey(), d.signing, 2, 2, true, true)
	if err != nil {
		t.Fatalf("GenerateKFrags failed: %v", err)
	}
	cfragA, err := Reencrypt(d.capsule, d.kfrags[0], nil)
	if err != nil {
		t.Fatalf("Reencrypt failed: %v", err)
	}
	cfragB, err := Reencrypt(d.capsule, kfrags2[0], nil)
	if err != nil {
		t.Fatalf("Reencrypt failed: %v", err)
	}

	_, err = DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule,
		[]*CapsuleFrag{cfragA, cfragB}, d.ciphertext)
	if !errors.Is(err, ErrFragmentMismatch) {
		t.Fatalf("expected ErrFragmentMismatch, got %v", err)
	}
}

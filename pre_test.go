package umbral

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func testParams(t *testing.T, curveType CurveType) *Parameters {
	t.Helper()
	params, err := NewParameters(curveType)
	if err != nil {
		t.Fatalf("failed to create parameters for %s: %v", curveType, err)
	}
	return params
}

func forEachCurve(t *testing.T, fn func(t *testing.T, params *Parameters)) {
	for _, curveType := range []CurveType{Secp256k1, Ed25519} {
		t.Run(string(curveType), func(t *testing.T) {
			fn(t, testParams(t, curveType))
		})
	}
}

func genKey(t *testing.T, params *Parameters) *SecretKey {
	t.Helper()
	sk, err := GenerateSecretKey(params)
	if err != nil {
		t.Fatalf("failed to generate secret key: %v", err)
	}
	return sk
}

// delegation bundles the actors of one full scheme run.
type delegation struct {
	delegating *SecretKey
	receiving  *SecretKey
	signing    *SecretKey
	capsule    *Capsule
	ciphertext []byte
	kfrags     []*KFrag
}

func setupDelegation(t *testing.T, params *Parameters, plaintext []byte, threshold, shares uint) *delegation {
	t.Helper()
	d := &delegation{
		delegating: genKey(t, params),
		receiving:  genKey(t, params),
		signing:    genKey(t, params),
	}
	capsule, ciphertext, err := Encrypt(params, d.delegating.PublicKey(), plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	d.capsule = capsule
	d.ciphertext = ciphertext

	kfrags, err := GenerateKFrags(params, d.delegating, d.receiving.PublicKey(), d.signing,
		threshold, shares, true, true)
	if err != nil {
		t.Fatalf("GenerateKFrags failed: %v", err)
	}
	d.kfrags = kfrags
	return d
}

func (d *delegation) reencrypt(t *testing.T, indices ...int) []*CapsuleFrag {
	t.Helper()
	cfrags := make([]*CapsuleFrag, 0, len(indices))
	for _, i := range indices {
		cfrag, err := Reencrypt(d.capsule, d.kfrags[i], nil)
		if err != nil {
			t.Fatalf("Reencrypt with kfrag %d failed: %v", i, err)
		}
		cfrags = append(cfrags, cfrag)
	}
	return cfrags
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		alice := genKey(t, params)
		for _, plaintext := range [][]byte{
			[]byte("peace at dawn"),
			[]byte(""),
			bytes.Repeat([]byte{0xA5}, 4096),
		} {
			capsule, ciphertext, err := Encrypt(params, alice.PublicKey(), plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if !capsule.Verify() {
				t.Fatal("freshly encrypted capsule fails its consistency check")
			}
			decrypted, err := DecryptOriginal(alice, capsule, ciphertext)
			if err != nil {
				t.Fatalf("DecryptOriginal failed: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("round trip mismatch: got %q, want %q", decrypted, plaintext)
			}
		}
	})
}

func TestDecryptOriginalWrongKey(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		alice := genKey(t, params)
		mallory := genKey(t, params)

		capsule, ciphertext, err := Encrypt(params, alice.PublicKey(), []byte("secret"))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if _, err := DecryptOriginal(mallory, capsule, ciphertext); !errors.Is(err, ErrAuthenticationFailure) {
			t.Fatalf("expected ErrAuthenticationFailure with wrong key, got %v", err)
		}
	})
}

func TestCiphertextTamperDetection(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		alice := genKey(t, params)
		capsule, ciphertext, err := Encrypt(params, alice.PublicKey(), []byte("tamper target"))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		for _, position := range []int{0, len(ciphertext) / 2, len(ciphertext) - 1} {
			tampered := make([]byte, len(ciphertext))
			copy(tampered, ciphertext)
			tampered[position] ^= 0x01
			if _, err := DecryptOriginal(alice, capsule, tampered); !errors.Is(err, ErrAuthenticationFailure) {
				t.Fatalf("bit flip at %d not detected, got %v", position, err)
			}
		}
		// Truncation must fail the same way.
		if _, err := DecryptOriginal(alice, capsule, ciphertext[:8]); !errors.Is(err, ErrAuthenticationFailure) {
			t.Fatalf("truncated ciphertext not rejected, got %v", err)
		}
	})
}

// The concrete m=2, n=3 scenario.
func TestThresholdScenarioTwoOfThree(t *testing.T) {
	params := testParams(t, Secp256k1)
	plaintext := []byte("Plaintext message")
	d := setupDelegation(t, params, plaintext, 2, 3)

	for i, kfrag := range d.kfrags {
		if !kfrag.Verify(d.signing.PublicKey(), d.delegating.PublicKey(), d.receiving.PublicKey()) {
			t.Fatalf("kfrag %d fails verification", i)
		}
	}

	cfrags := d.reencrypt(t, 0, 1)
	for i, cfrag := range cfrags {
		if !cfrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
			t.Fatalf("cfrag %d fails verification", i)
		}
	}

	decrypted, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags, d.ciphertext)
	if err != nil {
		t.Fatalf("DecryptReencrypted failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("reencrypted round trip mismatch: got %q, want %q", decrypted, plaintext)
	}

	if _, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags[:1], d.ciphertext); !errors.Is(err, ErrInsufficientFragments) {
		t.Fatalf("expected ErrInsufficientFragments with one cfrag, got %v", err)
	}
}

func TestThresholdSufficiencyAllSubsets(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		plaintext := []byte("any m of n suffice")
		d := setupDelegation(t, params, plaintext, 2, 3)
		all := d.reencrypt(t, 0, 1, 2)

		subsets := [][]int{{0, 1}, {0, 2}, {1, 2}, {2, 0}, {0, 1, 2}}
		for _, subset := range subsets {
			cfrags := make([]*CapsuleFrag, 0, len(subset))
			for _, i := range subset {
				cfrags = append(cfrags, all[i])
			}
			decrypted, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags, d.ciphertext)
			if err != nil {
				t.Fatalf("subset %v failed: %v", subset, err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("subset %v plaintext mismatch", subset)
			}
		}
	})
}

func TestThresholdInsufficiency(t *testing.T) {
	forEachCurve(t, func(t *testing.T, params *Parameters) {
		d := setupDelegation(t, params, []byte("needs three"), 3, 5)
		all := d.reencrypt(t, 0, 1, 2, 3, 4)

		for _, subset := range [][]int{{}, {0}, {1, 3}, {4, 2}} {
			cfrags := make([]*CapsuleFrag, 0, len(subset))
			for _, i := range subset {
				cfrags = append(cfrags, all[i])
			}
			if _, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags, d.ciphertext); !errors.Is(err, ErrInsufficientFragments) {
				t.Fatalf("subset %v should be insufficient, got %v", subset, err)
			}
		}
	})
}

func TestDuplicateFragmentsCountOnce(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("no double counting"), 2, 3)
	cfrags := d.reencrypt(t, 0)

	// Two copies of the same fragment are one fragment.
	doubled := []*CapsuleFrag{cfrags[0], cfrags[0]}
	if _, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, doubled, d.ciphertext); !errors.Is(err, ErrInsufficientFragments) {
		t.Fatalf("duplicated fragment should not reach the threshold, got %v", err)
	}

	// A duplicate alongside a real second fragment still works.
	more := d.reencrypt(t, 1)
	mixed := []*CapsuleFrag{cfrags[0], cfrags[0], more[0]}
	decrypted, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, mixed, d.ciphertext)
	if err != nil {
		t.Fatalf("DecryptReencrypted failed: %v", err)
	}
	if !bytes.Equal(decrypted, []byte("no double counting")) {
		t.Fatal("plaintext mismatch with duplicate in set")
	}
}

func TestFragmentBindingToDelegatee(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("bound to bob"), 2, 3)
	cfrags := d.reencrypt(t, 0, 1)

	// A different delegatee secret cannot open the reconstruction.
	other := genKey(t, params)
	if _, err := DecryptReencrypted(other, d.delegating.PublicKey(), d.capsule, cfrags, d.ciphertext); err == nil {
		t.Fatal("reconstruction with a different delegatee key succeeded")
	}

	// Fragments delegated to a different party fail verification against
	// the original delegatee's public key.
	otherKFrags, err := GenerateKFrags(params, d.delegating, other.PublicKey(), d.signing, 2, 3, true, true)
	if err != nil {
		t.Fatalf("GenerateKFrags failed: %v", err)
	}
	otherCFrag, err := Reencrypt(d.capsule, otherKFrags[0], nil)
	if err != nil {
		t.Fatalf("Reencrypt failed: %v", err)
	}
	if otherCFrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
		t.Fatal("cfrag for a different delegatee verified against the wrong delegatee key")
	}
}

func TestReencryptedTamperDetection(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("still authenticated"), 2, 2)
	cfrags := d.reencrypt(t, 0, 1)

	tampered := make([]byte, len(d.ciphertext))
	copy(tampered, d.ciphertext)
	tampered[len(tampered)/2] ^= 0x80
	if _, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags, tampered); !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}

func TestReencryptWithMetadata(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("context bound"), 2, 2)

	metadata := []byte("request-42")
	cfrags := make([]*CapsuleFrag, 2)
	for i := range cfrags {
		cfrag, err := Reencrypt(d.capsule, d.kfrags[i], metadata)
		if err != nil {
			t.Fatalf("Reencrypt failed: %v", err)
		}
		if !cfrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
			t.Fatalf("cfrag %d with metadata fails verification", i)
		}
		cfrags[i] = cfrag
	}

	// Metadata binds the proof, not the transform: reconstruction works.
	decrypted, err := DecryptReencrypted(d.receiving, d.delegating.PublicKey(), d.capsule, cfrags, d.ciphertext)
	if err != nil {
		t.Fatalf("DecryptReencrypted failed: %v", err)
	}
	if !bytes.Equal(decrypted, []byte("context bound")) {
		t.Fatal("plaintext mismatch with metadata-bound fragments")
	}
}

// Every re-encryption and verification call is independent; hammer them
// from many goroutines over shared immutable inputs.
func TestConcurrentReencryptAndVerify(t *testing.T) {
	params := testParams(t, Secp256k1)
	d := setupDelegation(t, params, []byte("parallel"), 2, 3)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			kfrag := d.kfrags[worker%len(d.kfrags)]
			for i := 0; i < 8; i++ {
				if !kfrag.Verify(d.signing.PublicKey(), d.delegating.PublicKey(), d.receiving.PublicKey()) {
					errs <- errors.New("concurrent kfrag verification failed")
					return
				}
				cfrag, err := Reencrypt(d.capsule, kfrag, nil)
				if err != nil {
					errs <- err
					return
				}
				if !cfrag.Verify(d.capsule, d.delegating.PublicKey(), d.receiving.PublicKey(), d.signing.PublicKey()) {
					errs <- errors.New("concurrent cfrag verification failed")
					return
				}
			}
		}(worker)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent run failed: %v", err)
	}
}

func TestParametersMismatchRejected(t *testing.T) {
	secp := testParams(t, Secp256k1)
	ed := testParams(t, Ed25519)

	aliceSecp := genKey(t, secp)
	aliceEd := genKey(t, ed)

	if _, _, err := Encrypt(secp, aliceEd.PublicKey(), []byte("x")); !errors.Is(err, ErrParametersMismatch) {
		t.Fatalf("expected ErrParametersMismatch, got %v", err)
	}

	capsule, ciphertext, err := Encrypt(secp, aliceSecp.PublicKey(), []byte("x"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := DecryptOriginal(aliceEd, capsule, ciphertext); !errors.Is(err, ErrParametersMismatch) {
		t.Fatalf("expected ErrParametersMismatch, got %v", err)
	}
}

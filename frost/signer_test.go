package frost

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"slices"
	"testing"

	"threshold.network/roast/internal/testutils"
)

func TestRound2_ValidationError(t *testing.T) {
	// just a basic test checking if Round2 calls validateGroupCommitments
	signers, _ := createSigners(t)
	nonces, commitments := executeRound1(t, signers)
	commitments[0].bindingNonceCommitment = &Point{X: big.NewInt(99), Y: big.NewInt(88)}

	signer := signers[1]
	nonce := nonces[1]

	_, err := signer.Round2([]byte("dummy"), nonce, commitments)
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}

	expectedError := "binding nonce commitment from signer [1] is not a valid non-identity point on the curve: [(99, 88)]"
	testutils.AssertStringsEqual(t, "validation error", expectedError, err.Error())
}

func TestValidateGroupCommitments(t *testing.T) {
	// happy path
	signers, _ := createSigners(t)
	_, commitments := executeRound1(t, signers)

	signer := signers[0]

	validationErrors, participants := signer.validateGroupCommitments(signer.signerIndex, commitments)
	testutils.AssertIntsEqual(t, "number of validation errors", 0, len(validationErrors))
	testutils.AssertIntsEqual(t, "number of participants", groupSize, len(participants))

	for i, p := range participants {
		expected := uint64(i + 1)
		if p != expected {
			testutils.AssertUintsEqual(t, "participant index", expected, p)
		}
	}
}

func TestValidateGroupCommitments_Errors(t *testing.T) {
	tests := map[string]struct {
		modifyCommitments func([]*NonceCommitment) []*NonceCommitment
		expectedErrors    []string
	}{
		"nil in the array": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				commitments[30] = nil
				return commitments
			},
			expectedErrors: []string{
				"commitment at position [30] is nil",
			},
		},
		"commitment from the current signer is missing": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				// the test uses signers[0] so remove commitment from this signer
				return slices.Delete(commitments, 0, 1)
			},
			expectedErrors: []string{
				"signer [1]'s commitment not found on the list",
			},
		},
		"duplicate commitment": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				// duplicate commitment from signer 5 at positions 4 and 5
				commitments[5] = commitments[4]
				return commitments
			},
			expectedErrors: []string{
				"commitments not sorted in ascending order: commitments[4].signerIndex=5, commitments[5].signerIndex=5",
			},
		},
		"commitments in invalid order": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				tmp := commitments[31]
				commitments[31] = commitments[50]
				commitments[50] = tmp
				return commitments
			},
			expectedErrors: []string{
				"commitments not sorted in ascending order: commitments[31].signerIndex=51, commitments[32].signerIndex=33",
				"commitments not sorted in ascending order: commitments[49].signerIndex=50, commitments[50].signerIndex=32",
			},
		},
		"invalid binding nonce commitment": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				commitments[80].bindingNonceCommitment = &Point{X: big.NewInt(100), Y: big.NewInt(200)}
				return commitments
			},
			expectedErrors: []string{
				"binding nonce commitment from signer [81] is not a valid non-identity point on the curve: [(100, 200)]",
			},
		},
		"invalid hiding nonce commitment": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				commitments[99].hidingNonceCommitment = &Point{X: big.NewInt(300), Y: big.NewInt(400)}
				return commitments
			},
			expectedErrors: []string{
				"hiding nonce commitment from signer [100] is not a valid non-identity point on the curve: [(300, 400)]",
			},
		},
		"multiple problems": {
			modifyCommitments: func(commitments []*NonceCommitment) []*NonceCommitment {
				modified := slices.Delete(commitments, 0, 1)
				modified[5] = modified[4]
				tmp := modified[31]
				modified[31] = modified[50]
				modified[50] = tmp
				modified[80].bindingNonceCommitment = &Point{X: big.NewInt(100), Y: big.NewInt(200)}
				modified[98].hidingNonceCommitment = &Point{X: big.NewInt(300), Y: big.NewInt(400)}
				modified[97] = nil
				return modified
			},
			expectedErrors: []string{
				"commitments not sorted in ascending order: commitments[4].signerIndex=6, commitments[5].signerIndex=6",
				"commitments not sorted in ascending order: commitments[31].signerIndex=52, commitments[32].signerIndex=34",
				"commitments not sorted in ascending order: commitments[49].signerIndex=51, commitments[50].signerIndex=33",
				"binding nonce commitment from signer [82] is not a valid non-identity point on the curve: [(100, 200)]",
				"commitment at position [97] is nil",
				"hiding nonce commitment from signer [100] is not a valid non-identity point on the curve: [(300, 400)]",
				"signer [1]'s commitment not found on the list",
			},
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			signers, _ := createSigners(t)
			_, commitments := executeRound1(t, signers)
			signer := signers[0]

			modified := test.modifyCommitments(commitments)
			validationErrors, participants := signer.validateGroupCommitments(signer.signerIndex, modified)

			if participants != nil {
				t.Fatalf("expected nil participants list, has [%v]", participants)
			}

			testutils.AssertIntsEqual(
				t,
				"number of validation errors",
				len(test.expectedErrors),
				len(validationErrors),
			)

			for i, expectedError := range test.expectedErrors {
				testutils.AssertStringsEqual(
					t,
					fmt.Sprintf("validation error #%d", i),
					expectedError,
					validationErrors[i].Error(),
				)
			}
		})
	}
}

// TestEncodeGroupCommitments checks the wire shape of
// encode_group_commitment_list against SerializePoint's 32-byte x-only
// [BIP-340] encoding: 8 bytes of signer index followed by the hiding and
// binding nonce commitments, per commitment, with no padding between
// entries.
func TestEncodeGroupCommitments(t *testing.T) {
	signers, _ := createSigners(t)
	_, commitments := executeRound1(t, signers[:3])

	signer := signers[0]
	encoded := signer.encodeGroupCommitment(commitments)

	const perCommitment = 8 + 32 + 32
	testutils.AssertIntsEqual(t, "encoded length", perCommitment*len(commitments), len(encoded))

	for i, c := range commitments {
		offset := i * perCommitment
		idx := binary.BigEndian.Uint64(encoded[offset : offset+8])
		testutils.AssertUintsEqual(t, "encoded signer index", c.signerIndex, idx)

		hiding := encoded[offset+8 : offset+8+32]
		binding := encoded[offset+8+32 : offset+perCommitment]

		curve := signer.ciphersuite.Curve()
		testutils.AssertStringsEqual(
			t,
			"hiding nonce commitment bytes",
			hex.EncodeToString(curve.SerializePoint(c.hidingNonceCommitment)),
			hex.EncodeToString(hiding),
		)
		testutils.AssertStringsEqual(
			t,
			"binding nonce commitment bytes",
			hex.EncodeToString(curve.SerializePoint(c.bindingNonceCommitment)),
			hex.EncodeToString(binding),
		)
	}
}

func TestDeriveInterpolatingValue(t *testing.T) {
	var tests = map[string]struct {
		xi       uint64
		L        []uint64
		expected string
	}{
		// Lagrange coefficient l_0 is:
		//
		//       (x-4)(x-5)
		// l_0 = ----------
		//       (1-4)(1-5)
		//
		// Since x is always 0 for this function, l_0 = 20/12 (mod Q).
		"xi = 1, L = {1, 4, 5}": {
			xi:       1,
			L:        []uint64{1, 4, 5},
			expected: "38597363079105398474523661669562635950945854759691634794201721047172720498114",
		},
		"xi = 4, L = {1, 4, 5}": {
			xi:       4,
			L:        []uint64{1, 4, 5},
			expected: "77194726158210796949047323339125271901891709519383269588403442094345440996223",
		},
		"xi = 5, L = {1, 4, 5}": {
			xi:       5,
			L:        []uint64{1, 4, 5},
			expected: "1",
		},
	}

	signers, _ := createSigners(t)
	signer := signers[0]
	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			result := signer.deriveInterpolatingValue(test.xi, test.L)
			testutils.AssertStringsEqual(
				t,
				"interpolating value",
				test.expected,
				result.Text(10),
			)
		})
	}
}

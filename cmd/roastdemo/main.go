// Command roastdemo runs one complete ROAST signing round end to end: a
// trusted-dealer key split, a fleet of per-signer goroutines driven over
// channels, and a Coordinator adjudicating them, with a configurable count
// of malicious signers who submit garbage shares whenever recruited.
package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"threshold.network/roast/frost"
	"threshold.network/roast/internal/testutils"
	"threshold.network/roast/roast"
	"threshold.network/roast/scheme"
)

var (
	partyCount    int
	threshold     int
	maliciousFlag int
	message       string
	profilePath   string

	rootCmd = &cobra.Command{
		Use:   "roastdemo",
		Short: "Run one ROAST signing round against a trusted-dealer test key",
		Long: `roastdemo deals a joint key with a trusted-dealer Shamir split, spins up
one goroutine per signer wired over channels to a Coordinator, and drives a
signing round to completion, optionally with a count of signers that submit
garbage shares whenever recruited into a session.`,
		RunE: runDemo,
	}
)

func init() {
	rootCmd.Flags().IntVarP(&partyCount, "parties", "n", 10, "total number of signers")
	rootCmd.Flags().IntVarP(&threshold, "threshold", "t", 5, "signing threshold")
	rootCmd.Flags().IntVarP(&maliciousFlag, "malicious", "m", 0, "number of signers that submit garbage shares")
	rootCmd.Flags().StringVar(&message, "message", "roastdemo", "message to sign")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "write a CPU profile to this path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return err
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	return run(partyCount, threshold, maliciousFlag, []byte(message))
}

// memberCh is a malicious or honest signer's mailbox: the coordinator
// delivers it a session's frozen nonce set whenever it is recruited, and
// the member replies on shares with either a genuine or garbage share, and
// on nonces with its next public nonce.
type memberCh struct {
	index    uint32
	sessions chan []scheme.SignerNonce[*frost.NonceCommitment]
	shares   chan *big.Int
	nonces   chan *frost.NonceCommitment
}

func run(n, threshold, malicious int, message []byte) error {
	if malicious >= n-threshold+1 {
		return fmt.Errorf("roastdemo: %d malicious signers would already breach the honesty floor for n=%d t=%d", malicious, n, threshold)
	}

	adapter := frost.NewBIP340()
	ciphersuite := frost.NewBip340Ciphersuite()
	curve := ciphersuite.Curve()
	order := curve.Order()

	secretKey, err := rand.Int(rand.Reader, order)
	if err != nil {
		return err
	}
	publicKey := curve.EcBaseMul(secretKey)
	if publicKey.Y.Bit(0) != 0 {
		secretKey.Sub(order, secretKey)
		publicKey = curve.EcBaseMul(secretKey)
	}

	shares := testutils.GenerateKeyShares(secretKey, n, threshold, order)
	verificationShares := make(map[uint64]*frost.Point, n)
	for i := 0; i < n; i++ {
		verificationShares[uint64(i+1)] = curve.EcBaseMul(shares[i])
	}
	key := &frost.JointKey{GroupPublicKey: publicKey, VerificationShares: verificationShares}

	c := roast.NewCoordinator[*frost.JointKey, *frost.NonceCommitment, *frost.Signature](
		adapter, key, message, uint32(threshold), uint32(n),
	)

	channels := make(map[uint32]*memberCh, n)
	openNonces := make(map[uint32]*frost.NonceCommitment, n)

	for i := 0; i < n; i++ {
		idx := uint32(i + 1)
		isMalicious := i < malicious

		ch := &memberCh{
			index:    idx,
			sessions: make(chan []scheme.SignerNonce[*frost.NonceCommitment], n),
			shares:   make(chan *big.Int, n),
			nonces:   make(chan *frost.NonceCommitment, n),
		}
		channels[idx] = ch

		if isMalicious {
			nkp, genErr := adapter.GenNonce(rand.Reader, key, shares[i])
			if genErr != nil {
				return genErr
			}
			openNonces[idx] = nkp.Public
			go runMaliciousMember(ch, adapter, key, shares[i], order)
		} else {
			s, nonce, newErr := roast.NewSigner[*frost.JointKey, *frost.Nonce, *frost.NonceCommitment](
				rand.Reader, adapter, key, idx, shares[i], message,
			)
			if newErr != nil {
				return newErr
			}
			openNonces[idx] = nonce
			go runHonestMember(ch, s)
		}
	}

	final, err := driveCoordinator(c, channels, openNonces)
	if err != nil {
		return err
	}

	ok, err := ciphersuite.VerifySignature(final, key.GroupPublicKey, message)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("roastdemo: aggregate signature failed verification")
	}

	fmt.Printf(
		"signed %q with %d of %d signers (%d malicious, banned=%v)\n",
		message, threshold, n, malicious, c.Malicious(),
	)
	return nil
}

// driveCoordinator feeds every signer's opening nonce through Receive, then
// fans each session-opening response out to its members over their
// channels and collects shares back, until a signature is produced.
func driveCoordinator(
	c *roast.Coordinator[*frost.JointKey, *frost.NonceCommitment, *frost.Signature],
	channels map[uint32]*memberCh,
	openNonces map[uint32]*frost.NonceCommitment,
) (*frost.Signature, error) {
	type pendingShare struct {
		index uint32
		share *big.Int
		nonce *frost.NonceCommitment
	}

	pending := make(chan pendingShare, len(channels)*4)

	deliverSession := func(resp roast.Response[*frost.NonceCommitment, *frost.Signature]) {
		for _, idx := range resp.Recipients {
			channels[idx].sessions <- resp.NonceSet
			go func(ch *memberCh) {
				pending <- pendingShare{index: ch.index, share: <-ch.shares, nonce: <-ch.nonces}
			}(channels[idx])
		}
	}

	for idx, nonce := range openNonces {
		resp, err := c.Receive(idx, nil, nonce)
		if err != nil {
			return nil, err
		}
		if resp.HasSignature {
			return resp.Signature, nil
		}
		if len(resp.NonceSet) > 0 {
			deliverSession(resp)
		}
	}

	for ps := range pending {
		resp, err := c.Receive(ps.index, ps.share, ps.nonce)
		if err != nil {
			return nil, err
		}
		if resp.HasSignature {
			return resp.Signature, nil
		}
		if len(resp.NonceSet) > 0 {
			deliverSession(resp)
		}
	}
	return nil, fmt.Errorf("roastdemo: coordinator channel closed without a signature")
}

func runHonestMember(ch *memberCh, s *roast.Signer[*frost.JointKey, *frost.Nonce, *frost.NonceCommitment]) {
	for nonceSet := range ch.sessions {
		share, next, err := s.Sign(rand.Reader, nonceSet)
		if err != nil {
			panic(err)
		}
		ch.shares <- share
		ch.nonces <- next
	}
}

func runMaliciousMember(
	ch *memberCh,
	adapter *frost.BIP340,
	key *frost.JointKey,
	secretShare *big.Int,
	order *big.Int,
) {
	for range ch.sessions {
		garbage, err := rand.Int(rand.Reader, order)
		if err != nil {
			panic(err)
		}
		nkp, err := adapter.GenNonce(rand.Reader, key, secretShare)
		if err != nil {
			panic(err)
		}
		ch.shares <- garbage
		ch.nonces <- nkp.Public
	}
}

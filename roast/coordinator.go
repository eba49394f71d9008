package roast

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"threshold.network/roast/scheme"
)

// ErrTooFewHonest is the fatal error a Coordinator returns from Receive once
// banning one more signer would push the malicious set above n-t members.
// The coordinator is unusable for this message afterwards.
var ErrTooFewHonest = errors.New("roast: too few honest signers remain to reach the threshold")

// Response is what a Coordinator emits in reply to one Receive call.
// Recipients names who the reply is for: the submitting signer alone for a
// neutral reply, the members of a newly opened session when NonceSet is
// set, or every party in [1, n] once Signature is ready. Signer identities
// are 1-indexed throughout the core, matching the threshold scheme's
// verification-share keying.
type Response[PubNonce any, Sig any] struct {
	Recipients []uint32
	NonceSet   []scheme.SignerNonce[PubNonce]
	Signature  Sig
	HasSignature bool
}

// session is the immutable-once-opened 3-tuple from the data model: a
// monotonic id, a frozen nonce set of exactly threshold (signer, nonce)
// pairs, and a growing list of verified shares keyed by signer index.
// terminal is set once shares reaches threshold members; it is retained
// only so a stray late submission for this signer can be recognized.
type session[PubNonce any] struct {
	id       uint64
	nonceSet []scheme.SignerNonce[PubNonce]
	shares   map[uint32]*big.Int
	terminal bool
}

// Coordinator is the ROAST coordinator state machine described in the
// design's component 3: it owns the session registry, the responsive and
// malicious signer sets, the latest nonce submitted per signer, and the
// monotonic session counter, all behind a single exclusive lock that
// serializes every call to Receive. It is generic over the threshold
// scheme's Verifier half; it never calls GenNonce or Sign.
type Coordinator[Key any, PubNonce any, Sig any] struct {
	mu sync.Mutex

	verifier   scheme.Verifier[Key, PubNonce, Sig]
	key        Key
	message    []byte
	threshold  uint32
	partyCount uint32

	responsive  map[uint32]struct{}
	malicious   map[uint32]struct{}
	latestNonce map[uint32]PubNonce
	binding     map[uint32]uint64

	sessions      map[uint64]*session[PubNonce]
	nextSessionID uint64

	done      bool
	finalSig  Sig
}

// NewCoordinator constructs a Coordinator for message, bound to the given
// joint key, threshold and party count. threshold and partyCount must
// satisfy 1 <= threshold <= partyCount; violating this is embedder misuse
// and panics rather than returning an error, per the core's error
// taxonomy for contract violations.
func NewCoordinator[Key any, PubNonce any, Sig any](
	verifier scheme.Verifier[Key, PubNonce, Sig],
	key Key,
	message []byte,
	threshold uint32,
	partyCount uint32,
) *Coordinator[Key, PubNonce, Sig] {
	if threshold < 1 || threshold > partyCount {
		panic(fmt.Sprintf(
			"roast: invalid threshold/party-count: threshold=%d partyCount=%d",
			threshold, partyCount,
		))
	}

	return &Coordinator[Key, PubNonce, Sig]{
		verifier:    verifier,
		key:         key,
		message:     append([]byte(nil), message...),
		threshold:   threshold,
		partyCount:  partyCount,
		responsive:  make(map[uint32]struct{}),
		malicious:   make(map[uint32]struct{}),
		latestNonce: make(map[uint32]PubNonce),
		binding:     make(map[uint32]uint64),
		sessions:    make(map[uint64]*session[PubNonce]),
	}
}

// Receive is the coordinator's single inbound operation: a signer
// submission of an optional signature share and a new public nonce. It
// executes the six-step algorithm in one traversal, under the coordinator
// lock, per call. It returns ErrTooFewHonest, and only ErrTooFewHonest, as
// a fatal error; every other outcome (including banning the submitter) is
// reported through the returned Response.
func (c *Coordinator[Key, PubNonce, Sig]) Receive(
	signerIndex uint32,
	share *big.Int,
	nonce PubNonce,
) (Response[PubNonce, Sig], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Step 1: banned-signer check.
	if _, banned := c.malicious[signerIndex]; banned {
		return c.neutral(signerIndex), nil
	}

	// Implementation latitude (spec section 4.3): once any session has
	// produced the aggregate signature for this message, short-circuit
	// further traffic instead of continuing to track sessions nobody
	// needs anymore.
	if c.done {
		return Response[PubNonce, Sig]{
			Recipients:   []uint32{signerIndex},
			Signature:    c.finalSig,
			HasSignature: true,
		}, nil
	}

	// Step 2: unsolicited-reply check.
	if _, waiting := c.responsive[signerIndex]; waiting {
		if err := c.ban(signerIndex); err != nil {
			return Response[PubNonce, Sig]{}, err
		}
		return c.neutral(signerIndex), nil
	}

	// Step 3: in-session share handling.
	if sid, bound := c.binding[signerIndex]; bound {
		s := c.sessions[sid]

		if !s.terminal {
			if share == nil {
				if err := c.ban(signerIndex); err != nil {
					return Response[PubNonce, Sig]{}, err
				}
				return c.neutral(signerIndex), nil
			}

			if !c.verifier.VerifyShare(c.key, s.nonceSet, signerIndex, share, c.message) {
				if err := c.ban(signerIndex); err != nil {
					return Response[PubNonce, Sig]{}, err
				}
				return c.neutral(signerIndex), nil
			}

			s.shares[signerIndex] = share

			if uint32(len(s.shares)) >= c.threshold {
				return c.completeSession(s), nil
			}
			// Fewer than threshold shares so far: fall through to step 4
			// so this signer's freshly submitted nonce feeds the next
			// session.
		}
	}

	// Step 4: nonce recording.
	c.latestNonce[signerIndex] = nonce
	c.responsive[signerIndex] = struct{}{}
	delete(c.binding, signerIndex)

	// Step 5: session-opening check.
	if uint32(len(c.responsive)) >= c.threshold {
		return c.openSession(), nil
	}

	// Step 6: otherwise, neutral reply.
	return c.neutral(signerIndex), nil
}

// ban adds signerIndex to the malicious set and checks the honesty floor.
// It is always safe to also remove signerIndex from the responsive set and
// any session binding: a banned signer participates in nothing further.
func (c *Coordinator[Key, PubNonce, Sig]) ban(signerIndex uint32) error {
	c.malicious[signerIndex] = struct{}{}
	delete(c.responsive, signerIndex)
	delete(c.binding, signerIndex)

	if uint32(len(c.malicious)) > c.partyCount-c.threshold {
		return ErrTooFewHonest
	}
	return nil
}

// completeSession combines s's now-threshold-sized share list into the
// aggregate signature and announces it to every party. s remains bound to
// its members; sessions are terminal, not torn down, once signed.
func (c *Coordinator[Key, PubNonce, Sig]) completeSession(s *session[PubNonce]) Response[PubNonce, Sig] {
	shares := make([]*big.Int, len(s.nonceSet))
	for i, sn := range s.nonceSet {
		shares[i] = s.shares[sn.SignerIndex]
	}

	sig, err := c.verifier.Combine(c.key, s.nonceSet, shares, c.message)
	if err != nil {
		// Every share in shares already passed VerifyShare; a failure here
		// is a bug in the scheme adapter, not a faulty signer.
		panic(fmt.Sprintf("roast: combine failed on a fully verified session: %v", err))
	}

	s.terminal = true
	c.done = true
	c.finalSig = sig

	return Response[PubNonce, Sig]{
		Recipients:   c.allParties(),
		Signature:    sig,
		HasSignature: true,
	}
}

// openSession snapshots the responsive set as a new session's signer set,
// freezes its nonce set in ascending index order, binds each member to the
// new session, and empties the responsive set.
func (c *Coordinator[Key, PubNonce, Sig]) openSession() Response[PubNonce, Sig] {
	members := make([]uint32, 0, len(c.responsive))
	for idx := range c.responsive {
		members = append(members, idx)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	nonceSet := make([]scheme.SignerNonce[PubNonce], len(members))
	for i, idx := range members {
		nonceSet[i] = scheme.SignerNonce[PubNonce]{SignerIndex: idx, Nonce: c.latestNonce[idx]}
	}

	c.nextSessionID++
	s := &session[PubNonce]{
		id:       c.nextSessionID,
		nonceSet: nonceSet,
		shares:   make(map[uint32]*big.Int, len(members)),
	}
	c.sessions[s.id] = s

	for _, idx := range members {
		c.binding[idx] = s.id
	}
	c.responsive = make(map[uint32]struct{})

	return Response[PubNonce, Sig]{Recipients: members, NonceSet: nonceSet}
}

func (c *Coordinator[Key, PubNonce, Sig]) neutral(signerIndex uint32) Response[PubNonce, Sig] {
	return Response[PubNonce, Sig]{Recipients: []uint32{signerIndex}}
}

// allParties returns every signer identity [1, partyCount], the 1-indexed
// convention used throughout the core.
func (c *Coordinator[Key, PubNonce, Sig]) allParties() []uint32 {
	all := make([]uint32, c.partyCount)
	for i := range all {
		all[i] = uint32(i + 1)
	}
	return all
}

// Malicious reports the current banned set, for logging and testing.
func (c *Coordinator[Key, PubNonce, Sig]) Malicious() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]uint32, 0, len(c.malicious))
	for idx := range c.malicious {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SessionCount reports how many sessions have been opened so far, for
// testing the liveness bound (at most n-t+1 sessions to termination).
func (c *Coordinator[Key, PubNonce, Sig]) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

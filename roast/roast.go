// Package roast implements the coordinator state machine of the BIP340
// specialized version of the ROAST protocol.
//
// ROAST wraps a t-of-n Schnorr threshold signature scheme with a
// coordinator algorithm that guarantees termination with a valid aggregate
// signature whenever at least t honest signers participate, even under a
// fully asynchronous network and up to n-t malicious or unresponsive
// signers. The package is generic over the underlying scheme (see the
// sibling scheme package); a concrete BIP-340/FROST implementation lives in
// the frost package.
//
// [ROAST]
//
//	Ruffing T., Ronge V., Jin E., Schneider-Bensch J., Schroder D.,
//	"ROAST: Robust Asynchronous Schnorr Threshold Signatures"
//	<https://eprint.iacr.org/2022/550.pdf>
//
// [FROST]
//
//	Connolly, D., Komlo, C., Goldberg, I., and C. A. Wood, "Two-Round
//	Threshold Schnorr Signatures with FROST", Work in Progress, Internet-Draft,
//	draft-irtf-cfrg-frost-15, 5 December 2023,
//	<https://datatracker.ietf.org/doc/draft-irtf-cfrg-frost/15/>.
package roast

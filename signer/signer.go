// Package signer signs raw transaction bytes produced by a ptb.Builder.
//
// Signing flow:
//
//  1. prepend the 3-byte signing-intent prefix {0, 0, 0}
//  2. blake2b-256 hash the intent message
//  3. ed25519-sign the digest
//  4. serialize flag(0x00) | signature[64] | pubkey[32]
//
// The serialized signature and the base64 transaction bytes are what a
// fullnode's execute endpoint expects.
package signer

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/branched-services/go-ptb"
)

// SchemeEd25519 is the signature scheme flag for ed25519.
const SchemeEd25519 byte = 0x00

// transactionIntent is the signing-intent prefix for transaction data:
// scope, version, app id.
var transactionIntent = [3]byte{0, 0, 0}

// Signer holds an ed25519 keypair.
type Signer struct {
	priv ed25519.PrivateKey
}

// NewFromSeed builds a signer from a 32-byte ed25519 seed.
func NewFromSeed(seed []byte) (*Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signer: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the 32-byte ed25519 public key.
func (s *Signer) PublicKey() []byte {
	return s.priv.Public().(ed25519.PublicKey)
}

// Address derives the on-chain address: blake2b-256 of the scheme flag
// followed by the public key.
func (s *Signer) Address() ptb.Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{SchemeEd25519})
	h.Write(s.PublicKey())
	var addr ptb.Address
	copy(addr[:], h.Sum(nil))
	return addr
}

// SignedTransaction holds everything needed to submit a transaction.
type SignedTransaction struct {
	// TxBytes is the base64-encoded BCS transaction.
	TxBytes string

	// Signature is base64(flag | signature | pubkey).
	Signature string
}

// SignTransaction signs the raw BCS bytes returned by Builder.Build.
func (s *Signer) SignTransaction(rawBCS []byte) (*SignedTransaction, error) {
	if len(rawBCS) == 0 {
		return nil, fmt.Errorf("signer: empty transaction bytes")
	}

	msg := make([]byte, 0, len(transactionIntent)+len(rawBCS))
	msg = append(msg, transactionIntent[:]...)
	msg = append(msg, rawBCS...)
	digest := blake2b.Sum256(msg)

	sig := ed25519.Sign(s.priv, digest[:])

	serialized := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	serialized = append(serialized, SchemeEd25519)
	serialized = append(serialized, sig...)
	serialized = append(serialized, s.PublicKey()...)

	return &SignedTransaction{
		TxBytes:   base64.StdEncoding.EncodeToString(rawBCS),
		Signature: base64.StdEncoding.EncodeToString(serialized),
	}, nil
}

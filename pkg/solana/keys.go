package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

const (
	// PublicKeyLength is the byte length of an ed25519 public key.
	PublicKeyLength = 32
	// SecretKeyLength is the byte length of a Solana secret key
	// (32-byte seed followed by the 32-byte public key).
	SecretKeyLength = 64

	// LamportsPerSOL is the number of lamports in one SOL.
	LamportsPerSOL = 1_000_000_000
)

// Keypair holds an ed25519 signing keypair for a wallet.
type Keypair struct {
	PublicKey []byte
	SecretKey []byte
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{PublicKey: pub, SecretKey: priv}, nil
}

// KeypairFromSecretKey rebuilds a keypair from raw 64-byte secret key material.
func KeypairFromSecretKey(secret []byte) (*Keypair, error) {
	if len(secret) != SecretKeyLength {
		return nil, fmt.Errorf("%w: secret key length %d, want %d", domainerrors.ErrInvalidKeyMaterial, len(secret), SecretKeyLength)
	}
	priv := ed25519.PrivateKey(secret)
	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{PublicKey: pub, SecretKey: priv}, nil
}

// Address returns the base58-encoded public key.
func (k *Keypair) Address() string {
	return base58.Encode(k.PublicKey)
}

// DecodeAddress decodes a base58 address and validates its length.
func DecodeAddress(address string) ([]byte, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", domainerrors.ErrInvalidAddress)
	}
	decoded := base58.Decode(address)
	if len(decoded) != PublicKeyLength {
		return nil, fmt.Errorf("%w: %q", domainerrors.ErrInvalidAddress, address)
	}
	return decoded, nil
}

// ValidAddress reports whether address is a well-formed base58 public key.
func ValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// ToLamports converts a SOL amount to lamports, rounding down.
func ToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSOL)
}

// ToSOL converts lamports to a SOL amount.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}

// LamportsDelta converts a signed lamport difference to SOL.
func LamportsDelta(pre, post uint64) float64 {
	return (float64(post) - float64(pre)) / LamportsPerSOL
}

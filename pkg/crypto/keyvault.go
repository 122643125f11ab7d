package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"

	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

const (
	ivLength = aes.BlockSize

	// scrypt parameters for master key derivation
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	masterKeyLen = 32
)

// KeyVault encrypts and decrypts raw signing-key material for storage.
// The master key is derived once at construction and is read-only afterwards;
// it is never persisted alongside ciphertext.
type KeyVault struct {
	masterKey []byte
}

// NewKeyVault derives the process-wide master key from a secret passphrase
// and a fixed salt using scrypt.
func NewKeyVault(passphrase, salt string) (*KeyVault, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty vault passphrase", domainerrors.ErrInvalidInput)
	}
	key, err := scrypt.Key([]byte(passphrase), []byte(salt), scryptN, scryptR, scryptP, masterKeyLen)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	return &KeyVault{masterKey: key}, nil
}

// Encrypt seals raw key material as "hex(iv):hex(ciphertext)" using
// AES-256-CBC with a fresh random IV per call. A fresh IV prevents
// ciphertext correlation across wallets sharing the master key.
func (v *KeyVault) Encrypt(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty key material", domainerrors.ErrEncryptionFailure)
	}

	block, err := aes.NewCipher(v.masterKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrEncryptionFailure, err)
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrEncryptionFailure, err)
	}

	padded := pkcs7Pad(raw, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. A malformed IV segment signals corruption or
// tampering and fails with ErrInvalidKeyMaterial before any cipher work.
func (v *KeyVault) Decrypt(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing iv separator", domainerrors.ErrInvalidKeyMaterial)
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not hex", domainerrors.ErrInvalidKeyMaterial)
	}
	if len(iv) != ivLength {
		return nil, fmt.Errorf("%w: iv length %d, want %d", domainerrors.ErrInvalidKeyMaterial, len(iv), ivLength)
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not hex", domainerrors.ErrInvalidKeyMaterial)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d", domainerrors.ErrInvalidKeyMaterial, len(ciphertext))
	}

	block, err := aes.NewCipher(v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrDecryptionFailure, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrDecryptionFailure, err)
	}
	return unpadded, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}

package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil/base58"

	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

// systemProgramID is the account that owns native value transfers.
// Base58 "11111111111111111111111111111111" decodes to 32 zero bytes.
var systemProgramID = make([]byte, PublicKeyLength)

// transfer instruction index within the system program
const systemTransferIndex uint32 = 2

// BuildTransferTransaction constructs and signs a single-signer system-program
// transfer of lamports from the keypair's address to the destination address,
// anchored at recentBlockhash. The result is the wire-format transaction,
// ready for raw submission.
func BuildTransferTransaction(from *Keypair, to string, lamports uint64, recentBlockhash string) ([]byte, error) {
	dest, err := DecodeAddress(to)
	if err != nil {
		return nil, err
	}
	blockhash := base58.Decode(recentBlockhash)
	if len(blockhash) != 32 {
		return nil, fmt.Errorf("%w: malformed blockhash %q", domainerrors.ErrRpcError, recentBlockhash)
	}

	message := buildTransferMessage(from.PublicKey, dest, lamports, blockhash)
	signature := ed25519.Sign(ed25519.PrivateKey(from.SecretKey), message)

	// wire format: shortvec signature count, signatures, then the message
	var tx bytes.Buffer
	tx.Write(encodeShortVecLen(1))
	tx.Write(signature)
	tx.Write(message)
	return tx.Bytes(), nil
}

// buildTransferMessage serializes a legacy message with one instruction.
// Account order: fee payer (signer, writable), destination (writable),
// system program (read-only).
func buildTransferMessage(from, to []byte, lamports uint64, blockhash []byte) []byte {
	var msg bytes.Buffer

	// header: 1 required signature, 0 read-only signed, 1 read-only unsigned
	msg.Write([]byte{1, 0, 1})

	msg.Write(encodeShortVecLen(3))
	msg.Write(from)
	msg.Write(to)
	msg.Write(systemProgramID)

	msg.Write(blockhash)

	// one instruction: program index 2, account indexes [0, 1]
	msg.Write(encodeShortVecLen(1))
	msg.WriteByte(2)
	msg.Write(encodeShortVecLen(2))
	msg.Write([]byte{0, 1})

	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemTransferIndex)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	msg.Write(encodeShortVecLen(len(data)))
	msg.Write(data)

	return msg.Bytes()
}

// encodeShortVecLen encodes a length in the compact-u16 form the wire
// format uses for vector prefixes.
func encodeShortVecLen(n int) []byte {
	var out []byte
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// ExtractMessageAccounts returns the base58 account keys of a wire-format
// transaction's message, in message order. Used to recover counterparties
// when RPC transaction detail omits parsed addresses.
func ExtractMessageAccounts(rawTx []byte) ([]string, error) {
	r := bytes.NewReader(rawTx)

	sigCount, err := decodeShortVecLen(r)
	if err != nil {
		return nil, fmt.Errorf("read signature count: %w", err)
	}
	if _, err := r.Seek(int64(sigCount)*64, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("skip signatures: %w", err)
	}

	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read message header: %w", err)
	}

	keyCount, err := decodeShortVecLen(r)
	if err != nil {
		return nil, fmt.Errorf("read account count: %w", err)
	}

	accounts := make([]string, 0, keyCount)
	for i := 0; i < keyCount; i++ {
		key := make([]byte, PublicKeyLength)
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("read account %d: %w", i, err)
		}
		accounts = append(accounts, base58.Encode(key))
	}
	return accounts, nil
}

func decodeShortVecLen(r *bytes.Reader) (int, error) {
	var n, shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= uint(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(n), nil
		}
		shift += 7
		if shift > 14 {
			return 0, fmt.Errorf("shortvec length overflow")
		}
	}
}

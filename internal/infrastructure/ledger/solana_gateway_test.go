package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/pkg/solana"
)

// fakeCaller serves canned JSON per method and records calls.
type fakeCaller struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
	lastArgs  map[string][]interface{}
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		responses: make(map[string]string),
		errs:      make(map[string]error),
		lastArgs:  make(map[string][]interface{}),
	}
}

func (f *fakeCaller) CallContext(_ context.Context, result interface{}, method string, args ...interface{}) error {
	f.calls = append(f.calls, method)
	f.lastArgs[method] = args
	if err, ok := f.errs[method]; ok {
		return err
	}
	body, ok := f.responses[method]
	if !ok {
		return errors.New("unexpected method " + method)
	}
	return json.Unmarshal([]byte(body), result)
}

// rpcServerError mimics a JSON-RPC error from go-ethereum's client.
type rpcServerError struct{ code int }

func (e *rpcServerError) Error() string  { return "server rejected request" }
func (e *rpcServerError) ErrorCode() int { return e.code }

func TestSolanaGateway_GetBalance(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getBalance"] = `{"value": 2500000000}`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	balance, err := gw.GetBalance(context.Background(), "someAddress")
	require.NoError(t, err)
	assert.Equal(t, 2.5, balance)
}

func TestSolanaGateway_GetLatestBlockhash(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getLatestBlockhash"] = `{"value": {"blockhash": "hash123", "lastValidBlockHeight": 987}}`
	gw := NewSolanaGatewayWithCaller(caller, "")

	bh, err := gw.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hash123", bh.Hash)
	assert.Equal(t, uint64(987), bh.LastValidBlockHeight)
}

func TestSolanaGateway_SendRawTransaction(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["sendTransaction"] = `"sig-abc"`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	sig, err := gw.SendRawTransaction(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "sig-abc", sig)

	// signed bytes go out base64-encoded
	args := caller.lastArgs["sendTransaction"]
	require.Len(t, args, 2)
	assert.Equal(t, "AQID", args[0])
}

func TestSolanaGateway_RequestAirdrop_ConvertsToLamports(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["requestAirdrop"] = `"airdrop-sig"`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	sig, err := gw.RequestAirdrop(context.Background(), "addr", 1.5)
	require.NoError(t, err)
	assert.Equal(t, "airdrop-sig", sig)

	args := caller.lastArgs["requestAirdrop"]
	require.Len(t, args, 2)
	assert.Equal(t, uint64(1_500_000_000), args[1])
}

func TestSolanaGateway_GetSignatureStatus(t *testing.T) {
	cases := []struct {
		name string
		body string
		want entities.ConfirmationState
	}{
		{"confirmed", `{"value": [{"confirmationStatus": "confirmed", "err": null}]}`, entities.ConfirmationConfirmed},
		{"finalized", `{"value": [{"confirmationStatus": "finalized", "err": null}]}`, entities.ConfirmationFinalized},
		{"processed is pending", `{"value": [{"confirmationStatus": "processed", "err": null}]}`, entities.ConfirmationPending},
		{"unknown signature", `{"value": [null]}`, entities.ConfirmationPending},
		{"failed", `{"value": [{"confirmationStatus": "confirmed", "err": {"InstructionError": [0, "Custom"]}}]}`, entities.ConfirmationFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			caller := newFakeCaller()
			caller.responses["getSignatureStatuses"] = tc.body
			gw := NewSolanaGatewayWithCaller(caller, "confirmed")

			status, err := gw.GetSignatureStatus(context.Background(), "sig")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status.State)
			if tc.want == entities.ConfirmationFailed {
				assert.NotEmpty(t, status.Err)
			}
		})
	}
}

func TestSolanaGateway_GetSignaturesForAddress(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getSignaturesForAddress"] = `[
		{"signature": "sig1", "slot": 100, "blockTime": 1700000000, "err": null},
		{"signature": "sig2", "slot": 99, "blockTime": null, "err": {"some": "failure"}}
	]`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	infos, err := gw.GetSignaturesForAddress(context.Background(), "addr", 10)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "sig1", infos[0].Signature)
	assert.Equal(t, int64(1700000000), infos[0].BlockTime)
	assert.Empty(t, infos[0].Err)
	assert.Zero(t, infos[1].BlockTime)
	assert.NotEmpty(t, infos[1].Err)
}

func TestSolanaGateway_GetTransaction(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getTransaction"] = `{
		"blockTime": 1700000123,
		"meta": {"fee": 5000, "preBalances": [5000000000, 0], "postBalances": [2999995000, 2000000000], "err": null},
		"transaction": {"message": {"accountKeys": ["fromAddr", "toAddr", "11111111111111111111111111111111"]}}
	}`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	detail, err := gw.GetTransaction(context.Background(), "sig-x")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "sig-x", detail.Signature)
	assert.Equal(t, int64(1700000123), detail.BlockTime)
	assert.Equal(t, uint64(5000), detail.Fee)
	assert.Equal(t, "fromAddr", detail.FromAddress())
	assert.Equal(t, "toAddr", detail.ToAddress())
}

func TestSolanaGateway_GetTransaction_MissingFields(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getTransaction"] = `{"blockTime": null, "meta": null, "transaction": null}`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	detail, err := gw.GetTransaction(context.Background(), "sig-y")
	require.NoError(t, err)
	require.NotNil(t, detail)
	// counterparties degrade to empty strings, never an error
	assert.Empty(t, detail.FromAddress())
	assert.Empty(t, detail.ToAddress())
}

// Nodes that cannot render the requested encoding return the transaction
// as a base64 tuple instead of a parsed message. Account keys must still
// be recovered from the wire bytes in that case.
func TestSolanaGateway_GetTransaction_RawEncodedFallback(t *testing.T) {
	from, err := solana.NewKeypair()
	require.NoError(t, err)
	to, err := solana.NewKeypair()
	require.NoError(t, err)
	blockhash := base58.Encode(bytes.Repeat([]byte{7}, 32))
	wire, err := solana.BuildTransferTransaction(from, to.Address(), 1_000_000, blockhash)
	require.NoError(t, err)

	caller := newFakeCaller()
	caller.responses["getTransaction"] = fmt.Sprintf(`{
		"blockTime": 1700000123,
		"meta": {"fee": 5000, "preBalances": [2000000000, 0, 1], "postBalances": [1998995000, 1000000, 1], "err": null},
		"transaction": [%q, "base64"]
	}`, base64.StdEncoding.EncodeToString(wire))
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	detail, err := gw.GetTransaction(context.Background(), "sig-raw")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, from.Address(), detail.FromAddress())
	assert.Equal(t, to.Address(), detail.ToAddress())
}

func TestSolanaGateway_GetTransaction_Unknown(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["getTransaction"] = `null`
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	detail, err := gw.GetTransaction(context.Background(), "sig-z")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestSolanaGateway_ErrorNormalization(t *testing.T) {
	caller := newFakeCaller()
	caller.errs["getBalance"] = &rpcServerError{code: -32602}
	gw := NewSolanaGatewayWithCaller(caller, "confirmed")

	_, err := gw.GetBalance(context.Background(), "addr")
	assert.ErrorIs(t, err, domainerrors.ErrRpcError)

	caller.errs["getBalance"] = errors.New("dial tcp: connection refused")
	_, err = gw.GetBalance(context.Background(), "addr")
	assert.ErrorIs(t, err, domainerrors.ErrNetworkUnavailable)
}

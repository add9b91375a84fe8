// Package ledger reads transaction receipts from an Ethereum JSON-RPC node.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"emojiorder/internal/adapters/out/httpclient"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"
)

var (
	_ ports.Ledger = (*EthereumRPC)(nil)

	txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// ValidateTxHash accepts 0x-prefixed 32 byte hex hashes.
func ValidateTxHash(txHash string) error {
	if !txHashPattern.MatchString(txHash) {
		return errs.NewValueIsInvalidErrorWithCause("txHash", fmt.Errorf("%q is not a transaction hash", txHash))
	}
	return nil
}

type EthereumRPC struct {
	url    string
	client *httpclient.Client
	nextID atomic.Int64
}

func NewEthereumRPC(url string, client *httpclient.Client) *EthereumRPC {
	return &EthereumRPC{url: url, client: client}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result *receiptResult `json:"result"`
	Error  *rpcError      `json:"error"`
}

type receiptResult struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	BlockNumber     string `json:"blockNumber"`
}

// TransactionReceipt returns found=false while the transaction is not mined.
func (e *EthereumRPC) TransactionReceipt(ctx context.Context, txHash string) (ports.Receipt, bool, error) {
	if err := ValidateTxHash(txHash); err != nil {
		return ports.Receipt{}, false, err
	}

	status, raw, err := e.client.PostJSON(ctx, e.url, nil, rpcRequest{
		JSONRPC: "2.0",
		ID:      e.nextID.Add(1),
		Method:  "eth_getTransactionReceipt",
		Params:  []any{txHash},
	})
	if err != nil {
		return ports.Receipt{}, false, err
	}
	if status != http.StatusOK {
		return ports.Receipt{}, false, e.client.StatusError(status, raw)
	}

	var resp rpcResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return ports.Receipt{}, false, ports.NewCollaboratorUnavailableError(e.client.Name(), fmt.Errorf("decode receipt: %w", err))
	}
	if resp.Error != nil {
		return ports.Receipt{}, false, ports.NewCollaboratorUnavailableError(
			e.client.Name(), fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message),
		)
	}
	if resp.Result == nil {
		return ports.Receipt{}, false, nil
	}

	block, err := parseQuantity(resp.Result.BlockNumber)
	if err != nil {
		return ports.Receipt{}, false, ports.NewCollaboratorUnavailableError(e.client.Name(), err)
	}
	outcome, err := parseQuantity(resp.Result.Status)
	if err != nil {
		return ports.Receipt{}, false, ports.NewCollaboratorUnavailableError(e.client.Name(), err)
	}

	return ports.Receipt{
		TxHash:      txHash,
		Success:     outcome == 1,
		BlockNumber: block,
	}, true, nil
}

// parseQuantity decodes a JSON-RPC hex quantity such as "0x1b4".
func parseQuantity(s string) (uint64, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return v, nil
}

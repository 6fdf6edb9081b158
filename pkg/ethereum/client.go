package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/pkg/config"
)

// Backend is the subset of ethclient.Client used by the Client.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg geth.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Client is a thin wrapper over a JSON-RPC connection to the target chain
type Client struct {
	config   *config.ChainConfig
	backend  Backend
	feeFloor *big.Int
	logger   *zap.Logger
}

// NewClient dials the configured RPC endpoint
func NewClient(cfg *config.ChainConfig, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	logger.Info("Connected to chain",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("registry_contract", cfg.RegistryContract),
		zap.String("forwarder_contract", cfg.ForwarderContract))

	return NewClientWithBackend(cfg, client, logger), nil
}

// NewClientWithBackend builds a Client over an existing backend.
func NewClientWithBackend(cfg *config.ChainConfig, backend Backend, logger *zap.Logger) *Client {
	floor := cfg.FeeFloor()
	if floor == nil {
		floor = big.NewInt(20_000_000_000)
	}
	return &Client{
		config:   cfg,
		backend:  backend,
		feeFloor: floor,
		logger:   logger,
	}
}

// Close closes the RPC connection
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
	}
}

// ChainID returns the configured chain id
func (c *Client) ChainID() *big.Int {
	return big.NewInt(c.config.ChainID)
}

// GetBalance returns the latest balance of address in base units.
func (c *Client) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.retry(ctx, func() error {
		var err error
		balance, err = c.backend.BalanceAt(ctx, address, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get balance of %s: %v", ErrChainUnavailable, address.Hex(), err)
	}
	return balance, nil
}

// EstimateFeeCeiling returns the node's suggested gas price, or the configured
// floor when the fee oracle cannot be reached.
func (c *Client) EstimateFeeCeiling(ctx context.Context) *big.Int {
	price, err := c.backend.SuggestGasPrice(ctx)
	if err != nil || price == nil {
		c.logger.Warn("Fee oracle unavailable, using fee floor",
			zap.String("fee_floor_wei", c.feeFloor.String()),
			zap.Error(err))
		return new(big.Int).Set(c.feeFloor)
	}
	return new(big.Int).Set(price)
}

// Broadcast sends a signed transaction without waiting for it to be mined.
func (c *Client) Broadcast(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		err = ClassifySendError(err)
		if !errors.Is(err, ErrAlreadyKnown) {
			return common.Hash{}, err
		}
		// an earlier send of the same signed bytes reached the pool
		c.logger.Info("Transaction already in node pool",
			zap.String("tx_hash", tx.Hash().Hex()),
			zap.Uint64("nonce", tx.Nonce()))
		return tx.Hash(), nil
	}
	c.logger.Debug("Transaction broadcast",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("nonce", tx.Nonce()))
	return tx.Hash(), nil
}

// GetReceipt returns the receipt for hash, or nil if it has not been mined yet.
func (c *Client) GetReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var receipt *types.Receipt
	err := c.retry(ctx, func() error {
		var err error
		receipt, err = c.backend.TransactionReceipt(ctx, hash)
		if errors.Is(err, geth.NotFound) {
			return backoff.Permanent(err)
		}
		return err
	})
	if errors.Is(err, geth.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get receipt for %s: %v", ErrChainUnavailable, hash.Hex(), err)
	}
	if receipt == nil {
		return nil, nil
	}
	return newReceipt(receipt), nil
}

// WaitForConfirmation polls for the receipt of hash until it has the required
// number of confirmations. It returns nil when timeout elapses or ctx is done.
func (c *Client) WaitForConfirmation(ctx context.Context, hash common.Hash, confirmations uint64, timeout time.Duration) *Receipt {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	interval := c.config.ReceiptPoll
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if receipt := c.confirmedReceipt(ctx, hash, confirmations); receipt != nil {
			return receipt
		}

		select {
		case <-ctx.Done():
			c.logger.Debug("Stopped waiting for confirmation",
				zap.String("tx_hash", hash.Hex()),
				zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Client) confirmedReceipt(ctx context.Context, hash common.Hash, confirmations uint64) *Receipt {
	receipt, err := c.GetReceipt(ctx, hash)
	if err != nil || receipt == nil {
		return nil
	}
	if confirmations <= 1 {
		return receipt
	}
	head, err := c.BlockNumber(ctx)
	if err != nil {
		return nil
	}
	if head >= receipt.BlockNumber && head-receipt.BlockNumber+1 >= confirmations {
		return receipt
	}
	return nil
}

// BlockNumber returns the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var head uint64
	err := c.retry(ctx, func() error {
		var err error
		head, err = c.backend.BlockNumber(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get latest block: %v", ErrChainUnavailable, err)
	}
	return head, nil
}

// PendingNonceAt returns the next nonce for account
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get nonce: %v", ErrChainUnavailable, err)
	}
	return nonce, nil
}

// EstimateGas estimates the gas needed for msg. Reverts are returned as *RevertError.
func (c *Client) EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error) {
	gas, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, ClassifyCallError(err)
	}
	return gas, nil
}

// CallContract executes a read-only call. Reverts are returned as *RevertError.
func (c *Client) CallContract(ctx context.Context, msg geth.CallMsg, blockNumber *big.Int) ([]byte, error) {
	out, err := c.backend.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, ClassifyCallError(err)
	}
	return out, nil
}

// Call packs method with args, calls contract and unpacks the result.
func (c *Client) Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	out, err := c.CallContract(ctx, geth.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if c.config.RetryInterval > 0 {
		b.InitialInterval = c.config.RetryInterval
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.config.MaxRetries), ctx))
}

// Package signer holds the relayer's single signing key. It signs and
// broadcasts contract calls and never exposes the key material.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/pkg/config"
)

// ErrNotConfigured is returned by SignAndSend when no usable signing secret was configured.
var ErrNotConfigured = errors.New("signing authority not configured")

var keyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Backend is the chain access the Authority needs
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg geth.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateFeeCeiling(ctx context.Context) *big.Int
	Broadcast(ctx context.Context, tx *types.Transaction) (common.Hash, error)
}

// Authority owns the relayer key. A zero-value key means the authority is
// disabled and every signing request fails with ErrNotConfigured.
type Authority struct {
	backend Backend
	cfg     *config.ChainConfig
	logger  *zap.Logger

	key     *ecdsa.PrivateKey
	address common.Address

	// serializes nonce assignment and broadcast
	mu sync.Mutex
}

// New parses secret and returns an Authority. It never fails: an absent or
// malformed secret produces a disabled Authority.
func New(secret string, backend Backend, cfg *config.ChainConfig, logger *zap.Logger) *Authority {
	a := &Authority{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
	}

	key, err := parseSecret(secret)
	if err != nil {
		logger.Warn("Relayer signing key unavailable, submissions disabled", zap.String("reason", err.Error()))
		return a
	}

	a.key = key
	a.address = crypto.PubkeyToAddress(key.PublicKey)
	logger.Info("Relayer signing key loaded", zap.String("relayer_address", a.address.Hex()))
	return a
}

func parseSecret(secret string) (*ecdsa.PrivateKey, error) {
	s := strings.TrimSpace(secret)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, errors.New("no secret configured")
	}
	if !keyPattern.MatchString(s) {
		return nil, fmt.Errorf("secret must be 32 bytes of hex, got %d characters", len(s))
	}
	if strings.Trim(s, "0") == "" {
		return nil, errors.New("secret is a placeholder")
	}

	key, err := crypto.HexToECDSA(s)
	if err != nil {
		// the library error may echo input; do not wrap it
		return nil, errors.New("secret is not a valid secp256k1 key")
	}
	return key, nil
}

// IsReady reports whether the authority can sign
func (a *Authority) IsReady() bool {
	return a.key != nil
}

// Address returns the relayer's public address; false when disabled.
func (a *Authority) Address() (common.Address, bool) {
	if a.key == nil {
		return common.Address{}, false
	}
	return a.address, true
}

// String prints the public address only
func (a *Authority) String() string {
	if a.key == nil {
		return "signer(disabled)"
	}
	return "signer(" + a.address.Hex() + ")"
}

// SignAndSend simulates, signs and broadcasts a call to method on contract.
// A contract rejection during simulation is returned as *ethereum.RevertError,
// node failures wrap ethereum.ErrChainUnavailable.
func (a *Authority) SignAndSend(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error) {
	if a.key == nil {
		return common.Hash{}, ErrNotConfigured
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	msg := geth.CallMsg{From: a.address, To: &contract, Data: data}
	if _, err := a.backend.CallContract(ctx, msg, nil); err != nil {
		return common.Hash{}, err
	}

	gasLimit := a.cfg.GasLimit
	if estimated, err := a.backend.EstimateGas(ctx, msg); err == nil {
		gasLimit = estimated * 120 / 100
	} else {
		a.logger.Warn("Gas estimation failed, using configured limit",
			zap.String("method", method),
			zap.Uint64("gas_limit", gasLimit),
			zap.Error(err))
	}

	nonce, err := a.backend.PendingNonceAt(ctx, a.address)
	if err != nil {
		return common.Hash{}, err
	}

	gasPrice := a.backend.EstimateFeeCeiling(ctx)
	if maxGasPrice := a.cfg.MaxGasPrice(); maxGasPrice != nil && gasPrice.Cmp(maxGasPrice) > 0 {
		a.logger.Warn("Suggested gas price exceeds maximum",
			zap.String("suggested", gasPrice.String()),
			zap.String("max", maxGasPrice.String()))
		gasPrice = maxGasPrice
	}

	opts, err := bind.NewKeyedTransactorWithChainID(a.key, big.NewInt(a.cfg.ChainID))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create transactor: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := opts.Signer(a.address, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	hash, err := a.backend.Broadcast(ctx, signed)
	if err != nil {
		return common.Hash{}, err
	}

	a.logger.Info("Transaction submitted",
		zap.String("method", method),
		zap.String("contract", contract.Hex()),
		zap.String("tx_hash", hash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas_limit", gasLimit),
		zap.String("gas_price", gasPrice.String()))

	return hash, nil
}

package contracts

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// MinimalForwarderABI is the ERC-2771 forwarder ABI used for relayed calls.
const MinimalForwarderABI = `[
	{"type":"function","name":"verify","stateMutability":"view",
	 "inputs":[{"name":"req","type":"tuple","components":[
	   {"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"},
	   {"name":"gas","type":"uint256"},{"name":"nonce","type":"uint256"},{"name":"data","type":"bytes"}]},
	   {"name":"signature","type":"bytes"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"execute","stateMutability":"payable",
	 "inputs":[{"name":"req","type":"tuple","components":[
	   {"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"},
	   {"name":"gas","type":"uint256"},{"name":"nonce","type":"uint256"},{"name":"data","type":"bytes"}]},
	   {"name":"signature","type":"bytes"}],
	 "outputs":[{"name":"","type":"bool"},{"name":"","type":"bytes"}]},
	{"type":"function","name":"getNonce","stateMutability":"view",
	 "inputs":[{"name":"from","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

const (
	VerifyMethod   = "verify"
	ExecuteMethod  = "execute"
	GetNonceMethod = "getNonce"
)

// ForwardRequest mirrors the forwarder's ForwardRequest struct
type ForwardRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Gas   *big.Int
	Nonce *big.Int
	Data  []byte
}

var (
	forwarderOnce sync.Once
	forwarderABI  *abi.ABI
	forwarderErr  error
)

// ForwarderABI returns the parsed forwarder ABI
func ForwarderABI() (*abi.ABI, error) {
	forwarderOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(MinimalForwarderABI))
		if err != nil {
			forwarderErr = err
			return
		}
		forwarderABI = &parsed
	})
	return forwarderABI, forwarderErr
}

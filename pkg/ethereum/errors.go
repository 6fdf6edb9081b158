package ethereum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrChainUnavailable marks transient node or network failures. Safe to retry.
	ErrChainUnavailable = errors.New("chain unavailable")
	// ErrInsufficientFunds is returned when the node rejects a transaction the sender cannot pay for.
	ErrInsufficientFunds = errors.New("insufficient funds for gas")
	// ErrAlreadyKnown is returned when the node already holds the exact transaction in its pool.
	ErrAlreadyKnown = errors.New("transaction already known")
)

// RevertError is returned when the target contract rejects a call.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

// ClassifyCallError converts an eth_call or eth_estimateGas error into a
// *RevertError when the node reports a revert, or wraps ErrChainUnavailable.
func ClassifyCallError(err error) error {
	if err == nil {
		return nil
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) > 0 {
			revert := &RevertError{Data: data}
			if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
				revert.Reason = reason
			}
			return revert
		}
	}

	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len("execution reverted"):], ":"))
		return &RevertError{Reason: reason}
	}
	if strings.Contains(strings.ToLower(msg), "insufficient funds") {
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	return fmt.Errorf("%w: %v", ErrChainUnavailable, err)
}

// ClassifySendError converts an eth_sendRawTransaction error.
func ClassifySendError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already known"), strings.Contains(msg, "known transaction"):
		return fmt.Errorf("%w: %v", ErrAlreadyKnown, err)
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	return ClassifyCallError(err)
}

func revertData(v any) []byte {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "0x") {
		return nil
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil
	}
	return data
}

// RevertReason returns the contract revert reason carried by err, if any.
func RevertReason(err error) (string, bool) {
	var revert *RevertError
	if errors.As(err, &revert) {
		return revert.Reason, true
	}
	return "", false
}

// IsZeroAddress reports whether addr is unset
func IsZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}

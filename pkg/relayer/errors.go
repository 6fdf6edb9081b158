package relayer

import (
	"errors"
	"strings"

	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/signer"
)

var (
	ErrNotFound               = errors.New("notification not found")
	ErrAlreadyRegistered      = errors.New("notification already registered on chain")
	ErrRelayerNotConfigured   = errors.New("relayer not configured")
	ErrInsufficientBalance    = errors.New("insufficient relayer balance to pay for gas")
	ErrContractNotConfigured  = errors.New("notification registry contract not configured")
	ErrForwarderNotConfigured = errors.New("forwarder contract not configured")
	ErrInvalidSignature       = errors.New("invalid forward request signature")
)

type revertRule struct {
	pattern string
	wrap    func(err error, message string) error
	message string
}

// revertRules maps known contract rejections to operator friendly messages.
// Order matters: the first matching pattern wins.
var revertRules = []revertRule{
	{
		pattern: "Usuario sem instituicao",
		wrap:    apperrors.ForbiddenError,
		message: "relayer institution is not registered in the registry contract",
	},
	{
		pattern: "Nao autorizado",
		wrap:    apperrors.ForbiddenError,
		message: "relayer lacks on-chain authorization",
	},
	{
		pattern: "insufficient funds",
		wrap:    apperrors.RecoveringError,
		message: ErrInsufficientBalance.Error(),
	},
}

// translate converts an orchestrator failure into a ServiceError carrying a
// user facing message. The original error stays reachable through Unwrap.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.ResourceNotFoundError(err, ErrNotFound.Error())
	case errors.Is(err, ErrAlreadyRegistered):
		return apperrors.ConflictError(err, err.Error())
	case errors.Is(err, ErrRelayerNotConfigured), errors.Is(err, signer.ErrNotConfigured):
		return apperrors.RecoveringError(err, ErrRelayerNotConfigured.Error())
	case errors.Is(err, ErrContractNotConfigured):
		return apperrors.RecoveringError(err, ErrContractNotConfigured.Error())
	case errors.Is(err, ErrForwarderNotConfigured):
		return apperrors.RecoveringError(err, ErrForwarderNotConfigured.Error())
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ethereum.ErrInsufficientFunds):
		return apperrors.RecoveringError(err, ErrInsufficientBalance.Error())
	case errors.Is(err, ErrInvalidSignature):
		return apperrors.BadRequestError(err, ErrInvalidSignature.Error())
	}

	if reason, ok := ethereum.RevertReason(err); ok {
		if rule, found := matchRevert(reason); found {
			return rule.wrap(err, rule.message)
		}
		if reason == "" {
			return apperrors.ConflictError(err, "transaction reverted by contract")
		}
		return apperrors.ConflictError(err, reason)
	}

	if errors.Is(err, ethereum.ErrChainUnavailable) {
		return apperrors.DependencyFailureError(err, "blockchain node unavailable")
	}

	if rule, found := matchRevert(err.Error()); found {
		return rule.wrap(err, rule.message)
	}

	return &apperrors.ServiceError{
		Category: apperrors.CategoryGeneralError,
		Message:  err.Error(),
		Err:      err,
	}
}

func matchRevert(text string) (revertRule, bool) {
	for _, rule := range revertRules {
		if strings.Contains(text, rule.pattern) {
			return rule, true
		}
	}
	return revertRule{}, false
}

// errorKind labels an error for the errors_total metric
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrRelayerNotConfigured), errors.Is(err, signer.ErrNotConfigured),
		errors.Is(err, ErrContractNotConfigured), errors.Is(err, ErrForwarderNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ethereum.ErrInsufficientFunds):
		return "insufficient_balance"
	case errors.Is(err, ethereum.ErrChainUnavailable):
		return "chain_unavailable"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	}
	if _, ok := ethereum.RevertReason(err); ok {
		return "reverted"
	}
	return "other"
}

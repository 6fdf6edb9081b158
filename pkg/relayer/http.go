package relayer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	apphttp "github.com/corneanet/notification-relayer/pkg/app/http"
	"github.com/corneanet/notification-relayer/pkg/auth"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/ethereum/contracts"
)

const (
	defaultRecordReason = "manual"
	signatureLength     = 65
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the relayer endpoints on r. The router must
// already run auth.Middleware; each route adds its own role check.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/notifications", func(r chi.Router) {
		r.With(auth.RequireRole(auth.HealthOperators...)).Post("/check-blockchain", apphttp.HandleError(h.reconcile))
		r.With(auth.RequireRole(auth.HealthOperators...)).Get("/check-blockchain", apphttp.HandleError(h.reconcile))
		r.With(auth.RequireRole(auth.CanNotify...)).Post("/{id}/blockchain", apphttp.HandleError(h.submit))
		r.With(auth.RequireRole(auth.HealthOperators...)).Get("/{id}", apphttp.HandleError(h.getNotification))
	})

	r.Route("/relay", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.AdminOnly...))
			r.Get("/status", apphttp.HandleError(h.status))
			r.Get("/balance", apphttp.HandleError(h.balance))
			r.Post("/record-balance", apphttp.HandleError(h.recordBalance))
			r.Get("/balance-history", apphttp.HandleError(h.balanceHistory))
			r.Get("/transactions", apphttp.HandleError(h.transactions))
		})
		r.With(auth.RequireRole(auth.HealthOperators...)).Post("/transaction", apphttp.HandleError(h.relay))
		r.Get("/check-balance", apphttp.HandleError(h.checkBalance))
	})
}

func (h *HTTP) submit(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "missing bearer token")
	}

	n, err := h.service.Submit(r.Context(), id, actorID)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, n)
	return nil
}

func (h *HTTP) getNotification(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	n, err := h.service.GetNotification(r.Context(), id)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, n)
	return nil
}

func (h *HTTP) reconcile(w http.ResponseWriter, r *http.Request) error {
	changes, err := h.service.Reconcile(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"updated": changes,
		"count":   len(changes),
	})
	return nil
}

type statusResponse struct {
	*Status
	Balance *balance.Balance `json:"balance"`
}

func (h *HTTP) status(w http.ResponseWriter, r *http.Request) error {
	resp := statusResponse{Status: h.service.Status(r.Context())}

	// the status page stays up when the node is unreachable
	if b, err := h.service.Balance(r.Context()); err == nil {
		resp.Balance = b
	} else {
		h.logger.Warn("Failed to fetch balance for status", zap.Error(err))
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) balance(w http.ResponseWriter, r *http.Request) error {
	b, err := h.service.Balance(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, b)
	return nil
}

func (h *HTTP) recordBalance(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := apphttp.DecodeJSON(r, &body); err != nil {
		return err
	}
	if body.Reason == "" {
		body.Reason = defaultRecordReason
	}

	sample, err := h.service.SampleBalance(r.Context(), body.Reason)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, sample)
	return nil
}

func (h *HTTP) balanceHistory(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}

	history, err := h.service.ListBalanceHistory(r.Context(), limit)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, history)
	return nil
}

func (h *HTTP) transactions(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}

	entries, err := h.service.ListLedger(r.Context(), limit)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, entries)
	return nil
}

func (h *HTTP) checkBalance(w http.ResponseWriter, r *http.Request) error {
	gas, err := queryInt(r, "gas")
	if err != nil {
		return err
	}
	if gas < 0 {
		return apperrors.BadRequestError(nil, "gas must be positive")
	}

	check, err := h.service.CheckBalance(r.Context(), uint64(gas))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, check)
	return nil
}

// forwardRequestBody is the JSON form of a forwarder request. Numbers may be
// sent as JSON numbers or decimal strings.
type forwardRequestBody struct {
	Request *struct {
		From  string      `json:"from"`
		To    string      `json:"to"`
		Value json.Number `json:"value"`
		Gas   json.Number `json:"gas"`
		Nonce json.Number `json:"nonce"`
		Data  string      `json:"data"`
	} `json:"request"`
	Signature string `json:"signature"`
}

func (h *HTTP) relay(w http.ResponseWriter, r *http.Request) error {
	var body forwardRequestBody
	if err := apphttp.DecodeJSON(r, &body); err != nil {
		return err
	}
	if body.Request == nil || body.Signature == "" {
		return apperrors.BadRequestError(nil, "request and signature are required")
	}

	req, err := body.toRelayRequest()
	if err != nil {
		return apperrors.BadRequestError(err, err.Error())
	}

	res, err := h.service.Relay(r.Context(), req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (b *forwardRequestBody) toRelayRequest() (*RelayRequest, error) {
	in := b.Request
	if !common.IsHexAddress(in.From) || !common.IsHexAddress(in.To) {
		return nil, fmt.Errorf("request from and to must be hex addresses")
	}

	value, err := parseUint256(in.Value, "value")
	if err != nil {
		return nil, err
	}
	gas, err := parseUint256(in.Gas, "gas")
	if err != nil {
		return nil, err
	}
	nonce, err := parseUint256(in.Nonce, "nonce")
	if err != nil {
		return nil, err
	}

	data := []byte{}
	if in.Data != "" && in.Data != "0x" {
		if data, err = hexutil.Decode(in.Data); err != nil {
			return nil, fmt.Errorf("request data must be 0x-prefixed hex")
		}
	}

	sig, err := hexutil.Decode(b.Signature)
	if err != nil || len(sig) != signatureLength {
		return nil, fmt.Errorf("signature must be %d bytes of 0x-prefixed hex", signatureLength)
	}

	return &RelayRequest{
		Request: contracts.ForwardRequest{
			From:  common.HexToAddress(in.From),
			To:    common.HexToAddress(in.To),
			Value: value,
			Gas:   gas,
			Nonce: nonce,
			Data:  data,
		},
		Signature: sig,
	}, nil
}

func parseUint256(n json.Number, field string) (*big.Int, error) {
	if n == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, fmt.Errorf("request %s must be an unsigned integer", field)
	}
	return v, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequestError(err, "invalid notification id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.BadRequestError(err, fmt.Sprintf("invalid %s parameter", name))
	}
	return v, nil
}

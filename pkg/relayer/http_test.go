package relayer_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	"github.com/corneanet/notification-relayer/pkg/auth"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/config"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/notification"
	"github.com/corneanet/notification-relayer/pkg/relayer"
	"github.com/corneanet/notification-relayer/pkg/relayer/mocks"
)

var validator = auth.NewJWTValidator(&config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef"})

func newTestServer(svc relayer.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(validator, zap.NewNop()))
		relayer.RegisterRoutes(r, svc, zap.NewNop())
	})
	return r
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := validator.IssueToken(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, h http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestSubmitHTTP_Success(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Submit(mock.Anything, int64(42), int64(7)).
		Return(&notification.Notification{
			ID:     42,
			Status: notification.StatusSubmitted,
			TxHash: "0xdeadbeef",
		}, nil).
		Once()

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/v1/notifications/42/blockchain", token(t, 7, auth.RoleHospital), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got notification.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "0xdeadbeef", got.TxHash)
	assert.False(t, got.Confirmed)
}

func TestSubmitHTTP_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "already registered",
			err:    apperrors.ConflictError(relayer.ErrAlreadyRegistered, relayer.ErrAlreadyRegistered.Error()),
			status: http.StatusConflict,
			msg:    relayer.ErrAlreadyRegistered.Error(),
		},
		{
			name:   "not configured",
			err:    apperrors.RecoveringError(relayer.ErrRelayerNotConfigured, "relayer not configured"),
			status: http.StatusServiceUnavailable,
			msg:    "relayer not configured",
		},
		{
			name:   "unauthorized on chain",
			err:    apperrors.ForbiddenError(&ethereum.RevertError{Reason: "Nao autorizado"}, "relayer lacks on-chain authorization"),
			status: http.StatusForbidden,
			msg:    "relayer lacks on-chain authorization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().Submit(mock.Anything, int64(1), int64(7)).Return(nil, tt.err).Once()

			rec := do(t, newTestServer(svc), http.MethodPost, "/api/v1/notifications/1/blockchain", token(t, 7, auth.RoleAdmin), "")
			assert.Equal(t, tt.status, rec.Code)
			got := decodeError(t, rec)
			assert.Equal(t, tt.msg, got.Error)
			assert.Equal(t, tt.status, got.Code)
		})
	}
}

func TestSubmitHTTP_RoleAndInputChecks(t *testing.T) {
	svc := mocks.NewService(t)
	h := newTestServer(svc)

	rec := do(t, h, http.MethodPost, "/api/v1/notifications/1/blockchain", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/notifications/1/blockchain", token(t, 7, auth.RoleSES), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/notifications/abc/blockchain", token(t, 7, auth.RoleHospital), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid notification id", decodeError(t, rec).Error)
}

func TestGetNotificationHTTP(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		GetNotification(mock.Anything, int64(5)).
		Return(nil, apperrors.ResourceNotFoundError(relayer.ErrNotFound, "notification not found")).
		Once()

	rec := do(t, newTestServer(svc), http.MethodGet, "/api/v1/notifications/5", token(t, 1, auth.RoleBancoOlhos), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckBlockchainHTTP(t *testing.T) {
	svc := mocks.NewService(t)
	id := int64(42)
	svc.EXPECT().
		Reconcile(mock.Anything).
		Return([]relayer.Change{{LedgerID: 1, TxHash: "0xdeadbeef", NotificationID: &id, Status: "confirmed", BlockNumber: 100}}, nil).
		Once()

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/v1/notifications/check-blockchain", token(t, 1, auth.RoleSES), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Updated []relayer.Change `json:"updated"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "0xdeadbeef", got.Updated[0].TxHash)
}

func TestRelayStatusHTTP(t *testing.T) {
	svc := mocks.NewService(t)
	addr := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	svc.EXPECT().Status(mock.Anything).Return(&relayer.Status{Configured: true, Address: &addr, ChainID: 1337}).Once()
	svc.EXPECT().Balance(mock.Anything).Return(nil, apperrors.DependencyFailureError(ethereum.ErrChainUnavailable, "blockchain node unavailable")).Once()

	h := newTestServer(svc)
	rec := do(t, h, http.MethodGet, "/api/v1/relay/status", token(t, 1, auth.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["configured"])
	assert.Equal(t, addr, got["address"])
	assert.Nil(t, got["balance"])

	rec = do(t, h, http.MethodGet, "/api/v1/relay/status", token(t, 1, auth.RoleHospital), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecordBalanceHTTP(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"default reason", "", "manual"},
		{"explicit reason", `{"reason":"top-up"}`, "top-up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().
				SampleBalance(mock.Anything, tt.reason).
				Return(&balance.Sample{BaseUnits: big.NewInt(5), Decimal: "0.000000000000000005", Reason: tt.reason}, nil).
				Once()

			rec := do(t, newTestServer(svc), http.MethodPost, "/api/v1/relay/record-balance", token(t, 1, auth.RoleAdmin), tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"balanceWei":"5"`)
		})
	}
}

func TestListHTTP_PassesLimits(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().ListLedger(mock.Anything, 10).Return(nil, nil).Once()
	svc.EXPECT().ListBalanceHistory(mock.Anything, 0).Return(nil, nil).Once()

	h := newTestServer(svc)
	admin := token(t, 1, auth.RoleAdmin)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/relay/transactions?limit=10", admin, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/relay/balance-history", admin, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/relay/transactions?limit=ten", admin, "").Code)
}

func TestCheckBalanceHTTP_AnyAuthenticatedUser(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		CheckBalance(mock.Anything, uint64(21000)).
		Return(&relayer.BalanceCheck{HasEnoughBalance: true, CurrentBalance: &balance.Balance{BaseUnits: "1", Decimal: "0.000000000000000001"}}, nil).
		Once()

	rec := do(t, newTestServer(svc), http.MethodGet, "/api/v1/relay/check-balance?gas=21000", token(t, 9, "viewer"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasEnoughBalance":true`)
}

func TestRelayHTTP(t *testing.T) {
	sig := "0x" + strings.Repeat("11", 65)
	body := `{
		"request": {
			"from": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			"to": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			"value": 0,
			"gas": "200000",
			"nonce": 3,
			"data": "0x0102"
		},
		"signature": "` + sig + `"
	}`

	svc := mocks.NewService(t)
	svc.EXPECT().
		Relay(mock.Anything, mock.MatchedBy(func(req *relayer.RelayRequest) bool {
			return req.Request.From == common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8") &&
				req.Request.Gas.Cmp(big.NewInt(200000)) == 0 &&
				req.Request.Nonce.Cmp(big.NewInt(3)) == 0 &&
				bytes.Equal(req.Request.Data, []byte{0x01, 0x02}) &&
				len(req.Signature) == 65
		})).
		Return(&relayer.RelayResult{TxHash: "0xfeed", LedgerID: 3}, nil).
		Once()

	h := newTestServer(svc)
	rec := do(t, h, http.MethodPost, "/api/v1/relay/transaction", token(t, 1, auth.RoleIML), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"txHash":"0xfeed"`)

	rec = do(t, h, http.MethodPost, "/api/v1/relay/transaction", token(t, 1, auth.RoleIML), `{"signature":"0x00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request and signature are required", decodeError(t, rec).Error)

	rec = do(t, h, http.MethodPost, "/api/v1/relay/transaction", token(t, 1, auth.RoleIML), strings.Replace(body, sig, "0x1234", 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/relay/transaction", token(t, 1, auth.RoleIML), "{invalid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON", decodeError(t, rec).Error)
}

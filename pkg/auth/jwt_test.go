package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/pkg/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestValidator(issuer string) *JWTValidator {
	return NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret, Issuer: issuer})
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	v := newTestValidator("sivo")

	token, err := v.IssueToken(7, RoleHospital, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleHospital, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v := newTestValidator("sivo")

	expired, err := v.IssueToken(7, RoleAdmin, -time.Hour)
	require.NoError(t, err)

	otherIssuer, err := newTestValidator("someone-else").IssueToken(7, RoleAdmin, time.Hour)
	require.NoError(t, err)

	wrongSecret, err := NewJWTValidator(&config.AuthConfig{JWTSecret: "ffffffffffffffffffffffffffffffff", Issuer: "sivo"}).
		IssueToken(7, RoleAdmin, time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7", Issuer: "sivo"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", Issuer: "sivo"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noRole, err := v.IssueToken(7, "", time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"issuer":       otherIssuer,
		"secret":       wrongSecret,
		"alg none":     noneAlg,
		"bad subject":  badSubject,
		"missing role": noRole,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.ValidateToken(token)
			require.Error(t, err)
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := newTestValidator("")
	var seen *AuthInfo
	handler := Middleware(v, zap.NewNop())(RequireRole(CanNotify...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AuthInfoFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(authorization string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Basic dXNlcjpwYXNz"))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer nope"))

	ses, err := v.IssueToken(3, RoleSES, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+ses))

	iml, err := v.IssueToken(4, RoleIML, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, do("Bearer "+iml))
	require.NotNil(t, seen)
	assert.Equal(t, int64(4), seen.UserID)
	assert.Equal(t, RoleIML, seen.Role)
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleBancoOlhos, HealthOperators...))
	assert.False(t, HasRole(RoleBancoOlhos, CanNotify...))
	assert.False(t, HasRole("", AdminOnly...))
}

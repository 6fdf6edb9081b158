package config

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
chain:
  rpc_url: http://localhost:8545
  chain_id: 31337
auth:
  jwt_secret: 0123456789abcdef0123
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "relayer", cfg.Database.Database)
	assert.Equal(t, uint64(300000), cfg.Relayer.EstimatedGas)
	assert.Equal(t, uint64(1), cfg.Relayer.Confirmations)
	assert.Equal(t, "@every 30s", cfg.Relayer.ReconcileSchedule)
	assert.Equal(t, int32(18), cfg.Relayer.NativeDecimals)
	assert.Equal(t, 0, cfg.Chain.FeeFloor().Cmp(big.NewInt(20_000_000_000)))
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_RELAYER_KEY", "0xabc")
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(minimalYAML + `
  issuer: relayer-test
database:
  password: ${TEST_DB_PASSWORD}
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "relayer-test", cfg.Auth.Issuer)

	cfg, err = Parse([]byte(`
chain:
  rpc_url: http://localhost:8545
  chain_id: 1
  relayer_private_key: ${TEST_RELAYER_KEY}
auth:
  jwt_secret: 0123456789abcdef0123
`))
	require.NoError(t, err)
	assert.Equal(t, "0xabc", cfg.Chain.RelayerPrivateKey)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing rpc url",
			yaml: "chain:\n  chain_id: 1\nauth:\n  jwt_secret: 0123456789abcdef0123\n",
		},
		{
			name: "bad registry address",
			yaml: "chain:\n  rpc_url: http://localhost:8545\n  chain_id: 1\n  registry_contract: not-an-address\nauth:\n  jwt_secret: 0123456789abcdef0123\n",
		},
		{
			name: "short jwt secret",
			yaml: "chain:\n  rpc_url: http://localhost:8545\n  chain_id: 1\nauth:\n  jwt_secret: short\n",
		},
		{
			name: "non numeric gas cap",
			yaml: "chain:\n  rpc_url: http://localhost:8545\n  chain_id: 1\n  max_gas_price_wei: lots\nauth:\n  jwt_secret: 0123456789abcdef0123\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

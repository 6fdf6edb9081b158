package config

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the relayer configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Chain      ChainConfig      `yaml:"chain"`
	Relayer    RelayerConfig    `yaml:"relayer"`
	Auth       AuthConfig       `yaml:"auth"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"75s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost" validate:"required"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user" default:"postgres"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"relayer" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// ChainConfig contains settings for the EVM chain the relayer submits to.
type ChainConfig struct {
	RPCURL            string `yaml:"rpc_url" validate:"required,url"`
	ChainID           int64  `yaml:"chain_id" validate:"required,min=1"`
	RelayerPrivateKey string `yaml:"relayer_private_key"`
	// Contract addresses are optional; an empty address disables the operations that need it.
	RegistryContract  string        `yaml:"registry_contract" validate:"omitempty,eth_addr"`
	ForwarderContract string        `yaml:"forwarder_contract" validate:"omitempty,eth_addr"`
	GasLimit          uint64        `yaml:"gas_limit" default:"500000" validate:"min=21000"`
	MaxGasPriceWei    string        `yaml:"max_gas_price_wei" default:"100000000000" validate:"numeric"`
	FeeFloorWei       string        `yaml:"fee_floor_wei" default:"20000000000" validate:"numeric"`
	MaxRetries        uint64        `yaml:"max_retries" default:"3"`
	RetryInterval     time.Duration `yaml:"retry_interval" default:"500ms"`
	ReceiptPoll       time.Duration `yaml:"receipt_poll_interval" default:"2s"`
	RequestTimeout    time.Duration `yaml:"request_timeout" default:"30s"`
}

// RelayerConfig contains submission and reconciliation settings
type RelayerConfig struct {
	EstimatedGas        uint64        `yaml:"estimated_gas" default:"300000" validate:"min=1"`
	Confirmations       uint64        `yaml:"confirmations" default:"1" validate:"min=1"`
	ConfirmationTimeout time.Duration `yaml:"confirmation_timeout" default:"60s"`
	ReconcileSchedule   string        `yaml:"reconcile_schedule" default:"@every 30s" validate:"required"`
	BalanceSchedule     string        `yaml:"balance_schedule" default:"@every 10m" validate:"required"`
	JobTimeout          time.Duration `yaml:"job_timeout" default:"2m"`
	StalledAfter        time.Duration `yaml:"stalled_after" default:"10m"`
	NativeDecimals      int32         `yaml:"native_decimals" default:"18" validate:"min=0,max=36"`
}

// AuthConfig contains API token verification settings
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" validate:"required,min=16"`
	Issuer    string `yaml:"issuer"`
}

// MonitoringConfig contains metrics endpoint settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// MaxGasPrice returns the configured fee cap in wei.
func (c *ChainConfig) MaxGasPrice() *big.Int {
	return parseWei(c.MaxGasPriceWei)
}

// FeeFloor returns the fallback fee ceiling used when the node's oracle is unreachable.
func (c *ChainConfig) FeeFloor() *big.Int {
	return parseWei(c.FeeFloorWei)
}

func parseWei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return v
}

// Load reads the YAML file at path, expands ${VAR} references from the
// environment, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Chain.MaxGasPrice() == nil {
		return fmt.Errorf("invalid config: chain.max_gas_price_wei is not an integer")
	}
	if cfg.Chain.FeeFloor() == nil {
		return fmt.Errorf("invalid config: chain.fee_floor_wei is not an integer")
	}
	return nil
}

//go:build ignore

// This script prints the relayer address and its native balance
// Run with: go run scripts/check-balance.go -config config.yaml

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/config"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/signer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	gas := flag.Uint64("gas", 0, "Gas units to check affordability for (defaults to relayer.estimated_gas)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	client, err := ethereum.NewClient(&cfg.Chain, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", cfg.Chain.RPCURL, err)
		os.Exit(1)
	}
	defer client.Close()

	authority := signer.New(cfg.Chain.RelayerPrivateKey, client, &cfg.Chain, logger)
	addr, ok := authority.Address()
	if !ok {
		fmt.Println("✗ No relayer key configured")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	monitor := balance.NewMonitor(client, authority, nil, cfg.Relayer.NativeDecimals, logger)
	bal, err := monitor.Balance(ctx)
	if err != nil {
		fmt.Printf("✗ %s: Error - %v\n", addr.Hex(), err)
		os.Exit(1)
	}

	units := *gas
	if units == 0 {
		units = cfg.Relayer.EstimatedGas
	}

	fmt.Println("=== Relayer Balance Check ===")
	fmt.Printf("Chain: %d (%s)\n\n", cfg.Chain.ChainID, cfg.Chain.RPCURL)
	fmt.Printf("✓ %s: %s (%s base units)\n", addr.Hex(), bal.Decimal, bal.BaseUnits)
	fmt.Printf("  Enough for %d gas: %t\n", units, monitor.HasSufficientBalance(ctx, units))
}

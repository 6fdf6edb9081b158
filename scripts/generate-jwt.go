//go:build ignore

// This script issues an API token signed with the relayer's auth secret
// Run with: go run scripts/generate-jwt.go -config config.yaml -user 1 -role admin

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/corneanet/notification-relayer/pkg/auth"
	"github.com/corneanet/notification-relayer/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	userID := flag.Int64("user", 1, "User id placed in the sub claim")
	role := flag.String("role", auth.RoleAdmin, "Role claim")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTValidator(&cfg.Auth).IssueToken(*userID, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Relayer API Token ===")
	fmt.Printf("User: %d  Role: %s  Expires: %s\n\n", *userID, *role, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Use with: curl -H 'Authorization: Bearer <token>' http://localhost:8080/api/v1/relay/status")
}

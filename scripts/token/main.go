package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/riskmap/api"
	"github.com/garnizeh/riskmap/internal/config"
)

// token prints a bearer token signed with the configured secret, or with
// -hash a bcrypt hash suitable for RISK_ADMIN_PASSWORD_HASH.
func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	subject := flag.String("sub", api.AdminSubject, "Token subject")
	ttl := flag.Duration("ttl", 0, "Token lifetime (default from config)")
	hash := flag.String("hash", "", "Print a bcrypt hash of this password instead of a token")
	flag.Parse()

	if *hash != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(*hash), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hash error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
		return
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	d := cfg.TokenDuration
	if *ttl > 0 {
		d = *ttl
	}
	tok, exp, err := api.SignToken(cfg.JWTSecret, *subject, d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Token error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", exp.UTC().Format(time.RFC3339))
	fmt.Println(tok)
}

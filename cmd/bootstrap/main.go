// Package main is the entry point for the identity store bootstrap binary.
// It initializes the identity document when none exists — default
// organization, owner account, platform operator, and a default key set —
// and prints the generated credentials exactly once. Running it against an
// existing document is a safe no-op that reports the document contents
// instead. Subcommands are dispatched via a simple switch on os.Args so the
// binary's full CLI surface is readable in one place.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/askbase/identity-store/internal/config"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/identity"
	"github.com/askbase/identity-store/internal/store"
	"github.com/askbase/identity-store/internal/telemetry"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	command := "init"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch command {
	case "init":
		return initDocument(cfg)
	case "overview":
		return printOverview(cfg)
	case "version":
		fmt.Printf("AskBase Identity Store v%s\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command: %s\nAvailable commands: init, overview, version", command)
	}
}

func initDocument(cfg *config.Config) error {
	logger := telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level)

	if cfg.Crypto.EncryptionSecret == config.DevEncryptionSecret {
		logger.Warn("running with the development encryption secret; set ENCRYPTION_SECRET before production use")
	}

	cipher := crypto.NewValueCipher(cfg.Crypto.EncryptionSecret, cfg.Crypto.GetHashingSecret())
	st := store.New(cfg, cipher, logger)

	doc, secrets, err := st.LoadOrInit()
	if err != nil {
		return err
	}

	if secrets == nil {
		logger.Info("identity document already initialized",
			"path", cfg.Store.Path,
			"users", len(doc.Users),
			"organizations", len(doc.Organizations))
		return nil
	}

	// The one and only time these credentials are readable.
	fmt.Println("==========================================================")
	fmt.Println("Identity Document Bootstrapped")
	fmt.Println("==========================================================")
	fmt.Printf("\nOwner:    %s\n", secrets.OwnerEmail)
	fmt.Printf("Password: %s\n", secrets.OwnerPassword)
	fmt.Printf("\nOperator: %s\n", secrets.OperatorEmail)
	fmt.Printf("Password: %s\n", secrets.OperatorPassword)
	fmt.Println("\nDefault API keys:")
	for _, key := range secrets.RevealedKeys {
		fmt.Printf("  %s\n", key)
	}
	fmt.Println("\nThese credentials are not retrievable again. Store them now.")
	fmt.Println("==========================================================")
	return nil
}

func printOverview(cfg *config.Config) error {
	logger := telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level)

	cipher := crypto.NewValueCipher(cfg.Crypto.EncryptionSecret, cfg.Crypto.GetHashingSecret())
	st := store.New(cfg, cipher, logger)
	svc := identity.New(cfg, st, cipher, logger)

	overview, err := svc.GetPlatformOverview()
	if err != nil {
		return err
	}

	fmt.Printf("%-38s %-24s %10s %8s %6s\n", "ID", "NAME", "BALANCE", "MEMBERS", "KEYS")
	for _, org := range overview.Organizations {
		name := org.Name
		if org.Internal {
			name += " (internal)"
		}
		fmt.Printf("%-38s %-24s %10.2f %8d %6d\n",
			org.ID, name, org.CreditBalance, org.ActiveMembers, org.TotalKeys)
	}
	fmt.Printf("\nTotal credit balance: %.2f\n", overview.TotalCreditBalance)
	fmt.Printf("Billed (excl. top-ups): %.2f, net revenue: %.2f over %d requests\n",
		overview.Usage.TotalBilled, overview.Usage.NetRevenue, overview.Usage.TotalRequests)
	fmt.Printf("Top-ups: %.2f across %d entries\n", overview.TopUps.TotalTopUps, overview.TopUps.Count)
	return nil
}

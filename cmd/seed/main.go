// Command seed creates a wallet in the configured store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"wallet-service/config"
	"wallet-service/internal/adapter/http/dto"
	"wallet-service/internal/adapter/storage"
	"wallet-service/internal/core/domain"
	"wallet-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config file")
		idFlag  = flag.String("id", "", "wallet UUID (random if empty)")
		balance = flag.String("balance", "0", "initial balance")
	)
	flag.Parse()

	if err := run(*cfgPath, *idFlag, *balance); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, idFlag, balanceFlag string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Driver == config.DriverMemory {
		return fmt.Errorf("the memory driver keeps nothing after exit, pick postgres or sqlite")
	}

	id := uuid.New()
	if idFlag != "" {
		if id, err = uuid.Parse(idFlag); err != nil {
			return fmt.Errorf("invalid -id: %w", err)
		}
	}

	amount, err := decimal.NewFromString(balanceFlag)
	if err != nil {
		return fmt.Errorf("invalid -balance: %w", err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("invalid -balance: must not be negative")
	}
	if !domain.FitsBalance(amount) {
		return fmt.Errorf("invalid -balance: at most 15 integer and 4 fractional digits")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := storage.SeedWallets(ctx, backend.Store, map[uuid.UUID]decimal.Decimal{id: amount}); err != nil {
		return err
	}

	wallet, err := backend.Store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("read back wallet: %w", err)
	}

	out, err := json.MarshalIndent(dto.NewWalletResponse(wallet), "", "  ")
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

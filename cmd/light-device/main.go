// Command light-device is a reference light device that serves its
// commissioning credentials and descriptive metadata.
//
// At startup it validates the configuration, derives the SPAKE2+ verifier
// from the passcode and opens the user label store. It then either waits
// for a shutdown signal or runs an interactive console.
//
// Usage:
//
//	light-device [flags]
//
// Flags:
//
//	-config string         Configuration file path (YAML)
//	-passcode string       8-digit setup passcode (default 20202021)
//	-passcode-prompt       Read the passcode from the terminal
//	-discriminator int     Discriminator for commissioning (0-4095, default 3840)
//	-iterations int        PBKDF iteration count (1000-100000, default 1000)
//	-verifier-only         Do not keep the passcode after deriving the verifier
//	-vendor-id int         Vendor ID (default 65521)
//	-product-id int        Product ID (default 32768)
//	-hw-version int        Hardware version (default 1234)
//	-serial string         Serial number (random UUID if empty)
//	-storage string        Storage backend: memory, file, bolt (default "memory")
//	-storage-path string   Storage file path
//	-log-level string      Log level: debug, info, warn, error (default "info")
//	-interactive           Start the interactive console
//
// Examples:
//
//	# Start with the demo credentials
//	light-device
//
//	# Persist user labels in a bolt database and open the console
//	light-device -storage bolt -storage-path /var/lib/light/labels.db -interactive
//
//	# Enter the passcode at startup and keep only the verifier
//	light-device -passcode-prompt -verifier-only -config /etc/light/device.yaml
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mash-protocol/light-device/cmd/light-device/interactive"
	"github.com/mash-protocol/light-device/pkg/commissioning"
	"github.com/mash-protocol/light-device/pkg/deviceinfo"
)

func main() {
	cfg, err := ParseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.PasscodePrompt {
		p, err := promptPasscode(os.Stdin, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Passcode = p
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}
	cfg.ApplyDefaults()

	if err := run(cfg); err != nil {
		slog.Error("light-device failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	creds, err := initCredentials(&cfg)
	if err != nil {
		return fmt.Errorf("init credentials: %w", err)
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	opts, err := cfg.ProviderOptions()
	if err != nil {
		return err
	}
	provider, err := deviceinfo.NewProvider(store, opts...)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	logCommissioningInfo(logger, &cfg, creds)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Interactive {
		console, err := interactive.New(creds, provider, interactive.Identity{
			VendorID:        cfg.VendorID,
			ProductID:       cfg.ProductID,
			HardwareVersion: cfg.HardwareVersion,
			SerialNumber:    cfg.SerialNumber,
		})
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(console.Stderr(), &slog.HandlerOptions{Level: level})))
		console.Run(ctx, cancel)
		return nil
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func logCommissioningInfo(logger *slog.Logger, cfg *Config, creds *commissioning.CredentialStore) {
	disc, _ := creds.Discriminator()
	iter, _ := creds.IterationCount()

	logger.Info("light device ready",
		"vendor_id", fmt.Sprintf("0x%04X", cfg.VendorID),
		"product_id", fmt.Sprintf("0x%04X", cfg.ProductID),
		"hw_version", cfg.HardwareVersion,
		"serial", cfg.SerialNumber,
		"storage", cfg.Storage.Backend,
	)
	logger.Info("commissionable",
		"discriminator", disc,
		"iterations", iter,
		"verifier_only", cfg.VerifierOnly,
	)

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		salt := make([]byte, commissioning.PBKDFMaxSaltLength)
		n, _ := creds.Salt(salt)
		verifier := make([]byte, commissioning.VerifierSize)
		m, _ := creds.Verifier(verifier)
		logger.Debug("pbkdf parameters",
			"salt", hex.EncodeToString(salt[:n]),
			"verifier", hex.EncodeToString(verifier[:m]),
		)
	}
}

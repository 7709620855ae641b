package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mash-protocol/light-device/pkg/commissioning"
	"github.com/mash-protocol/light-device/pkg/persistence"
)

// openStore opens the configured user label backend. The returned close
// function is never nil.
func openStore(cfg StorageConfig) (persistence.KVStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendMemory:
		return persistence.NewMemoryStore(), noop, nil
	case BackendFile:
		s, err := persistence.OpenFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case BackendBolt:
		s, err := persistence.OpenBoltStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// initCredentials builds the commissioning credentials from cfg.
func initCredentials(cfg *Config, opts ...commissioning.CredentialOption) (*commissioning.CredentialStore, error) {
	store := commissioning.NewCredentialStore(opts...)
	passcode := commissioning.Passcode(cfg.Passcode)

	var err error
	if cfg.VerifierOnly {
		err = store.InitVerifierOnly(cfg.Iterations, &passcode, cfg.Discriminator)
	} else {
		err = store.Init(cfg.Iterations, &passcode, cfg.Discriminator)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// promptPasscode reads a passcode without echo when in is a terminal, and
// as a plain line otherwise.
func promptPasscode(in *os.File, out io.Writer) (uint32, error) {
	fmt.Fprint(out, "Passcode: ")

	var line string
	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return 0, fmt.Errorf("read passcode: %w", err)
		}
		line = string(b)
	} else {
		s, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && s == "" {
			return 0, fmt.Errorf("read passcode: %w", err)
		}
		line = s
	}

	p, err := commissioning.ParsePasscode(strings.TrimSpace(line))
	if err != nil {
		return 0, err
	}
	return uint32(p), nil
}

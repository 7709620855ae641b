package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/light-device/pkg/commissioning"
	"github.com/mash-protocol/light-device/pkg/deviceinfo"
	"github.com/mash-protocol/light-device/pkg/wire"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
)

// Config holds the device configuration.
type Config struct {
	Passcode      uint32 `yaml:"passcode"`
	Discriminator uint16 `yaml:"discriminator"`
	Iterations    uint32 `yaml:"iterations"`
	VerifierOnly  bool   `yaml:"verifier_only"`

	VendorID        uint16 `yaml:"vendor_id"`
	ProductID       uint16 `yaml:"product_id"`
	HardwareVersion uint16 `yaml:"hardware_version"`
	SerialNumber    string `yaml:"serial_number"`

	Storage StorageConfig `yaml:"storage"`

	FixedLabels []LabelConfig `yaml:"fixed_labels"`
	Locales     []string      `yaml:"locales"`

	LogLevel    string `yaml:"log_level"`
	Interactive bool   `yaml:"interactive"`

	// Not read from the config file.
	ConfigFile     string `yaml:"-"`
	PasscodePrompt bool   `yaml:"-"`
}

// StorageConfig selects the user label backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LabelConfig is a fixed label entry in the config file.
type LabelConfig struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// DefaultConfig returns the demo configuration.
func DefaultConfig() Config {
	return Config{
		Passcode:        20202021,
		Discriminator:   3840,
		Iterations:      commissioning.PBKDFMinIterations,
		VendorID:        0xFFF1,
		ProductID:       0x8000,
		HardwareVersion: 1234,
		Storage:         StorageConfig{Backend: BackendMemory},
		LogLevel:        "info",
	}
}

// LoadConfigFile overlays the YAML document at path onto cfg.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ParseConfig builds the configuration from defaults, the optional -config
// file and explicitly set flags, in that order of increasing precedence.
func ParseConfig(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("light-device", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flags         = DefaultConfig()
		discriminator uint
		vendorID      uint
		productID     uint
		hwVersion     uint
	)
	fs.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	fs.Func("passcode", "8-digit setup passcode (default 20202021)", func(s string) error {
		p, err := commissioning.ParsePasscode(s)
		flags.Passcode = uint32(p)
		return err
	})
	fs.BoolVar(&flags.PasscodePrompt, "passcode-prompt", false, "Read the passcode from the terminal")
	fs.UintVar(&discriminator, "discriminator", uint(flags.Discriminator), "Discriminator for commissioning (0-4095)")
	fs.Func("iterations", "PBKDF iteration count (default 1000)", func(s string) error {
		var n uint32
		_, err := fmt.Sscan(s, &n)
		flags.Iterations = n
		return err
	})
	fs.BoolVar(&flags.VerifierOnly, "verifier-only", false, "Do not keep the passcode after deriving the verifier")
	fs.UintVar(&vendorID, "vendor-id", uint(flags.VendorID), "Vendor ID")
	fs.UintVar(&productID, "product-id", uint(flags.ProductID), "Product ID")
	fs.UintVar(&hwVersion, "hw-version", uint(flags.HardwareVersion), "Hardware version")
	fs.StringVar(&flags.SerialNumber, "serial", "", "Device serial number (random UUID if empty)")
	fs.StringVar(&flags.Storage.Backend, "storage", flags.Storage.Backend, "Storage backend: memory, file, bolt")
	fs.StringVar(&flags.Storage.Path, "storage-path", "", "Storage file path (file and bolt backends)")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&flags.Interactive, "interactive", false, "Start the interactive console")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if discriminator > 0xFFFF || vendorID > 0xFFFF || productID > 0xFFFF || hwVersion > 0xFFFF {
		return Config{}, errors.New("numeric flag exceeds 16 bits")
	}
	flags.Discriminator = uint16(discriminator)
	flags.VendorID = uint16(vendorID)
	flags.ProductID = uint16(productID)
	flags.HardwareVersion = uint16(hwVersion)

	cfg := DefaultConfig()
	if flags.ConfigFile != "" {
		if err := LoadConfigFile(flags.ConfigFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrides := map[string]func(){
		"config":          func() { cfg.ConfigFile = flags.ConfigFile },
		"passcode":        func() { cfg.Passcode = flags.Passcode },
		"passcode-prompt": func() { cfg.PasscodePrompt = flags.PasscodePrompt },
		"discriminator":   func() { cfg.Discriminator = flags.Discriminator },
		"iterations":      func() { cfg.Iterations = flags.Iterations },
		"verifier-only":   func() { cfg.VerifierOnly = flags.VerifierOnly },
		"vendor-id":       func() { cfg.VendorID = flags.VendorID },
		"product-id":      func() { cfg.ProductID = flags.ProductID },
		"hw-version":      func() { cfg.HardwareVersion = flags.HardwareVersion },
		"serial":          func() { cfg.SerialNumber = flags.SerialNumber },
		"storage":         func() { cfg.Storage.Backend = flags.Storage.Backend },
		"storage-path":    func() { cfg.Storage.Path = flags.Storage.Path },
		"log-level":       func() { cfg.LogLevel = flags.LogLevel },
		"interactive":     func() { cfg.Interactive = flags.Interactive },
	}
	fs.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	return cfg, nil
}

// ApplyDefaults fills in values derived at startup.
func (c *Config) ApplyDefaults() {
	if c.SerialNumber == "" {
		c.SerialNumber = uuid.NewString()
	}
}

// Validate checks the configuration before anything is initialised.
func (c *Config) Validate() error {
	if err := commissioning.Passcode(c.Passcode).Validate(); err != nil {
		return err
	}
	if c.Discriminator > commissioning.DiscriminatorMax {
		return fmt.Errorf("discriminator must be 0-%d, got %d", commissioning.DiscriminatorMax, c.Discriminator)
	}
	if c.Iterations < commissioning.PBKDFMinIterations || c.Iterations > commissioning.PBKDFMaxIterations {
		return fmt.Errorf("iterations must be %d-%d, got %d",
			commissioning.PBKDFMinIterations, commissioning.PBKDFMaxIterations, c.Iterations)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendBolt:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %s needs a path", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := c.ProviderOptions(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// ProviderOptions converts the configured catalogs into provider options.
func (c *Config) ProviderOptions() ([]deviceinfo.ProviderOption, error) {
	var opts []deviceinfo.ProviderOption

	if len(c.FixedLabels) > 0 {
		labels := make([]deviceinfo.Label, 0, len(c.FixedLabels))
		for _, l := range c.FixedLabels {
			label, err := wire.NewLabelRecord(l.Name, l.Value)
			if err != nil {
				return nil, fmt.Errorf("fixed label %q: %w", l.Name, err)
			}
			labels = append(labels, label)
		}
		opts = append(opts, deviceinfo.WithFixedLabels(labels...))
	}

	if len(c.Locales) > 0 {
		for _, loc := range c.Locales {
			if loc == "" || len(loc) > deviceinfo.MaxActiveLocaleLength {
				return nil, fmt.Errorf("%w: %q", deviceinfo.ErrInvalidLocale, loc)
			}
		}
		opts = append(opts, deviceinfo.WithSupportedLocales(c.Locales...))
	}

	return opts, nil
}

// Package interactive provides the interactive command-line interface
// for the light device.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/light-device/pkg/commissioning"
	"github.com/mash-protocol/light-device/pkg/deviceinfo"
	"github.com/mash-protocol/light-device/pkg/wire"
)

// Identity is the basic information shown by the creds command.
type Identity struct {
	VendorID        uint16
	ProductID       uint16
	HardwareVersion uint16
	SerialNumber    string
}

// Device handles interactive mode for light-device.
type Device struct {
	creds    *commissioning.CredentialStore
	provider *deviceinfo.Provider
	identity Identity

	rl  *readline.Instance
	out io.Writer
}

// New creates a new interactive device handler.
func New(creds *commissioning.CredentialStore, provider *deviceinfo.Provider, identity Identity) (*Device, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "device> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	d := newDevice(creds, provider, identity, rl.Stdout())
	d.rl = rl
	return d, nil
}

func newDevice(creds *commissioning.CredentialStore, provider *deviceinfo.Provider, identity Identity, out io.Writer) *Device {
	return &Device{
		creds:    creds,
		provider: provider,
		identity: identity,
		out:      out,
	}
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("creds"),
	readline.PcItem("fixed"),
	readline.PcItem("labels"),
	readline.PcItem("setlabel"),
	readline.PcItem("append"),
	readline.PcItem("dellabel"),
	readline.PcItem("clear"),
	readline.PcItem("locales"),
	readline.PcItem("calendars"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// Stdout returns a writer that properly coordinates with the readline input.
func (d *Device) Stdout() io.Writer {
	return d.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (d *Device) Stderr() io.Writer {
	return d.rl.Stderr()
}

// Run starts the interactive command loop.
func (d *Device) Run(ctx context.Context, cancel context.CancelFunc) {
	defer d.rl.Close()

	d.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := d.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(d.out, "Exiting...")
			cancel()
			return
		}

		if !d.execute(line) {
			cancel()
			return
		}
	}
}

// execute runs one command line. It returns false when the console should
// exit.
func (d *Device) execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		d.printHelp()

	case "creds", "c":
		d.cmdCreds()

	case "fixed", "f":
		d.cmdFixed(args)

	case "labels", "l":
		d.cmdLabels(args)

	case "setlabel":
		d.cmdSetLabel(args)

	case "append":
		d.cmdAppend(args)

	case "dellabel":
		d.cmdDelLabel(args)

	case "clear":
		d.cmdClear(args)

	case "locales":
		d.cmdLocales()

	case "calendars":
		d.cmdCalendars()

	case "quit", "exit", "q":
		fmt.Fprintln(d.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(d.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (d *Device) printHelp() {
	fmt.Fprintln(d.out, `
Light Device Commands:
  Commissioning:
    creds                              - Show commissioning credentials

  Labels:
    fixed <ep>                         - List fixed labels of an endpoint
    labels <ep>                        - List user labels of an endpoint
    setlabel <ep> <idx> <name> <value> - Store a user label at an index
    append <ep> <name> <value>         - Append a user label
    dellabel <ep> <idx>                - Delete the user label at an index
    clear <ep>                         - Delete all user labels

  Localization:
    locales                            - List supported locales
    calendars                          - List supported calendar types

  General:
    help                               - Show this help
    quit                               - Exit device`)
}

func (d *Device) cmdCreds() {
	fmt.Fprintln(d.out, "\nCommissioning Credentials")
	fmt.Fprintln(d.out, "-------------------------------------------")

	disc, err := d.creds.Discriminator()
	if err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	iter, _ := d.creds.IterationCount()

	salt := make([]byte, commissioning.PBKDFMaxSaltLength)
	saltLen, _ := d.creds.Salt(salt)
	verifier := make([]byte, commissioning.VerifierSize)
	verLen, _ := d.creds.Verifier(verifier)

	fmt.Fprintf(d.out, "  Vendor ID:      0x%04X\n", d.identity.VendorID)
	fmt.Fprintf(d.out, "  Product ID:     0x%04X\n", d.identity.ProductID)
	fmt.Fprintf(d.out, "  HW Version:     %d\n", d.identity.HardwareVersion)
	fmt.Fprintf(d.out, "  Serial Number:  %s\n", d.identity.SerialNumber)
	fmt.Fprintf(d.out, "  Discriminator:  %d\n", disc)
	fmt.Fprintf(d.out, "  Iterations:     %d\n", iter)
	fmt.Fprintf(d.out, "  Salt:           %s\n", hex.EncodeToString(salt[:saltLen]))
	fmt.Fprintf(d.out, "  Verifier:       %s\n", hex.EncodeToString(verifier[:verLen]))

	if p, err := d.creds.Passcode(); err == nil {
		fmt.Fprintf(d.out, "  Passcode:       %s\n", p)
	} else if errors.Is(err, commissioning.ErrNotImplemented) {
		fmt.Fprintln(d.out, "  Passcode:       (not retained)")
	}
	fmt.Fprintln(d.out)
}

func (d *Device) cmdFixed(args []string) {
	ep, ok := d.parseEndpoint(args, "fixed <ep>")
	if !ok {
		return
	}
	it := d.provider.IterateFixedLabel(ep)
	fmt.Fprintf(d.out, "Fixed labels on endpoint %d (%d):\n", ep, it.Count())
	for l := range deviceinfo.All[deviceinfo.Label](it) {
		fmt.Fprintf(d.out, "  %s\n", l)
	}
}

func (d *Device) cmdLabels(args []string) {
	ep, ok := d.parseEndpoint(args, "labels <ep>")
	if !ok {
		return
	}
	it, err := d.provider.IterateUserLabel(ep)
	if err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "User labels on endpoint %d (%d):\n", ep, it.Count())
	i := 0
	for l := range deviceinfo.All[deviceinfo.Label](it) {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, l)
		i++
	}
	if i < it.Count() {
		fmt.Fprintf(d.out, "  (%d unreadable)\n", it.Count()-i)
	}
}

func (d *Device) cmdSetLabel(args []string) {
	if len(args) < 4 {
		fmt.Fprintln(d.out, "Usage: setlabel <ep> <idx> <name> <value>")
		return
	}
	ep, ok := d.parseEndpoint(args, "setlabel <ep> <idx> <name> <value>")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(d.out, "Invalid index: %v\n", err)
		return
	}
	l, err := wire.NewLabelRecord(args[2], strings.Join(args[3:], " "))
	if err != nil {
		fmt.Fprintf(d.out, "Invalid label: %v\n", err)
		return
	}
	if err := d.provider.SetUserLabelAt(ep, idx, l); err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "OK")
}

func (d *Device) cmdAppend(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(d.out, "Usage: append <ep> <name> <value>")
		return
	}
	ep, ok := d.parseEndpoint(args, "append <ep> <name> <value>")
	if !ok {
		return
	}
	l, err := wire.NewLabelRecord(args[1], strings.Join(args[2:], " "))
	if err != nil {
		fmt.Fprintf(d.out, "Invalid label: %v\n", err)
		return
	}
	if err := d.provider.AppendUserLabel(ep, l); err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "OK")
}

func (d *Device) cmdDelLabel(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "Usage: dellabel <ep> <idx>")
		return
	}
	ep, ok := d.parseEndpoint(args, "dellabel <ep> <idx>")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(d.out, "Invalid index: %v\n", err)
		return
	}
	if err := d.provider.DeleteUserLabelAt(ep, idx); err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "OK (count unchanged)")
}

func (d *Device) cmdClear(args []string) {
	ep, ok := d.parseEndpoint(args, "clear <ep>")
	if !ok {
		return
	}
	if err := d.provider.ClearUserLabelList(ep); err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "OK")
}

func (d *Device) cmdLocales() {
	it := d.provider.IterateSupportedLocales()
	fmt.Fprintf(d.out, "Supported locales (%d):\n", it.Count())
	for loc := range deviceinfo.All[string](it) {
		fmt.Fprintf(d.out, "  %s\n", loc)
	}
}

func (d *Device) cmdCalendars() {
	it := d.provider.IterateSupportedCalendarTypes()
	fmt.Fprintf(d.out, "Supported calendar types (%d):\n", it.Count())
	for c := range deviceinfo.All[deviceinfo.CalendarType](it) {
		fmt.Fprintf(d.out, "  %-10s (%d)\n", c, uint8(c))
	}
}

// parseEndpoint parses the endpoint in args[0], printing usage on failure.
func (d *Device) parseEndpoint(args []string, usage string) (deviceinfo.EndpointID, bool) {
	if len(args) < 1 {
		fmt.Fprintf(d.out, "Usage: %s\n", usage)
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Fprintf(d.out, "Invalid endpoint: %s\n", args[0])
		return 0, false
	}
	return deviceinfo.EndpointID(n), true
}

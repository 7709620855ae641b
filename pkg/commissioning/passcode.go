package commissioning

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Passcode constants.
const (
	// PasscodeLength is the number of digits in a passcode.
	PasscodeLength = 8

	// PasscodeMax is the maximum passcode value (99999999).
	PasscodeMax = 99999999

	// DiscriminatorMax is the maximum discriminator value (12 bits).
	DiscriminatorMax = 0xFFF
)

// ErrInvalidPasscode is returned for malformed or trivially guessable passcodes.
var ErrInvalidPasscode = errors.New("invalid passcode")

// trivialPasscodes can never be used: they are the first guesses of anyone
// attempting to pair without physical access.
var trivialPasscodes = map[Passcode]struct{}{
	0: {}, 11111111: {}, 22222222: {}, 33333333: {}, 44444444: {},
	55555555: {}, 66666666: {}, 77777777: {}, 88888888: {}, 99999999: {},
	12345678: {}, 87654321: {},
}

// Passcode is the 8-digit secret printed on the device.
type Passcode uint32

// GeneratePasscode returns a cryptographically random passcode that passes
// Validate.
func GeneratePasscode() (Passcode, error) {
	max := big.NewInt(PasscodeMax + 1)
	for {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return 0, fmt.Errorf("failed to generate random passcode: %w", err)
		}
		p := Passcode(n.Uint64())
		if p.Validate() == nil {
			return p, nil
		}
	}
}

// ParsePasscode parses an 8-digit string. It does not reject trivial values;
// call Validate for that.
func ParsePasscode(s string) (Passcode, error) {
	s = strings.TrimSpace(s)
	if len(s) != PasscodeLength {
		return 0, fmt.Errorf("%w: must be %d digits", ErrInvalidPasscode, PasscodeLength)
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPasscode, err)
	}

	return Passcode(n), nil
}

// String returns the passcode as an 8-digit string with leading zeros.
func (p Passcode) String() string {
	return fmt.Sprintf("%08d", uint32(p))
}

// PBKDFInput returns the password input of the verifier derivation: the
// passcode as a 4-byte little-endian integer.
func (p Passcode) PBKDFInput() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(p))
	return b
}

// Validate checks that the passcode is in range and not trivially guessable.
func (p Passcode) Validate() error {
	if p > PasscodeMax {
		return fmt.Errorf("%w: exceeds maximum value", ErrInvalidPasscode)
	}
	if _, trivial := trivialPasscodes[p]; trivial {
		return fmt.Errorf("%w: %s is not allowed", ErrInvalidPasscode, p)
	}
	return nil
}

// GenerateDiscriminator generates a random 12-bit discriminator.
func GenerateDiscriminator() (uint16, error) {
	max := big.NewInt(DiscriminatorMax + 1)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, fmt.Errorf("failed to generate discriminator: %w", err)
	}
	return uint16(n.Uint64()), nil
}

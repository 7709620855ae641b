package commissioning

import (
	"crypto/elliptic"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF parameter constraints.
const (
	PBKDFMinSaltLength = 16
	PBKDFMaxSaltLength = 32
	PBKDFMinIterations = 1000
	PBKDFMaxIterations = 100000
)

// Verifier sizes.
const (
	// W0Size is the size of the big-endian w0 scalar.
	W0Size = 32

	// LSize is the size of the uncompressed L point.
	LSize = 65

	// VerifierSize is the size of a serialized verifier: w0 || L.
	VerifierSize = W0Size + LSize

	// wsSize is the PBKDF2 output per scalar before reduction mod n. The
	// extra 8 bytes keep the modulo bias negligible.
	wsSize = W0Size + 8
)

// ErrInvalidVerifier is returned when serialized verifier bytes do not parse.
var ErrInvalidVerifier = errors.New("invalid verifier")

// Curve parameters for P-256.
var curve = elliptic.P256()

// Verifier is the verification material a device stores in place of its
// passcode: w0 and L = w1*G.
type Verifier struct {
	W0 [W0Size]byte
	L  [LSize]byte
}

// Serialize writes w0 || L into dst and returns VerifierSize.
func (v *Verifier) Serialize(dst []byte) (int, error) {
	if len(dst) < VerifierSize {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, VerifierSize, len(dst))
	}
	n := copy(dst, v.W0[:])
	n += copy(dst[n:], v.L[:])
	return n, nil
}

// ParseVerifier parses a serialized verifier, checking that w0 is a valid
// scalar and L lies on the curve.
func ParseVerifier(b []byte) (*Verifier, error) {
	if len(b) != VerifierSize {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidVerifier, len(b), VerifierSize)
	}

	v := &Verifier{}
	copy(v.W0[:], b[:W0Size])
	copy(v.L[:], b[W0Size:])

	if new(big.Int).SetBytes(v.W0[:]).Cmp(curve.Params().N) >= 0 {
		return nil, fmt.Errorf("%w: w0 out of range", ErrInvalidVerifier)
	}
	if x, _ := elliptic.Unmarshal(curve, v.L[:]); x == nil {
		return nil, fmt.Errorf("%w: L is not a curve point", ErrInvalidVerifier)
	}
	return v, nil
}

// VerifierGenerator derives a verifier from a passcode and PBKDF parameters.
type VerifierGenerator interface {
	GenerateVerifier(passcode Passcode, salt []byte, iterations uint32) (*Verifier, error)
}

// PBKDF2VerifierGenerator derives w0 and w1 with PBKDF2-HMAC-SHA256 over the
// little-endian passcode and computes L = w1*G on P-256.
type PBKDF2VerifierGenerator struct{}

// GenerateVerifier implements VerifierGenerator.
func (PBKDF2VerifierGenerator) GenerateVerifier(passcode Passcode, salt []byte, iterations uint32) (*Verifier, error) {
	w0, w1, err := deriveW(passcode, salt, iterations)
	if err != nil {
		return nil, err
	}
	if w1.Sign() == 0 {
		return nil, fmt.Errorf("%w: w1 reduced to zero", ErrInvalidVerifier)
	}

	v := &Verifier{}
	w0.FillBytes(v.W0[:])

	lx, ly := curve.ScalarBaseMult(w1.Bytes())
	copy(v.L[:], elliptic.Marshal(curve, lx, ly))

	return v, nil
}

// deriveW computes the w0 and w1 scalars shared by both sides of the
// exchange.
func deriveW(passcode Passcode, salt []byte, iterations uint32) (w0, w1 *big.Int, err error) {
	if passcode > PasscodeMax {
		return nil, nil, fmt.Errorf("%w: passcode exceeds maximum value", ErrInvalidArgument)
	}
	if len(salt) < PBKDFMinSaltLength || len(salt) > PBKDFMaxSaltLength {
		return nil, nil, fmt.Errorf("%w: salt length %d", ErrInvalidArgument, len(salt))
	}
	if iterations < PBKDFMinIterations || iterations > PBKDFMaxIterations {
		return nil, nil, fmt.Errorf("%w: iteration count %d", ErrInvalidArgument, iterations)
	}

	ws := pbkdf2.Key(passcode.PBKDFInput(), salt, int(iterations), 2*wsSize, sha256.New)

	n := curve.Params().N
	w0 = new(big.Int).SetBytes(ws[:wsSize])
	w1 = new(big.Int).SetBytes(ws[wsSize:])
	w0.Mod(w0, n)
	w1.Mod(w1, n)
	return w0, w1, nil
}

// Compile-time interface satisfaction check.
var _ VerifierGenerator = PBKDF2VerifierGenerator{}

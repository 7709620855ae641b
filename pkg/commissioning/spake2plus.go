package commissioning

import (
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// SPAKE2+ constants.
const (
	// SharedSecretSize is the size of the derived shared secret in bytes.
	SharedSecretSize = 32

	// ConfirmationSize is the size of the confirmation MAC in bytes.
	ConfirmationSize = 32
)

// SPAKE2+ errors.
var (
	ErrInvalidPublicKey   = errors.New("invalid public key")
	ErrConfirmationFailed = errors.New("confirmation failed")
)

// M and N are the fixed SPAKE2+ generator points for P-256 (RFC 9383).
var (
	pointM = mustPoint(
		"886e2f97ace46e55ba9dd7242579f2993b64e16ef3dcab95afd497333d8fa12f",
		"5ff355163e43ce224e0b0e65ff02ac8e5c7be09419c785e0ca547d55a12e2d20",
	)
	pointN = mustPoint(
		"d8bbd6c639c62937b04d997f38c3770719c629d7014d49a24b4f98baa1292b49",
		"07d60aa6bfade45008a636337f5168c64d9bd36034808cd564490b1e656edbe7",
	)
)

type curvePoint struct {
	x, y *big.Int
}

func mustPoint(xHex, yHex string) curvePoint {
	x, okX := new(big.Int).SetString(xHex, 16)
	y, okY := new(big.Int).SetString(yHex, 16)
	if !okX || !okY {
		panic("invalid point constant")
	}
	return curvePoint{x: x, y: y}
}

// mulSub returns p - k*q.
func mulSub(p curvePoint, k *big.Int, q curvePoint) curvePoint {
	kx, ky := curve.ScalarMult(q.x, q.y, k.Bytes())
	negY := new(big.Int).Neg(ky)
	negY.Mod(negY, curve.Params().P)
	x, y := curve.Add(p.x, p.y, kx, negY)
	return curvePoint{x: x, y: y}
}

// share computes r*G + w0*T, the public share of either side.
func share(r, w0 *big.Int, t curvePoint) []byte {
	rx, ry := curve.ScalarBaseMult(r.Bytes())
	tx, ty := curve.ScalarMult(t.x, t.y, w0.Bytes())
	x, y := curve.Add(rx, ry, tx, ty)
	return elliptic.Marshal(curve, x, y)
}

func parseShare(b []byte) (curvePoint, error) {
	x, y := elliptic.Unmarshal(curve, b)
	if x == nil {
		return curvePoint{}, ErrInvalidPublicKey
	}
	return curvePoint{x: x, y: y}, nil
}

// transcript holds the values both sides feed into the key schedule.
type transcript struct {
	proverID, verifierID []byte
	pA, pB               []byte

	sharedSecret []byte
	confirmKey   []byte
}

// deriveKeys hashes the transcript and expands the shared and confirmation keys.
func (t *transcript) deriveKeys(z, v curvePoint, w0 *big.Int) {
	h := sha256.New()
	h.Write(t.proverID)
	h.Write(t.verifierID)
	h.Write(t.pA)
	h.Write(t.pB)
	h.Write(elliptic.Marshal(curve, z.x, z.y))
	h.Write(elliptic.Marshal(curve, v.x, v.y))
	h.Write(w0.Bytes())

	r := hkdf.New(sha256.New, h.Sum(nil), nil, []byte("SPAKE2+-P256-SHA256"))
	t.sharedSecret = make([]byte, SharedSecretSize)
	t.confirmKey = make([]byte, SharedSecretSize)
	io.ReadFull(r, t.sharedSecret)
	io.ReadFull(r, t.confirmKey)
}

// mac computes the confirmation of a role over both shares, own share first.
func (t *transcript) mac(role string, first, second []byte) []byte {
	m := hmac.New(sha256.New, t.confirmKey)
	m.Write([]byte(role))
	m.Write(first)
	m.Write(second)
	return m.Sum(nil)
}

// SPAKE2PlusProver is the commissioner side: it knows the passcode and the
// PBKDF parameters the device advertised.
type SPAKE2PlusProver struct {
	transcript
	x      *big.Int
	w0, w1 *big.Int
}

// NewSPAKE2PlusProver derives w0 and w1 from the passcode and picks an
// ephemeral key.
func NewSPAKE2PlusProver(passcode Passcode, salt []byte, iterations uint32, proverID, verifierID []byte) (*SPAKE2PlusProver, error) {
	w0, w1, err := deriveW(passcode, salt, iterations)
	if err != nil {
		return nil, err
	}

	x, err := rand.Int(rand.Reader, curve.Params().N)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	return &SPAKE2PlusProver{
		transcript: transcript{proverID: proverID, verifierID: verifierID},
		x:          x,
		w0:         w0,
		w1:         w1,
	}, nil
}

// PublicValue returns pA = x*G + w0*M.
func (p *SPAKE2PlusProver) PublicValue() []byte {
	if p.pA == nil {
		p.pA = share(p.x, p.w0, pointM)
	}
	return p.pA
}

// ProcessVerifierValue consumes pB and derives the shared secret.
func (p *SPAKE2PlusProver) ProcessVerifierValue(pB []byte) error {
	pt, err := parseShare(pB)
	if err != nil {
		return err
	}
	p.PublicValue()
	p.pB = pB

	// Y = pB - w0*N, Z = x*Y, V = w1*Y
	y := mulSub(pt, p.w0, pointN)
	zx, zy := curve.ScalarMult(y.x, y.y, p.x.Bytes())
	vx, vy := curve.ScalarMult(y.x, y.y, p.w1.Bytes())
	p.deriveKeys(curvePoint{zx, zy}, curvePoint{vx, vy}, p.w0)
	return nil
}

// Confirmation returns the prover's key confirmation.
func (p *SPAKE2PlusProver) Confirmation() []byte {
	return p.mac("client", p.pA, p.pB)
}

// VerifyConfirmation checks the device's key confirmation.
func (p *SPAKE2PlusProver) VerifyConfirmation(confirm []byte) error {
	if !hmac.Equal(confirm, p.mac("server", p.pB, p.pA)) {
		return ErrConfirmationFailed
	}
	return nil
}

// SharedSecret returns the derived secret, valid after ProcessVerifierValue.
func (p *SPAKE2PlusProver) SharedSecret() []byte {
	return p.sharedSecret
}

// SPAKE2PlusVerifier is the device side: it holds only the serialized
// verifier, never the passcode.
type SPAKE2PlusVerifier struct {
	transcript
	y  *big.Int
	w0 *big.Int
	l  curvePoint
}

// NewSPAKE2PlusVerifier parses a serialized verifier, as returned by
// CredentialStore.Verifier, and picks an ephemeral key.
func NewSPAKE2PlusVerifier(serialized []byte, proverID, verifierID []byte) (*SPAKE2PlusVerifier, error) {
	v, err := ParseVerifier(serialized)
	if err != nil {
		return nil, err
	}

	y, err := rand.Int(rand.Reader, curve.Params().N)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	lx, ly := elliptic.Unmarshal(curve, v.L[:])
	return &SPAKE2PlusVerifier{
		transcript: transcript{proverID: proverID, verifierID: verifierID},
		y:          y,
		w0:         new(big.Int).SetBytes(v.W0[:]),
		l:          curvePoint{lx, ly},
	}, nil
}

// PublicValue returns pB = y*G + w0*N.
func (s *SPAKE2PlusVerifier) PublicValue() []byte {
	if s.pB == nil {
		s.pB = share(s.y, s.w0, pointN)
	}
	return s.pB
}

// ProcessProverValue consumes pA and derives the shared secret.
func (s *SPAKE2PlusVerifier) ProcessProverValue(pA []byte) error {
	pt, err := parseShare(pA)
	if err != nil {
		return err
	}
	s.PublicValue()
	s.pA = pA

	// X = pA - w0*M, Z = y*X, V = y*L
	x := mulSub(pt, s.w0, pointM)
	zx, zy := curve.ScalarMult(x.x, x.y, s.y.Bytes())
	vx, vy := curve.ScalarMult(s.l.x, s.l.y, s.y.Bytes())
	s.deriveKeys(curvePoint{zx, zy}, curvePoint{vx, vy}, s.w0)
	return nil
}

// Confirmation returns the device's key confirmation.
func (s *SPAKE2PlusVerifier) Confirmation() []byte {
	return s.mac("server", s.pB, s.pA)
}

// VerifyConfirmation checks the prover's key confirmation.
func (s *SPAKE2PlusVerifier) VerifyConfirmation(confirm []byte) error {
	if !hmac.Equal(confirm, s.mac("client", s.pA, s.pB)) {
		return ErrConfirmationFailed
	}
	return nil
}

// SharedSecret returns the derived secret, valid after ProcessProverValue.
func (s *SPAKE2PlusVerifier) SharedSecret() []byte {
	return s.sharedSecret
}

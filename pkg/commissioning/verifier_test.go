package commissioning

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"testing"
)

func testSalt() []byte {
	return []byte("SPAKE2P Key Salt")
}

func TestGenerateVerifier(t *testing.T) {
	gen := PBKDF2VerifierGenerator{}

	v, err := gen.GenerateVerifier(20202021, testSalt(), PBKDFMinIterations)
	if err != nil {
		t.Fatalf("GenerateVerifier failed: %v", err)
	}

	// L is an uncompressed point on the curve
	if v.L[0] != 0x04 {
		t.Errorf("L prefix = %#x, want 0x04", v.L[0])
	}
	if x, _ := elliptic.Unmarshal(curve, v.L[:]); x == nil {
		t.Error("L is not on the curve")
	}

	// Same inputs should produce same verifier
	v2, _ := gen.GenerateVerifier(20202021, testSalt(), PBKDFMinIterations)
	if *v != *v2 {
		t.Error("same inputs should produce same verifier")
	}

	// Different passcode, salt or iterations should produce a different verifier
	v3, _ := gen.GenerateVerifier(20202022, testSalt(), PBKDFMinIterations)
	if v.W0 == v3.W0 {
		t.Error("different passcode should produce different W0")
	}
	v4, _ := gen.GenerateVerifier(20202021, []byte("SPAKE2P Key Salt!"), PBKDFMinIterations)
	if v.W0 == v4.W0 {
		t.Error("different salt should produce different W0")
	}
	v5, _ := gen.GenerateVerifier(20202021, testSalt(), PBKDFMinIterations+1)
	if v.L == v5.L {
		t.Error("different iteration count should produce different L")
	}
}

func TestGenerateVerifierInvalidInput(t *testing.T) {
	gen := PBKDF2VerifierGenerator{}
	tests := []struct {
		name       string
		passcode   Passcode
		salt       []byte
		iterations uint32
	}{
		{"passcode too large", PasscodeMax + 1, testSalt(), PBKDFMinIterations},
		{"salt too short", 20202021, make([]byte, PBKDFMinSaltLength-1), PBKDFMinIterations},
		{"salt too long", 20202021, make([]byte, PBKDFMaxSaltLength+1), PBKDFMinIterations},
		{"too few iterations", 20202021, testSalt(), PBKDFMinIterations - 1},
		{"too many iterations", 20202021, testSalt(), PBKDFMaxIterations + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.GenerateVerifier(tt.passcode, tt.salt, tt.iterations)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("GenerateVerifier() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestVerifierSerializeParse(t *testing.T) {
	v, err := PBKDF2VerifierGenerator{}.GenerateVerifier(20202021, testSalt(), PBKDFMinIterations)
	if err != nil {
		t.Fatalf("GenerateVerifier failed: %v", err)
	}

	buf := make([]byte, VerifierSize+8)
	n, err := v.Serialize(buf)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if n != VerifierSize {
		t.Fatalf("Serialize wrote %d bytes, want %d", n, VerifierSize)
	}
	if !bytes.Equal(buf[:W0Size], v.W0[:]) || !bytes.Equal(buf[W0Size:n], v.L[:]) {
		t.Error("serialized layout is not w0 || L")
	}

	parsed, err := ParseVerifier(buf[:n])
	if err != nil {
		t.Fatalf("ParseVerifier failed: %v", err)
	}
	if *parsed != *v {
		t.Error("ParseVerifier did not round-trip")
	}

	if _, err := v.Serialize(make([]byte, VerifierSize-1)); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("Serialize(short) error = %v, want ErrBufferTooSmall", err)
	}
}

func TestParseVerifierRejects(t *testing.T) {
	v, _ := PBKDF2VerifierGenerator{}.GenerateVerifier(20202021, testSalt(), PBKDFMinIterations)
	good := make([]byte, VerifierSize)
	v.Serialize(good)

	short := good[:VerifierSize-1]

	offCurve := append([]byte(nil), good...)
	offCurve[VerifierSize-1] ^= 0x01

	bigW0 := append([]byte(nil), good...)
	for i := 0; i < W0Size; i++ {
		bigW0[i] = 0xFF
	}

	for name, b := range map[string][]byte{"short": short, "off curve": offCurve, "w0 >= n": bigW0} {
		if _, err := ParseVerifier(b); !errors.Is(err, ErrInvalidVerifier) {
			t.Errorf("%s: ParseVerifier error = %v, want ErrInvalidVerifier", name, err)
		}
	}
}

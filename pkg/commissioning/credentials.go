package commissioning

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Credential store errors.
var (
	ErrUninitialized          = errors.New("credentials not initialized")
	ErrAlreadyInitialized     = errors.New("credentials already initialized")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrBufferTooSmall         = errors.New("buffer too small")
	ErrNotImplemented         = errors.New("not implemented")
	ErrInternalInconsistency  = errors.New("internal inconsistency")
	ErrCryptoDerivationFailed = errors.New("verifier derivation failed")
	ErrRandomGenerationFailed = errors.New("random generation failed")
)

// CredentialStore holds the commissioning material of a device: discriminator,
// PBKDF parameters, the serialized verifier and optionally the passcode.
//
// The store is initialised exactly once and is read-only afterwards. It does
// no locking: call it from the device's event-loop goroutine only.
type CredentialStore struct {
	random    io.Reader
	generator VerifierGenerator

	initialized    bool
	discriminator  uint16
	iterationCount uint32
	salt           []byte
	verifier       []byte
	passcode       *Passcode
}

// CredentialOption configures a CredentialStore.
type CredentialOption func(*CredentialStore)

// WithRandom sets the source of the PBKDF salt. Defaults to crypto/rand.
func WithRandom(r io.Reader) CredentialOption {
	return func(s *CredentialStore) {
		s.random = r
	}
}

// WithVerifierGenerator sets the verifier derivation. Defaults to
// PBKDF2VerifierGenerator.
func WithVerifierGenerator(g VerifierGenerator) CredentialOption {
	return func(s *CredentialStore) {
		s.generator = g
	}
}

// NewCredentialStore creates an uninitialised store.
func NewCredentialStore(opts ...CredentialOption) *CredentialStore {
	s := &CredentialStore{
		random:    rand.Reader,
		generator: PBKDF2VerifierGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init generates a fresh salt, derives the verifier for passcode and stores
// the result together with the passcode. A nil passcode is rejected because
// no verifier can be produced without one. On error the store stays
// uninitialised.
func (s *CredentialStore) Init(iterationCount uint32, passcode *Passcode, discriminator uint16) error {
	return s.init(iterationCount, passcode, discriminator, true)
}

// InitVerifierOnly behaves like Init but forgets the passcode once the
// verifier is derived. Passcode then returns ErrNotImplemented.
func (s *CredentialStore) InitVerifierOnly(iterationCount uint32, passcode *Passcode, discriminator uint16) error {
	return s.init(iterationCount, passcode, discriminator, false)
}

func (s *CredentialStore) init(iterationCount uint32, passcode *Passcode, discriminator uint16, retain bool) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}

	if discriminator > DiscriminatorMax {
		return fmt.Errorf("%w: discriminator %d exceeds %d", ErrInvalidArgument, discriminator, DiscriminatorMax)
	}
	if iterationCount < PBKDFMinIterations || iterationCount > PBKDFMaxIterations {
		return fmt.Errorf("%w: iteration count %d outside [%d, %d]",
			ErrInvalidArgument, iterationCount, PBKDFMinIterations, PBKDFMaxIterations)
	}

	salt := make([]byte, PBKDFMaxSaltLength)
	if _, err := io.ReadFull(s.random, salt); err != nil {
		return fmt.Errorf("%w: salt: %w", ErrRandomGenerationFailed, err)
	}
	if len(salt) < PBKDFMinSaltLength || len(salt) > PBKDFMaxSaltLength {
		return fmt.Errorf("%w: salt length %d", ErrInvalidArgument, len(salt))
	}

	if passcode == nil {
		return fmt.Errorf("%w: no passcode, cannot produce verifier", ErrInvalidArgument)
	}

	v, err := s.generator.GenerateVerifier(*passcode, salt, iterationCount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCryptoDerivationFailed, err)
	}
	verifier := make([]byte, VerifierSize)
	if _, err := v.Serialize(verifier); err != nil {
		return fmt.Errorf("%w: serialize: %w", ErrCryptoDerivationFailed, err)
	}

	s.discriminator = discriminator
	s.iterationCount = iterationCount
	s.salt = salt
	s.verifier = verifier
	if retain {
		p := *passcode
		s.passcode = &p
	}
	s.initialized = true
	return nil
}

// Initialized reports whether Init has succeeded.
func (s *CredentialStore) Initialized() bool {
	return s.initialized
}

// Discriminator returns the 12-bit setup discriminator.
func (s *CredentialStore) Discriminator() (uint16, error) {
	if !s.initialized {
		return 0, ErrUninitialized
	}
	return s.discriminator, nil
}

// IterationCount returns the PBKDF iteration count.
func (s *CredentialStore) IterationCount() (uint32, error) {
	if !s.initialized {
		return 0, ErrUninitialized
	}
	return s.iterationCount, nil
}

// Salt copies the PBKDF salt into dst and returns its length.
func (s *CredentialStore) Salt(dst []byte) (int, error) {
	if !s.initialized {
		return 0, ErrUninitialized
	}
	if len(dst) < len(s.salt) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, len(s.salt), len(dst))
	}
	return copy(dst, s.salt), nil
}

// Verifier copies the serialized verifier into dst and returns its length,
// always VerifierSize.
func (s *CredentialStore) Verifier(dst []byte) (int, error) {
	if !s.initialized {
		return 0, ErrUninitialized
	}
	if len(s.verifier) != VerifierSize {
		return 0, fmt.Errorf("%w: stored verifier is %d bytes", ErrInternalInconsistency, len(s.verifier))
	}
	if len(dst) < len(s.verifier) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, len(s.verifier), len(dst))
	}
	return copy(dst, s.verifier), nil
}

// Passcode returns the passcode given to Init. Verifier-only deployments
// have none and get ErrNotImplemented.
func (s *CredentialStore) Passcode() (Passcode, error) {
	if !s.initialized {
		return 0, ErrUninitialized
	}
	if s.passcode == nil {
		return 0, ErrNotImplemented
	}
	return *s.passcode, nil
}

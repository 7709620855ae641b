// Package commissioning holds the commissionable data of a device: the
// setup passcode, the 12-bit discriminator, the PBKDF parameters and the
// SPAKE2+ verifier derived from them.
//
// # Credential Store
//
// A CredentialStore is initialised once at boot:
//
//	store := commissioning.NewCredentialStore()
//	err := store.Init(1000, &passcode, 3840)
//
// Init draws a 32-byte salt, derives w0 and w1 with PBKDF2-HMAC-SHA256 over
// the little-endian passcode and keeps the serialized verifier w0 || L
// (97 bytes). All getters return ErrUninitialized until Init succeeds, and
// copy into caller-provided buffers.
//
// # Verifier Derivation
//
//	ws = PBKDF2-HMAC-SHA256(LE32(passcode), salt, iterations, 80)
//	w0 = ws[0:40] mod n
//	w1 = ws[40:80] mod n
//	L  = w1*G
//
// The derivation sits behind VerifierGenerator so tests can substitute it.
//
// # SPAKE2+
//
// SPAKE2PlusProver and SPAKE2PlusVerifier run the exchange on P-256. The
// verifier side is built from the serialized verifier alone, never the
// passcode.
//
// # Cryptographic Parameters
//
//   - Curve: P-256 (NIST)
//   - Hash: SHA-256
//   - KDF: PBKDF2-HMAC-SHA256, HKDF-SHA256
//   - MAC: HMAC-SHA256
package commissioning

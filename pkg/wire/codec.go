package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec errors.
var (
	ErrDecodeFailure  = errors.New("record decode failure")
	ErrBufferTooSmall = errors.New("buffer too small")
)

// encMode is the CBOR encoder mode for stored records.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for stored records.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Stored records are written by us only, so anything unexpected is
	// corruption rather than a newer peer.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// labelRecordWire is the stored layout of a LabelRecord.
type labelRecordWire struct {
	Name  string `cbor:"0,keyasint"`
	Value string `cbor:"1,keyasint"`
}

// fixedWriter writes into a caller-provided buffer and never grows it.
type fixedWriter struct {
	buf []byte
	n   int
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	if len(p) > len(w.buf)-w.n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, w.n+len(p), len(w.buf))
	}
	w.n += copy(w.buf[w.n:], p)
	return len(p), nil
}

// EncodeLabelRecord writes the encoding of r into dst and returns the number
// of bytes written. A dst of LabelRecordMaxSize bytes always suffices.
func EncodeLabelRecord(dst []byte, r LabelRecord) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	w := &fixedWriter{buf: dst}
	if err := encMode.NewEncoder(w).Encode(labelRecordWire{Name: r.Name, Value: r.Value}); err != nil {
		if errors.Is(err, ErrBufferTooSmall) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to encode label record: %w", err)
	}
	return w.n, nil
}

// DecodeLabelRecord decodes a stored label record. Every failure wraps
// ErrDecodeFailure.
func DecodeLabelRecord(data []byte) (LabelRecord, error) {
	if len(data) == 0 {
		return LabelRecord{}, fmt.Errorf("%w: empty record", ErrDecodeFailure)
	}
	if len(data) > LabelRecordMaxSize {
		return LabelRecord{}, fmt.Errorf("%w: record is %d bytes, max %d", ErrDecodeFailure, len(data), LabelRecordMaxSize)
	}

	var w labelRecordWire
	if err := decMode.Unmarshal(data, &w); err != nil {
		return LabelRecord{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	r := LabelRecord{Name: w.Name, Value: w.Value}
	if err := r.Validate(); err != nil {
		return LabelRecord{}, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	// Name must come first, then value, then nothing else.
	var canonical [LabelRecordMaxSize]byte
	n, err := EncodeLabelRecord(canonical[:], r)
	if err != nil {
		return LabelRecord{}, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if !bytes.Equal(canonical[:n], data) {
		return LabelRecord{}, fmt.Errorf("%w: fields missing or out of order", ErrDecodeFailure)
	}

	return r, nil
}

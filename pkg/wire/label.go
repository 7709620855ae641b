package wire

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Label limits, in bytes.
const (
	// MaxLabelNameLength is the maximum length of a label name.
	MaxLabelNameLength = 16

	// MaxLabelValueLength is the maximum length of a label value.
	MaxLabelValueLength = 16
)

// maxTextHeaderSize is the CBOR text string header size for lengths below 256.
const maxTextHeaderSize = 2

// LabelRecordMaxSize is the largest encoding of a LabelRecord: the map header
// plus, for each field, a one-byte key, a text header and the maximum length.
const LabelRecordMaxSize = 1 +
	(1 + maxTextHeaderSize + MaxLabelNameLength) +
	(1 + maxTextHeaderSize + MaxLabelValueLength)

// Label errors.
var (
	ErrLabelTooLong = errors.New("label too long")
	ErrInvalidUTF8  = errors.New("label is not valid UTF-8")
)

// LabelRecord is a name/value pair attached to an endpoint.
type LabelRecord struct {
	Name  string
	Value string
}

// NewLabelRecord returns a record after checking both fields against the
// label limits.
func NewLabelRecord(name, value string) (LabelRecord, error) {
	r := LabelRecord{Name: name, Value: value}
	if err := r.Validate(); err != nil {
		return LabelRecord{}, err
	}
	return r, nil
}

// Validate checks the record against the label limits.
func (r LabelRecord) Validate() error {
	if len(r.Name) > MaxLabelNameLength {
		return fmt.Errorf("%w: name is %d bytes, max %d", ErrLabelTooLong, len(r.Name), MaxLabelNameLength)
	}
	if len(r.Value) > MaxLabelValueLength {
		return fmt.Errorf("%w: value is %d bytes, max %d", ErrLabelTooLong, len(r.Value), MaxLabelValueLength)
	}
	if !utf8.ValidString(r.Name) || !utf8.ValidString(r.Value) {
		return ErrInvalidUTF8
	}
	return nil
}

// String returns "name=value".
func (r LabelRecord) String() string {
	return r.Name + "=" + r.Value
}

package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// tstr returns the CBOR encoding of a short text string.
func tstr(s string) []byte {
	return append([]byte{0x60 + byte(len(s))}, s...)
}

func record(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestEncodeLabelRecordLayout(t *testing.T) {
	buf := make([]byte, LabelRecordMaxSize)
	n, err := EncodeLabelRecord(buf, LabelRecord{Name: "room", Value: "office"})
	if err != nil {
		t.Fatalf("EncodeLabelRecord() error = %v", err)
	}

	want := record([]byte{0xA2, 0x00}, tstr("room"), []byte{0x01}, tstr("office"))
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("EncodeLabelRecord() = % X, want % X", buf[:n], want)
	}
}

func TestLabelRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  LabelRecord
	}{
		{"simple", LabelRecord{Name: "room", Value: "office"}},
		{"empty value", LabelRecord{Name: "floor", Value: ""}},
		{"empty both", LabelRecord{}},
		{"max lengths", LabelRecord{Name: strings.Repeat("n", MaxLabelNameLength), Value: strings.Repeat("v", MaxLabelValueLength)}},
		{"utf8", LabelRecord{Name: "étage", Value: "二階"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [LabelRecordMaxSize]byte
			n, err := EncodeLabelRecord(buf[:], tt.rec)
			if err != nil {
				t.Fatalf("EncodeLabelRecord() error = %v", err)
			}

			got, err := DecodeLabelRecord(buf[:n])
			if err != nil {
				t.Fatalf("DecodeLabelRecord() error = %v", err)
			}
			if got != tt.rec {
				t.Errorf("DecodeLabelRecord() = %+v, want %+v", got, tt.rec)
			}
		})
	}
}

func TestEncodeLabelRecordErrors(t *testing.T) {
	t.Run("BufferTooSmall", func(t *testing.T) {
		buf := make([]byte, 4)
		_, err := EncodeLabelRecord(buf, LabelRecord{Name: "room", Value: "office"})
		if !errors.Is(err, ErrBufferTooSmall) {
			t.Errorf("error = %v, want ErrBufferTooSmall", err)
		}
	})

	t.Run("NameTooLong", func(t *testing.T) {
		buf := make([]byte, LabelRecordMaxSize)
		_, err := EncodeLabelRecord(buf, LabelRecord{Name: strings.Repeat("n", MaxLabelNameLength+1)})
		if !errors.Is(err, ErrLabelTooLong) {
			t.Errorf("error = %v, want ErrLabelTooLong", err)
		}
	})

	t.Run("ValueTooLong", func(t *testing.T) {
		buf := make([]byte, LabelRecordMaxSize)
		_, err := EncodeLabelRecord(buf, LabelRecord{Value: strings.Repeat("v", MaxLabelValueLength+1)})
		if !errors.Is(err, ErrLabelTooLong) {
			t.Errorf("error = %v, want ErrLabelTooLong", err)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		buf := make([]byte, LabelRecordMaxSize)
		_, err := EncodeLabelRecord(buf, LabelRecord{Name: "\xff\xfe"})
		if !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("error = %v, want ErrInvalidUTF8", err)
		}
	})
}

func TestDecodeLabelRecordRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"value before name", record([]byte{0xA2, 0x01}, tstr("office"), []byte{0x00}, tstr("room"))},
		{"missing value", record([]byte{0xA1, 0x00}, tstr("room"))},
		{"missing name", record([]byte{0xA1, 0x01}, tstr("office"))},
		{"extra field", record([]byte{0xA3, 0x00}, tstr("room"), []byte{0x01}, tstr("office"), []byte{0x02}, tstr("x"))},
		{"duplicate name", record([]byte{0xA2, 0x00}, tstr("room"), []byte{0x00}, tstr("hall"))},
		{"truncated", record([]byte{0xA2, 0x00}, tstr("room"), []byte{0x01}, tstr("office"))[:8]},
		{"trailing data", record([]byte{0xA2, 0x00}, tstr("room"), []byte{0x01}, tstr("office"), []byte{0x00})},
		{"not a map", record([]byte{0x82}, tstr("room"), tstr("office"))},
		{"indefinite map", record([]byte{0xBF, 0x00}, tstr("room"), []byte{0x01}, tstr("office"), []byte{0xFF})},
		{"byte string name", record([]byte{0xA2, 0x00, 0x44}, []byte("room"), []byte{0x01}, tstr("office"))},
		{"non-minimal key", record([]byte{0xA2, 0x18, 0x00}, tstr("room"), []byte{0x01}, tstr("office"))},
		{"oversized name", record([]byte{0xA2, 0x00}, tstr(strings.Repeat("n", MaxLabelNameLength+1)), []byte{0x01}, tstr("v"))},
		{"invalid utf8", record([]byte{0xA2, 0x00, 0x62, 0xff, 0xfe, 0x01}, tstr("v"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLabelRecord(tt.data)
			if !errors.Is(err, ErrDecodeFailure) {
				t.Errorf("DecodeLabelRecord() = %+v, %v; want ErrDecodeFailure", got, err)
			}
		})
	}
}

func TestLabelRecordMaxSize(t *testing.T) {
	// The estimate must cover the worst case actually produced by the encoder.
	var buf [LabelRecordMaxSize]byte
	n, err := EncodeLabelRecord(buf[:], LabelRecord{
		Name:  strings.Repeat("n", MaxLabelNameLength),
		Value: strings.Repeat("v", MaxLabelValueLength),
	})
	if err != nil {
		t.Fatalf("EncodeLabelRecord() error = %v", err)
	}
	if n > LabelRecordMaxSize {
		t.Errorf("encoded %d bytes, LabelRecordMaxSize = %d", n, LabelRecordMaxSize)
	}
}

func TestNewLabelRecord(t *testing.T) {
	if _, err := NewLabelRecord("room", "office"); err != nil {
		t.Errorf("NewLabelRecord() error = %v", err)
	}
	if _, err := NewLabelRecord(strings.Repeat("n", MaxLabelNameLength+1), ""); !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("NewLabelRecord() error = %v, want ErrLabelTooLong", err)
	}
	if got := (LabelRecord{Name: "room", Value: "office"}).String(); got != "room=office" {
		t.Errorf("String() = %q, want %q", got, "room=office")
	}
}

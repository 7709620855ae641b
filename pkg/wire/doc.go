// Package wire defines the CBOR storage format of persisted device records.
//
// Records use CBOR (RFC 8949) with integer keys for compactness. A user label
// record is a definite-length map holding exactly two text strings:
//
//	A2                 map(2)
//	   00 <tstr name>  key 0: label name
//	   01 <tstr value> key 1: label value
//
// Encoding is deterministic and decoding is strict: a record whose bytes are
// not the canonical encoding of its decoded value (keys out of order, keys
// missing or unknown, indefinite lengths, trailing data) is rejected. New
// fields may be added under new integer keys in a later format version.
package wire

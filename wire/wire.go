/*
Package wire implements the protobuf (proto3) binary encoding used by all
models and messages.

Every persistent type declares its layout in a codec.proto file next to its
Go declaration. The Marshal and Unmarshal methods of those types are written
with the Encoder and Decoder from this package, so the bytes stored in the
database and sent in transactions are readable by any protobuf
implementation using the same .proto declaration.

Zero values are never written, as required by proto3.
*/
package wire

import (
	"encoding/binary"
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave/errors"
)

// Wire types as defined by the protobuf encoding.
const (
	WireVarint  = proto.WireVarint
	WireFixed64 = proto.WireFixed64
	WireBytes   = proto.WireBytes
	WireFixed32 = proto.WireFixed32
)

// Marshaller is implemented by all types that can be encoded as a nested
// message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder appends protobuf encoded fields to a buffer.
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) key(field int, wireType int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wireType))...)
}

// Uint64 writes a varint field.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
	return e
}

// Int64 writes a varint field. Negative values take ten bytes, same as in
// the protobuf int64 type.
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Int32 writes an int32 or enum field.
func (e *Encoder) Int32(field int, v int32) *Encoder {
	return e.Uint64(field, uint64(int64(v)))
}

// Bool writes a bool field.
func (e *Encoder) Bool(field int, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Uint64(field, 1)
}

// Double writes a fixed64 encoded float64 field.
func (e *Encoder) Double(field int, v float64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireFixed64)
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], math.Float64bits(v))
	e.buf = append(e.buf, raw[:]...)
	return e
}

// Bytes writes a length delimited field.
func (e *Encoder) Bytes(field int, v []byte) *Encoder {
	if len(v) == 0 {
		return e
	}
	e.key(field, WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(v)))...)
	e.buf = append(e.buf, v...)
	return e
}

// RepeatedBytes writes each value as a separate length delimited field.
// Unlike Bytes, empty values are written as well, so that the number of
// elements is preserved.
func (e *Encoder) RepeatedBytes(field int, vs ...[]byte) *Encoder {
	for _, v := range vs {
		e.key(field, WireBytes)
		e.buf = append(e.buf, proto.EncodeVarint(uint64(len(v)))...)
		e.buf = append(e.buf, v...)
	}
	return e
}

// String writes a string field.
func (e *Encoder) String(field int, v string) *Encoder {
	return e.Bytes(field, []byte(v))
}

// Message writes a nested message field. A nil message is not written.
func (e *Encoder) Message(field int, m Marshaller) *Encoder {
	if e.err != nil || isNil(m) {
		return e
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return e
	}
	// Empty nested message must still be present to be distinguishable
	// from a nil one.
	e.key(field, WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(raw)))...)
	e.buf = append(e.buf, raw...)
	return e
}

// Repeated writes each element as a separate nested message field.
func (e *Encoder) Repeated(field int, ms ...Marshaller) *Encoder {
	for _, m := range ms {
		e.Message(field, m)
	}
	return e
}

// Result returns the encoded bytes or the first error.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Decoder reads protobuf encoded fields from a buffer.
type Decoder struct {
	buf      []byte
	pos      int
	wireType int
}

// NewDecoder returns a decoder over given data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Next moves to the next field. It returns false when the whole input was
// consumed. A malformed key is returned as an error.
func (d *Decoder) Next() (field int, ok bool, err error) {
	if d.pos >= len(d.buf) {
		return 0, false, nil
	}
	k, err := d.varint()
	if err != nil {
		return 0, false, err
	}
	d.wireType = int(k & 0x7)
	field = int(k >> 3)
	if field <= 0 {
		return 0, false, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	return field, true, nil
}

func (d *Decoder) varint() (uint64, error) {
	v, n := proto.DecodeVarint(d.buf[d.pos:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) expect(wireType int) error {
	if d.wireType != wireType {
		return errors.Wrapf(errors.ErrInput, "wire type %d, expected %d", d.wireType, wireType)
	}
	return nil
}

// Uint64 reads a varint field value.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.expect(WireVarint); err != nil {
		return 0, err
	}
	return d.varint()
}

// Int64 reads a varint field value as a signed integer.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Int32 reads an int32 or enum field value.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint64()
	return int32(v), err
}

// Bool reads a bool field value.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint64()
	return v != 0, err
}

// Double reads a fixed64 encoded float64 field value.
func (d *Decoder) Double() (float64, error) {
	if err := d.expect(WireFixed64); err != nil {
		return 0, err
	}
	if len(d.buf)-d.pos < 8 {
		return 0, errors.Wrap(errors.ErrInput, "unexpected end of input")
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return math.Float64frombits(v), nil
}

// Bytes reads a length delimited field value. Returned slice is a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	if err := d.expect(WireBytes); err != nil {
		return nil, err
	}
	size, err := d.varint()
	if err != nil {
		return nil, err
	}
	if size > uint64(len(d.buf)-d.pos) {
		return nil, errors.Wrap(errors.ErrInput, "unexpected end of input")
	}
	end := d.pos + int(size)
	raw := make([]byte, size)
	copy(raw, d.buf[d.pos:end])
	d.pos = end
	return raw, nil
}

// String reads a string field value.
func (d *Decoder) String() (string, error) {
	raw, err := d.Bytes()
	return string(raw), err
}

// Message decodes a nested message into given destination.
func (d *Decoder) Message(dest interface{ Unmarshal([]byte) error }) error {
	raw, err := d.Bytes()
	if err != nil {
		return err
	}
	return dest.Unmarshal(raw)
}

// Skip ignores the value of the current field. Use it for unknown fields.
func (d *Decoder) Skip() error {
	switch d.wireType {
	case WireVarint:
		_, err := d.varint()
		return err
	case WireFixed64:
		if len(d.buf)-d.pos < 8 {
			return errors.Wrap(errors.ErrInput, "unexpected end of input")
		}
		d.pos += 8
		return nil
	case WireFixed32:
		if len(d.buf)-d.pos < 4 {
			return errors.Wrap(errors.ErrInput, "unexpected end of input")
		}
		d.pos += 4
		return nil
	case WireBytes:
		_, err := d.Bytes()
		return err
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", d.wireType)
	}
}

// Package codec implements the binary layout shared by every record kind:
// little endian fixed width integers, one byte booleans and strings behind a
// 4 byte length.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrDecode   = errors.New("malformed record buffer")
	ErrOverflow = errors.New("encoded record exceeds its allocation")
)

type Encoder struct {
	buf *bytes.Buffer
}

func NewEncoder() *Encoder {
	return &Encoder{buf: new(bytes.Buffer)}
}

func (encoder *Encoder) WriteBool(value bool) {
	if value {
		encoder.buf.WriteByte(1)
		return
	}
	encoder.buf.WriteByte(0)
}

func (encoder *Encoder) WriteU8(value uint8) {
	encoder.buf.WriteByte(value)
}

func (encoder *Encoder) WriteU32(value uint32) {
	binary.Write(encoder.buf, binary.LittleEndian, value)
}

func (encoder *Encoder) WriteI64(value int64) {
	binary.Write(encoder.buf, binary.LittleEndian, value)
}

func (encoder *Encoder) WriteF64(value float64) {
	binary.Write(encoder.buf, binary.LittleEndian, math.Float64bits(value))
}

func (encoder *Encoder) WriteString(value string) {
	encoder.WriteU32(uint32(len(value)))
	encoder.buf.WriteString(value)
}

func (encoder *Encoder) WriteFixed(value []byte) {
	encoder.buf.Write(value)
}

func (encoder *Encoder) Len() int {
	return encoder.buf.Len()
}

func (encoder *Encoder) Bytes() []byte {
	return encoder.buf.Bytes()
}

// PutInto copies the encoded bytes to the front of dst and zeroes the rest.
func (encoder *Encoder) PutInto(dst []byte) error {
	return PutInto(dst, encoder.Bytes())
}

func PutInto(dst []byte, encoded []byte) error {
	if len(encoded) > len(dst) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrOverflow, len(encoded), len(dst))
	}

	n := copy(dst, encoded)
	clear(dst[n:])
	return nil
}

// Decoder reads from the front of a buffer; trailing bytes are ignored since
// records live in fixed size allocations.
type Decoder struct {
	data   []byte
	offset int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

func (decoder *Decoder) take(n int) ([]byte, error) {
	if n < 0 || len(decoder.data)-decoder.offset < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrDecode, n, decoder.offset, len(decoder.data)-decoder.offset)
	}
	chunk := decoder.data[decoder.offset : decoder.offset+n]
	decoder.offset += n
	return chunk, nil
}

func (decoder *Decoder) ReadBool() (bool, error) {
	b, err := decoder.ReadU8()
	if err != nil {
		return false, err
	}

	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte %d", ErrDecode, b)
	}
}

func (decoder *Decoder) ReadU8() (uint8, error) {
	chunk, err := decoder.take(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

func (decoder *Decoder) ReadU32() (uint32, error) {
	chunk, err := decoder.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(chunk), nil
}

func (decoder *Decoder) ReadI64() (int64, error) {
	chunk, err := decoder.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(chunk)), nil
}

func (decoder *Decoder) ReadF64() (float64, error) {
	chunk, err := decoder.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(chunk)), nil
}

func (decoder *Decoder) ReadString() (string, error) {
	length, err := decoder.ReadU32()
	if err != nil {
		return "", err
	}

	chunk, err := decoder.take(int(length))
	if err != nil {
		return "", err
	}
	return string(chunk), nil
}

func (decoder *Decoder) ReadFixed(n int) ([]byte, error) {
	chunk, err := decoder.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(chunk), nil
}

// ReadCount reads a collection length and rejects counts that could not fit
// in the remaining buffer at minEntrySize bytes per entry.
func (decoder *Decoder) ReadCount(minEntrySize int) (int, error) {
	count, err := decoder.ReadU32()
	if err != nil {
		return 0, err
	}

	if minEntrySize > 0 && int64(count)*int64(minEntrySize) > int64(decoder.Remaining()) {
		return 0, fmt.Errorf("%w: %d entries cannot fit in %d bytes", ErrDecode, count, decoder.Remaining())
	}
	return int(count), nil
}

func (decoder *Decoder) Remaining() int {
	return len(decoder.data) - decoder.offset
}

func (decoder *Decoder) Offset() int {
	return decoder.offset
}

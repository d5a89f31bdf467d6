package stream

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var (
	ErrUnexpectedEOF  = errors.New("unexpected end of stream")
	ErrMalformedCount = errors.New("malformed count")
	ErrInvalidUTF8    = errors.New("invalid utf-8")
)

// Reader decodes little-endian values from a sequential source.
// Every read consumes exactly the width of the value or fails.
type Reader struct {
	source io.Reader
	offset int64
	buf    [8]byte
}

func NewReader(source io.Reader) *Reader {
	return &Reader{source: source}
}

// Offset returns count of bytes consumed so far
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadFull fills p completely, looping over short reads.
func (r *Reader) ReadFull(p []byte) error {
	start := r.offset
	n, err := io.ReadFull(r.source, p)
	r.offset += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrUnexpectedEOF, "at 0x%x: need %d bytes, got %d", start, len(p), n)
		}
		return errors.Wrapf(err, "at 0x%x", start)
	}
	return nil
}

func (r *Reader) read(width int) ([]byte, error) {
	b := r.buf[:width]
	if err := r.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadString reads u16 byte length followed by that many utf-8 bytes
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadU16()
	if err != nil {
		return "", errors.Wrapf(err, "string length")
	}
	raw := make([]byte, length)
	if err := r.ReadFull(raw); err != nil {
		return "", errors.Wrapf(err, "string of %d bytes", length)
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, raw); err != nil {
		return "", errors.Wrapf(ErrInvalidUTF8, "string %q", raw)
	}
	return string(raw), nil
}

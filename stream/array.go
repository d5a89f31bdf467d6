package stream

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Limits how much memory a single block read may take before the data
// actually arrives, so a huge declared count over a short stream fails
// with ErrUnexpectedEOF instead of a giant allocation.
const blockChunkSize = 64 * 1024

// ReadCount reads an i32 length prefix and rejects negative values.
func (r *Reader) ReadCount() (int, error) {
	count, err := r.ReadI32()
	if err != nil {
		return 0, errors.Wrapf(err, "count")
	}
	if count < 0 {
		return 0, errors.Wrapf(ErrMalformedCount, "count %d", count)
	}
	return int(count), nil
}

// readBlock reads count*width raw bytes of a fixed-width numeric array.
func (r *Reader) readBlock(count, width int) ([]byte, error) {
	total := count * width
	first := total
	if first > blockChunkSize {
		first = blockChunkSize
	}
	block := make([]byte, first)
	if err := r.ReadFull(block); err != nil {
		return nil, err
	}
	for len(block) < total {
		chunk := total - len(block)
		if chunk > blockChunkSize {
			chunk = blockChunkSize
		}
		start := len(block)
		block = append(block, make([]byte, chunk)...)
		if err := r.ReadFull(block[start:]); err != nil {
			return nil, err
		}
	}
	return block, nil
}

func (r *Reader) ReadF32Array() ([]float32, error) {
	count, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	block, err := r.readBlock(count, 4)
	if err != nil {
		return nil, errors.Wrapf(err, "f32 array of %d", count)
	}
	result := make([]float32, count)
	for i := range result {
		result[i] = math.Float32frombits(binary.LittleEndian.Uint32(block[i*4:]))
	}
	return result, nil
}

func (r *Reader) ReadI16Array() ([]int16, error) {
	count, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	block, err := r.readBlock(count, 2)
	if err != nil {
		return nil, errors.Wrapf(err, "i16 array of %d", count)
	}
	result := make([]int16, count)
	for i := range result {
		result[i] = int16(binary.LittleEndian.Uint16(block[i*2:]))
	}
	return result, nil
}

func (r *Reader) ReadU16Array() ([]uint16, error) {
	count, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	block, err := r.readBlock(count, 2)
	if err != nil {
		return nil, errors.Wrapf(err, "u16 array of %d", count)
	}
	result := make([]uint16, count)
	for i := range result {
		result[i] = binary.LittleEndian.Uint16(block[i*2:])
	}
	return result, nil
}

// DecodeFunc decodes one composite record from the reader.
type DecodeFunc[T any] func(r *Reader, index int) (T, error)

// ReadRecords reads an i32 count and then decodes that many records one by one.
// Nothing decoded so far is returned on failure.
func ReadRecords[T any](r *Reader, decode DecodeFunc[T]) ([]T, error) {
	count, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	return ReadRecordsN(r, count, decode)
}

// ReadRecordsN decodes count records when the count was already read by the caller.
func ReadRecordsN[T any](r *Reader, count int, decode DecodeFunc[T]) ([]T, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrMalformedCount, "count %d", count)
	}
	capacity := count
	if capacity > 1024 {
		capacity = 1024
	}
	result := make([]T, 0, capacity)
	for i := 0; i < count; i++ {
		v, err := decode(r, i)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func (r *Reader) ReadVec3() (v mgl32.Vec3, err error) {
	for i := range v {
		if v[i], err = r.ReadF32(); err != nil {
			return mgl32.Vec3{}, err
		}
	}
	return v, nil
}

// ReadQuat reads four raw floats in stream order, no component reordering.
func (r *Reader) ReadQuat() (q [4]float32, err error) {
	for i := range q {
		if q[i], err = r.ReadF32(); err != nil {
			return [4]float32{}, err
		}
	}
	return q, nil
}

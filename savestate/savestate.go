// Package savestate implements the typed, length-prefixed big-endian
// stream used to snapshot and restore engine state. The shape follows
// original_source's util/serializer.hpp: fixed-width integers are written
// and read directly, vectors carry a uint64 length prefix, and booleans
// are encoded as a single byte.
package savestate

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FormatID identifies the stream as a gintendo save state, written as the
// first four bytes of every snapshot.
const FormatID uint32 = 0xABCD1234

// Version is the save-state format's major.minor.patch triple. Version is
// bumped whenever a field is added, removed, or reordered in any
// Serialize/Deserialize pair.
var Version = [3]uint8{1, 0, 0}

// ErrFormat is returned when a stream's format id or major version does
// not match what this build of the engine writes; the minor and patch
// bytes are read but not compared.
var ErrFormat = fmt.Errorf("savestate: unrecognized format or version")

// Writer accumulates a save-state stream in memory. The zero value is not
// usable; construct one with NewWriter.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns a Writer with the format header already written.
func NewWriter() *Writer {
	w := &Writer{}
	w.WriteUint32(FormatID)
	w.WriteUint8(Version[0])
	w.WriteUint8(Version[1])
	w.WriteUint8(Version[2])
	return w
}

// Bytes returns the accumulated stream.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteUint8(v uint8) { w.buf.WriteByte(v) }

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteBytes writes a length-prefixed byte slice, the shape
// original_source's serializeVector uses for arbitrary-length data (PRG-RAM,
// CHR-RAM, nametable contents, ...).
func (w *Writer) WriteBytes(v []uint8) {
	w.WriteUint64(uint64(len(v)))
	w.buf.Write(v)
}

// Reader walks a save-state stream produced by Writer. Construct one with
// NewReader, which validates the format header up front.
type Reader struct {
	data []byte
	pos  int
}

// NewReader validates the stream's format id and major version and returns a
// Reader positioned just after the header.
func NewReader(data []byte) (*Reader, error) {
	const headerLen = 4 // uint32 format id
	if len(data) < headerLen+3 {
		return nil, ErrFormat
	}
	r := &Reader{data: data}
	id, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if id != FormatID {
		return nil, ErrFormat
	}
	major, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadUint8(); err != nil {
		return nil, err
	}
	if _, err := r.ReadUint8(); err != nil {
		return nil, err
	}
	if major != Version[0] {
		return nil, ErrFormat
	}
	return r, nil
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("savestate: truncated stream at offset %d wanting %d bytes", r.pos, n)
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadBytes reads a length-prefixed byte slice written by WriteBytes.
func (r *Reader) ReadBytes() ([]uint8, error) {
	n, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	v := make([]uint8, n)
	copy(v, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return v, nil
}

// ReadBytesInto reads exactly len(dst) bytes without a length prefix, for
// fixed-size arrays (palette RAM, OAM) that original_source serializes via
// serializeArray rather than serializeVector.
func (r *Reader) ReadBytesInto(dst []uint8) error {
	if err := r.need(len(dst)); err != nil {
		return err
	}
	copy(dst, r.data[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return nil
}

// WriteRaw writes a fixed-size array without a length prefix, the
// serializeArray counterpart to ReadBytesInto.
func (w *Writer) WriteRaw(v []uint8) {
	w.buf.Write(v)
}

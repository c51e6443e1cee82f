// Package solidity implements the Solidity ABI encoding used at the
// precompile boundary. Every supported type has a Codec whose Read and Write
// are exact inverses, and whose Signature matches the type name used in
// canonical function signatures.
package solidity

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// WordSize is the size in bytes of an ABI word.
const WordSize = 32

// Type describes the ABI shape of a codec.
type Type interface {
	// Signature returns the canonical Solidity type name, e.g. "uint256".
	Signature() string
	// StaticSize reports whether the encoding has a fixed size and is thus
	// stored in place rather than behind an offset.
	StaticSize() bool
}

// Codec reads and writes values of type T.
type Codec[T any] interface {
	Type
	Read(r *Reader) (T, error)
	Write(w *Writer, v T)
}

// DecodeError is returned for malformed ABI input. Path holds the names of
// the fields being decoded, outermost first.
type DecodeError struct {
	Reason string
	Path   []string
}

func (e *DecodeError) Error() string {
	if len(e.Path) == 0 {
		return e.Reason
	}
	return strings.Join(e.Path, ".") + ": " + e.Reason
}

func decodeErr(reason string) error {
	return &DecodeError{Reason: reason}
}

// InField prefixes the path of a decode error with field. Other errors are
// returned unchanged.
func InField(err error, field string) error {
	var derr *DecodeError
	if !errors.As(err, &derr) {
		return err
	}
	path := make([]string, 0, len(derr.Path)+1)
	path = append(path, field)
	path = append(path, derr.Path...)
	return &DecodeError{Reason: derr.Reason, Path: path}
}

// Reader decodes a sequence of ABI values (a tuple) from input.
type Reader struct {
	input  []byte
	cursor int
}

// NewReader returns a reader positioned at the start of input.
func NewReader(input []byte) *Reader {
	return &Reader{input: input}
}

// Remaining returns the number of bytes after the cursor.
func (r *Reader) Remaining() int {
	return len(r.input) - r.cursor
}

// word consumes the next 32 byte word.
func (r *Reader) word(what string) ([]byte, error) {
	if r.Remaining() < WordSize {
		return nil, decodeErr("Tried to parse " + what + " out of bounds")
	}
	w := r.input[r.cursor : r.cursor+WordSize]
	r.cursor += WordSize
	return w, nil
}

// size consumes a word holding a length or offset and checks that it does
// not exceed limit.
func (r *Reader) size(what string, limit int) (int, error) {
	w, err := r.word(what)
	if err != nil {
		return 0, err
	}
	var v uint256.Int
	v.SetBytes32(w)
	if !v.IsUint64() || v.Uint64() > uint64(limit) {
		return 0, decodeErr(what + " is too large")
	}
	return int(v.Uint64()), nil
}

// pointer consumes an offset word and returns a reader over the data it
// points at. Offsets are relative to the start of the enclosing tuple.
func (r *Reader) pointer() (*Reader, error) {
	offset, err := r.size("array offset", len(r.input))
	if err != nil {
		return nil, err
	}
	return &Reader{input: r.input[offset:]}, nil
}

// Writer encodes a sequence of ABI values (a tuple). Dynamic values are
// appended after the head and referenced by offset.
type Writer struct {
	head  []byte
	tails []tail
}

type tail struct {
	at   int // position of the offset word in head
	data []byte
}

func (w *Writer) writeWord(word [WordSize]byte) {
	w.head = append(w.head, word[:]...)
}

func (w *Writer) writeUint64(v uint64) {
	w.writeWord(uint256.NewInt(v).Bytes32())
}

// writePointer reserves an offset word and schedules data to be placed
// after the head.
func (w *Writer) writePointer(data []byte) {
	w.tails = append(w.tails, tail{at: len(w.head), data: data})
	w.head = append(w.head, make([]byte, WordSize)...)
}

// Build returns the encoded tuple.
func (w *Writer) Build() []byte {
	size := len(w.head)
	for _, t := range w.tails {
		size += len(t.data)
	}
	out := make([]byte, len(w.head), size)
	copy(out, w.head)

	offset := uint64(len(w.head))
	for _, t := range w.tails {
		word := uint256.NewInt(offset).Bytes32()
		copy(out[t.at:], word[:])
		out = append(out, t.data...)
		offset += uint64(len(t.data))
	}
	return out
}

// Read decodes a value with c and attributes failures to field.
func Read[T any](r *Reader, c Codec[T], field string) (T, error) {
	v, err := c.Read(r)
	if err != nil {
		var zero T
		return zero, InField(err, field)
	}
	return v, nil
}

// Encode returns the ABI encoding of v as a single element tuple, which is
// the layout of function arguments and return data.
func Encode[T any](c Codec[T], v T) []byte {
	w := new(Writer)
	c.Write(w, v)
	return w.Build()
}

// Decode is the inverse of Encode.
func Decode[T any](c Codec[T], data []byte) (T, error) {
	return c.Read(NewReader(data))
}

func padded(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

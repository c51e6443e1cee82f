package solidity

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	Bool    Codec[bool]           = boolCodec{}
	Uint8   Codec[uint8]          = uintCodec[uint8]{bits: 8}
	Uint32  Codec[uint32]         = uintCodec[uint32]{bits: 32}
	Uint64  Codec[uint64]         = uintCodec[uint64]{bits: 64}
	Uint256 Codec[uint256.Int]    = uint256Codec{}
	Address Codec[common.Address] = addressCodec{}
	Bytes32 Codec[common.Hash]    = bytes32Codec{}
	Bytes   Codec[[]byte]         = bytesCodec{}
	String  Codec[string]         = stringCodec{}
)

type boolCodec struct{}

func (boolCodec) Signature() string { return "bool" }
func (boolCodec) StaticSize() bool  { return true }

func (boolCodec) Read(r *Reader) (bool, error) {
	w, err := r.word("bool")
	if err != nil {
		return false, err
	}
	var v uint256.Int
	v.SetBytes32(w)
	switch {
	case v.IsZero():
		return false, nil
	case v.Eq(uint256.NewInt(1)):
		return true, nil
	}
	return false, decodeErr("Value is not a valid bool")
}

func (boolCodec) Write(w *Writer, v bool) {
	var n uint64
	if v {
		n = 1
	}
	w.writeUint64(n)
}

type uintCodec[T ~uint8 | ~uint32 | ~uint64] struct {
	bits int
}

func (c uintCodec[T]) Signature() string { return "uint" + strconv.Itoa(c.bits) }
func (uintCodec[T]) StaticSize() bool    { return true }

func (c uintCodec[T]) Read(r *Reader) (T, error) {
	w, err := r.word(c.Signature())
	if err != nil {
		return 0, err
	}
	var v uint256.Int
	v.SetBytes32(w)
	if v.BitLen() > c.bits {
		return 0, decodeErr("Value is too large for " + c.Signature())
	}
	return T(v.Uint64()), nil
}

func (uintCodec[T]) Write(w *Writer, v T) {
	w.writeUint64(uint64(v))
}

type uint256Codec struct{}

func (uint256Codec) Signature() string { return "uint256" }
func (uint256Codec) StaticSize() bool  { return true }

func (uint256Codec) Read(r *Reader) (uint256.Int, error) {
	w, err := r.word("uint256")
	if err != nil {
		return uint256.Int{}, err
	}
	var v uint256.Int
	v.SetBytes32(w)
	return v, nil
}

func (uint256Codec) Write(w *Writer, v uint256.Int) {
	w.writeWord(v.Bytes32())
}

type addressCodec struct{}

func (addressCodec) Signature() string { return "address" }
func (addressCodec) StaticSize() bool  { return true }

func (addressCodec) Read(r *Reader) (common.Address, error) {
	w, err := r.word("address")
	if err != nil {
		return common.Address{}, err
	}
	for _, b := range w[:WordSize-common.AddressLength] {
		if b != 0 {
			return common.Address{}, decodeErr("Address has non-zero padding")
		}
	}
	return common.BytesToAddress(w), nil
}

func (addressCodec) Write(w *Writer, v common.Address) {
	var word [WordSize]byte
	copy(word[WordSize-common.AddressLength:], v[:])
	w.writeWord(word)
}

type bytes32Codec struct{}

func (bytes32Codec) Signature() string { return "bytes32" }
func (bytes32Codec) StaticSize() bool  { return true }

func (bytes32Codec) Read(r *Reader) (common.Hash, error) {
	w, err := r.word("bytes32")
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(w), nil
}

func (bytes32Codec) Write(w *Writer, v common.Hash) {
	w.writeWord(v)
}

type bytesCodec struct{}

func (bytesCodec) Signature() string { return "bytes" }
func (bytesCodec) StaticSize() bool  { return false }

func (bytesCodec) Read(r *Reader) ([]byte, error) {
	return readBytes(r, "bytes")
}

func (bytesCodec) Write(w *Writer, v []byte) {
	w.writePointer(encodeBytes(v))
}

type stringCodec struct{}

func (stringCodec) Signature() string { return "string" }
func (stringCodec) StaticSize() bool  { return false }

func (stringCodec) Read(r *Reader) (string, error) {
	b, err := readBytes(r, "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (stringCodec) Write(w *Writer, v string) {
	w.writePointer(encodeBytes([]byte(v)))
}

func readBytes(r *Reader, what string) ([]byte, error) {
	sub, err := r.pointer()
	if err != nil {
		return nil, err
	}
	n, err := sub.size(what+" length", sub.Remaining()-WordSize)
	if err != nil {
		return nil, err
	}
	data := sub.input[sub.cursor : sub.cursor+n]
	return append([]byte{}, data...), nil
}

func encodeBytes(v []byte) []byte {
	out := make([]byte, WordSize+padded(len(v)))
	length := uint256.NewInt(uint64(len(v))).Bytes32()
	copy(out, length[:])
	copy(out[WordSize:], v)
	return out
}

// Array returns the codec of a dynamic array T[] with elements encoded by elem.
func Array[T any](elem Codec[T]) Codec[[]T] {
	return arrayCodec[T]{elem: elem}
}

type arrayCodec[T any] struct {
	elem Codec[T]
}

func (c arrayCodec[T]) Signature() string { return c.elem.Signature() + "[]" }
func (arrayCodec[T]) StaticSize() bool    { return false }

func (c arrayCodec[T]) Read(r *Reader) ([]T, error) {
	sub, err := r.pointer()
	if err != nil {
		return nil, err
	}
	// Every element occupies at least one word.
	n, err := sub.size("array length", (sub.Remaining()-WordSize)/WordSize)
	if err != nil {
		return nil, err
	}
	inner := &Reader{input: sub.input[sub.cursor:]}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := Read(inner, c.elem, strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c arrayCodec[T]) Write(w *Writer, v []T) {
	inner := new(Writer)
	for _, e := range v {
		c.elem.Write(inner, e)
	}
	length := uint256.NewInt(uint64(len(v))).Bytes32()
	w.writePointer(append(length[:], inner.Build()...))
}

// Enum returns the codec of a closed set of variants 0..count-1 encoded as a
// uint8 discriminant. Reading any other discriminant fails.
func Enum[T ~uint8](name string, count uint8) Codec[T] {
	return enumCodec[T]{name: name, count: count}
}

type enumCodec[T ~uint8] struct {
	name  string
	count uint8
}

func (enumCodec[T]) Signature() string { return Uint8.Signature() }
func (enumCodec[T]) StaticSize() bool  { return true }

func (c enumCodec[T]) Read(r *Reader) (T, error) {
	v, err := Read(r, Uint8, "variant")
	if err != nil {
		return 0, err
	}
	if v >= c.count {
		return 0, decodeErr("Unknown " + c.name + " variant")
	}
	return T(v), nil
}

func (c enumCodec[T]) Write(w *Writer, v T) {
	Uint8.Write(w, uint8(v))
}

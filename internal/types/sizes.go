package types

import "github.com/you-not-fish/klang/internal/rtabi"

// Sizes provides the storage layout of klang values. Every non-void value
// is one machine word, so a struct of n fields is n words with field i at
// word i.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of a value of type T in bytes.
func (s *Sizes) Sizeof(T Type) int64 {
	if IsVoid(T) {
		return 0
	}
	return rtabi.WordSize
}

// StructSize returns the heap allocation size of a struct object. An
// empty struct still allocates one word.
func (s *Sizes) StructSize(st *Struct) int64 {
	n := int64(st.NumFields())
	if n == 0 {
		n = 1
	}
	return n * rtabi.WordSize
}

// Offsetof returns the byte offset of field i of st.
func (s *Sizes) Offsetof(st *Struct, i int) int64 {
	return int64(i) * rtabi.WordSize
}

// Align returns x rounded up to a multiple of a, a power of two.
func Align(x, a int64) int64 {
	return (x + a - 1) &^ (a - 1)
}

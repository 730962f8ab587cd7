// Package rtabi defines the x86-64 System V ABI tables shared by the
// assembly and C generators. Both generators must agree on these values
// for the emitted .s and .c files to link.
package rtabi

// Target layout. Every klang value occupies one machine word, whether it
// lives in a frame slot, a struct field or an argument.
const (
	WordSize = 8

	// StackAlign is the rsp alignment required at every call instruction.
	StackAlign = 16

	// ParamStackOffset is the rbp-relative offset of the first stack
	// argument (saved rbp and return address sit below it).
	ParamStackOffset = 16

	// ToStringBufSize is the frame buffer snprintf formats value fields into.
	ToStringBufSize = 32
)

// Integer, pointer and bool argument registers in order.
var IntArgRegs = [...]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Float argument registers in order.
var FloatArgRegs = [...]string{"%xmm0", "%xmm1", "%xmm2", "%xmm3", "%xmm4", "%xmm5", "%xmm6", "%xmm7"}

// C spellings of the klang types.
const (
	CTypeI64    = "int64_t"
	CTypeF64    = "double"
	CTypeBool   = "bool"
	CTypeString = "char*"
	CTypeVoid   = "void"
)

// CStructPtr returns the C type of a reference to the named struct.
func CStructPtr(name string) string {
	return "struct " + name + "*"
}

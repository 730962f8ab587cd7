package rtabi

// libc functions called from generated code. Asm calls go through the PLT.
const (
	LibcMalloc   = "malloc"
	LibcFree     = "free"
	LibcStrdup   = "strdup"
	LibcStrlen   = "strlen"
	LibcStrcpy   = "strcpy"
	LibcStrcat   = "strcat"
	LibcSnprintf = "snprintf"
	LibcPrintf   = "printf"
)

// PLT returns the call target for a libc function.
func PLT(fn string) string {
	return fn + "@PLT"
}

// Symbols of the program entry.
const (
	// EntrySymbol is the assembly name of the klang function main.
	EntrySymbol = "klang$main"

	// StartupSymbol is the C entry the generated startup code defines.
	StartupSymbol = "main"

	// EntryName is the klang name of the entry function.
	EntryName = "main"
)

// StringType is the owner name used to mangle the string stdlib.
const StringType = "string"

// Method returns the symbol of method m of type owner.
func Method(owner, m string) string {
	return owner + "$" + m
}

// Constructor returns the symbol of the constructor of owner.
func Constructor(owner string) string {
	return owner + "$new$"
}

// Destructor returns the symbol of the destructor of owner.
func Destructor(owner string) string {
	return owner + "$drop$"
}

// ToString returns the symbol of the to_string routine of owner.
func ToString(owner string) string {
	return owner + "$to_string"
}

// Getter returns the symbol of the accessor reading field f of owner.
func Getter(owner, f string) string {
	return owner + "$get_" + f + "$"
}

// Setter returns the symbol of the accessor writing field f of owner.
func Setter(owner, f string) string {
	return owner + "$set_" + f + "$"
}

// String stdlib symbols.
var (
	StringNew      = Constructor(StringType)
	StringDrop     = Destructor(StringType)
	StringToString = ToString(StringType)
	StringLen      = Method(StringType, "len")
	StringConcat   = Method(StringType, "concat")
)

// FuncSymbol returns the assembly symbol of a free function.
func FuncSymbol(name string) string {
	if name == EntryName {
		return EntrySymbol
	}
	return name
}

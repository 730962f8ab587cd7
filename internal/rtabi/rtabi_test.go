package rtabi

import "testing"

func TestMangling(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Method("Point", "sum"), "Point$sum"},
		{Constructor("Point"), "Point$new$"},
		{Destructor("Point"), "Point$drop$"},
		{ToString("Point"), "Point$to_string"},
		{Getter("Point", "x"), "Point$get_x$"},
		{Setter("Point", "x"), "Point$set_x$"},
		{StringNew, "string$new$"},
		{StringDrop, "string$drop$"},
		{StringToString, "string$to_string"},
		{StringLen, "string$len"},
		{StringConcat, "string$concat"},
		{FuncSymbol("main"), "klang$main"},
		{FuncSymbol("add"), "add"},
		{PLT(LibcMalloc), "malloc@PLT"},
		{CStructPtr("Point"), "struct Point*"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRegisterTables(t *testing.T) {
	if len(IntArgRegs) != 6 || IntArgRegs[0] != "%rdi" || IntArgRegs[5] != "%r9" {
		t.Errorf("IntArgRegs = %v", IntArgRegs)
	}
	if len(FloatArgRegs) != 8 || FloatArgRegs[7] != "%xmm7" {
		t.Errorf("FloatArgRegs = %v", FloatArgRegs)
	}
}

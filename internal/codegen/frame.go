package codegen

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/types"
)

// frame assigns rbp-relative slots to the variables and temporaries of
// one function. Every slot is one word. Named slots are fixed when the
// function starts; temporaries are allocated LIFO below them.
type frame struct {
	slots map[*types.Var]int64
	named int64 // bytes used by named slots
	live  int64 // bytes of live temporaries
	peak  int64 // high-water mark of live
}

func newFrame() *frame {
	return &frame{slots: make(map[*types.Var]int64)}
}

// declare allocates a slot for v and returns its offset. Declaring a
// variable twice returns the original slot.
func (f *frame) declare(v *types.Var) int64 {
	if off, ok := f.slots[v]; ok {
		return off
	}
	if f.live != 0 {
		panic("codegen: named slot declared while temporaries are live")
	}
	f.named += rtabi.WordSize
	off := -f.named
	f.slots[v] = off
	return off
}

// lookup returns the slot of v.
func (f *frame) lookup(v *types.Var) (int64, bool) {
	off, ok := f.slots[v]
	return off, ok
}

// alloc reserves a temporary slot.
func (f *frame) alloc() int64 {
	f.live += rtabi.WordSize
	if f.live > f.peak {
		f.peak = f.live
	}
	return -(f.named + f.live)
}

// free releases the most recently allocated temporary.
func (f *frame) free(off int64) {
	if off != -(f.named + f.live) {
		panic("codegen: temporaries released out of order")
	}
	f.live -= rtabi.WordSize
}

// size is the 16-aligned frame size in bytes.
func (f *frame) size() int64 {
	return types.Align(f.named+f.peak, rtabi.StackAlign)
}

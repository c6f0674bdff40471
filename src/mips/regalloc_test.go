package mips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmmc/src/ir"
)

// fakeWriter records loadFromHome/storeToHome calls without producing text,
// so the allocator's spill/fill decisions can be asserted directly.
type fakeWriter struct {
	loads  []string
	stores []string
}

func (f *fakeWriter) loadFromHome(reg string, v *VarInfo) {
	f.loads = append(f.loads, reg)
}

func (f *fakeWriter) storeToHome(reg string, v *VarInfo) {
	f.stores = append(f.stores, reg)
}

func newTestFrame(ids ...int) *Frame {
	fr := &Frame{vars: map[int]*VarInfo{}}
	offset := -4
	for _, id := range ids {
		fr.vars[id] = &VarInfo{Operand: ir.NewVar(id, false), Offset: offset}
		offset -= 4
	}
	return fr
}

func TestAllocatorGetRegAllocatesEmptyFirst(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	r := a.GetReg(ir.NewVar(1, false), true)
	assert.Equal(t, "$a0", r.name, "the first allocatable register must be handed out first")
}

func TestAllocatorGetRegReusesResidentOperand(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	r1 := a.GetReg(ir.NewVar(1, false), true)
	r2 := a.GetReg(ir.NewVar(1, false), false)
	assert.Same(t, r1, r2, "a resident operand must not be loaded into a second register")
	assert.Empty(t, fw.loads, "the lval path must not have triggered a load")
}

func TestAllocatorGetRegLvalSkipsLoad(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	a.GetReg(ir.NewVar(1, false), true)
	assert.Empty(t, fw.loads, "an lval destination must not load its previous stack contents")
}

func TestAllocatorGetRegNonLvalLoadsFromStackHome(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	a.GetReg(ir.NewVar(1, false), false)
	assert.Len(t, fw.loads, 1)
}

func TestAllocatorSeedMarksResidentAndDirtyWithoutLoad(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	a.Seed("$a0", ir.NewVar(1, false))
	r := a.find(ir.NewVar(1, false))
	if assert.NotNil(t, r) {
		assert.Equal(t, "$a0", r.name)
		assert.True(t, r.dirty)
	}
	assert.Empty(t, fw.loads, "seeding a parameter register must not emit a load")
}

func TestAllocatorFlushAllWritesBackDirtyNamedAndSkipsLocked(t *testing.T) {
	fr := newTestFrame(1, 2)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	r1 := a.GetReg(ir.NewVar(1, false), true)
	a.MarkDirty(r1)
	r2 := a.GetReg(ir.NewVar(2, false), true)
	a.MarkDirty(r2)
	a.Lock(r2)

	a.FlushAll()

	assert.Equal(t, []string{r1.name}, fw.stores, "only the unlocked dirty register should be flushed")
	assert.True(t, r1.empty)
	assert.False(t, r2.empty, "a locked register must survive FlushAll")
}

func TestAllocatorFlushOperandDoesNotEvict(t *testing.T) {
	fr := newTestFrame(1)
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	r := a.GetReg(ir.NewVar(1, false), true)
	a.MarkDirty(r)

	a.FlushOperand(ir.NewVar(1, false))

	assert.Len(t, fw.stores, 1)
	assert.False(t, r.empty, "FlushOperand must write back without clearing residency")
	assert.False(t, r.dirty, "the register is clean again after a flush")
}

func TestAllocatorGetConstRegNeverReusesResidency(t *testing.T) {
	fr := newTestFrame()
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	r1 := a.GetConstReg()
	r2 := a.GetConstReg()
	assert.NotSame(t, r1, r2, "two successive constant loads must land in different registers while any remain free")
	assert.True(t, r1.isConst)
	assert.True(t, r1.dirty)
}

func TestAllocatorEvictionPrefersCleanOverDirtyNamed(t *testing.T) {
	fr := newTestFrame()
	for i := 1; i <= len(allocatable); i++ {
		fr.vars[i] = &VarInfo{Operand: ir.NewVar(i, false), Offset: -4 * i}
	}
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	// Fill every register: the first is left clean (no MarkDirty), the rest
	// are marked dirty named variables.
	var regs []*regInfo
	for i := 1; i <= len(allocatable); i++ {
		r := a.GetReg(ir.NewVar(i, false), true)
		regs = append(regs, r)
		if i > 1 {
			a.MarkDirty(r)
		}
	}
	require.Len(t, regs, len(allocatable))

	// One more distinct operand forces an eviction; the clean register must
	// be the one reclaimed; no store should be emitted for a clean evictee.
	before := len(fw.stores)
	victim := a.GetReg(ir.NewVar(len(allocatable)+1, false), true)
	assert.Same(t, regs[0], victim, "the clean register must be evicted before any dirty one")
	assert.Equal(t, before, len(fw.stores), "evicting a clean register must not write it back")
}

func TestAllocatorEvictionPanicsWhenEveryRegisterLocked(t *testing.T) {
	fr := newTestFrame()
	fw := &fakeWriter{}
	a := NewAllocator(fr, fw)

	for i, name := range allocatable {
		r := a.GetReg(ir.NewVar(i+1, false), true)
		_ = name
		a.Lock(r)
	}

	assert.Panics(t, func() {
		a.GetReg(ir.NewVar(len(allocatable)+1, false), true)
	})
}

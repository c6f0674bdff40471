// regalloc.go implements get_reg, the lock/dirty register allocator that
// decides which physical register holds which IR operand at each point in a
// function's code. Grounded on the teacher's codegen/reg.go register
// bookkeeping (a table of register descriptors with busy/dirty bits, walked
// linearly to pick a victim), generalised from the teacher's fixed MIPS
// register roles to the allocatable-subset model cmmc's backend needs: only
// A0..A3 and T0..T9 ever hold operands, and eviction preference follows
// spec §4.6 / Open Question (b): prefer evicting a register holding a
// constant that was only just loaded, then a clean register, then a dirty
// temporary, and only as a last resort a dirty named variable (which must be
// written back first).
package mips

import "cmmc/src/ir"

// allocatable lists every general-purpose register the allocator may hand
// out, in preference order for a tie (first listed, first tried when empty).
var allocatable = []string{
	"$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4",
	"$t5", "$t6", "$t7", "$t8", "$t9",
}

// regKind classifies what a dirty register is currently holding, used only
// to rank eviction preference (spec §4.6).
type regKind int

const (
	kindDirtyNamed regKind = iota
	kindDirtyTemp
	kindClean
	kindConstJustLoaded
)

// regInfo is one physical register's bookkeeping entry.
type regInfo struct {
	name    string
	empty   bool
	locked  bool
	dirty   bool
	isConst bool // true if the resident value came from a constant, never stored.
	loaded  ir.Operand
}

// Allocator tracks residency for one function's worth of register traffic.
// A fresh Allocator is constructed per function; residency never survives a
// function boundary (spec §4.6: every allocatable register is flushed and
// cleared at a FuncDef).
type Allocator struct {
	regs  []*regInfo
	frame *Frame
	w     writer
}

// writer is the subset of emission the allocator needs to spill/fill.
type writer interface {
	loadFromHome(reg string, v *VarInfo)
	storeToHome(reg string, v *VarInfo)
}

// NewAllocator returns an Allocator with every register empty.
func NewAllocator(fr *Frame, w writer) *Allocator {
	a := &Allocator{frame: fr, w: w}
	for _, name := range allocatable {
		a.regs = append(a.regs, &regInfo{name: name, empty: true})
	}
	return a
}

func (a *Allocator) find(op ir.Operand) *regInfo {
	for _, r := range a.regs {
		if !r.empty && r.loaded.Equal(op) {
			return r
		}
	}
	return nil
}

// Seed marks reg as already holding op (used for the first four parameters,
// which arrive resident in A0..A3 from the caller and start dirty since
// their only copy lives in the register until written back).
func (a *Allocator) Seed(reg string, op ir.Operand) {
	for _, r := range a.regs {
		if r.name == reg {
			r.empty = false
			r.loaded = op
			r.dirty = true
			r.isConst = false
			return
		}
	}
}

func (a *Allocator) kindOf(r *regInfo) regKind {
	if !r.dirty {
		return kindClean
	}
	if r.isConst {
		return kindConstJustLoaded
	}
	if r.loaded.IsTemp {
		return kindDirtyTemp
	}
	return kindDirtyNamed
}

// evict picks the least valuable non-locked register to reclaim, writing it
// back first if dirty, then marks it empty and returns it.
func (a *Allocator) evict() *regInfo {
	var best *regInfo
	bestKind := regKind(-1)
	for _, r := range a.regs {
		if r.locked || r.empty {
			continue
		}
		k := a.kindOf(r)
		if best == nil || k > bestKind {
			best, bestKind = r, k
		}
	}
	if best == nil {
		panic("mips: register allocator exhausted: every register locked")
	}
	a.flush(best)
	best.empty = true
	return best
}

// flush writes a dirty register back to its operand's stack home and clears
// its dirty bit, unless the resident value is a just-loaded constant (which
// has no stack home and is simply discarded).
func (a *Allocator) flush(r *regInfo) {
	if !r.dirty || r.empty {
		return
	}
	if !r.isConst {
		if v := a.frame.Lookup(r.loaded); v != nil {
			a.w.storeToHome(r.name, v)
		}
	}
	r.dirty = false
}

// FlushOperand writes op's register back to its stack home, if resident and
// dirty, without evicting it. Used before taking an address of a variable
// that might currently live only in a register (spec §4.6: a pointer must
// always point at the authoritative stack home).
func (a *Allocator) FlushOperand(op ir.Operand) {
	if r := a.find(op); r != nil {
		a.flush(r)
	}
}

// FlushAll writes back every dirty, unlocked register and clears residency.
// Called before every Label/Goto/CondGoto and before every Call, matching
// the teacher's basic-block-boundary writeback discipline generalised to
// cmmc's explicit register table (spec §4.6).
func (a *Allocator) FlushAll() {
	for _, r := range a.regs {
		if r.empty || r.locked {
			continue
		}
		a.flush(r)
		r.empty = true
		r.loaded = ir.Operand{}
	}
}

// GetReg returns the register holding op, loading or allocating one as
// needed. isLval indicates op is about to be overwritten wholesale (an
// assignment target), in which case its previous stack contents need not be
// loaded first.
func (a *Allocator) GetReg(op ir.Operand, isLval bool) *regInfo {
	if r := a.find(op); r != nil {
		return r
	}
	var r *regInfo
	for _, cand := range a.regs {
		if cand.empty {
			r = cand
			break
		}
	}
	if r == nil {
		r = a.evict()
	}
	r.empty = false
	r.loaded = op
	r.isConst = false
	if isLval {
		r.dirty = false
		return r
	}
	if v := a.frame.Lookup(op); v != nil {
		if v.Reg != "" && v.Reg == r.name {
			// already resident in its own register home; nothing to load.
		} else {
			a.w.loadFromHome(r.name, v)
		}
	}
	r.dirty = false
	return r
}

// GetConstReg allocates a register for an immediate value with no stack
// home, e.g. the fast eviction target it makes (kindConstJustLoaded).
func (a *Allocator) GetConstReg() *regInfo {
	var r *regInfo
	for _, cand := range a.regs {
		if cand.empty {
			r = cand
			break
		}
	}
	if r == nil {
		r = a.evict()
	}
	r.empty = false
	r.isConst = true
	r.dirty = true
	r.loaded = ir.Operand{}
	return r
}

// Lock prevents r from being chosen as an eviction victim until Unlock.
func (a *Allocator) Lock(r *regInfo)   { r.locked = true }
func (a *Allocator) Unlock(r *regInfo) { r.locked = false }

// MarkDirty records that reg's contents were just written and must be
// flushed to its stack home before the register is reused for anything
// else or before the next basic-block boundary.
func (a *Allocator) MarkDirty(r *regInfo) {
	r.dirty = true
}

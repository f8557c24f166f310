// Package pool implements the temporary and label pool (C3): a
// process-wide LIFO free list of temporary symbol-table entries, and a
// monotonically-increasing label counter, both reset between
// compilation units.
package pool

import "github.com/funvibe/quadgen/internal/symtab"

// Pool owns the free list of temporaries and the next label id for
// one compilation.
type Pool struct {
	table *symtab.Table
	free  []*symtab.Symbol
	label int
	// parked holds temporaries that are momentarily "owned" by an
	// outer caller while a nested generator call runs, per the single
	// reentrancy hazard the original free list has: without this, an
	// inner NewTemp could reissue a temporary the outer caller is still
	// holding live, since nothing else marks it as in use.
	parked []*symtab.Symbol
}

// New returns a pool that mints fresh temporaries from table.
func New(table *symtab.Table) *Pool {
	return &Pool{table: table}
}

// NewTemp returns an unused temporary, reusing one from the free list
// when available.
func (p *Pool) NewTemp() *symtab.Symbol {
	if l := len(p.free); l > 0 {
		t := p.free[l-1]
		p.free = p.free[:l-1]
		t.IsTemp = true
		return t
	}
	sym := p.table.EnterSymbol(nil, symtab.KindIdentifier)
	sym.IsTemp = true
	sym.HasLValue = true
	sym.HasRValue = true
	return sym
}

// FreeTemp links t back onto the free list for reissue.
func (p *Pool) FreeTemp(t *symtab.Symbol) {
	if t == nil || !t.IsTemp {
		return
	}
	p.free = append(p.free, t)
}

// NewLabel returns the next monotonically-increasing label id.
func (p *Pool) NewLabel() int {
	p.label++
	return p.label
}

// Park temporarily withdraws t from circulation for the duration of a
// nested generator call that might otherwise mint and reissue it out
// from under the caller still holding it live. Unpark must be called
// with the same temporary once the nested call returns.
func (p *Pool) Park(t *symtab.Symbol) {
	if t == nil {
		return
	}
	t.IsTemp = false
	p.parked = append(p.parked, t)
}

// Unpark restores t to live-temporary status after a nested call
// completes, the mirror of Park.
func (p *Pool) Unpark(t *symtab.Symbol) {
	if t == nil {
		return
	}
	t.IsTemp = true
	for i := len(p.parked) - 1; i >= 0; i-- {
		if p.parked[i] == t {
			p.parked = append(p.parked[:i], p.parked[i+1:]...)
			return
		}
	}
}

// Reset clears the free list and parked set and restarts the label
// counter, the state a new procedure (or compilation unit) starts
// from.
func (p *Pool) Reset() {
	p.free = p.free[:0]
	p.parked = p.parked[:0]
	p.label = 0
}

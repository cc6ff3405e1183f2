// Package dictctx implements the shared dictionary context used by the
// DICT_VARINT codec on the VALUE (and optionally ITEM_ID) stream.
//
// A DictContext is explicitly owned and passed in by the caller rather than
// held as global package state: an application that wants the "process-wide
// shared dictionary" behavior the format describes constructs one
// DictContext and hands the same instance to every Encoder it creates in
// that process, while an application that wants isolation just constructs
// one per Encoder. Either way access is serialized through the context's
// own mutex, since a dictionary may be driven by more than one encoder
// concurrently.
//
// Dictionary contents are never persisted in the file: both sides rebuild
// the same symbol table deterministically by running the same Lookup/Insert
// sequence over the same already-seen values, in the same order.
package dictctx

import "sync"

// DictContext maps values to dense symbol ids, assigned in first-seen
// order starting at 1. Symbol 0 is reserved by the wire format to mean
// "miss, raw value follows".
type DictContext struct {
	mu       sync.Mutex
	symbolOf map[int64]uint32
	valueOf  []int64
}

// New creates an empty dictionary context.
func New() *DictContext {
	return &DictContext{
		symbolOf: make(map[int64]uint32),
	}
}

// Lookup returns the symbol assigned to v, if any.
func (d *DictContext) Lookup(v int64) (uint32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.symbolOf[v]
	return s, ok
}

// Insert assigns the next symbol to v and returns it. Calling Insert for a
// value that already has a symbol is a no-op that returns the existing
// symbol, so encode and decode can both call Insert unconditionally after
// a miss.
func (d *DictContext) Insert(v int64) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.symbolOf[v]; ok {
		return s
	}

	d.valueOf = append(d.valueOf, v)
	symbol := uint32(len(d.valueOf))
	d.symbolOf[v] = symbol

	return symbol
}

// ValueOf returns the value assigned to symbol, if symbol has been issued.
func (d *DictContext) ValueOf(symbol uint32) (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if symbol == 0 || int(symbol) > len(d.valueOf) {
		return 0, false
	}

	return d.valueOf[symbol-1], true
}

// Len returns the number of symbols currently assigned.
func (d *DictContext) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.valueOf)
}

// Reset clears the dictionary back to empty, for reuse across independent
// encode/decode sessions that must not see each other's symbols.
func (d *DictContext) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.symbolOf = make(map[int64]uint32)
	d.valueOf = d.valueOf[:0]
}

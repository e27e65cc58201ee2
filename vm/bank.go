package vm

import (
	"github.com/chazu/petlik/pkg/bytecode"
)

// Bank holds the 26 counters of a run, one per letter, all starting at zero.
type Bank struct {
	counters [bytecode.NumVars]Counter
}

// NewBank returns a bank with every counter at zero.
func NewBank() *Bank {
	b := &Bank{}
	b.Reset()
	return b
}

// Get returns the counter named v.
func (b *Bank) Get(v bytecode.Var) *Counter {
	return &b.counters[v.Index()]
}

// Reset sets every counter back to zero.
func (b *Bank) Reset() {
	for i := range b.counters {
		b.counters[i].Clear()
	}
}

// CounterValue is one entry of a bank snapshot.
type CounterValue struct {
	Var   bytecode.Var
	Value string
}

// Snapshot returns the non-zero counters in letter order.
func (b *Bank) Snapshot() []CounterValue {
	var values []CounterValue
	for i := range b.counters {
		if b.counters[i].IsZero() {
			continue
		}
		values = append(values, CounterValue{
			Var:   bytecode.VarAt(i),
			Value: b.counters[i].String(),
		})
	}
	return values
}

// Values returns the decimal rendering of every counter, indexed by slot.
func (b *Bank) Values() [bytecode.NumVars]string {
	var out [bytecode.NumVars]string
	for i := range b.counters {
		out[i] = b.counters[i].String()
	}
	return out
}

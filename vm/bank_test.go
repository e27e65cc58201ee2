package vm

import (
	"testing"

	"github.com/chazu/petlik/pkg/bytecode"
)

func TestNewBankAllZero(t *testing.T) {
	b := NewBank()

	for i, v := range b.Values() {
		if v != "0" {
			t.Errorf("counter %s = %q, want 0", bytecode.VarAt(i), v)
		}
	}
	if len(b.Snapshot()) != 0 {
		t.Errorf("Snapshot() of fresh bank = %v", b.Snapshot())
	}
}

func TestBankGetIsStable(t *testing.T) {
	b := NewBank()

	b.Get('q').Increment()
	b.Get('q').Increment()

	if got := b.Get('q').String(); got != "2" {
		t.Errorf("q = %q, want 2", got)
	}
	if got := b.Values()[bytecode.Var('q').Index()]; got != "2" {
		t.Errorf("Values()[q] = %q", got)
	}
}

func TestBankSnapshotOrder(t *testing.T) {
	b := NewBank()
	b.Get('z').Increment()
	b.Get('a').Increment()
	b.Get('m').Increment()
	b.Get('m').Increment()

	snap := b.Snapshot()
	want := []CounterValue{{'a', "1"}, {'m', "2"}, {'z', "1"}}
	if len(snap) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", snap, want)
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %v, want %v", i, snap[i], want[i])
		}
	}
}

func TestBankReset(t *testing.T) {
	b := NewBank()
	for i := 0; i < bytecode.NumVars; i++ {
		b.Get(bytecode.VarAt(i)).Increment()
	}

	b.Reset()

	if len(b.Snapshot()) != 0 {
		t.Errorf("Reset() left %v", b.Snapshot())
	}
}

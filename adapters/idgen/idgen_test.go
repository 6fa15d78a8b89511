package idgen

import "testing"

func TestUUID_New(t *testing.T) {
	g := UUID{}

	a := g.New()
	b := g.New()
	if a == b {
		t.Error("UUIDs should be unique")
	}
	if len(a) != 36 {
		t.Errorf("UUID length = %d, want 36", len(a))
	}
}

func TestSequential(t *testing.T) {
	g := NewSequential("sess-")

	if got := g.New(); got != "sess-1" {
		t.Errorf("first ID = %q, want sess-1", got)
	}
	if got := g.New(); got != "sess-2" {
		t.Errorf("second ID = %q, want sess-2", got)
	}
}

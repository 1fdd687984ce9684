// FilePath: internal/realtime/realtime.registry_test.go
package realtime

import "testing"

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	first := &session{}
	second := &session{}

	r.put("S1", first)
	r.put("S1", second)

	got, ok := r.get("S1")
	if !ok || got != second {
		t.Fatalf("expected the replacing session to own the slot")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryDropOnlyEvictsCurrentOwner(t *testing.T) {
	r := NewRegistry()
	first := &session{}
	second := &session{}

	r.put("S1", first)
	r.put("S1", second)

	// The replaced session closing late must not evict its successor.
	if r.drop("S1", first) {
		t.Errorf("drop of a replaced session should be a no-op")
	}
	if got, ok := r.get("S1"); !ok || got != second {
		t.Fatalf("successor was evicted")
	}

	if !r.drop("S1", second) {
		t.Errorf("drop of the current owner should succeed")
	}
	if _, ok := r.get("S1"); ok {
		t.Errorf("slot still occupied after drop")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

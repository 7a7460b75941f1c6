package engine

import (
	"reflect"
	"testing"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)

	for i := 0; i < 50; i++ {
		if got, want := a.Intn(100), b.Intn(100); got != want {
			t.Fatalf("draw %d: %d != %d", i, got, want)
		}
	}
}

func TestRNG_Between(t *testing.T) {
	r := NewRNG(7)

	for i := 0; i < 100; i++ {
		got := r.Between(2, 5)
		if got < 2 || got > 5 {
			t.Fatalf("Between(2, 5) = %d, out of range", got)
		}
	}
}

func TestRNG_BetweenDegenerateRange(t *testing.T) {
	r := NewRNG(7)
	before := r.Position()

	if got := r.Between(3, 3); got != 3 {
		t.Errorf("Between(3, 3) = %d, want 3", got)
	}
	if r.Position() != before {
		t.Error("degenerate range must not consume a draw")
	}
}

func TestRNG_ShuffleDeterministic(t *testing.T) {
	mk := func() []string { return []string{"a", "b", "c", "d", "e"} }

	s1, s2 := mk(), mk()
	NewRNG(42).Shuffle(s1)
	NewRNG(42).Shuffle(s2)

	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("same-seed shuffles differ: %v vs %v", s1, s2)
	}
}

func TestRNG_PositionTracksDraws(t *testing.T) {
	r := NewRNG(1)
	r.Intn(10)
	r.Between(1, 6)
	r.Shuffle([]string{"x", "y"})

	if got := r.Position(); got != 3 {
		t.Errorf("Position() = %d, want 3", got)
	}

	// A shuffle swaps len-1 times, one draw each.
	r.Shuffle([]string{"a", "b", "c", "d", "e"})
	if got := r.Position(); got != 7 {
		t.Errorf("Position() after 5-element shuffle = %d, want 7", got)
	}
}

func TestRestoreRNG_ReplaysPastShuffle(t *testing.T) {
	live := NewRNG(42)
	live.Shuffle([]string{"a", "b", "c", "d", "e"})

	restored := RestoreRNG(live.Seed(), live.Position())
	for i := 0; i < 20; i++ {
		want := live.Intn(1000)
		if got := restored.Intn(1000); got != want {
			t.Fatalf("draw %d after restore = %d, want %d", i, got, want)
		}
	}
}

func TestRestoreRNG_PositionRestored(t *testing.T) {
	r := NewRNG(5)
	for i := 0; i < 10; i++ {
		r.Intn(6)
	}

	restored := RestoreRNG(5, r.Position())
	if restored.Position() != r.Position() {
		t.Errorf("restored position = %d, want %d", restored.Position(), r.Position())
	}
	if restored.Seed() != 5 {
		t.Errorf("restored seed = %d, want 5", restored.Seed())
	}
}

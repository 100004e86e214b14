package rng

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := New(42)
	rng2 := New(42)

	for i := 0; i < 20; i++ {
		a := rng1.Between(1, 100)
		b := rng2.Between(1, 100)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := New(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(10)
		if r < 1 || r > 10 {
			t.Fatalf("roll out of range [1,10]: got %d", r)
		}
	}
}

func TestRNG_Roll_OneSided(t *testing.T) {
	rng := New(1)

	for i := 0; i < 10; i++ {
		if r := rng.Roll(1); r != 1 {
			t.Fatalf("1-sided die should always be 1, got %d", r)
		}
	}
}

func TestRNG_Between_Inclusive(t *testing.T) {
	rng := New(7)
	seen := map[int]bool{}

	for i := 0; i < 2000; i++ {
		v := rng.Between(9, 11)
		if v < 9 || v > 11 {
			t.Fatalf("value out of range [9,11]: got %d", v)
		}
		seen[v] = true
	}
	for _, want := range []int{9, 10, 11} {
		if !seen[want] {
			t.Errorf("expected %d to be drawn at least once", want)
		}
	}
}

func TestRNG_Between_Degenerate(t *testing.T) {
	rng := New(3)

	if v := rng.Between(5, 5); v != 5 {
		t.Errorf("expected 5, got %d", v)
	}
	if rng.Position() != 0 {
		t.Errorf("equal bounds should not consume a draw, position %d", rng.Position())
	}
	for i := 0; i < 50; i++ {
		if v := rng.Between(4, 2); v < 2 || v > 4 {
			t.Fatalf("swapped bounds out of range: %d", v)
		}
	}
}

func TestRNG_Intn(t *testing.T) {
	rng := New(11)

	if v := rng.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, want 0", v)
	}
	for i := 0; i < 100; i++ {
		if v := rng.Intn(3); v < 0 || v > 2 {
			t.Fatalf("Intn(3) out of range: %d", v)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := New(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.Between(1, 20)
	rng.Intn(4)
	if rng.Position() != 3 {
		t.Fatalf("expected position 3, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("expected seed 42, got %d", rng.Seed())
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := New(1)
	rng2 := New(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Roll(100) != rng2.Roll(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}

package rng

import "testing"

func TestNextIsBounded(t *testing.T) {
	r := New(12345)
	for i := 0; i < 10000; i++ {
		v := r.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("Next() returned out-of-bounds value %f at draw %d", v, i)
		}
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("sequence diverged at draw %d: %f != %f", i, va, vb)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 16; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	if same {
		t.Fatal("expected distinct seeds to diverge within 16 draws")
	}
}

func TestRangeBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		v := r.Range(10, 20)
		if v < 10 || v >= 20 {
			t.Fatalf("Range(10,20) returned %f", v)
		}
	}
}

func TestRangeIntInclusive(t *testing.T) {
	r := New(7)
	seenLo, seenHi := false, false
	for i := 0; i < 10000; i++ {
		v := r.RangeInt(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("RangeInt(3,5) returned %d", v)
		}
		if v == 3 {
			seenLo = true
		}
		if v == 5 {
			seenHi = true
		}
	}
	if !seenLo || !seenHi {
		t.Fatalf("RangeInt(3,5) never hit both bounds across 10000 draws (lo=%v hi=%v)", seenLo, seenHi)
	}
}

func TestChanceDistribution(t *testing.T) {
	r := New(99)
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if r.Chance(0.3) {
			hits++
		}
	}
	frac := float64(hits) / n
	if frac < 0.27 || frac > 0.33 {
		t.Fatalf("Chance(0.3) hit rate %.3f outside tolerance", frac)
	}
}

func TestReproducibleAcrossInstances(t *testing.T) {
	seed := uint32(987654321)
	// Each fresh RNG from the same seed must start identically.
	r := New(seed)
	v := r.Next()
	r2 := New(seed)
	v2 := r2.Next()
	if v != v2 {
		t.Fatalf("fresh RNGs from the same seed diverged: %f != %f", v, v2)
	}
}

package datagen

import (
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
	if f1.Name() != f2.Name() {
		t.Error("Same seed produced different names")
	}
}

func TestFakerStrings(t *testing.T) {
	f := NewFaker()
	if f.Name() == "" {
		t.Error("Name returned empty string")
	}
	if f.ProductName() == "" {
		t.Error("ProductName returned empty string")
	}
	for i := 0; i < 20; i++ {
		if g := f.Gender(); g != "M" && g != "F" {
			t.Errorf("Gender returned %q", g)
		}
	}
}

func TestFakerPrice(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		p := f.Price(10.0, 100.0)
		if p < 10.0 || p > 100.0 {
			t.Errorf("Price %f out of range [10, 100]", p)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d out of range [5, 10]", v)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("DateRange %v out of range", d)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 50; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !f.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}

	hits := 0
	for i := 0; i < 1000; i++ {
		if f.Chance(0.5) {
			hits++
		}
	}
	if hits < 350 || hits > 650 {
		t.Errorf("Chance(0.5) hit %d of 1000", hits)
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}

	for i := 0; i < 100; i++ {
		v := Choose(f, items)
		if v != "a" && v != "b" && v != "c" {
			t.Errorf("Choose returned unexpected value: %s", v)
		}
	}

	if v := Choose(f, []string{}); v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %q", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"common", "rare"}
	weights := []int{99, 1}

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}

	if counts["common"] < counts["rare"] {
		t.Errorf("Weighted choice favored rare item: %v", counts)
	}

	if v := ChooseWeighted(f, []string{}, []int{}); v != "" {
		t.Errorf("ChooseWeighted on empty slice should return zero value, got %q", v)
	}
}

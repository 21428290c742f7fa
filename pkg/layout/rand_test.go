package layout

import "testing"

func TestRandSequence(t *testing.T) {
	r := NewRand(1)
	want := []float64{0.6270739405881613, 0.002735721180215478, 0.5274470399599522}
	for i, w := range want {
		if got := r.Float64(); got != w {
			t.Errorf("Float64() #%d = %v, want %v", i, got, w)
		}
	}

	r.Reseed(1)
	if got := r.Float64(); got != want[0] {
		t.Errorf("after Reseed = %v, want %v", got, want[0])
	}
	if got := NewRand(42).Float64(); got != 0.6011037519201636 {
		t.Errorf("seed 42 = %v, want 0.6011037519201636", got)
	}
}

func TestRandRange(t *testing.T) {
	r := NewRand(7)
	for i := range 10000 {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() #%d = %v out of [0,1)", i, v)
		}
	}
}

func TestSeedFromString(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 2166136261},
		{"a", 3826002220},
		{"ab", 1294271946},
		{"ba", 1009493708},
		{"rock", 974867124},
	}
	for _, tt := range tests {
		if got := SeedFromString(tt.in); got != tt.want {
			t.Errorf("SeedFromString(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

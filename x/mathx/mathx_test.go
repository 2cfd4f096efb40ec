package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp(5,0,3) = %d, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("Clamp(-1,0,3) = %d, want 0", got)
	}
	// swapped bounds
	if got := Clamp(5, 3, 0); got != 3 {
		t.Fatalf("Clamp(5,3,0) = %d, want 3", got)
	}
}

func TestRoundDiv(t *testing.T) {
	type C struct {
		a, b, want uint32
	}
	for _, c := range []C{
		{100, 3, 33},
		{1_000_000, 115200, 9}, // 8.68 rounds up
		{1_000_000, 19200, 52},
		{80_000_000, 115200, 694},
		{7, 0, 0},
	} {
		if got := RoundDiv(c.a, c.b); got != c.want {
			t.Fatalf("RoundDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	if got := CeilDiv(uint(10), 3); got != 4 {
		t.Fatalf("CeilDiv(10,3) = %d, want 4", got)
	}
	if got := CeilDiv(uint(9), 3); got != 3 {
		t.Fatalf("CeilDiv(9,3) = %d, want 3", got)
	}
}

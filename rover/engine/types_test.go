package engine

import (
	"errors"
	"testing"
)

func TestOrientationCycle(t *testing.T) {
	order := []Orientation{East, North, West, South}

	for i, o := range order {
		left := order[(i+1)%4]
		right := order[(i+3)%4]
		if o.Left() != left {
			t.Errorf("%v.Left(): expected %v, got %v", o, left, o.Left())
		}
		if o.Right() != right {
			t.Errorf("%v.Right(): expected %v, got %v", o, right, o.Right())
		}
		if o.Left().Right() != o {
			t.Errorf("Right must undo Left for %v", o)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	for _, code := range []string{"E", "N", "W", "S"} {
		o, err := ParseOrientation(code)
		if err != nil {
			t.Fatalf("ParseOrientation(%q): %v", code, err)
		}
		if o.Code() != code {
			t.Errorf("round trip for %q returned %q", code, o.Code())
		}
	}

	if _, err := ParseOrientation("Q"); !errors.Is(err, ErrInvalidOrientation) {
		t.Errorf("expected ErrInvalidOrientation, got %v", err)
	}
}

func TestOrientationValid(t *testing.T) {
	if Orientation(4).Valid() || Orientation(-1).Valid() {
		t.Error("out of range orientations must be invalid")
	}
	if Orientation(7).Code() != "?" {
		t.Errorf("expected ? for invalid orientation, got %s", Orientation(7).Code())
	}
	if North.String() != "North" {
		t.Errorf("expected North, got %s", North.String())
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		a, n, expected int
	}{
		{0, 4, 0},
		{5, 4, 1},
		{-1, 4, 3},
		{-4, 4, 0},
		{-5, 4, 3},
	}

	for _, test := range tests {
		if got := mod(test.a, test.n); got != test.expected {
			t.Errorf("mod(%d, %d): expected %d, got %d", test.a, test.n, test.expected, got)
		}
	}
}

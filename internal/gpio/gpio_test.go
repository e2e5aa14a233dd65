package gpio

import (
	"testing"

	"github.com/char5742/gpio-joystick/internal/device"
)

func TestPullUpMask(t *testing.T) {
	a := device.Map{4, 17, 27, 22, 10, 9, 25, 24, 23, 18, 15, 14, 2, -1, -1, -1, -1}
	b := device.Map{-5, 40, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -33, -1, -1, -1, -1}

	low, high := PullUpMask(a, b)

	var wantLow uint32
	for _, pin := range []int{4, 17, 27, 22, 10, 9, 25, 24, 23, 18, 15, 14, 2} {
		wantLow |= 1 << uint(pin)
	}
	if low != wantLow {
		t.Errorf("low = %#08x, want %#08x", low, wantLow)
	}
	// 40 だけがアクティブLow。-5 と -33 はアクティブHighなので対象外
	if high != 1<<8 {
		t.Errorf("high = %#08x, want %#08x", high, uint32(1<<8))
	}
}

func TestSimPullUpsIdleHigh(t *testing.T) {
	s := NewSim()
	s.SetPullUps(1<<4, 1<<1)

	if s.Level(4) != High || s.Level(33) != High {
		t.Fatal("pulled up pins must idle HIGH")
	}
	if s.Level(5) != Low {
		t.Fatal("floating pins idle LOW")
	}
	if !s.PulledUp(33) || s.PulledUp(5) {
		t.Fatal("PulledUp mismatch")
	}
}

func TestSimPress(t *testing.T) {
	s := NewSim()

	s.Press(4, true)
	if s.Level(4) != Low {
		t.Fatal("active-low press must drive LOW")
	}
	s.Press(4, false)
	if s.Level(4) != High {
		t.Fatal("active-low release must drive HIGH")
	}
	s.Press(-6, true)
	if s.Level(6) != High {
		t.Fatal("active-high press must drive HIGH")
	}
	if got := s.Toggle(6); got != Low {
		t.Fatalf("Toggle = %v, want LOW", got)
	}
}

package event

import (
	"testing"

	"github.com/char5742/gpio-joystick/internal/device"
)

func TestButton(t *testing.T) {
	if _, ok := Button(device.SlotUp); ok {
		t.Fatal("direction slot must not map to a button")
	}
	code, ok := Button(device.SlotHotkey)
	if !ok || code != Code(0x13c) { // BTN_MODE
		t.Fatalf("hotkey = %#x, %v", code, ok)
	}
	code, ok = Button(device.SlotStart)
	if !ok || code != Code(0x13b) { // BTN_START
		t.Fatalf("start = %#x, %v", code, ok)
	}
}

func TestButtons(t *testing.T) {
	m := device.Map{4, 17, 27, 22, 10, 9, 25, 24, -1, 18, 15, 14, 2, -1, -1, -1, -1}
	codes := Buttons(m)
	// start..tl (8) + hotkey - tr
	if len(codes) != 8 {
		t.Fatalf("got %d codes, want 8", len(codes))
	}
	for _, c := range codes {
		if c == Code(0x137) { // BTN_TR
			t.Fatal("unused slot tr reported")
		}
	}
}

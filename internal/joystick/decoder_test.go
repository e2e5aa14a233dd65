package joystick

import (
	"testing"

	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

func TestReaderPolarity(t *testing.T) {
	sim := gpio.NewSim()
	r := NewReader(sim)

	for _, pin := range []int{0, 4, 27, 40} {
		sim.Set(pin, gpio.Low)
		if !r.Pressed(pin) {
			t.Errorf("active-low pin %d at LOW must read pressed", pin)
		}
		sim.Set(pin, gpio.High)
		if r.Pressed(pin) {
			t.Errorf("active-low pin %d at HIGH must read released", pin)
		}
	}

	for _, a := range []int{-2, -17, -63} {
		sim.Set(-a, gpio.High)
		if !r.Pressed(a) {
			t.Errorf("active-high assignment %d at HIGH must read pressed", a)
		}
		sim.Set(-a, gpio.Low)
		if r.Pressed(a) {
			t.Errorf("active-high assignment %d at LOW must read released", a)
		}
	}
}

func TestDecodeUnusedSlotAlwaysReleased(t *testing.T) {
	j, sim, reg := newTestJoystick(t, HotkeyToggle, device.TypeCustom)
	pad := j.Pads()[0]

	// スロット8を未使用にし、過去の値が残っていても解放になることを確認する
	pad.pins[device.SlotTR] = device.Unused
	pad.state[device.SlotTR] = true
	for pin := 0; pin < device.MaxPins; pin++ {
		sim.Set(pin, gpio.Low)
	}

	pad.poll()
	pad.poll()

	if pad.State()[device.SlotTR] {
		t.Fatal("unused slot decoded as pressed")
	}
	code, _ := event.Button(device.SlotTR)
	if _, ok := reg.sinks[0].last(t).buttons[code]; ok {
		t.Fatal("unused slot reported a button event")
	}
}

func TestDecodeActiveHighPin(t *testing.T) {
	pins := append([]int(nil), scenarioPins...)
	pins[device.SlotB] = -5
	sim := gpio.NewSim()
	reg := &recordRegistrar{}
	j, err := New(Options{
		Types:     []device.Type{device.TypeCustom},
		Custom:    pins,
		Bank:      sim,
		Registrar: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer j.Remove()
	pad := j.Pads()[0]

	if sim.PulledUp(5) {
		t.Fatal("active-high pin must not be pulled up")
	}
	pad.poll()
	if pad.State()[device.SlotB] {
		t.Fatal("idle active-high pin decoded as pressed")
	}
	sim.Set(5, gpio.High)
	pad.poll()
	if !pad.State()[device.SlotB] {
		t.Fatal("active-high pin at HIGH must decode as pressed")
	}
}

func TestAxis(t *testing.T) {
	tests := []struct {
		name     string
		neg, pos bool
		want     int32
	}{
		{"released", false, false, 0},
		{"negative", true, false, -1},
		{"positive", false, true, 1},
		{"both cancel", true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := axis(tt.neg, tt.pos); got != tt.want {
				t.Fatalf("axis(%v, %v) = %d, want %d", tt.neg, tt.pos, got, tt.want)
			}
		})
	}
}

func TestReportFrame(t *testing.T) {
	j, sim, reg := newTestJoystick(t, HotkeyNormal, device.TypeGPIO)
	pad := j.Pads()[0]
	sink := reg.sinks[0]

	press(sim, pad, device.SlotUp, true)
	press(sim, pad, device.SlotRight, true)
	press(sim, pad, device.SlotA, true)
	pad.poll()

	f := sink.last(t)
	if f.axes[event.AbsY] != -1 {
		t.Errorf("ABS_Y = %d, want -1 (up)", f.axes[event.AbsY])
	}
	if f.axes[event.AbsX] != 1 {
		t.Errorf("ABS_X = %d, want 1 (right)", f.axes[event.AbsX])
	}
	if x, y := pad.Axes(); x != f.axes[event.AbsX] || y != f.axes[event.AbsY] {
		t.Errorf("Axes() = (%d, %d), reported (%d, %d)", x, y, f.axes[event.AbsX], f.axes[event.AbsY])
	}
	a, _ := event.Button(device.SlotA)
	if !f.buttons[a] {
		t.Error("BTN_A not reported pressed")
	}
	// start..hotkey の9ボタンが使用中
	if f.order != 9 {
		t.Errorf("reported %d buttons, want 9", f.order)
	}

	press(sim, pad, device.SlotDown, true)
	press(sim, pad, device.SlotLeft, true)
	pad.poll()
	f = sink.last(t)
	if f.axes[event.AbsY] != 0 || f.axes[event.AbsX] != 0 {
		t.Errorf("opposite directions must cancel, got x=%d y=%d", f.axes[event.AbsX], f.axes[event.AbsY])
	}
	if x, y := pad.Axes(); x != 0 || y != 0 {
		t.Errorf("Axes() = (%d, %d) after cancel", x, y)
	}

	if got := len(sink.frames); got != 2 {
		t.Fatalf("flushed %d frames, want one per poll", got)
	}
}

func TestReportSinkErrorDoesNotStopPad(t *testing.T) {
	j, sim, reg := newTestJoystick(t, HotkeyNormal, device.TypeGPIO)
	pad := j.Pads()[0]
	sink := reg.sinks[0]

	sink.flushErr = errRegister
	press(sim, pad, device.SlotStart, true)
	pad.poll()
	if !pad.State()[device.SlotStart] {
		t.Fatal("decode must continue while the sink fails")
	}

	sink.flushErr = nil
	pad.poll()
	start, _ := event.Button(device.SlotStart)
	if !sink.last(t).buttons[start] {
		t.Fatal("frame after recovery missing start press")
	}
}

package joystick

import (
	"sync"
	"testing"
	"time"

	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

func waitTicks(t *testing.T, p *Poller, n uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.Ticks() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d ticks (got %d)", n, p.Ticks())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPollerAttachDetach(t *testing.T) {
	p := NewPoller(time.Millisecond, nil)

	const n = 5
	for i := 0; i < n; i++ {
		p.Open()
		if !p.Running() {
			t.Fatalf("poller stopped after %d opens", i+1)
		}
	}
	for i := 0; i < n-1; i++ {
		p.Close()
		if !p.Running() {
			t.Fatalf("poller stopped with %d users left", n-i-1)
		}
	}
	p.Close()
	p.Sync()
	if p.Running() || p.Users() != 0 {
		t.Fatalf("running=%v users=%d after balanced close", p.Running(), p.Users())
	}
}

func TestPollerCloseWithoutOpen(t *testing.T) {
	p := NewPoller(time.Millisecond, nil)
	p.Close()
	if p.Running() || p.Users() != 0 {
		t.Fatal("unbalanced close must be ignored")
	}

	p.Open()
	defer func() {
		p.Close()
		p.Sync()
	}()
	if !p.Running() {
		t.Fatal("open after unbalanced close must start the poller")
	}
}

func TestPollerTicksUntilClosed(t *testing.T) {
	j, _, reg := newTestJoystick(t, HotkeyToggle, device.TypeGPIO)
	p := NewPoller(time.Millisecond, j.Pads())

	p.Open()
	waitTicks(t, p, 3)
	p.Close()
	p.Sync()

	stopped := p.Ticks()
	time.Sleep(10 * time.Millisecond)
	if p.Ticks() != stopped {
		t.Fatalf("ticked after stop: %d -> %d", stopped, p.Ticks())
	}

	reg.sinks[0].mu.Lock()
	frames := len(reg.sinks[0].frames)
	reg.sinks[0].mu.Unlock()
	if uint64(frames) != stopped {
		t.Fatalf("%d frames for %d ticks", frames, stopped)
	}
}

func TestPollerRestart(t *testing.T) {
	p := NewPoller(time.Millisecond, nil)

	p.Open()
	waitTicks(t, p, 1)
	p.Close()

	p.Open()
	before := p.Ticks()
	waitTicks(t, p, before+2)
	p.Close()
	p.Sync()
}

func TestPollerConcurrentOpenClose(t *testing.T) {
	p := NewPoller(time.Millisecond, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				p.Open()
				p.Close()
			}
		}()
	}
	wg.Wait()
	p.Sync()

	if p.Running() || p.Users() != 0 {
		t.Fatalf("running=%v users=%d", p.Running(), p.Users())
	}
}

func TestPadOpenDrivesPoller(t *testing.T) {
	j, _, _ := newTestJoystick(t, HotkeyToggle, device.TypeGPIO, device.TypeGPIOBPlus)
	p1, p2 := j.Pads()[0], j.Pads()[1]

	p1.Open()
	p2.Open()
	p1.Close()
	if !j.Poller().Running() {
		t.Fatal("closing one of two pads must not stop the poller")
	}
	waitTicks(t, j.Poller(), 1)
	p2.Close()
	j.Poller().Sync()
	if j.Poller().Running() {
		t.Fatal("poller still running after last pad closed")
	}
}

func TestPollerSyncWaitsForEveryStoppedLoop(t *testing.T) {
	p := NewPoller(time.Millisecond, nil)

	for i := 0; i < 20; i++ {
		p.Open()
		p.Close()
	}
	p.Sync()

	before := p.Ticks()
	time.Sleep(10 * time.Millisecond)
	if after := p.Ticks(); after != before {
		t.Fatalf("ticks advanced after Sync: %d -> %d", before, after)
	}
}

func TestRemoveAfterRestartsStopsAllTicks(t *testing.T) {
	reg := &recordRegistrar{}
	j, err := New(Options{
		Types:     []device.Type{device.TypeGPIO, device.TypeGPIOBPlus},
		Period:    time.Millisecond,
		Bank:      gpio.NewSim(),
		Registrar: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pad := j.Pads()[0]
	for i := 0; i < 20; i++ {
		pad.Open()
		if i%4 == 0 {
			waitTicks(t, j.Poller(), j.Poller().Ticks()+1)
		}
		pad.Close()
	}
	if err := j.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	before := j.Poller().Ticks()
	time.Sleep(10 * time.Millisecond)
	if after := j.Poller().Ticks(); after != before {
		t.Fatalf("ticks advanced after Remove: %d -> %d", before, after)
	}
	for i, s := range reg.sinks {
		if n := s.lateFlushes(); n != 0 {
			t.Errorf("sink %d flushed %d times after Close", i, n)
		}
		if j.Pads()[i].Sink() != nil {
			t.Errorf("pad %d still holds its sink", i)
		}
	}
}

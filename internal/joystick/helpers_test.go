package joystick

import (
	"errors"
	"sync"
	"testing"

	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/features"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

// frame は Flush で確定した1フレーム
type frame struct {
	axes    map[event.Code]int32
	buttons map[event.Code]bool
	order   int // ボタンイベントの数
}

type recordSink struct {
	mu       sync.Mutex
	spec     features.GamepadSpec
	pending  frame
	frames   []frame
	closed   bool
	flushErr error
	late     int // Close 後に呼ばれた Flush の数
}

func newFrame() frame {
	return frame{axes: map[event.Code]int32{}, buttons: map[event.Code]bool{}}
}

func (s *recordSink) EmitAxis(code event.Code, value int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.axes == nil {
		s.pending = newFrame()
	}
	s.pending.axes[code] = value
}

func (s *recordSink) EmitButton(code event.Code, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.axes == nil {
		s.pending = newFrame()
	}
	s.pending.buttons[code] = pressed
	s.pending.order++
}

func (s *recordSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.late++
	}
	if s.flushErr != nil {
		s.pending = newFrame()
		return s.flushErr
	}
	s.frames = append(s.frames, s.pending)
	s.pending = newFrame()
	return nil
}

func (s *recordSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordSink) last(t *testing.T) frame {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		t.Fatal("no frame flushed")
	}
	return s.frames[len(s.frames)-1]
}

func (s *recordSink) lateFlushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.late
}

func (s *recordSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// recordRegistrar は登録されたシンクを覚えておく
type recordRegistrar struct {
	sinks  []*recordSink
	failAt int // この番号の登録を失敗させる（1始まり、0で無効）
}

var errRegister = errors.New("register failed")

func (r *recordRegistrar) Register(spec features.GamepadSpec) (Sink, error) {
	if r.failAt > 0 && len(r.sinks)+1 == r.failAt {
		return nil, errRegister
	}
	s := &recordSink{spec: spec}
	r.sinks = append(r.sinks, s)
	return s, nil
}

var scenarioPins = []int{4, 17, 27, 22, 10, 9, 25, 24, 23, 18, 15, 14, 2, -1, -1, -1, -1}

// newTestJoystick はシミュレーションGPIOでパッドを組み立てる
func newTestJoystick(t *testing.T, mode HotkeyMode, types ...device.Type) (*Joystick, *gpio.Sim, *recordRegistrar) {
	t.Helper()
	sim := gpio.NewSim()
	reg := &recordRegistrar{}
	j, err := New(Options{
		Types:      types,
		Custom:     scenarioPins,
		HotkeyMode: mode,
		Bank:       sim,
		Registrar:  reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = j.Remove() })
	return j, sim, reg
}

// press は pad のスロットに割り当てられたピンを押下/解放する
func press(sim *gpio.Sim, pad *Pad, slot int, pressed bool) {
	sim.Press(pad.pins[slot], pressed)
}

package gpio

import (
	"sync"

	"github.com/char5742/gpio-joystick/internal/device"
)

// Sim はメモリ上のGPIOバンク。テストとシミュレーションモードで使う
//
// プルアップされたピンはHIGH、それ以外はLOWで待機する。
type Sim struct {
	mu      sync.Mutex
	levels  [device.MaxPins]Level
	inputs  [device.MaxPins]bool
	pullups [device.MaxPins]bool
}

func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Level(pin int) Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= device.MaxPins {
		return Low
	}
	return s.levels[pin]
}

func (s *Sim) ConfigureInput(pin int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin >= 0 && pin < device.MaxPins {
		s.inputs[pin] = true
	}
}

func (s *Sim) SetPullUps(low, high uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	eachPin(low, high, func(pin int) {
		s.pullups[pin] = true
		s.levels[pin] = High
	})
}

// Set はピンのレベルを設定する
func (s *Sim) Set(pin int, l Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin >= 0 && pin < device.MaxPins {
		s.levels[pin] = l
	}
}

// Toggle はピンのレベルを反転し、新しいレベルを返す
func (s *Sim) Toggle(pin int) Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= device.MaxPins {
		return Low
	}
	s.levels[pin] ^= 1
	return s.levels[pin]
}

// Press は割り当て値の極性に合わせてピンを押下/解放状態にする
func (s *Sim) Press(a int, pressed bool) {
	pin, activeLow := device.Pin(a)
	l := Low
	if pressed != activeLow {
		l = High
	}
	s.Set(pin, l)
}

// IsInput はピンが入力モードに設定されたかを返す
func (s *Sim) IsInput(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pin >= 0 && pin < device.MaxPins && s.inputs[pin]
}

// PulledUp はピンがプルアップされているかを返す
func (s *Sim) PulledUp(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pin >= 0 && pin < device.MaxPins && s.pullups[pin]
}

// Close は何もしない
func (*Sim) Close() error { return nil }

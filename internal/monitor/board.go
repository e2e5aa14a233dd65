package monitor

import (
	"sync"

	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/features"
	"github.com/char5742/gpio-joystick/internal/joystick"
)

// View はパッドが最後に確定したフレーム
type View struct {
	X, Y    int32
	Buttons map[event.Code]bool
	Frames  uint64
}

// DryRegistrar は入力デバイスを作成しない。Board.Wrap と組み合わせて表示のみを行う
var DryRegistrar = joystick.RegistrarFunc(func(features.GamepadSpec) (joystick.Sink, error) {
	return nil, nil
})

// Board は各パッドが入力デバイスに送ったフレームを記録する
type Board struct {
	mu    sync.Mutex
	views map[int]*View
}

func NewBoard() *Board {
	return &Board{views: make(map[int]*View)}
}

// Wrap はフレームを記録しながら inner に転送する Sink を返す。
// inner が nil の場合は記録のみを行う
func (b *Board) Wrap(index int, inner joystick.Sink) joystick.Sink {
	b.mu.Lock()
	b.views[index] = &View{Buttons: map[event.Code]bool{}}
	b.mu.Unlock()
	return &boardSink{board: b, index: index, inner: inner, pending: map[event.Code]bool{}}
}

// Snapshot はパッドの最新フレームのコピーを返す
func (b *Board) Snapshot(index int) (View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.views[index]
	if !ok {
		return View{}, false
	}
	cp := *v
	cp.Buttons = make(map[event.Code]bool, len(v.Buttons))
	for c, p := range v.Buttons {
		cp.Buttons[c] = p
	}
	return cp, true
}

func (b *Board) commit(index int, x, y int32, buttons map[event.Code]bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.views[index]
	if !ok {
		return
	}
	v.X, v.Y = x, y
	for c, p := range buttons {
		v.Buttons[c] = p
	}
	v.Frames++
}

type boardSink struct {
	board *Board
	index int
	inner joystick.Sink

	x, y    int32
	pending map[event.Code]bool
}

func (s *boardSink) EmitAxis(code event.Code, value int32) {
	switch code {
	case event.AbsX:
		s.x = value
	case event.AbsY:
		s.y = value
	}
	if s.inner != nil {
		s.inner.EmitAxis(code, value)
	}
}

func (s *boardSink) EmitButton(code event.Code, pressed bool) {
	s.pending[code] = pressed
	if s.inner != nil {
		s.inner.EmitButton(code, pressed)
	}
}

func (s *boardSink) Flush() error {
	s.board.commit(s.index, s.x, s.y, s.pending)
	clear(s.pending)
	if s.inner != nil {
		return s.inner.Flush()
	}
	return nil
}

func (s *boardSink) Close() error {
	s.board.mu.Lock()
	delete(s.board.views, s.index)
	s.board.mu.Unlock()
	if s.inner != nil {
		return s.inner.Close()
	}
	return nil
}

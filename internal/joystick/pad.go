package joystick

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/features"
)

// Sink はデコードしたイベントを受け取る入力デバイス
type Sink interface {
	EmitAxis(code event.Code, value int32)
	EmitButton(code event.Code, pressed bool)
	// Flush はここまでのイベントを1フレームとして確定する
	Flush() error
	// Close はデバイスの登録を解除する
	Close() error
}

// Registrar は入力デバイスを登録する
type Registrar interface {
	Register(spec features.GamepadSpec) (Sink, error)
}

// RegistrarFunc は関数を Registrar として使うためのアダプタ
type RegistrarFunc func(spec features.GamepadSpec) (Sink, error)

func (f RegistrarFunc) Register(spec features.GamepadSpec) (Sink, error) {
	return f(spec)
}

// UinputRegistrar は /dev/uinput に仮想ゲームパッドを作成する
type UinputRegistrar struct {
	Path string
}

func (r UinputRegistrar) Register(spec features.GamepadSpec) (Sink, error) {
	pad, err := features.CreateGamepad(r.Path, spec)
	if err != nil {
		return nil, err
	}
	return pad, nil
}

// Pad はGPIOにつながった1台のジョイスティック
type Pad struct {
	index  int
	typ    device.Type
	spec   features.GamepadSpec
	pins   device.Map
	mode   HotkeyMode
	reader Reader
	sink   Sink
	poller *Poller

	mu      sync.Mutex // state と hk をスナップショットから守る
	state   [device.NumSlots]bool
	hk      hotkey
	sinkErr bool
}

func newPad(index int, typ device.Type, pins device.Map, mode HotkeyMode, reader Reader) *Pad {
	return &Pad{
		index:  index,
		typ:    typ,
		pins:   pins,
		mode:   mode,
		reader: reader,
		hk:     newHotkey(),
		spec: features.GamepadSpec{
			Index:   index,
			Name:    typ.Name(),
			Phys:    fmt.Sprintf("gpio-joystick/input%d", index),
			Product: uint16(typ),
			Buttons: event.Buttons(pins),
			AxisMin: -1,
			AxisMax: 1,
		},
	}
}

// Open は利用者の参照を1つ増やす。最初の参照でポーリングが始まる
func (p *Pad) Open() {
	p.poller.Open()
}

// Close は利用者の参照を1つ減らす。最後の参照でポーリングが止まる
func (p *Pad) Close() {
	p.poller.Close()
}

func (p *Pad) Index() int        { return p.index }
func (p *Pad) Type() device.Type { return p.typ }
func (p *Pad) Pins() device.Map  { return p.pins }
func (p *Pad) Mode() HotkeyMode  { return p.mode }
func (p *Pad) Name() string      { return p.spec.Name }
func (p *Pad) Phys() string      { return p.spec.Phys }

// Sink は登録中の入力デバイスを返す。Remove 後は nil
func (p *Pad) Sink() Sink {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink
}

// Axes は現在の状態から報告される X, Y 軸の値を返す
func (p *Pad) Axes() (x, y int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.axes()
}

func (p *Pad) axes() (x, y int32) {
	return axis(p.state[device.SlotLeft], p.state[device.SlotRight]),
		axis(p.state[device.SlotUp], p.state[device.SlotDown])
}

// State はデコード済みのスロット状態を返す
func (p *Pad) State() [device.NumSlots]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Hotkey はホットキーの状態と同時押し中のスロット（なければ -1）を返す
func (p *Pad) Hotkey() (HotkeyState, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hk.state(), p.hk.combo
}

// poll は1ティック分の読み取りと報告を行う
func (p *Pad) poll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == nil {
		return
	}

	before := p.hk.state()
	p.decode()
	if after := p.hk.state(); after != before {
		log.WithFields(log.Fields{
			"pad":   p.index,
			"from":  before,
			"to":    after,
			"combo": device.SlotName(p.hk.combo),
		}).Debug("ホットキーの状態が変化しました")
	}

	if err := p.report(); err != nil {
		if !p.sinkErr {
			log.WithField("pad", p.index).Errorf("イベントの送信に失敗しました: %v", err)
			p.sinkErr = true
		}
	} else if p.sinkErr {
		log.WithField("pad", p.index).Info("イベントの送信が復旧しました")
		p.sinkErr = false
	}
}

// decode は全スロットのピンを読み、状態バッファを更新する
func (p *Pad) decode() {
	for i, a := range p.pins {
		switch {
		case !device.Used(a):
			p.state[i] = false

		case i == device.SlotHotkey && p.mode == HotkeyToggle:
			p.hk.sample(p.reader.Pressed(a), &p.state)

		default:
			prev := p.state[i]
			cur := p.reader.Pressed(a)
			p.state[i] = cur
			if prev != cur && p.hk.preArmed {
				p.hk.companion(i, cur, &p.state)
			}
		}
	}
}

// report は状態バッファを軸とボタンのイベントにして1フレームで送る
func (p *Pad) report() error {
	x, y := p.axes()
	p.sink.EmitAxis(event.AbsY, y)
	p.sink.EmitAxis(event.AbsX, x)

	for slot := device.FirstButton; slot < device.NumSlots; slot++ {
		if !device.Used(p.pins[slot]) {
			continue
		}
		code, _ := event.Button(slot)
		p.sink.EmitButton(code, p.state[slot])
	}
	return p.sink.Flush()
}

// axis は負方向と正方向の押下から -1, 0, 1 を返す。同時押しは 0
func axis(neg, pos bool) int32 {
	var v int32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

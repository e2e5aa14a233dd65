// Package monitor はパッドの状態を端末に表示する。
// GPIOシミュレータ使用時はキー入力でパッド0のボタンを操作できる
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/api"
	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

const refreshInterval = 50 * time.Millisecond

var (
	styleText    = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	stylePressed = tcell.StyleDefault.Reverse(true)
	styleUnused  = tcell.StyleDefault.Dim(true)
)

// シミュレータで操作するキーとスロットの対応
var runeSlots = map[rune]int{
	's': device.SlotStart,
	'e': device.SlotSelect,
	'a': device.SlotA,
	'b': device.SlotB,
	'r': device.SlotTR,
	'y': device.SlotY,
	'x': device.SlotX,
	'l': device.SlotTL,
	'h': device.SlotHotkey,
	'1': device.SlotTL2,
	'2': device.SlotTR2,
	'c': device.SlotC,
	'z': device.SlotZ,
}

var keySlots = map[tcell.Key]int{
	tcell.KeyUp:    device.SlotUp,
	tcell.KeyDown:  device.SlotDown,
	tcell.KeyLeft:  device.SlotLeft,
	tcell.KeyRight: device.SlotRight,
}

// Monitor はサービスの状態を描画する
type Monitor struct {
	screen tcell.Screen
	board  *Board
	svc    *api.JoystickService
	sim    *gpio.Sim

	held [device.NumSlots]bool
}

// New はモニターを作成する。sim が nil の場合はキー操作を受け付けない
func New(screen tcell.Screen, board *Board, svc *api.JoystickService, sim *gpio.Sim) *Monitor {
	return &Monitor{screen: screen, board: board, svc: svc, sim: sim}
}

// Run は ctx が終了するか終了キーが押されるまで描画を続ける。
// screen は呼び出し側で Init 済みであること
func (m *Monitor) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go m.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	m.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				m.screen.Sync()
			case *tcell.EventKey:
				if m.handleKey(ev) {
					return nil
				}
			}
			m.draw()
		}
	}
}

// handleKey はキー入力を処理し、終了する場合に true を返す
func (m *Monitor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return true
		}
		if slot, ok := runeSlots[ev.Rune()]; ok {
			m.toggle(slot)
		}
	default:
		if slot, ok := keySlots[ev.Key()]; ok {
			m.toggle(slot)
		}
	}
	return false
}

// toggle はパッド0のスロットの押下状態を反転する
func (m *Monitor) toggle(slot int) {
	if m.sim == nil {
		return
	}
	pads := m.svc.Pads()
	if len(pads) == 0 {
		return
	}
	a := pads[0].Pins()[slot]
	if !device.Used(a) {
		return
	}
	m.held[slot] = !m.held[slot]
	m.sim.Press(a, m.held[slot])
	log.Debugf("シミュレータ: %s = %v", device.SlotName(slot), m.held[slot])
}

func (m *Monitor) draw() {
	m.screen.Clear()
	status := m.svc.Status()

	header := "gpio-joystick  stopped"
	if status.Running {
		header = fmt.Sprintf("gpio-joystick  ticks=%d users=%d period=%s uptime=%s",
			status.Ticks, status.Users, status.Period, status.Uptime)
	}
	m.print(0, 0, styleTitle, header)

	row := 2
	for _, pad := range status.Pads {
		m.print(0, row, styleTitle, fmt.Sprintf("[%d] %s (%s) %s hkmode=%s",
			pad.Index, pad.Name, pad.Phys, pad.Type, pad.HotkeyMode))

		view, _ := m.board.Snapshot(pad.Index)
		m.print(2, row+1, styleText, fmt.Sprintf("X=%+d Y=%+d frames=%d", view.X, view.Y, view.Frames))

		hk := "hotkey " + pad.Hotkey
		if pad.Combo != "" {
			hk += " combo=" + pad.Combo
		}
		m.print(2, row+2, styleText, hk)

		x := 2
		for slot := device.FirstButton; slot < device.NumSlots; slot++ {
			label := strings.ToUpper(device.SlotName(slot))
			style := styleUnused
			if device.Used(pad.Pins[slot]) {
				style = styleText
				if code, ok := event.Button(slot); ok && view.Buttons[code] {
					style = stylePressed
				}
			}
			x = m.print(x, row+3, style, label) + 1
		}
		row += 5
	}

	if m.sim != nil {
		_, h := m.screen.Size()
		m.print(0, h-1, styleUnused, "arrows/s/e/a/b/x/y/l/r/h/1/2/c/z: pad0  q: quit")
	}
	m.screen.Show()
}

// print は文字列を描画し、次の列を返す
func (m *Monitor) print(x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		m.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

package joystick

import "github.com/char5742/gpio-joystick/internal/device"

// HotkeyMode はホットキーボタンの動作モード（hkmodeパラメータ）
type HotkeyMode int

const (
	HotkeyUndefined HotkeyMode = iota
	HotkeyNormal
	HotkeyToggle
)

func (m HotkeyMode) String() string {
	switch m {
	case HotkeyUndefined:
		return "undefined"
	case HotkeyNormal:
		return "normal"
	case HotkeyToggle:
		return "toggle"
	}
	return "invalid"
}

// HotkeyState はホットキーの組み合わせ状態
type HotkeyState int

const (
	HotkeyIdle HotkeyState = iota
	HotkeyPreArmed
	HotkeyComboHeld
)

func (s HotkeyState) String() string {
	switch s {
	case HotkeyPreArmed:
		return "pre-armed"
	case HotkeyComboHeld:
		return "combo-held"
	}
	return "idle"
}

const noCombo = -1

// hotkey はTOGGLEモードのホットキー状態機械。パッドごとに持つ
type hotkey struct {
	prev     bool // 前回サンプルしたホットキー線の状態
	sampled  bool // 一度でもサンプルしたか。最初のサンプルは必ずエッジ扱い
	preArmed bool
	combo    int // ホットキーと同時押し扱いのスロット
}

func newHotkey() hotkey {
	return hotkey{combo: noCombo}
}

func (h *hotkey) state() HotkeyState {
	switch {
	case !h.preArmed:
		return HotkeyIdle
	case h.combo == noCombo:
		return HotkeyPreArmed
	}
	return HotkeyComboHeld
}

// sample はホットキー線の状態を受け取り、スロット12を更新する
func (h *hotkey) sample(pressed bool, state *[device.NumSlots]bool) {
	if h.sampled && pressed == h.prev {
		return
	}
	h.sampled = true
	h.prev = pressed

	if pressed {
		if h.preArmed {
			// 2回目の押下はホットキー自身の押下として報告する
			state[device.SlotHotkey] = true
			h.combo = device.SlotHotkey
		} else {
			h.preArmed = true
			h.combo = noCombo
		}
		return
	}

	if h.combo == device.SlotHotkey {
		state[device.SlotHotkey] = false
		h.idle()
	}
}

// companion はプリアーム中に起きた他ボタンのエッジを処理する
func (h *hotkey) companion(slot int, pressed bool, state *[device.NumSlots]bool) {
	if pressed {
		state[device.SlotHotkey] = true
		h.combo = slot
		return
	}
	if slot == h.combo {
		state[device.SlotHotkey] = false
		h.idle()
	}
}

func (h *hotkey) idle() {
	h.preArmed = false
	h.combo = noCombo
}

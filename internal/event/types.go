package event

import (
	evdev "github.com/holoplot/go-evdev"

	"github.com/char5742/gpio-joystick/internal/device"
)

// イベントの型とコード（input-event-codes.hより）
type (
	Type  = evdev.EvType
	Code  = evdev.EvCode
	Event = evdev.InputEvent
)

// イベントタイプの定数
const (
	Syn Type = evdev.EV_SYN // 同期イベント
	Key Type = evdev.EV_KEY // キーイベント
	Abs Type = evdev.EV_ABS // 絶対座標イベント

	SynReport Code = evdev.SYN_REPORT // イベント報告の同期
	AbsX      Code = evdev.ABS_X      // 左右
	AbsY      Code = evdev.ABS_Y      // 上下
)

// 方向キー以外のスロットに対応するボタン（スロット4から順に）
var buttons = [device.NumSlots - device.FirstButton]Code{
	evdev.BTN_START,
	evdev.BTN_SELECT,
	evdev.BTN_A,
	evdev.BTN_B,
	evdev.BTN_TR,
	evdev.BTN_Y,
	evdev.BTN_X,
	evdev.BTN_TL,
	evdev.BTN_MODE, // hotkey
	evdev.BTN_TL2,
	evdev.BTN_TR2,
	evdev.BTN_C,
	evdev.BTN_Z,
}

// Button はスロットに対応するボタンコードを返す
func Button(slot int) (Code, bool) {
	if slot < device.FirstButton || slot >= device.NumSlots {
		return 0, false
	}
	return buttons[slot-device.FirstButton], true
}

// Buttons は割り当てで使用されているボタンのコード一覧を返す
func Buttons(m device.Map) []Code {
	var codes []Code
	for slot := device.FirstButton; slot < device.NumSlots; slot++ {
		if device.Used(m[slot]) {
			codes = append(codes, buttons[slot-device.FirstButton])
		}
	}
	return codes
}

// Name はログ用のコード名を返す
func Name(t Type, c Code) string {
	return evdev.CodeName(t, c)
}

package joystick

import (
	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

// Reader はピンの電圧を極性補正して押下状態に変換する
type Reader struct {
	bank gpio.Bank
}

func NewReader(bank gpio.Bank) Reader {
	return Reader{bank: bank}
}

// Pressed は割り当て値 a の入力が押されているかを返す。a は -1 であってはならない
func (r Reader) Pressed(a int) bool {
	pin, activeLow := device.Pin(a)
	if activeLow {
		return r.bank.Level(pin) == gpio.Low
	}
	return r.bank.Level(pin) == gpio.High
}

// Package gpio はGPIOレジスタへのアクセスを抽象化する
package gpio

import "github.com/char5742/gpio-joystick/internal/device"

// Level はピンの電圧レベル
type Level uint8

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Bank はGPIOレジスタ群への操作
type Bank interface {
	// Level はピンの現在のレベルを返す。ブロックしない
	Level(pin int) Level
	// ConfigureInput はピンを入力モードにする
	ConfigureInput(pin int)
	// SetPullUps はマスクで指定したピンのプルアップを有効にする
	// low はピン0-31、high はピン32-63
	SetPullUps(low, high uint32)
}

// PullUpMask はアクティブLowのピンを集めたプルアップマスクを返す
func PullUpMask(maps ...device.Map) (low, high uint32) {
	for _, m := range maps {
		for _, a := range m {
			if !device.Used(a) {
				continue
			}
			pin, activeLow := device.Pin(a)
			if !activeLow {
				continue
			}
			switch {
			case pin < 32:
				low |= 1 << uint(pin)
			case pin < device.MaxPins:
				high |= 1 << uint(pin-32)
			}
		}
	}
	return low, high
}

// eachPin はマスクで立っているピン番号ごとに f を呼ぶ
func eachPin(low, high uint32, f func(pin int)) {
	for i := 0; i < 32; i++ {
		if low&(1<<uint(i)) != 0 {
			f(i)
		}
	}
	for i := 0; i < 32; i++ {
		if high&(1<<uint(i)) != 0 {
			f(i + 32)
		}
	}
}

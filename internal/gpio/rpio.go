package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// RPIO は /dev/gpiomem をマップしてGPIOを直接読む
type RPIO struct{}

// OpenRPIO はGPIOレジスタをメモリにマップする
func OpenRPIO() (*RPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("GPIOレジスタのマップに失敗しました: %w", err)
	}
	return &RPIO{}, nil
}

func (*RPIO) Level(pin int) Level {
	if rpio.Pin(pin).Read() == rpio.High {
		return High
	}
	return Low
}

func (*RPIO) ConfigureInput(pin int) {
	rpio.Pin(pin).Input()
}

func (*RPIO) SetPullUps(low, high uint32) {
	eachPin(low, high, func(pin int) {
		rpio.Pin(pin).PullUp()
	})
}

// Close はマップを解除する
func (*RPIO) Close() error {
	return rpio.Close()
}

package device

import "fmt"

// Type はパッドの種類（mapパラメータの値）
type Type int

const (
	TypeNone Type = iota
	TypeGPIO
	TypeGPIOBPlus
	TypeGPIOTFT
	TypeCustom
	TypeCustom2
	typeMax
)

// 内蔵のピン割り当て
//
//	up, down, left, right, start, select, a, b, tr, y, x, tl, hk
var (
	gpioMap      = Map{4, 17, 27, 22, 10, 9, 25, 24, 23, 18, 15, 14, 2, -1, -1, -1, -1}
	gpioBPlusMap = Map{11, 5, 6, 13, 19, 26, 21, 20, 16, 12, 7, 8, 3, -1, -1, -1, -1}
	gpioTFTMap   = Map{21, 13, 26, 19, 5, 6, 22, 4, 20, 17, 27, 16, 12, -1, -1, -1, -1}
)

// Valid は既知のパッド種別かどうかを返す
func (t Type) Valid() bool {
	return t > TypeNone && t < typeMax
}

// Custom はユーザー指定のピン割り当てを使う種別かどうかを返す
func (t Type) Custom() bool {
	return t == TypeCustom || t == TypeCustom2
}

// Name は入力デバイスとして名乗る名前
func (t Type) Name() string {
	switch t {
	case TypeGPIO, TypeCustom:
		return "GPIO Controller 1"
	case TypeGPIOBPlus, TypeCustom2:
		return "GPIO Controller 2"
	case TypeGPIOTFT:
		return "GPIO Controller TFT"
	}
	return fmt.Sprintf("GPIO Controller (type %d)", int(t))
}

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeGPIO:
		return "gpio"
	case TypeGPIOBPlus:
		return "gpio-bplus"
	case TypeGPIOTFT:
		return "gpio-tft"
	case TypeCustom:
		return "custom"
	case TypeCustom2:
		return "custom2"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// BuiltinMap は内蔵種別のピン割り当てを返す。カスタム種別では ok=false
func BuiltinMap(t Type) (m Map, ok bool) {
	switch t {
	case TypeGPIO:
		return gpioMap, true
	case TypeGPIOBPlus:
		return gpioBPlusMap, true
	case TypeGPIOTFT:
		return gpioTFTMap, true
	}
	return Map{}, false
}

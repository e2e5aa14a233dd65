package device

import "fmt"

// パッド1台あたりの論理スロット数とパッドの最大数
const (
	NumSlots   = 17
	MaxDevices = 2
	MaxPins    = 64 // 2x32bit のプルアップマスクで表せるピン数
	Unused     = -1 // 未使用スロット
)

// 論理スロットの位置
const (
	SlotUp = iota
	SlotDown
	SlotLeft
	SlotRight
	SlotStart
	SlotSelect
	SlotA
	SlotB
	SlotTR
	SlotY
	SlotX
	SlotTL
	SlotHotkey
	SlotTL2
	SlotTR2
	SlotC
	SlotZ
)

// FirstButton は方向以外の最初のスロット
const FirstButton = SlotStart

// Map は論理スロットごとのピン割り当て
//
//	-1   : 未使用
//	>= 0 : ピン番号、アクティブLow（0で押下）
//	< -1 : 絶対値がピン番号、アクティブHigh（1で押下）
type Map [NumSlots]int

// Pin は割り当て値から物理ピン番号と極性を取り出す
func Pin(a int) (pin int, activeLow bool) {
	if a < 0 {
		return -a, false
	}
	return a, true
}

// Used は割り当てが使用中かどうかを返す
func Used(a int) bool {
	return a != Unused
}

// Validate はピン番号がマスクで表せる範囲にあるか確認する
func (m Map) Validate() error {
	for i, a := range m {
		if !Used(a) {
			continue
		}
		if pin, _ := Pin(a); pin >= MaxPins {
			return fmt.Errorf("スロット%dのピン番号%dが範囲外です", i, pin)
		}
	}
	return nil
}

// MapFromSlice は17要素の整数列を Map に変換する
func MapFromSlice(pins []int) (Map, error) {
	var m Map
	if len(pins) != NumSlots {
		return m, fmt.Errorf("ピン割り当ては%d個必要です（%d個指定）", NumSlots, len(pins))
	}
	copy(m[:], pins)
	return m, nil
}

var slotNames = [NumSlots]string{
	"up", "down", "left", "right", "start", "select",
	"a", "b", "tr", "y", "x", "tl", "hotkey",
	"tl2", "tr2", "c", "z",
}

// SlotName はスロットの表示名を返す
func SlotName(i int) string {
	if i < 0 || i >= NumSlots {
		return fmt.Sprintf("slot%d", i)
	}
	return slotNames[i]
}

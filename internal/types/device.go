package types

import "github.com/char5742/gpio-joystick/internal/consts"

// InputID はデバイス識別子を表す構造体
type InputID struct {
	Bustype uint16 // バスタイプ
	Vendor  uint16 // ベンダーID
	Product uint16 // 製品ID
	Version uint16 // バージョン
}

// UserDev はuinputユーザーデバイスの設定を表す構造体（struct uinput_user_dev）
type UserDev struct {
	Name       [consts.MaxNameSize]byte // デバイス名
	ID         InputID                  // デバイス識別子
	EffectsMax uint32                   // 最大エフェクト数
	Absmax     [consts.AbsSize]int32    // 絶対座標の最大値
	Absmin     [consts.AbsSize]int32    // 絶対座標の最小値
	Absfuzz    [consts.AbsSize]int32    // 絶対座標のファジー値
	Absflat    [consts.AbsSize]int32    // 絶対座標のフラット値
}

// SetAbs は軸の範囲を設定する
func (d *UserDev) SetAbs(axis uint16, min, max int32) {
	d.Absmin[axis] = min
	d.Absmax[axis] = max
}

// SetName は名前を固定長配列に詰める（末尾のNULを残す）
func (d *UserDev) SetName(name string) {
	d.Name = [consts.MaxNameSize]byte{}
	copy(d.Name[:consts.MaxNameSize-1], name)
}

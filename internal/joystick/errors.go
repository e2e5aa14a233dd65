package joystick

import "errors"

var (
	// ErrConfiguration は設定の誤り（不明な種別、ピン数の不一致、有効なパッドなし）
	ErrConfiguration = errors.New("設定エラー")
	// ErrResource はレジスタのマップやデバイス作成などの資源確保の失敗
	ErrResource = errors.New("リソースエラー")
)

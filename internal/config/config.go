package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// hkmode の値
const (
	HotkeyModeUndefined = 0
	HotkeyModeNormal    = 1
	HotkeyModeToggle    = 2
)

// GPIOドライバ
const (
	DriverRPIO = "rpio"
	DriverSim  = "sim"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Joystick JoystickConfig `toml:"joystick" json:"joystick"`
	Poller   PollerConfig   `toml:"poller" json:"poller"`
	Uinput   UinputConfig   `toml:"uinput" json:"uinput"`
	GPIO     GPIOConfig     `toml:"gpio" json:"gpio"`
}

// JoystickConfig はパッドの構成（カーネルモジュールのパラメータと同じ意味）
type JoystickConfig struct {
	Map        []int `toml:"map" json:"map"`       // パッド種別。最大2台
	GPIO       []int `toml:"gpio" json:"gpio"`     // カスタム1のピン割り当て（17個）
	GPIO2      []int `toml:"gpio2" json:"gpio2"`   // カスタム2のピン割り当て（17個）
	HotkeyMode int   `toml:"hkmode" json:"hkmode"` // 0=未定義, 1=NORMAL, 2=TOGGLE
}

// PollerConfig はポーリングの設定
type PollerConfig struct {
	Period time.Duration `toml:"period" json:"period"`
}

// UinputConfig は仮想入力デバイスの設定
type UinputConfig struct {
	Path        string        `toml:"path" json:"path"`
	WaitTimeout time.Duration `toml:"wait_timeout" json:"wait_timeout"`
}

// GPIOConfig はGPIOアクセスの設定
type GPIOConfig struct {
	Driver string `toml:"driver" json:"driver"`
	Device string `toml:"device" json:"device"` // 起動時に待つデバイスノード
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Joystick: JoystickConfig{
			Map:        []int{1},
			HotkeyMode: HotkeyModeToggle,
		},
		Poller: PollerConfig{
			Period: 10 * time.Millisecond,
		},
		Uinput: UinputConfig{
			Path:        "/dev/uinput",
			WaitTimeout: 5 * time.Second,
		},
		GPIO: GPIOConfig{
			Driver: DriverRPIO,
			Device: "/dev/gpiomem",
		},
	}
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gpio-joystick"), nil
}

// DefaultConfigPath はデフォルトの設定ファイルのパスを返す
func DefaultConfigPath() (string, error) {
	dir, err := GetDefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig は設定ファイルから設定を読み込む
//
// ファイルにないキーはデフォルト値のまま残る。hkmode を書かなければ TOGGLE、
// 明示的に 0 を書けば未定義（NORMALと同じ動作）になる。
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}
		return config, nil
	}

	// 設定ファイルの読み込み
	md, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return config, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return config, fmt.Errorf("不明な設定キーがあります: %v", undecoded)
	}

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// ファイルを開く（なければ作成）
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// TOML形式でエンコードして書き込み
	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}

// Validate は実行前に設定の整合性を確認する
//
// パッド種別やピン数の検証はパッド設定時に行う。
func (c *Config) Validate() error {
	if c.Poller.Period <= 0 {
		return fmt.Errorf("ポーリング周期は正の値である必要があります: %v", c.Poller.Period)
	}
	switch c.GPIO.Driver {
	case DriverRPIO, DriverSim:
	default:
		return fmt.Errorf("不明なGPIOドライバです: %q", c.GPIO.Driver)
	}
	if c.Uinput.Path == "" {
		return fmt.Errorf("uinputのパスが指定されていません")
	}
	return nil
}

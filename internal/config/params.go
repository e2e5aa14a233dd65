package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// ParseIntList は "4,17,-1" のようなカンマ区切りの整数列を解析する
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%d番目の値 %q は整数ではありません", i+1, part)
		}
		values = append(values, v)
	}
	return values, nil
}

// IntList は flag.Value としてカンマ区切りの整数列を受け取る
type IntList struct {
	Values []int
	Given  bool
}

var _ flag.Value = (*IntList)(nil)

func (l *IntList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *IntList) Set(s string) error {
	values, err := ParseIntList(s)
	if err != nil {
		return err
	}
	l.Values = values
	l.Given = true
	return nil
}

// Overrides はコマンドラインで指定されたモジュールパラメータ
type Overrides struct {
	Map        IntList
	GPIO       IntList
	GPIO2      IntList
	HotkeyMode IntList
}

// RegisterFlags はモジュールパラメータ形式のフラグを登録する
func (o *Overrides) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&o.Map, "map", "パッド種別のリスト (1=GPIO, 2=GPIO B+, 3=TFT, 4=カスタム, 5=カスタム2)")
	fs.Var(&o.GPIO, "gpio", "カスタムパッド1のGPIO番号17個 (負の値はアクティブHigh, -1は未使用)")
	fs.Var(&o.GPIO2, "gpio2", "カスタムパッド2のGPIO番号17個")
	fs.Var(&o.HotkeyMode, "hkmode", "ホットキーのモード (1=NORMAL, 2=TOGGLE)")
}

// Apply は指定されたパラメータで設定を上書きする
func (o *Overrides) Apply(cfg *Config) error {
	if o.Map.Given {
		cfg.Joystick.Map = o.Map.Values
	}
	if o.GPIO.Given {
		cfg.Joystick.GPIO = o.GPIO.Values
	}
	if o.GPIO2.Given {
		cfg.Joystick.GPIO2 = o.GPIO2.Values
	}
	if o.HotkeyMode.Given {
		switch len(o.HotkeyMode.Values) {
		case 0:
		case 1:
			cfg.Joystick.HotkeyMode = o.HotkeyMode.Values[0]
		default:
			return fmt.Errorf("hkmodeは1つだけ指定できます")
		}
	}
	return nil
}

// Package joystick はGPIOのボタンを読み取り、ジョイスティックのイベントに変換する
package joystick

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/gpio"
)

// Options はジョイスティック群の構成
type Options struct {
	Types      []device.Type // パッドごとの種別。先頭 MaxDevices 個まで、0 は飛ばす
	Custom     []int         // TypeCustom のピン割り当て
	Custom2    []int         // TypeCustom2 のピン割り当て
	HotkeyMode HotkeyMode
	Period     time.Duration
	Bank       gpio.Bank
	Registrar  Registrar
}

// Joystick は設定されたパッドとそれを回す Poller の集まり
type Joystick struct {
	pads   []*Pad
	poller *Poller
}

// New はパッドを設定し、入力デバイスを登録する
//
// 途中で失敗した場合は登録済みのデバイスをすべて解除してからエラーを返す。
func New(opts Options) (*Joystick, error) {
	if len(opts.Types) < 1 {
		return nil, fmt.Errorf("%w: 少なくとも1つのデバイスを指定してください", ErrConfiguration)
	}
	if opts.Bank == nil || opts.Registrar == nil {
		return nil, fmt.Errorf("%w: GPIOバンクと入力デバイスの登録先が必要です", ErrResource)
	}

	reader := NewReader(opts.Bank)
	var pads []*Pad

	for i := 0; i < len(opts.Types) && i < device.MaxDevices; i++ {
		typ := opts.Types[i]
		if typ == device.TypeNone {
			continue
		}

		pad, err := setupPad(i, typ, opts, reader)
		if err != nil {
			unregister(pads)
			return nil, err
		}
		pads = append(pads, pad)
	}

	if len(pads) == 0 {
		return nil, fmt.Errorf("%w: 有効なデバイスが指定されていません", ErrConfiguration)
	}

	maps := make([]device.Map, len(pads))
	for i, pad := range pads {
		maps[i] = pad.pins
	}
	low, high := gpio.PullUpMask(maps...)
	opts.Bank.SetPullUps(low, high)
	log.WithFields(log.Fields{
		"low":  fmt.Sprintf("%#08x", low),
		"high": fmt.Sprintf("%#08x", high),
	}).Debug("プルアップを設定しました")

	j := &Joystick{pads: pads}
	j.poller = NewPoller(opts.Period, pads)
	for _, pad := range pads {
		pad.poller = j.poller
	}
	return j, nil
}

func setupPad(idx int, typ device.Type, opts Options, reader Reader) (*Pad, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: パッド種別%dは不明です", ErrConfiguration, int(typ))
	}

	pins, ok := device.BuiltinMap(typ)
	if !ok {
		custom := opts.Custom
		if typ == device.TypeCustom2 {
			custom = opts.Custom2
		}
		if len(custom) < 1 {
			return nil, fmt.Errorf("%w: カスタムデバイス(pad%d)にはgpio引数が必要です", ErrConfiguration, idx)
		}
		var err error
		if pins, err = device.MapFromSlice(custom); err != nil {
			return nil, fmt.Errorf("%w: pad%d: %v", ErrConfiguration, idx, err)
		}
	}
	if err := pins.Validate(); err != nil {
		return nil, fmt.Errorf("%w: pad%d: %v", ErrConfiguration, idx, err)
	}

	pad := newPad(idx, typ, pins, opts.HotkeyMode, reader)

	for _, a := range pins {
		if !device.Used(a) {
			continue
		}
		pin, _ := device.Pin(a)
		opts.Bank.ConfigureInput(pin)
	}

	sink, err := opts.Registrar.Register(pad.spec)
	if err != nil {
		return nil, fmt.Errorf("%w: pad%dの入力デバイス登録に失敗しました: %w", ErrResource, idx, err)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: pad%dの入力デバイスが作成されませんでした", ErrResource, idx)
	}
	pad.sink = sink

	log.WithFields(log.Fields{
		"pad":    idx,
		"type":   typ,
		"name":   pad.spec.Name,
		"hkmode": opts.HotkeyMode,
	}).Info("パッドのGPIOを設定しました")
	return pad, nil
}

func unregister(pads []*Pad) error {
	var errs []error
	for _, pad := range pads {
		pad.mu.Lock()
		if pad.sink != nil {
			if err := pad.sink.Close(); err != nil {
				errs = append(errs, fmt.Errorf("pad%d: %w", pad.index, err))
			}
			pad.sink = nil
		}
		pad.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Pads は設定済みのパッドを返す
func (j *Joystick) Pads() []*Pad {
	return j.pads
}

// Poller はポーリングループを返す
func (j *Joystick) Poller() *Poller {
	return j.poller
}

// Remove はポーリングを止め、すべての入力デバイスの登録を解除する
func (j *Joystick) Remove() error {
	j.poller.shutdown()
	return unregister(j.pads)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/config"
	"github.com/char5742/gpio-joystick/internal/device"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/features"
	"github.com/char5742/gpio-joystick/internal/gpio"
	"github.com/char5742/gpio-joystick/internal/joystick"
)

// Bank は閉じることのできるGPIOバンク
type Bank interface {
	gpio.Bank
	Close() error
}

// BankOpener は設定に従ってGPIOバンクを開く
type BankOpener func(cfg *config.Config) (Bank, error)

// SinkWrapper は登録された入力デバイスを包む（モニター表示など）
type SinkWrapper func(pad int, sink joystick.Sink) joystick.Sink

// Option はサービスの依存を差し替える
type Option func(*JoystickService)

// WithBank はGPIOバンクの開き方を差し替える
func WithBank(open BankOpener) Option {
	return func(s *JoystickService) {
		s.openBank = open
		s.waitGPIO = false
	}
}

// WithRegistrar は入力デバイスの登録先を差し替える
func WithRegistrar(r joystick.Registrar) Option {
	return func(s *JoystickService) {
		s.registrar = r
		s.waitUinput = false
	}
}

// WithSinkWrapper は登録された入力デバイスを包む関数を設定する
func WithSinkWrapper(w SinkWrapper) Option {
	return func(s *JoystickService) {
		s.wrap = w
	}
}

// OpenBank は設定されたドライバでGPIOバンクを開く
func OpenBank(cfg *config.Config) (Bank, error) {
	switch cfg.GPIO.Driver {
	case config.DriverSim:
		return gpio.NewSim(), nil
	case config.DriverRPIO:
		return gpio.OpenRPIO()
	}
	return nil, fmt.Errorf("不明なGPIOドライバです: %q", cfg.GPIO.Driver)
}

// JoystickService はGPIOジョイスティックの起動と停止を管理する構造体
type JoystickService struct {
	cfg         *config.Config
	statusMutex sync.RWMutex
	running     bool
	started     time.Time
	js          *joystick.Joystick
	bank        Bank

	openBank   BankOpener
	registrar  joystick.Registrar
	wrap       SinkWrapper
	waitGPIO   bool
	waitUinput bool
}

// NewJoystickService は新しいジョイスティックサービスを作成する
func NewJoystickService(cfg *config.Config, opts ...Option) *JoystickService {
	s := &JoystickService{
		cfg:        cfg,
		openBank:   OpenBank,
		waitGPIO:   true,
		waitUinput: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start はパッドを設定し、ポーリングを開始する
func (s *JoystickService) Start() error {
	s.statusMutex.RLock()
	running, cfg := s.running, s.cfg
	s.statusMutex.RUnlock()
	if running {
		return errAlreadyRunning
	}

	// ノードを待つ間は状態の参照を妨げない
	if err := s.waitForNodes(cfg); err != nil {
		return fmt.Errorf("%w: %w", joystick.ErrResource, err)
	}

	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	if s.running {
		return errAlreadyRunning
	}

	bank, err := s.openBank(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", joystick.ErrResource, err)
	}

	registrar := s.registrar
	if registrar == nil {
		registrar = joystick.UinputRegistrar{Path: cfg.Uinput.Path}
	}
	if s.wrap != nil {
		inner := registrar
		registrar = joystick.RegistrarFunc(func(spec features.GamepadSpec) (joystick.Sink, error) {
			sink, err := inner.Register(spec)
			if err != nil {
				return nil, err
			}
			return s.wrap(spec.Index, sink), nil
		})
	}

	types := make([]device.Type, len(cfg.Joystick.Map))
	for i, t := range cfg.Joystick.Map {
		types[i] = device.Type(t)
	}

	js, err := joystick.New(joystick.Options{
		Types:      types,
		Custom:     cfg.Joystick.GPIO,
		Custom2:    cfg.Joystick.GPIO2,
		HotkeyMode: joystick.HotkeyMode(cfg.Joystick.HotkeyMode),
		Period:     cfg.Poller.Period,
		Bank:       bank,
		Registrar:  registrar,
	})
	if err != nil {
		_ = bank.Close()
		return err
	}

	// 入力デバイスを開く利用者の代わりにパッドごとに参照を取る
	for _, pad := range js.Pads() {
		pad.Open()
	}

	s.js = js
	s.bank = bank
	s.running = true
	s.started = time.Now()

	log.WithFields(log.Fields{
		"pads":   len(js.Pads()),
		"period": js.Poller().Period(),
		"driver": cfg.GPIO.Driver,
	}).Info("ジョイスティックサービスを開始しました")
	return nil
}

func (s *JoystickService) waitForNodes(cfg *config.Config) error {
	var nodes []string
	if s.waitUinput {
		nodes = append(nodes, cfg.Uinput.Path)
	}
	if s.waitGPIO && cfg.GPIO.Driver == config.DriverRPIO {
		nodes = append(nodes, cfg.GPIO.Device)
	}
	if len(nodes) == 0 {
		return nil
	}

	timeout := cfg.Uinput.WaitTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return features.WaitForNodes(ctx, nodes...)
}

// Stop はポーリングを止め、入力デバイスを解除する
func (s *JoystickService) Stop() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if !s.running {
		return fmt.Errorf("サービスは実行されていません")
	}

	for _, pad := range s.js.Pads() {
		pad.Close()
	}
	err := s.js.Remove()
	if cerr := s.bank.Close(); cerr != nil {
		log.Warnf("GPIOの解放に失敗しました: %v", cerr)
	}

	s.js = nil
	s.bank = nil
	s.running = false

	log.Info("ジョイスティックサービスを停止しました")
	return err
}

// IsRunning はサービスが実行中かどうかを返す
func (s *JoystickService) IsRunning() bool {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.running
}

// UpdateConfig は設定を更新する。次回の Start から有効になる
func (s *JoystickService) UpdateConfig(cfg *config.Config) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	s.cfg = cfg
}

// Pads は実行中のパッドを返す
func (s *JoystickService) Pads() []*joystick.Pad {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	if s.js == nil {
		return nil
	}
	return s.js.Pads()
}

// OpenPad は指定したパッドの参照を1つ増やす
func (s *JoystickService) OpenPad(index int) error {
	pad, err := s.pad(index)
	if err != nil {
		return err
	}
	pad.Open()
	return nil
}

// ClosePad は指定したパッドの参照を1つ減らす
func (s *JoystickService) ClosePad(index int) error {
	pad, err := s.pad(index)
	if err != nil {
		return err
	}
	pad.Close()
	return nil
}

var (
	errPadNotFound    = errors.New("パッドが見つかりません")
	errAlreadyRunning = errors.New("サービスは既に実行中です")
)

func (s *JoystickService) pad(index int) (*joystick.Pad, error) {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	if !s.running {
		return nil, fmt.Errorf("サービスは実行されていません")
	}
	for _, pad := range s.js.Pads() {
		if pad.Index() == index {
			return pad, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", errPadNotFound, index)
}

// ServiceStatus はサービスの状態
type ServiceStatus struct {
	Running bool        `json:"running"`
	Polling bool        `json:"polling"`
	Users   int         `json:"users"`
	Ticks   uint64      `json:"ticks"`
	Period  string      `json:"period,omitempty"`
	Uptime  string      `json:"uptime,omitempty"`
	Pads    []PadStatus `json:"pads"`
}

// PadStatus はパッドの状態
type PadStatus struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Phys       string   `json:"phys"`
	Type       string   `json:"type"`
	HotkeyMode string   `json:"hotkey_mode"`
	Hotkey     string   `json:"hotkey"`
	Combo      string   `json:"combo,omitempty"`
	X          int32    `json:"x"`
	Y          int32    `json:"y"`
	Pressed    []string `json:"pressed"`
	Pins       []int    `json:"pins"`
}

// Status は現在の状態を返す
func (s *JoystickService) Status() ServiceStatus {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()

	status := ServiceStatus{Running: s.running, Pads: []PadStatus{}}
	if !s.running {
		return status
	}

	poller := s.js.Poller()
	status.Polling = poller.Running()
	status.Users = poller.Users()
	status.Ticks = poller.Ticks()
	status.Period = poller.Period().String()
	status.Uptime = time.Since(s.started).Truncate(time.Second).String()
	for _, pad := range s.js.Pads() {
		status.Pads = append(status.Pads, padStatus(pad))
	}
	return status
}

func padStatus(pad *joystick.Pad) PadStatus {
	state := pad.State()
	hk, combo := pad.Hotkey()
	pins := pad.Pins()

	ps := PadStatus{
		Index:      pad.Index(),
		Name:       pad.Name(),
		Phys:       pad.Phys(),
		Type:       pad.Type().String(),
		HotkeyMode: pad.Mode().String(),
		Hotkey:     hk.String(),
		Pressed:    []string{},
		Pins:       pins[:],
	}
	if combo >= 0 {
		ps.Combo = device.SlotName(combo)
	}
	ps.X, ps.Y = pad.Axes()
	for slot, pressed := range state {
		if !pressed {
			continue
		}
		name := device.SlotName(slot)
		if code, ok := event.Button(slot); ok {
			name = event.Name(event.Key, code)
		}
		ps.Pressed = append(ps.Pressed, name)
	}
	return ps
}

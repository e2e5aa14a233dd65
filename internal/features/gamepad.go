package features

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/char5742/gpio-joystick/internal/consts"
	"github.com/char5742/gpio-joystick/internal/event"
	"github.com/char5742/gpio-joystick/internal/types"
	"github.com/char5742/gpio-joystick/internal/utils"
)

// DefaultUinputPath はuinputデバイスのパス
const DefaultUinputPath = "/dev/uinput"

// 2軸1組のジョイスティックを表現するインターフェース
type Gamepad interface {
	EmitAxis(code event.Code, value int32)
	EmitButton(code event.Code, pressed bool)
	// Flush は溜めたイベントにSYN_REPORTを付けて1回で書き込む
	Flush() error
	io.Closer
}

// GamepadSpec は仮想ゲームパッドの識別情報と能力
type GamepadSpec struct {
	Index   int // 設定上のパッド番号。map で 0 を飛ばしても詰めない
	Name    string
	Phys    string
	Product uint16
	Buttons []event.Code
	AxisMin int32
	AxisMax int32
}

type virtualGamepad struct {
	mu         sync.Mutex
	deviceFile *os.File
	pending    []event.Event
	buf        bytes.Buffer
}

// 新しいゲームパッドデバイスを作成する
func CreateGamepad(path string, spec GamepadSpec) (Gamepad, error) {
	fd, err := createGamepad(path, spec)
	if err != nil {
		return nil, err
	}

	return &virtualGamepad{deviceFile: fd}, nil
}

func (vg *virtualGamepad) Close() error {
	vg.mu.Lock()
	defer vg.mu.Unlock()
	_ = releaseDevice(vg.deviceFile)
	return vg.deviceFile.Close()
}

func createGamepad(path string, spec GamepadSpec) (*os.File, error) {
	deviceFile, err := createDeviceFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not create gamepad input device: %v", err)
	}

	// キー入力イベント(EV_KEY)を登録する
	err = registerDevice(deviceFile, uintptr(event.Key))
	if err != nil {
		return nil, fmt.Errorf("キー入力イベント(EV_KEY)の登録に失敗しました: %v", err)
	}

	// 使用しているボタンだけを登録する
	for _, code := range spec.Buttons {
		if err = utils.IOCtl(deviceFile, consts.SetKeyBit, uintptr(code)); err != nil {
			_ = deviceFile.Close()
			return nil, fmt.Errorf("ボタンの登録に失敗しました %v: %v", event.Name(event.Key, code), err)
		}
	}

	// 絶対座標入力イベント(EV_ABS)を登録する
	err = registerDevice(deviceFile, uintptr(event.Abs))
	if err != nil {
		return nil, fmt.Errorf("絶対座標入力イベント(EV_ABS)の登録に失敗しました: %v", err)
	}

	// X軸とY軸を登録する
	for _, code := range []event.Code{event.AbsX, event.AbsY} {
		if err = utils.IOCtl(deviceFile, consts.SetAbsBit, uintptr(code)); err != nil {
			_ = deviceFile.Close()
			return nil, fmt.Errorf("座標軸の登録に失敗しました %v: %v", code, err)
		}
	}

	if spec.Phys != "" {
		setPhys := utils.IOW(consts.UinputType, consts.SetPhysNr, utils.PointerSize)
		if err := utils.IOCtlString(deviceFile, setPhys, spec.Phys); err != nil {
			_ = deviceFile.Close()
			return nil, fmt.Errorf("物理パスの設定に失敗しました: %v", err)
		}
	}

	userDev := types.UserDev{
		ID: types.InputID{
			Bustype: consts.BusParport,
			Vendor:  consts.VendorGPIO,
			Product: spec.Product,
			Version: consts.VersionPad,
		},
	}
	userDev.SetName(spec.Name)
	userDev.SetAbs(uint16(event.AbsX), spec.AxisMin, spec.AxisMax)
	userDev.SetAbs(uint16(event.AbsY), spec.AxisMin, spec.AxisMax)

	fd, err := createUinputDevice(deviceFile, userDev)
	if err != nil {
		return nil, fmt.Errorf("ゲームパッドの作成に失敗しました: %v", err)
	}

	return fd, nil
}

// 軸の値を送信待ちに積む
func (vg *virtualGamepad) EmitAxis(code event.Code, value int32) {
	vg.mu.Lock()
	defer vg.mu.Unlock()
	vg.pending = append(vg.pending, event.Event{Type: event.Abs, Code: code, Value: value})
}

// ボタンの状態を送信待ちに積む
func (vg *virtualGamepad) EmitButton(code event.Code, pressed bool) {
	var v int32
	if pressed {
		v = 1
	}
	vg.mu.Lock()
	defer vg.mu.Unlock()
	vg.pending = append(vg.pending, event.Event{Type: event.Key, Code: code, Value: v})
}

// 溜めたイベントを1フレームとして書き込む
func (vg *virtualGamepad) Flush() error {
	vg.mu.Lock()
	defer vg.mu.Unlock()

	vg.pending = append(vg.pending, event.Event{Type: event.Syn, Code: event.SynReport, Value: 0})
	err := writeEvents(vg.deviceFile, &vg.buf, vg.pending)
	vg.pending = vg.pending[:0]
	return err
}

// デバイスファイルを作成する
func createDeviceFile(path string) (fd *os.File, err error) {
	deviceFile, err := os.OpenFile(path, syscall.O_WRONLY|syscall.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("デバイスファイルを開くのに失敗しました: %w", err)
	}
	return deviceFile, err
}

// デバイスを解放する
func releaseDevice(deviceFile *os.File) error {
	return utils.IOCtl(deviceFile, consts.DevDestroy, uintptr(0))
}

// デバイスを登録する
func registerDevice(deviceFile *os.File, evType uintptr) error {
	err := utils.IOCtl(deviceFile, consts.SetEvBit, evType)
	if err != nil {
		defer deviceFile.Close()
		if rerr := releaseDevice(deviceFile); rerr != nil {
			return fmt.Errorf("デバイスを解放するのに失敗しました: %v", rerr)
		}
		return fmt.Errorf("無効なファイルハンドルがutils.IOCtlから返されました: %v", err)
	}
	return nil
}

// uinputデバイスを作成する
func createUinputDevice(deviceFile *os.File, dev types.UserDev) (fd *os.File, err error) {
	buf := new(bytes.Buffer)
	err = binary.Write(buf, binary.LittleEndian, dev)
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("ユーザーデバイスバッファの書き込みに失敗しました: %v", err)
	}
	_, err = deviceFile.Write(buf.Bytes())
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("デバイス構造体をデバイスファイルに書き込むのに失敗しました: %v", err)
	}

	err = utils.IOCtl(deviceFile, consts.DevCreate, uintptr(0))
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("デバイスの作成に失敗しました: %v", err)
	}

	return deviceFile, err
}

// イベントをまとめてエンコードし、1回の書き込みで送る
func writeEvents(w io.Writer, buf *bytes.Buffer, events []event.Event) error {
	buf.Reset()
	for _, ev := range events {
		if err := binary.Write(buf, binary.LittleEndian, ev); err != nil {
			return fmt.Errorf("イベントをバッファに書き込むのに失敗しました: %v", err)
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("イベントの書き込みに失敗しました: %v", err)
	}
	return nil
}

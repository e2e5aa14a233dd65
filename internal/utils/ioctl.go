package utils

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// IOCtl はファイルに対してioctlを発行する
func IOCtl(f *os.File, cmd, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), cmd, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

// IOCtlString は文字列ポインタを引数に取るioctlを発行する
func IOCtlString(f *os.File, cmd uintptr, s string) error {
	p, err := unix.BytePtrFromString(s)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), cmd, uintptr(unsafe.Pointer(p)))
	if errno != 0 {
		return errno
	}
	return nil
}

// IOW は _IOW(typ, nr, size) を計算する
func IOW(typ, nr, size uintptr) uintptr {
	const (
		nrShift   = 0
		typeShift = 8
		sizeShift = 16
		dirShift  = 30
		dirWrite  = 1
	)
	return dirWrite<<dirShift | typ<<typeShift | nr<<nrShift | size<<sizeShift
}

// PointerSize はポインタ長（UI_SET_PHYS などのサイズ部分）
const PointerSize = unsafe.Sizeof(uintptr(0))

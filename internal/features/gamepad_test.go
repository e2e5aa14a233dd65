package features

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/char5742/gpio-joystick/internal/event"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestWriteEventsSingleWrite(t *testing.T) {
	var w countingWriter
	var buf bytes.Buffer
	events := []event.Event{
		{Type: event.Abs, Code: event.AbsX, Value: -1},
		{Type: event.Key, Code: 0x13b, Value: 1},
		{Type: event.Syn, Code: event.SynReport},
	}

	if err := writeEvents(&w, &buf, events); err != nil {
		t.Fatalf("writeEvents: %v", err)
	}
	if w.writes != 1 {
		t.Fatalf("frame written with %d writes, want 1", w.writes)
	}
	if w.Len() != len(events)*binary.Size(event.Event{}) {
		t.Fatalf("wrote %d bytes", w.Len())
	}
}

func TestGamepadFlushFrame(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "uinput"))
	if err != nil {
		t.Fatal(err)
	}
	vg := &virtualGamepad{deviceFile: f}

	vg.EmitAxis(event.AbsY, 1)
	vg.EmitAxis(event.AbsX, 0)
	vg.EmitButton(0x130, true)  // BTN_A
	vg.EmitButton(0x13c, false) // BTN_MODE
	if err := vg.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(vg.pending) != 0 {
		t.Fatal("pending events not cleared after flush")
	}
	_ = f.Close()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	got := make([]event.Event, 5)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []struct {
		typ   event.Type
		code  event.Code
		value int32
	}{
		{event.Abs, event.AbsY, 1},
		{event.Abs, event.AbsX, 0},
		{event.Key, 0x130, 1},
		{event.Key, 0x13c, 0},
		{event.Syn, event.SynReport, 0},
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Code != w.code || got[i].Value != w.value {
			t.Errorf("event %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestCreateGamepadMissingDevice(t *testing.T) {
	_, err := CreateGamepad(filepath.Join(t.TempDir(), "missing"), GamepadSpec{Name: "x"})
	if err == nil {
		t.Fatal("expected error for missing uinput node")
	}
}

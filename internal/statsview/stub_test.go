//go:build !statsview

package statsview

import "testing"

func TestUnavailableWithoutTag(t *testing.T) {
	if Available() {
		t.Fatal("タグなしで Available が true")
	}
	if _, err := Launch(DefaultAddress); err == nil {
		t.Fatal("タグなしで Launch が成功しました")
	}
}
